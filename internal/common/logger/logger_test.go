package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := NewLogger(LoggingConfig{Level: "debug", Format: "json", OutputPath: path})
	require.NoError(t, err)

	log.WithBoardID("b1").Info("board created", zap.String("name", "roadmap"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"board_id":"b1"`)
	assert.Contains(t, string(data), `"msg":"board created"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := NewLogger(LoggingConfig{Level: "loud", Format: "json", OutputPath: path})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestWithFields_Accumulates(t *testing.T) {
	log := NewNop().WithTaskID("t1").WithBoardID("b1")
	require.Len(t, log.Fields(), 2)
	assert.Equal(t, "task_id", log.Fields()[0].Key)
	assert.Equal(t, "board_id", log.Fields()[1].Key)
}

func TestWithContext(t *testing.T) {
	base := NewNop()
	assert.Same(t, base, base.WithContext(context.Background()))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "user-1")
	fields := base.WithContext(ctx).Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "request_id", fields[0].Key)
	assert.Equal(t, "user_id", fields[1].Key)
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	nop := NewNop()
	SetDefault(nop)
	assert.Same(t, nop, Default())
}
