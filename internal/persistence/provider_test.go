package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadOTaha/side-planner/internal/common/config"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
)

func TestProvide_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "planner.db")}

	pool, cleanup, err := Provide(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, pool.Ping(context.Background()))
	assert.NoError(t, cleanup())
}

func TestProvide_UnknownDriver(t *testing.T) {
	_, _, err := Provide(context.Background(), config.DatabaseConfig{Driver: "oracle"}, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
