package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadOTaha/side-planner/internal/auth"
	"github.com/MohammadOTaha/side-planner/internal/common/config"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, AllowedOrigins: []string{"*"}, ShutdownTimeout: 1},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "planner.db")},
		Events:   config.EventsConfig{ClientID: "test"},
		Auth:     config.AuthConfig{JWTSecret: "test-secret"},
		AI:       config.AIConfig{Provider: "gemini", Timeout: 5, CacheTTL: 60},
		Logging:  config.LoggingConfig{Level: "info", Format: "json"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	a, err := newApp(ctx, cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.close)
	require.NoError(t, a.start(ctx))
	return a
}

func call(t *testing.T, a *app, method, path, owner string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		token, err := auth.NewVerifier(a.cfg.Auth).Issue(owner, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestApp_Health(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	var body map[string]any
	assert.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, true, checks["events"])
	assert.NotContains(t, checks, "cache")
}

func TestApp_HealthReportsRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()
	a := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/health", "", nil, nil))

	mr.Close()
	var body map[string]any
	assert.Equal(t, http.StatusServiceUnavailable, call(t, a, http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "degraded", body["status"])
}

func TestApp_BoardFlowOverSQLite(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	assert.Equal(t, http.StatusUnauthorized, call(t, a, http.MethodGet, "/api/v1/boards", "", nil, nil))

	var board v1.Board
	require.Equal(t, http.StatusCreated, call(t, a, http.MethodPost, "/api/v1/boards", "alice", v1.CreateBoardRequest{Name: "Launch"}, &board))

	var ids []string
	for _, title := range []string{"A", "B", "C"} {
		var task v1.Task
		require.Equal(t, http.StatusCreated, call(t, a, http.MethodPost, "/api/v1/boards/"+board.ID+"/tasks", "alice",
			v1.CreateTaskRequest{Title: title, Status: "todo"}, &task))
		ids = append(ids, task.ID)
	}

	pos := 0
	var moved v1.MoveTaskResponse
	require.Equal(t, http.StatusOK, call(t, a, http.MethodPut, "/api/v1/boards/"+board.ID+"/tasks/"+ids[2]+"/move", "alice",
		v1.MoveTaskRequest{Status: "todo", Position: &pos}, &moved))
	assert.True(t, moved.Moved)

	var titles []string
	for _, task := range moved.Columns[v1.TaskStatusTodo] {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"C", "A", "B"}, titles)

	assert.Equal(t, http.StatusNotFound, call(t, a, http.MethodGet, "/api/v1/boards/"+board.ID, "bob", nil, nil))

	// Suggestions are disabled without an API key.
	assert.Equal(t, http.StatusServiceUnavailable, call(t, a, http.MethodPost, "/api/v1/boards/"+board.ID+"/suggestions", "alice",
		v1.SuggestRequest{TaskDescription: "ship the launch page"}, nil))
}

func TestApp_NewAppFailsOnBadDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "mysql"
	_, err := newApp(context.Background(), cfg, logger.NewNop())
	require.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  jwtSecret: cli-secret\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "token", "alice", "--ttl", "1h"})
	require.NoError(t, cmd.Execute())

	subject, err := auth.NewVerifier(config.AuthConfig{JWTSecret: "cli-secret"}).Subject(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "planner.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "auth:\n  jwtSecret: x\ndatabase:\n  path: " + dbPath + "\nlogging:\n  outputPath: " + filepath.Join(dir, "log.txt") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-c", cfgPath, "migrate"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "schema up to date")
	assert.FileExists(t, dbPath)
}
