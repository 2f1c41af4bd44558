package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithPath_DefaultsAndEnv(t *testing.T) {
	t.Setenv("SIDEPLANNER_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("SIDEPLANNER_SERVER_PORT", "9090")

	cfg, err := LoadWithPath(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, time.Hour, cfg.AI.CacheTTLDuration())
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeoutDuration())
	assert.Empty(t, cfg.Events.NATSURL)
}

func TestLoadWithPath_File(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  port: 7000
database:
  driver: postgres
  host: db.internal
  user: planner
  dbName: boards
auth:
  jwtSecret: from-file
redis:
  addr: localhost:6379
ai:
  model: gemini-1.5-pro
  timeout: 15
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	cfg, err := LoadWithPath(dir)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "host=db.internal port=5432 user=planner password= dbname=boards sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "gemini-1.5-pro", cfg.AI.Model)
	assert.Equal(t, 15*time.Second, cfg.AI.TimeoutDuration())
}

func TestLoadWithPath_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  jwtSecret: x\nserver:\n  port: 8181\n"), 0o600))

	cfg, err := LoadWithPath(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8181", cfg.Server.Addr())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 0},
		Database: DatabaseConfig{Driver: "mysql"},
		AI:       AIConfig{Timeout: 0, CacheTTL: -1},
		Logging:  LoggingConfig{Level: "trace", Format: "xml"},
	}

	err := validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "server.port")
	assert.Contains(t, msg, "database.driver")
	assert.Contains(t, msg, "auth.jwtSecret")
	assert.Contains(t, msg, "ai.timeout")
	assert.Contains(t, msg, "ai.cacheTtl")
	assert.Contains(t, msg, "logging.level")
	assert.Contains(t, msg, "logging.format")
}

func TestValidate_PostgresRequiresConnectionFields(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverPostgres},
		Auth:     AuthConfig{JWTSecret: "x"},
		AI:       AIConfig{Timeout: 10},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
	}

	err := validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
	assert.Contains(t, err.Error(), "database.user")
	assert.Contains(t, err.Error(), "database.dbName")
}
