package basedb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 3 * time.Second
	cfg.Params = map[string]string{"sql_mode": "ANSI"}

	parsed, err := mysql.ParseDSN(cfg.DSN())
	require.NoError(t, err)

	assert.Equal(t, "root", parsed.User)
	assert.Equal(t, "123456", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "10.138.26.22:8360", parsed.Addr)
	assert.Equal(t, "test", parsed.DBName)
	assert.Equal(t, 3*time.Second, parsed.Timeout)
	assert.Equal(t, "ANSI", parsed.Params["sql_mode"])
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  host: db.internal
  port: 3306
  database: app
  timeout: 5s
cache:
  host: cache.internal
  port: 6379
  dial_timeout: 1s
`), 0o600))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "mysql", settings.Database.Driver)
	assert.Equal(t, "db.internal", settings.Database.Host)
	assert.Equal(t, 3306, settings.Database.Port)
	assert.Equal(t, "app", settings.Database.Database)
	assert.Equal(t, "root", settings.Database.User, "missing keys keep their defaults")
	assert.Equal(t, 5*time.Second, settings.Database.Timeout)
	assert.Equal(t, "db.internal:3306", settings.Database.Addr())

	assert.Equal(t, "cache.internal:6379", settings.Cache.Addr())
	assert.Equal(t, time.Second, settings.Cache.DialTimeout)
}

func TestLoadSettingsErrors(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unterminated"), 0o600))

	_, err = LoadSettings(path)
	require.Error(t, err)
}
