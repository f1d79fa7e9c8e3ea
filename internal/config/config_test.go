package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("STORE_BASE_URL", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("UPLOAD_URL_PATH", "")
	t.Setenv("STORE_TIMEOUT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("SECURE_COOKIES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.SecureCookies)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "newsportal.db", cfg.DatabasePath)
	assert.Equal(t, "/static/uploads", cfg.UploadURLPath)
	assert.Equal(t, "http://localhost:8080/api", cfg.StoreBaseURL)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
port: "9090"
database_path: /tmp/from-file.db
store_base_url: http://store.internal/api
cors_allowed_origins:
  - https://news.example.com
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_PATH", "/tmp/from-env.db")
	t.Setenv("STORE_TIMEOUT", "3s")
	t.Setenv("PORT", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("STORE_BASE_URL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("UPLOAD_URL_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/from-env.db", cfg.DatabasePath)
	assert.Equal(t, "http://store.internal/api", cfg.StoreBaseURL)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, []string{"https://news.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadSecureCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("secure_cookies: true\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("UPLOAD_URL_PATH", "")

	t.Setenv("SECURE_COOKIES", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SecureCookies, "from file")

	t.Setenv("SECURE_COOKIES", "false")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.SecureCookies, "env overrides file")

	t.Setenv("SECURE_COOKIES", "not-a-bool")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.SecureCookies, "unparsable env is ignored")
}

func TestLoadRejectsRelativeUploadURL(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("UPLOAD_URL_PATH", "uploads")

	_, err := Load()
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
}
