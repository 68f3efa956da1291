package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFrom_Defaults(t *testing.T) {
	c, err := LoadFrom(writeConfig(t, "app:\n  name: shop\n"))
	require.NoError(t, err)

	assert.Equal(t, "shop", c.App.Name)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "file", c.Store.Backend)
	assert.Equal(t, "storefront_database", c.Store.DocumentKey)
	assert.Equal(t, "storefront_session", c.Store.SessionKey)
	assert.Equal(t, 10, c.Store.SeedTimeoutSec)
	assert.Equal(t, 3, c.Store.MaxRetries)
	assert.Equal(t, "plain", c.Auth.Hasher)
	assert.Equal(t, "sqlite", c.DB.Driver)
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	p := writeConfig(t, `
store:
  backend: redis
  seed_url: http://localhost/data/database.json
redis:
  addr: 10.0.0.1:6379
jwt:
  secret: from-file
`)
	t.Setenv("APP_JWT_SECRET", "from-env")

	c, err := LoadFrom(p)
	require.NoError(t, err)
	assert.Equal(t, "redis", c.Store.Backend)
	assert.Equal(t, "http://localhost/data/database.json", c.Store.SeedURL)
	assert.Equal(t, "10.0.0.1:6379", c.Redis.Addr)
	assert.Equal(t, "from-env", c.JWT.Secret)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
