package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "HTTP_ADDR", "GIN_MODE", "SHUTDOWN_TIMEOUT", "STORE_DRIVER",
		"MONGODB_URI", "MONGODB_DATABASE", "REDIS_URL", "REDIS_NAMESPACE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":3000", c.HTTPAddr)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, DriverMemory, c.StoreDriver)
	assert.Equal(t, "bedrock_db", c.MongoDatabase)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "2")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, 2*time.Second, c.ShutdownTimeout)
	assert.Equal(t, DriverMongo, c.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", c.MongoURI)
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "http_addr: \":4000\"\nstore_driver: redis\nredis_url: redis://localhost:6379/0\nredis_namespace: shop\nshutdown_timeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("REDIS_NAMESPACE", "override")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":4000", c.HTTPAddr)
	assert.Equal(t, DriverRedis, c.StoreDriver)
	assert.Equal(t, "redis://localhost:6379/0", c.RedisURL)
	assert.Equal(t, "override", c.RedisNamespace)
	assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "cassandra")
	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("STORE_DRIVER", "mongo")
	_, err = Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("STORE_DRIVER", "redis")
	_, err = Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsMalformedShutdownTimeout(t *testing.T) {
	for _, v := range []string{"abc", "1.5", "10s"} {
		t.Run(v, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SHUTDOWN_TIMEOUT", v)

			_, err := Load()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
		})
	}
}
