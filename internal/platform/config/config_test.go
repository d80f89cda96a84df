package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "vendorhub", cfg.ServiceName)
	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, CacheDriverMemory, cfg.CacheDriver)
	require.Equal(t, 5*time.Minute, cfg.RoleCacheTTL)
	require.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	require.Empty(t, cfg.BootstrapAdmins)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadReadsEnvFileWithoutOverridingEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte(
		"HTTP_PORT=9090\nBOOTSTRAP_ADMINS=admin-1, admin-2,\nLOG_LEVEL=debug\nAUTHZ_CACHE_DRIVER=redis\n",
	), 0o600))
	t.Setenv("ENV_FILE", file)
	t.Setenv("HTTP_PORT", "7070")
	t.Cleanup(func() {
		for _, key := range []string{"BOOTSTRAP_ADMINS", "LOG_LEVEL", "AUTHZ_CACHE_DRIVER"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.HTTPPort)
	require.Equal(t, []string{"admin-1", "admin-2"}, cfg.BootstrapAdmins)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	require.Equal(t, CacheDriverRedis, cfg.CacheDriver)
}

func TestLoadRejectsUnknownCacheDriver(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("AUTHZ_CACHE_DRIVER", "memcached")

	_, err := Load()
	require.Error(t, err)
}
