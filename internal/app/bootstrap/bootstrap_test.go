package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	authcache "vendorhub/contexts/identity-access/authorization-service/adapters/cache"
	"vendorhub/internal/platform/config"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAddr(t *testing.T) {
	require.Equal(t, ":8080", normalizeAddr(""))
	require.Equal(t, ":9090", normalizeAddr("9090"))
	require.Equal(t, ":9090", normalizeAddr(" :9090 "))
}

func TestBuildRoleCacheDefaultsToMemory(t *testing.T) {
	roleCache, client, err := buildRoleCache(config.Config{CacheDriver: config.CacheDriverMemory, RoleCacheTTL: time.Minute})
	require.NoError(t, err)
	require.Nil(t, client)
	require.IsType(t, &authcache.Memory{}, roleCache)
}

func TestPollLoopKeepsRunningAfterFailedCycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- pollLoop(ctx, time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)), "test", func(context.Context) (int, error) {
			if calls.Add(1) >= 3 {
				cancel()
			}
			return 0, errors.New("bus down")
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poll loop did not stop after cancel")
	}
	require.GreaterOrEqual(t, calls.Load(), int32(3))
}
