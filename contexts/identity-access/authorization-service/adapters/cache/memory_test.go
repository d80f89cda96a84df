package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func set(t *testing.T, c *Memory, subjectID string, roleName string, hasRole bool) {
	t.Helper()
	epoch, err := c.Epoch(context.Background(), subjectID)
	require.NoError(t, err)
	stored, err := c.Set(context.Background(), subjectID, roleName, hasRole, epoch, time.Minute)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestMemoryInvalidateDropsOnlySubject(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	set(t, c, "user-a", "admin", true)
	set(t, c, "user-a", "vendor", false)
	set(t, c, "user-ab", "admin", true)

	hasRole, found, err := c.Get(ctx, "user-a", "admin")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, hasRole)

	require.NoError(t, c.Invalidate(ctx, "user-a"))

	_, found, _ = c.Get(ctx, "user-a", "admin")
	require.False(t, found)
	_, found, _ = c.Get(ctx, "user-a", "vendor")
	require.False(t, found)
	hasRole, found, _ = c.Get(ctx, "user-ab", "admin")
	require.True(t, found)
	require.True(t, hasRole)
}

func TestMemoryCachesNegativeAnswers(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	set(t, c, "user-a", "admin", false)
	hasRole, found, err := c.Get(ctx, "user-a", "admin")
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, hasRole)
}

func TestMemorySetRejectsAnswerReadBeforeInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	epoch, err := c.Epoch(ctx, "user-a")
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, "user-a"))

	stored, err := c.Set(ctx, "user-a", "admin", true, epoch, time.Minute)
	require.NoError(t, err)
	require.False(t, stored)
	_, found, _ := c.Get(ctx, "user-a", "admin")
	require.False(t, found)

	next, err := c.Epoch(ctx, "user-a")
	require.NoError(t, err)
	require.Equal(t, epoch+1, next)
	stored, err = c.Set(ctx, "user-a", "admin", false, next, time.Minute)
	require.NoError(t, err)
	require.True(t, stored)
}
