package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const keySeparator = "|"

// Memory is a process-local ports.RoleCache backed by go-cache.
type Memory struct {
	c *gocache.Cache

	mu     sync.Mutex
	epochs map[string]uint64
}

func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{
		c:      gocache.New(defaultTTL, time.Minute),
		epochs: make(map[string]uint64),
	}
}

func (m *Memory) Get(_ context.Context, subjectID string, roleName string) (bool, bool, error) {
	value, ok := m.c.Get(memoryKey(subjectID, roleName))
	if !ok {
		return false, false, nil
	}
	hasRole, ok := value.(bool)
	if !ok {
		return false, false, nil
	}
	return hasRole, true, nil
}

func (m *Memory) Epoch(_ context.Context, subjectID string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epochs[subjectID], nil
}

func (m *Memory) Set(_ context.Context, subjectID string, roleName string, hasRole bool, epoch uint64, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epochs[subjectID] != epoch {
		return false, nil
	}
	m.c.Set(memoryKey(subjectID, roleName), hasRole, ttl)
	return true, nil
}

func (m *Memory) Invalidate(_ context.Context, subjectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epochs[subjectID]++
	prefix := subjectID + keySeparator
	for key := range m.c.Items() {
		if strings.HasPrefix(key, prefix) {
			m.c.Delete(key)
		}
	}
	return nil
}

func memoryKey(subjectID string, roleName string) string {
	return subjectID + keySeparator + roleName
}
