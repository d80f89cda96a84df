package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"vendorhub/contexts/identity-access/authorization-service/ports"
)

// RoleChangedConsumer drops cached has_role answers when a role change is
// observed on the bus, so other API replicas stop serving stale answers.
type RoleChangedConsumer struct {
	Dedup     ports.EventDedupStore
	RoleCache ports.RoleCache
	Clock     ports.Clock
	DedupTTL  time.Duration
}

type roleChangedPayload struct {
	UserID string `json:"user_id"`
}

func (c RoleChangedConsumer) Handle(ctx context.Context, event ports.RoleChangedEvent) error {
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}

	alreadyProcessed, err := c.Dedup.ReserveEvent(
		ctx,
		event.EventID,
		hashPayload(event.Data),
		now.Add(c.dedupTTL()),
	)
	if err != nil || alreadyProcessed {
		return err
	}

	var payload roleChangedPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return err
	}
	if payload.UserID == "" {
		return nil
	}
	return c.RoleCache.Invalidate(ctx, payload.UserID)
}

func (c RoleChangedConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
