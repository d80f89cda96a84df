package ports

import (
	"context"
	"encoding/json"
	"time"

	"vendorhub/contexts/identity-access/authorization-service/domain/entities"
	contractsv1 "vendorhub/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for commands/outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// RoleCache stores has_role answers keyed by subject and role name.
// Every Invalidate advances the subject's epoch; Set only stores an answer
// read under the current epoch, so a lookup that overlaps a grant or revoke
// never repopulates the cache.
type RoleCache interface {
	Get(ctx context.Context, subjectID string, roleName string) (hasRole bool, found bool, err error)
	Epoch(ctx context.Context, subjectID string) (uint64, error)
	// Set reports stored=false when the subject was invalidated after epoch was read.
	Set(ctx context.Context, subjectID string, roleName string, hasRole bool, epoch uint64, ttl time.Duration) (stored bool, err error)
	// Invalidate drops every cached answer for the subject.
	Invalidate(ctx context.Context, subjectID string) error
}

// IdempotencyRecord stores request hash and previous response payload.
type IdempotencyRecord struct {
	Key             string
	Operation       string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

// IdempotencyStore guarantees replay/conflict behavior for mutating endpoints.
type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

// GrantRoleInput is persisted atomically with the outbox record.
type GrantRoleInput struct {
	AssignmentID string
	OutboxID     string
	UserID       string
	RoleID       string
	AdminID      string
	Reason       string
	AssignedAt   time.Time
	ExpiresAt    *time.Time
}

// RevokeRoleInput captures revoke metadata.
type RevokeRoleInput struct {
	OutboxID  string
	UserID    string
	RoleID    string
	AdminID   string
	Reason    string
	RevokedAt time.Time
}

// Repository is the write/read boundary for authorization state.
type Repository interface {
	ListEffectivePermissions(ctx context.Context, userID string, now time.Time) ([]string, error)
	ListUserRoles(ctx context.Context, userID string, now time.Time) ([]entities.RoleAssignment, error)
	GrantRole(ctx context.Context, input GrantRoleInput) (entities.RoleAssignment, error)
	RevokeRole(ctx context.Context, input RevokeRoleInput) (entities.RoleAssignment, error)
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// RoleChangedEvent reuses the canonical cross-runtime envelope contract.
type RoleChangedEvent = contractsv1.Envelope

// EventPublisher emits role change events to the event bus adapter.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event RoleChangedEvent) error
}

// EventDedupStore enforces idempotent processing for consumed events.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}

const RoleChangedEventType = "authz.role_changed"

// BuildRoleChangedEvent builds the envelope persisted in the outbox on grant/revoke.
func BuildRoleChangedEvent(eventID string, userID string, roleID string, action string, at time.Time) (RoleChangedEvent, error) {
	data, err := json.Marshal(map[string]string{
		"user_id":     userID,
		"role_id":     roleID,
		"action_type": action,
	})
	if err != nil {
		return RoleChangedEvent{}, err
	}
	return RoleChangedEvent{
		EventID:          eventID,
		EventType:        RoleChangedEventType,
		OccurredAt:       at.UTC(),
		SourceService:    "authorization-service",
		SchemaVersion:    1,
		PartitionKeyPath: "user_id",
		PartitionKey:     userID,
		Data:             data,
	}, nil
}
