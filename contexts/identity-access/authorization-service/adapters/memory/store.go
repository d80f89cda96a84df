package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"vendorhub/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "vendorhub/contexts/identity-access/authorization-service/domain/errors"
	"vendorhub/contexts/identity-access/authorization-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing repository/idempotency/outbox ports.
// It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	roles       map[string]entities.Role
	assignments map[string]entities.RoleAssignment

	idempotency map[string]ports.IdempotencyRecord
	outbox      map[string]outboxRow
	dedup       map[string]dedupEntry
}

type outboxRow struct {
	ports.OutboxMessage
	PublishedAt *time.Time
}

type dedupEntry struct {
	PayloadHash string
	ExpiresAt   time.Time
}

// NewStore builds a deterministic in-memory adapter seeded with baseline roles.
func NewStore() *Store {
	roles := make(map[string]entities.Role)
	for _, role := range entities.BaselineRoles() {
		roles[role.RoleID] = role
	}
	return &Store{
		roles:       roles,
		assignments: make(map[string]entities.RoleAssignment),
		idempotency: make(map[string]ports.IdempotencyRecord),
		outbox:      make(map[string]outboxRow),
		dedup:       make(map[string]dedupEntry),
	}
}

// ListEffectivePermissions resolves permissions from active assignments.
func (s *Store) ListEffectivePermissions(_ context.Context, userID string, now time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	permissions := make(map[string]struct{})
	for _, assignment := range s.assignments {
		if assignment.UserID != userID || !assignment.IsActive {
			continue
		}
		if assignment.ExpiresAt != nil && !assignment.ExpiresAt.After(now) {
			continue
		}
		role, ok := s.roles[assignment.RoleID]
		if !ok {
			continue
		}
		for _, permission := range role.Permissions {
			permissions[permission] = struct{}{}
		}
	}

	items := make([]string, 0, len(permissions))
	for permission := range permissions {
		items = append(items, permission)
	}
	sort.Strings(items)
	return items, nil
}

// ListUserRoles returns role assignments filtered by user identity.
func (s *Store) ListUserRoles(_ context.Context, userID string, now time.Time) ([]entities.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.RoleAssignment, 0)
	for _, assignment := range s.assignments {
		if assignment.UserID != userID {
			continue
		}
		if assignment.IsActive && assignment.ExpiresAt != nil && !assignment.ExpiresAt.After(now) {
			continue
		}
		items = append(items, assignment)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AssignedAt.After(items[j].AssignedAt)
	})
	return items, nil
}

func (s *Store) GrantRole(_ context.Context, input ports.GrantRoleInput) (entities.RoleAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[input.RoleID]
	if !ok {
		return entities.RoleAssignment{}, domainerrors.ErrRoleNotFound
	}
	for _, assignment := range s.assignments {
		if assignment.UserID == input.UserID && assignment.RoleID == input.RoleID && assignment.IsActive {
			if assignment.ExpiresAt == nil || assignment.ExpiresAt.After(input.AssignedAt) {
				return entities.RoleAssignment{}, domainerrors.ErrRoleAlreadyAssigned
			}
		}
	}

	assignment := entities.RoleAssignment{
		AssignmentID: input.AssignmentID,
		UserID:       input.UserID,
		RoleID:       input.RoleID,
		RoleName:     role.RoleName,
		AssignedBy:   input.AdminID,
		Reason:       input.Reason,
		AssignedAt:   input.AssignedAt.UTC(),
		ExpiresAt:    input.ExpiresAt,
		IsActive:     true,
	}
	if err := s.appendOutbox(input.OutboxID, input.UserID, input.RoleID, "role_granted", input.AssignedAt); err != nil {
		return entities.RoleAssignment{}, err
	}
	s.assignments[assignment.AssignmentID] = assignment
	return assignment, nil
}

func (s *Store) RevokeRole(_ context.Context, input ports.RevokeRoleInput) (entities.RoleAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, assignment := range s.assignments {
		if assignment.UserID != input.UserID || assignment.RoleID != input.RoleID || !assignment.IsActive {
			continue
		}
		if err := s.appendOutbox(input.OutboxID, input.UserID, input.RoleID, "role_revoked", input.RevokedAt); err != nil {
			return entities.RoleAssignment{}, err
		}
		revokedAt := input.RevokedAt.UTC()
		assignment.IsActive = false
		assignment.RevokedAt = &revokedAt
		s.assignments[id] = assignment
		return assignment, nil
	}
	return entities.RoleAssignment{}, domainerrors.ErrRoleNotAssigned
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.idempotency[record.Key]
	if exists && existing.RequestHash != record.RequestHash {
		return domainerrors.ErrIdempotencyConflict
	}
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.PublishedAt == nil {
			rows = append(rows, row.OutboxMessage)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[outboxID]
	if !ok {
		return domainerrors.ErrOutboxRowMissing
	}
	value := publishedAt.UTC()
	row.PublishedAt = &value
	s.outbox[outboxID] = row
	return nil
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.dedup[eventID]
	if !ok {
		s.dedup[eventID] = dedupEntry{
			PayloadHash: payloadHash,
			ExpiresAt:   expiresAt.UTC(),
		}
		return false, nil
	}
	if existing.PayloadHash != payloadHash {
		return false, domainerrors.ErrIdempotencyConflict
	}
	return true, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) appendOutbox(outboxID string, userID string, roleID string, action string, at time.Time) error {
	if _, exists := s.outbox[outboxID]; exists {
		return domainerrors.ErrIdempotencyConflict
	}
	event, err := ports.BuildRoleChangedEvent(outboxID, userID, roleID, action, at)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.outbox[outboxID] = outboxRow{
		OutboxMessage: ports.OutboxMessage{
			OutboxID:  outboxID,
			EventType: event.EventType,
			Payload:   payload,
			CreatedAt: at.UTC(),
		},
	}
	return nil
}
