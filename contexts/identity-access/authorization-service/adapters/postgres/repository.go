package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"vendorhub/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "vendorhub/contexts/identity-access/authorization-service/domain/errors"
	"vendorhub/contexts/identity-access/authorization-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the authorization tables and seeds the baseline roles.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&roleModel{},
			&rolePermissionModel{},
			&userRoleModel{},
			&idempotencyModel{},
			&outboxModel{},
			&eventDedupModel{},
		); err != nil {
			return err
		}
		if err := tx.Exec(
			"CREATE UNIQUE INDEX IF NOT EXISTS authz_user_roles_active_uq " +
				"ON authz_user_roles (user_id, role_id) WHERE is_active",
		).Error; err != nil {
			return err
		}
		for _, role := range entities.BaselineRoles() {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&roleModel{RoleID: role.RoleID, RoleName: role.RoleName}).Error; err != nil {
				return err
			}
			for _, permission := range role.Permissions {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&rolePermissionModel{RoleID: role.RoleID, Permission: permission}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *Repository) ListEffectivePermissions(ctx context.Context, userID string, now time.Time) ([]string, error) {
	var permissions []string
	err := r.db.WithContext(ctx).
		Model(&rolePermissionModel{}).
		Distinct("authz_role_permissions.permission").
		Joins("JOIN authz_user_roles ur ON ur.role_id = authz_role_permissions.role_id").
		Where("ur.user_id = ? AND ur.is_active = TRUE", userID).
		Where("ur.expires_at IS NULL OR ur.expires_at > ?", now.UTC()).
		Order("authz_role_permissions.permission ASC").
		Pluck("authz_role_permissions.permission", &permissions).
		Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *Repository) ListUserRoles(ctx context.Context, userID string, now time.Time) ([]entities.RoleAssignment, error) {
	var rows []userRoleModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("NOT (is_active = TRUE AND expires_at IS NOT NULL AND expires_at <= ?)", now.UTC()).
		Order("assigned_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.RoleAssignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GrantRole(ctx context.Context, input ports.GrantRoleInput) (entities.RoleAssignment, error) {
	var assignment entities.RoleAssignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role roleModel
		if err := tx.Where("role_id = ?", input.RoleID).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRoleNotFound
			}
			return err
		}

		row := userRoleModel{
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
		// A partial unique index on (user_id, role_id) WHERE is_active backs this.
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRoleAlreadyAssigned
			}
			return err
		}
		if err := insertOutbox(tx, input.OutboxID, input.UserID, input.RoleID, "role_granted", input.AssignedAt); err != nil {
			return err
		}
		assignment = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.RoleAssignment{}, err
	}
	return assignment, nil
}

func (r *Repository) RevokeRole(ctx context.Context, input ports.RevokeRoleInput) (entities.RoleAssignment, error) {
	var assignment entities.RoleAssignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row userRoleModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND role_id = ? AND is_active = TRUE", input.UserID, input.RoleID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRoleNotAssigned
			}
			return err
		}

		revokedAt := input.RevokedAt.UTC()
		if err := tx.Model(&userRoleModel{}).
			Where("assignment_id = ?", row.AssignmentID).
			Updates(map[string]any{
				"is_active":  false,
				"revoked_at": &revokedAt,
			}).Error; err != nil {
			return err
		}
		if err := insertOutbox(tx, input.OutboxID, input.UserID, input.RoleID, "role_revoked", input.RevokedAt); err != nil {
			return err
		}
		row.IsActive = false
		row.RevokedAt = &revokedAt
		assignment = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.RoleAssignment{}, err
	}
	return assignment, nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ? AND expires_at > ?", key, now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:             row.Key,
		Operation:       row.Operation,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             record.Key,
		Operation:       record.Operation,
		RequestHash:     record.RequestHash,
		ResponsePayload: record.ResponsePayload,
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return nil
	}
	if !isUniqueViolation(err) {
		return err
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", record.Key).First(&existing).Error; err != nil {
		return err
	}
	if existing.RequestHash != record.RequestHash {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Update("published_at", &at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("outbox row missing on mark published",
			"event", "authz_outbox_mark_published_missing",
			"module", "identity-access/authorization-service",
			"layer", "adapter",
			"outbox_id", outboxID,
		)
		return domainerrors.ErrOutboxRowMissing
	}
	return nil
}

func (r *Repository) ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	row := eventDedupModel{
		EventID:     eventID,
		PayloadHash: payloadHash,
		ExpiresAt:   expiresAt.UTC(),
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return false, nil
	}
	if !isUniqueViolation(err) {
		return false, err
	}

	var existing eventDedupModel
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&existing).Error; err != nil {
		return false, err
	}
	if existing.PayloadHash != payloadHash {
		return false, domainerrors.ErrIdempotencyConflict
	}
	return true, nil
}

func insertOutbox(tx *gorm.DB, outboxID string, userID string, roleID string, action string, at time.Time) error {
	event, err := ports.BuildRoleChangedEvent(outboxID, userID, roleID, action, at)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:  outboxID,
		EventType: event.EventType,
		Payload:   payload,
		CreatedAt: at.UTC(),
	}
	if err := tx.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrIdempotencyConflict
		}
		return err
	}
	return nil
}

type roleModel struct {
	RoleID   string `gorm:"column:role_id;primaryKey"`
	RoleName string `gorm:"column:role_name"`
}

func (roleModel) TableName() string {
	return "authz_roles"
}

type rolePermissionModel struct {
	RoleID     string `gorm:"column:role_id;primaryKey"`
	Permission string `gorm:"column:permission;primaryKey"`
}

func (rolePermissionModel) TableName() string {
	return "authz_role_permissions"
}

type userRoleModel struct {
	AssignmentID string     `gorm:"column:assignment_id;primaryKey"`
	UserID       string     `gorm:"column:user_id"`
	RoleID       string     `gorm:"column:role_id"`
	RoleName     string     `gorm:"column:role_name"`
	AssignedBy   string     `gorm:"column:assigned_by"`
	Reason       string     `gorm:"column:reason"`
	AssignedAt   time.Time  `gorm:"column:assigned_at"`
	ExpiresAt    *time.Time `gorm:"column:expires_at"`
	IsActive     bool       `gorm:"column:is_active"`
	RevokedAt    *time.Time `gorm:"column:revoked_at"`
}

func (userRoleModel) TableName() string {
	return "authz_user_roles"
}

func (m userRoleModel) toEntity() entities.RoleAssignment {
	return entities.RoleAssignment{
		AssignmentID: m.AssignmentID,
		UserID:       m.UserID,
		RoleID:       m.RoleID,
		RoleName:     m.RoleName,
		AssignedBy:   m.AssignedBy,
		Reason:       m.Reason,
		AssignedAt:   m.AssignedAt.UTC(),
		ExpiresAt:    m.ExpiresAt,
		IsActive:     m.IsActive,
		RevokedAt:    m.RevokedAt,
	}
}

type idempotencyModel struct {
	Key             string    `gorm:"column:idempotency_key;primaryKey"`
	Operation       string    `gorm:"column:operation"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "authz_idempotency"
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "authz_outbox"
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (eventDedupModel) TableName() string {
	return "authz_event_dedup"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
