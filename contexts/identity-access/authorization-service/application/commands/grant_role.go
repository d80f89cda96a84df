package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "vendorhub/contexts/identity-access/authorization-service/application"
	"vendorhub/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "vendorhub/contexts/identity-access/authorization-service/domain/errors"
	"vendorhub/contexts/identity-access/authorization-service/ports"
)

// GrantRoleCommand contains transport-agnostic input for role assignment.
type GrantRoleCommand struct {
	IdempotencyKey string
	UserID         string
	RoleID         string
	AdminID        string
	Reason         string
	ExpiresAt      *time.Time
}

// GrantRoleResult captures the assignment and replay status.
type GrantRoleResult struct {
	Assignment entities.RoleAssignment `json:"assignment"`
	Replayed   bool                    `json:"replayed"`
}

// GrantRoleUseCase coordinates idempotent role assignment workflow.
type GrantRoleUseCase struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	RoleCache      ports.RoleCache
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// Execute validates command input, enforces idempotency, writes mutation, and stores replay payload.
func (u GrantRoleUseCase) Execute(ctx context.Context, cmd GrantRoleCommand) (GrantRoleResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("grant role started",
		"event", "authz_grant_role_started",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"user_id", cmd.UserID,
		"admin_id", cmd.AdminID,
		"role_id", cmd.RoleID,
	)

	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return GrantRoleResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if strings.TrimSpace(cmd.UserID) == "" {
		return GrantRoleResult{}, domainerrors.ErrInvalidUserID
	}
	if strings.TrimSpace(cmd.RoleID) == "" {
		return GrantRoleResult{}, domainerrors.ErrInvalidRoleID
	}
	if strings.TrimSpace(cmd.AdminID) == "" {
		return GrantRoleResult{}, domainerrors.ErrInvalidAdminID
	}

	requestHash, err := hashRequest(struct {
		UserID    string     `json:"user_id"`
		RoleID    string     `json:"role_id"`
		AdminID   string     `json:"admin_id"`
		Reason    string     `json:"reason"`
		ExpiresAt *time.Time `json:"expires_at,omitempty"`
	}{
		UserID:    cmd.UserID,
		RoleID:    cmd.RoleID,
		AdminID:   cmd.AdminID,
		Reason:    cmd.Reason,
		ExpiresAt: cmd.ExpiresAt,
	})
	if err != nil {
		return GrantRoleResult{}, err
	}

	now := u.now()
	var result GrantRoleResult
	replayed, err := replayOrRun(ctx, u.Idempotency, "authz_idempotency:"+cmd.IdempotencyKey, "grant_role",
		requestHash, now, u.idempotencyTTL(), &result,
		func() (any, error) {
			if err := ensureActorPermission(ctx, u.Repository, cmd.AdminID, "user.grant_role", now); err != nil {
				return nil, err
			}
			return grantRole(ctx, u.Repository, u.IDGenerator, ports.GrantRoleInput{
				UserID:     cmd.UserID,
				RoleID:     cmd.RoleID,
				AdminID:    cmd.AdminID,
				Reason:     cmd.Reason,
				AssignedAt: now,
				ExpiresAt:  cmd.ExpiresAt,
			})
		},
	)
	if err != nil {
		logger.Error("grant role failed",
			"event", "authz_grant_role_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", cmd.UserID,
			"admin_id", cmd.AdminID,
			"role_id", cmd.RoleID,
			"error", err.Error(),
		)
		return GrantRoleResult{}, err
	}
	result.Replayed = replayed
	if replayed {
		logger.Info("grant role replayed",
			"event", "authz_grant_role_replayed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", cmd.UserID,
			"role_id", cmd.RoleID,
		)
		return result, nil
	}

	invalidateRoleCache(ctx, u.RoleCache, logger, cmd.UserID)
	logger.Info("grant role completed",
		"event", "authz_grant_role_completed",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"user_id", cmd.UserID,
		"admin_id", cmd.AdminID,
		"role_id", cmd.RoleID,
		"assignment_id", result.Assignment.AssignmentID,
	)
	return result, nil
}

func grantRole(
	ctx context.Context,
	repository ports.Repository,
	ids ports.IDGenerator,
	input ports.GrantRoleInput,
) (GrantRoleResult, error) {
	assignmentID, err := ids.NewID(ctx)
	if err != nil {
		return GrantRoleResult{}, err
	}
	outboxID, err := ids.NewID(ctx)
	if err != nil {
		return GrantRoleResult{}, err
	}
	input.AssignmentID = assignmentID
	input.OutboxID = outboxID
	assignment, err := repository.GrantRole(ctx, input)
	if err != nil {
		return GrantRoleResult{}, err
	}
	return GrantRoleResult{Assignment: assignment}, nil
}

func invalidateRoleCache(ctx context.Context, cache ports.RoleCache, logger *slog.Logger, userID string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, userID); err != nil {
		logger.Warn("role cache invalidate failed",
			"event", "authz_cache_invalidation_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
	}
}

func (u GrantRoleUseCase) idempotencyTTL() time.Duration {
	if u.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return u.IdempotencyTTL
}

func (u GrantRoleUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
