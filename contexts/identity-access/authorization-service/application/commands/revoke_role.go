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

type RevokeRoleCommand struct {
	IdempotencyKey string
	UserID         string
	RoleID         string
	AdminID        string
	Reason         string
}

type RevokeRoleResult struct {
	Assignment entities.RoleAssignment `json:"assignment"`
	Replayed   bool                    `json:"replayed"`
}

type RevokeRoleUseCase struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	RoleCache      ports.RoleCache
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (u RevokeRoleUseCase) Execute(ctx context.Context, cmd RevokeRoleCommand) (RevokeRoleResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return RevokeRoleResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	if strings.TrimSpace(cmd.UserID) == "" {
		return RevokeRoleResult{}, domainerrors.ErrInvalidUserID
	}
	if strings.TrimSpace(cmd.RoleID) == "" {
		return RevokeRoleResult{}, domainerrors.ErrInvalidRoleID
	}
	if strings.TrimSpace(cmd.AdminID) == "" {
		return RevokeRoleResult{}, domainerrors.ErrInvalidAdminID
	}

	requestHash, err := hashRequest(struct {
		UserID  string `json:"user_id"`
		RoleID  string `json:"role_id"`
		AdminID string `json:"admin_id"`
		Reason  string `json:"reason"`
	}{
		UserID:  cmd.UserID,
		RoleID:  cmd.RoleID,
		AdminID: cmd.AdminID,
		Reason:  cmd.Reason,
	})
	if err != nil {
		return RevokeRoleResult{}, err
	}

	now := u.now()
	var result RevokeRoleResult
	replayed, err := replayOrRun(ctx, u.Idempotency, "authz_idempotency:"+cmd.IdempotencyKey, "revoke_role",
		requestHash, now, u.idempotencyTTL(), &result,
		func() (any, error) {
			if err := ensureActorPermission(ctx, u.Repository, cmd.AdminID, "user.revoke_role", now); err != nil {
				return nil, err
			}
			outboxID, err := u.IDGenerator.NewID(ctx)
			if err != nil {
				return nil, err
			}
			assignment, err := u.Repository.RevokeRole(ctx, ports.RevokeRoleInput{
				OutboxID:  outboxID,
				UserID:    cmd.UserID,
				RoleID:    cmd.RoleID,
				AdminID:   cmd.AdminID,
				Reason:    cmd.Reason,
				RevokedAt: now,
			})
			if err != nil {
				return nil, err
			}
			return RevokeRoleResult{Assignment: assignment}, nil
		},
	)
	if err != nil {
		logger.Error("revoke role failed",
			"event", "authz_revoke_role_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", cmd.UserID,
			"admin_id", cmd.AdminID,
			"role_id", cmd.RoleID,
			"error", err.Error(),
		)
		return RevokeRoleResult{}, err
	}
	result.Replayed = replayed
	if !replayed {
		invalidateRoleCache(ctx, u.RoleCache, logger, cmd.UserID)
	}

	logger.Info("revoke role completed",
		"event", "authz_revoke_role_completed",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"user_id", cmd.UserID,
		"admin_id", cmd.AdminID,
		"role_id", cmd.RoleID,
		"replayed", replayed,
	)
	return result, nil
}

func (u RevokeRoleUseCase) idempotencyTTL() time.Duration {
	if u.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return u.IdempotencyTTL
}

func (u RevokeRoleUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
