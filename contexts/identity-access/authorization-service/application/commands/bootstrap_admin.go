package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "vendorhub/contexts/identity-access/authorization-service/application"
	"vendorhub/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "vendorhub/contexts/identity-access/authorization-service/domain/errors"
	"vendorhub/contexts/identity-access/authorization-service/ports"
)

const systemActorID = "system:bootstrap"

// BootstrapAdminsUseCase grants the admin role to configured subjects at
// startup, without an acting admin. Existing grants are left untouched.
type BootstrapAdminsUseCase struct {
	Repository  ports.Repository
	RoleCache   ports.RoleCache
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u BootstrapAdminsUseCase) Execute(ctx context.Context, subjectIDs []string) (int, error) {
	logger := application.ResolveLogger(u.Logger)
	now := time.Now().UTC()
	if u.Clock != nil {
		now = u.Clock.Now().UTC()
	}

	granted := 0
	for _, subjectID := range subjectIDs {
		subjectID = strings.TrimSpace(subjectID)
		if subjectID == "" {
			continue
		}
		_, err := grantRole(ctx, u.Repository, u.IDGenerator, ports.GrantRoleInput{
			UserID:     subjectID,
			RoleID:     entities.RoleAdmin,
			AdminID:    systemActorID,
			Reason:     "bootstrap admin",
			AssignedAt: now,
		})
		if errors.Is(err, domainerrors.ErrRoleAlreadyAssigned) {
			continue
		}
		if err != nil {
			return granted, err
		}
		invalidateRoleCache(ctx, u.RoleCache, logger, subjectID)
		granted++
		logger.Info("bootstrap admin granted",
			"event", "authz_bootstrap_admin_granted",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", subjectID,
		)
	}
	return granted, nil
}
