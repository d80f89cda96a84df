package queries

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "vendorhub/contexts/identity-access/authorization-service/application"
	"vendorhub/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "vendorhub/contexts/identity-access/authorization-service/domain/errors"
	"vendorhub/contexts/identity-access/authorization-service/domain/services"
	"vendorhub/contexts/identity-access/authorization-service/ports"

	"golang.org/x/sync/singleflight"
)

const lookupTimeout = 10 * time.Second

// HasRoleQuery is the has_role RPC input.
type HasRoleQuery struct {
	SubjectID string
	RoleName  string
}

// HasRoleUseCase answers has_role cache-first. Concurrent misses for the
// same subject/role share one repository lookup.
type HasRoleUseCase struct {
	Repository ports.Repository
	RoleCache  ports.RoleCache
	Clock      ports.Clock
	CacheTTL   time.Duration
	Logger     *slog.Logger

	group *singleflight.Group
}

// NewHasRoleUseCase returns a use case with its own lookup group.
func NewHasRoleUseCase(
	repository ports.Repository,
	cache ports.RoleCache,
	clock ports.Clock,
	ttl time.Duration,
	logger *slog.Logger,
) HasRoleUseCase {
	return HasRoleUseCase{
		Repository: repository,
		RoleCache:  cache,
		Clock:      clock,
		CacheTTL:   ttl,
		Logger:     logger,
		group:      &singleflight.Group{},
	}
}

// Execute returns the role check. Lookup failures are returned to the caller.
func (u HasRoleUseCase) Execute(ctx context.Context, query HasRoleQuery) (entities.RoleCheck, error) {
	subjectID := strings.TrimSpace(query.SubjectID)
	roleName := strings.TrimSpace(query.RoleName)
	if subjectID == "" {
		return entities.RoleCheck{}, domainerrors.ErrInvalidUserID
	}
	if roleName == "" {
		return entities.RoleCheck{}, domainerrors.ErrInvalidRoleName
	}

	logger := application.ResolveLogger(u.Logger)
	now := u.now()

	if u.RoleCache != nil {
		hasRole, found, err := u.RoleCache.Get(ctx, subjectID, roleName)
		if err != nil {
			logger.Warn("role cache read failed, falling back to repository",
				"event", "authz_role_cache_get_failed",
				"module", "identity-access/authorization-service",
				"layer", "application",
				"subject_id", subjectID,
				"role_name", roleName,
				"error", err.Error(),
			)
		} else if found {
			return entities.RoleCheck{
				SubjectID: subjectID,
				RoleName:  roleName,
				HasRole:   hasRole,
				CheckedAt: now,
				CacheHit:  true,
			}, nil
		}
	}

	epoch, cacheable := u.cacheEpoch(ctx, logger, subjectID)
	flightKey := subjectID + "\x00" + roleName + "\x00" + strconv.FormatUint(epoch, 10)
	if !cacheable {
		flightKey += "\x00nocache"
	}

	// The shared lookup outlives any single caller so one cancelled request
	// does not fail every caller waiting on the same key.
	sharedCtx := context.WithoutCancel(ctx)
	lookup := func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(sharedCtx, lookupTimeout)
		defer cancel()
		assignments, err := u.Repository.ListUserRoles(lookupCtx, subjectID, now)
		if err != nil {
			return false, err
		}
		hasRole := services.HoldsRole(assignments, roleName, now)
		if cacheable {
			u.store(lookupCtx, logger, subjectID, roleName, hasRole, epoch)
		}
		return hasRole, nil
	}

	var (
		value any
		err   error
	)
	if u.group != nil {
		select {
		case result := <-u.group.DoChan(flightKey, lookup):
			value, err = result.Val, result.Err
		case <-ctx.Done():
			return entities.RoleCheck{}, ctx.Err()
		}
	} else {
		value, err = lookup()
	}
	if err != nil {
		logger.Error("has role lookup failed",
			"event", "authz_has_role_lookup_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"subject_id", subjectID,
			"role_name", roleName,
			"error", err.Error(),
		)
		return entities.RoleCheck{}, err
	}
	hasRole := value.(bool)

	logger.Debug("has role evaluated",
		"event", "authz_has_role_evaluated",
		"module", "identity-access/authorization-service",
		"layer", "application",
		"subject_id", subjectID,
		"role_name", roleName,
		"has_role", hasRole,
	)
	return entities.RoleCheck{
		SubjectID: subjectID,
		RoleName:  roleName,
		HasRole:   hasRole,
		CheckedAt: now,
	}, nil
}

// cacheEpoch reads the subject's invalidation epoch before the repository
// lookup. Without an epoch the answer is served but not cached.
func (u HasRoleUseCase) cacheEpoch(ctx context.Context, logger *slog.Logger, subjectID string) (uint64, bool) {
	if u.RoleCache == nil {
		return 0, false
	}
	epoch, err := u.RoleCache.Epoch(ctx, subjectID)
	if err != nil {
		logger.Warn("role cache epoch read failed, answer will not be cached",
			"event", "authz_role_cache_epoch_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"subject_id", subjectID,
			"error", err.Error(),
		)
		return 0, false
	}
	return epoch, true
}

func (u HasRoleUseCase) store(ctx context.Context, logger *slog.Logger, subjectID string, roleName string, hasRole bool, epoch uint64) {
	stored, err := u.RoleCache.Set(ctx, subjectID, roleName, hasRole, epoch, u.cacheTTL())
	if err != nil {
		logger.Warn("role cache write failed",
			"event", "authz_role_cache_set_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"subject_id", subjectID,
			"role_name", roleName,
			"error", err.Error(),
		)
		return
	}
	if !stored {
		logger.Debug("role changed during lookup, answer not cached",
			"event", "authz_role_cache_set_skipped",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"subject_id", subjectID,
			"role_name", roleName,
		)
	}
}

func (u HasRoleUseCase) cacheTTL() time.Duration {
	if u.CacheTTL <= 0 {
		return 5 * time.Minute
	}
	return u.CacheTTL
}

func (u HasRoleUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
