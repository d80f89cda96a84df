package authorization

import (
	"log/slog"
	"time"

	"vendorhub/contexts/identity-access/authorization-service/adapters/cache"
	httpadapter "vendorhub/contexts/identity-access/authorization-service/adapters/http"
	"vendorhub/contexts/identity-access/authorization-service/adapters/memory"
	"vendorhub/contexts/identity-access/authorization-service/application/commands"
	"vendorhub/contexts/identity-access/authorization-service/application/queries"
	"vendorhub/contexts/identity-access/authorization-service/ports"
)

// Module is the authorization-service composition root exposed to runtime wiring.
type Module struct {
	Handler   httpadapter.Handler
	Bootstrap commands.BootstrapAdminsUseCase
	Store     *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	RoleCache      ports.RoleCache
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	CacheTTL       time.Duration
	Logger         *slog.Logger
}

// NewModule wires role use-cases and the transport handler using explicit ports.
func NewModule(deps Dependencies) Module {
	handler := httpadapter.Handler{
		HasRole: queries.NewHasRoleUseCase(
			deps.Repository,
			deps.RoleCache,
			deps.Clock,
			deps.CacheTTL,
			deps.Logger,
		),
		ListRoles: queries.ListUserRolesUseCase{
			Repository: deps.Repository,
			Clock:      deps.Clock,
		},
		GrantRole: commands.GrantRoleUseCase{
			Repository:     deps.Repository,
			Idempotency:    deps.Idempotency,
			RoleCache:      deps.RoleCache,
			Clock:          deps.Clock,
			IDGenerator:    deps.IDGenerator,
			IdempotencyTTL: deps.IdempotencyTTL,
			Logger:         deps.Logger,
		},
		RevokeRole: commands.RevokeRoleUseCase{
			Repository:     deps.Repository,
			Idempotency:    deps.Idempotency,
			RoleCache:      deps.RoleCache,
			Clock:          deps.Clock,
			IDGenerator:    deps.IDGenerator,
			IdempotencyTTL: deps.IdempotencyTTL,
			Logger:         deps.Logger,
		},
		Logger: deps.Logger,
	}
	return Module{
		Handler: handler,
		Bootstrap: commands.BootstrapAdminsUseCase{
			Repository:  deps.Repository,
			RoleCache:   deps.RoleCache,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Idempotency:    store,
		RoleCache:      cache.NewMemory(5 * time.Minute),
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		CacheTTL:       5 * time.Minute,
		Logger:         logger,
	})
	module.Store = store
	return module
}
