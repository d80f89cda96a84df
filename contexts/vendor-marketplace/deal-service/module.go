package dealservice

import (
	"log/slog"

	"vendorhub/contexts/vendor-marketplace/deal-service/adapters/catalog"
	httpadapter "vendorhub/contexts/vendor-marketplace/deal-service/adapters/http"
	"vendorhub/contexts/vendor-marketplace/deal-service/adapters/memory"
	"vendorhub/contexts/vendor-marketplace/deal-service/application/commands"
	"vendorhub/contexts/vendor-marketplace/deal-service/application/queries"
	"vendorhub/contexts/vendor-marketplace/deal-service/ports"
)

// Module is the deal-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Vendors     ports.VendorRepository
	Catalog     ports.Catalog
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	handler := httpadapter.Handler{
		ListVendors: queries.ListVendorsUseCase{
			Vendors: deps.Vendors,
			Catalog: deps.Catalog,
			Logger:  deps.Logger,
		},
		GetVendor: queries.GetVendorUseCase{
			Vendors: deps.Vendors,
		},
		GetCatalog: queries.GetCatalogUseCase{
			Catalog: deps.Catalog,
		},
		UpdateVendor: commands.UpdateVendorUseCase{
			Vendors:     deps.Vendors,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		CloseDeal: commands.CloseDealUseCase{
			Vendors:     deps.Vendors,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		Logger: deps.Logger,
	}
	return Module{Handler: handler}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Vendors:     store,
		Catalog:     catalog.MustDefault(),
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
