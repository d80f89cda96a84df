package vendorconsole

import (
	"context"
	"log/slog"

	"vendorhub/contexts/vendor-marketplace/vendor-console/adapters/httpclient"
	"vendorhub/contexts/vendor-marketplace/vendor-console/adapters/identity"
	"vendorhub/contexts/vendor-marketplace/vendor-console/adapters/system"
	"vendorhub/contexts/vendor-marketplace/vendor-console/application/mutator"
	"vendorhub/contexts/vendor-marketplace/vendor-console/application/permission"
	"vendorhub/contexts/vendor-marketplace/vendor-console/ports"
)

// Module is the vendor-console composition root exposed to runtime wiring.
type Module struct {
	DealForm *mutator.DealForm
	Admin    *permission.AdminResolver
	Vendors  ports.VendorReader
	Session  *identity.Session
}

type Dependencies struct {
	Writer     ports.RecordWriter
	Roles      ports.RoleChecker
	Translator ports.Translator
	Vendors    ports.VendorReader
	Notifier   ports.Notifier
	Clock      ports.Clock
	OnRefresh  func(ctx context.Context)
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		DealForm: &mutator.DealForm{
			Writer:     deps.Writer,
			Notifier:   deps.Notifier,
			Translator: deps.Translator,
			Clock:      deps.Clock,
			OnRefresh:  deps.OnRefresh,
			Logger:     deps.Logger,
		},
		Admin:   permission.NewAdminResolver(deps.Roles, deps.Logger),
		Vendors: deps.Vendors,
	}
}

// NewHTTPModule wires the console against a running API. The session token
// authenticates every call.
func NewHTTPModule(
	baseURL string,
	session *identity.Session,
	notifier ports.Notifier,
	onRefresh func(ctx context.Context),
	logger *slog.Logger,
) Module {
	client := httpclient.New(baseURL, session.Token, logger)
	module := NewModule(Dependencies{
		Writer:     client,
		Roles:      client,
		Translator: client,
		Vendors:    client,
		Notifier:   notifier,
		Clock:      system.Clock{},
		OnRefresh:  onRefresh,
		Logger:     logger,
	})
	module.Session = session
	return module
}
