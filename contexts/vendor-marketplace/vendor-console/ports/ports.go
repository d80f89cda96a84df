package ports

import (
	"context"
	"time"

	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"
)

type Clock interface {
	Now() time.Time
}

// RecordWriter updates one remote record with an explicit field/value mapping.
type RecordWriter interface {
	UpdateRecord(ctx context.Context, request entities.MutationRequest) error
}

// RoleChecker is the remote has_role procedure.
type RoleChecker interface {
	HasRole(ctx context.Context, subjectID string, roleName string) (bool, error)
}

// Notifier displays a short-lived message. It has no return value.
type Notifier interface {
	Notify(ctx context.Context, notification entities.Notification)
}

// Translator maps a server error code to user-facing text.
type Translator interface {
	Translate(ctx context.Context, code string) (string, error)
}

// VendorReader lists vendor cards for the console.
type VendorReader interface {
	ListVendors(ctx context.Context, category string) ([]entities.VendorSummary, error)
}

// IdentityProvider streams identity changes (sign-in, sign-out).
type IdentityProvider interface {
	Identities() <-chan entities.Identity
}
