package ports

import (
	"context"
	"encoding/json"
	"time"

	"vendorhub/contexts/vendor-marketplace/deal-service/domain/entities"
	contractsv1 "vendorhub/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// VendorListFilter narrows vendor card listings.
type VendorListFilter struct {
	Category string
	Limit    int
	Cursor   string
}

// VendorRepository is the read/write boundary for vendor records.
type VendorRepository interface {
	ListVendors(ctx context.Context, filter VendorListFilter) ([]entities.Vendor, string, error)
	GetVendor(ctx context.Context, vendorID string) (entities.Vendor, error)
	// UpdateVendor applies one update and its outbox row atomically.
	// Returns ErrVendorNotFound or ErrVersionConflict.
	UpdateVendor(ctx context.Context, update entities.VendorUpdate, event *OutboxEvent) (entities.Vendor, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// OutboxEvent is persisted with the state change it describes.
type OutboxEvent struct {
	EventID      string
	EventType    string
	PartitionKey string
	OccurredAt   time.Time
	Data         map[string]any
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventPublisher publishes relayed envelopes to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// Category is a marketplace vendor category.
type Category struct {
	Slug  string `json:"slug" yaml:"slug"`
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon" yaml:"icon"`
}

// PricingPlan is one vendor subscription plan.
type PricingPlan struct {
	PlanID            string   `json:"plan_id" yaml:"plan_id"`
	Label             string   `json:"label" yaml:"label"`
	MonthlyPriceCents int64    `json:"monthly_price_cents" yaml:"monthly_price_cents"`
	Highlighted       bool     `json:"highlighted" yaml:"highlighted"`
	Features          []string `json:"features" yaml:"features"`
}

// Catalog is the static lookup data shipped with the marketplace.
type Catalog interface {
	Categories() []Category
	PricingPlans() []PricingPlan
	HasCategory(slug string) bool
	// Translate maps a backend error code or message to user-facing text.
	Translate(codeOrMessage string) string
}

// Envelope builds the canonical envelope for an outbox event.
func (e OutboxEvent) Envelope(sourceService string) (EventEnvelope, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return EventEnvelope{}, err
	}
	return EventEnvelope{
		EventID:          e.EventID,
		EventType:        e.EventType,
		OccurredAt:       e.OccurredAt.UTC(),
		SourceService:    sourceService,
		SchemaVersion:    1,
		PartitionKeyPath: "vendor_id",
		PartitionKey:     e.PartitionKey,
		Data:             data,
	}, nil
}
