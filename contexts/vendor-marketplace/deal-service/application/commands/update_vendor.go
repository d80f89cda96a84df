package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "vendorhub/contexts/vendor-marketplace/deal-service/application"
	"vendorhub/contexts/vendor-marketplace/deal-service/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
	"vendorhub/contexts/vendor-marketplace/deal-service/domain/services"
	"vendorhub/contexts/vendor-marketplace/deal-service/ports"
)

// UpdateVendorCommand is a generic field/value write against one vendor.
type UpdateVendorCommand struct {
	VendorID        string
	ActorID         string
	Fields          map[string]any
	ExpectedVersion *int64
}

// UpdateVendorUseCase performs validated single-record updates.
// Writes are not idempotent: replaying a command writes again.
// An update that sets deal_closed=true also records a vendor.deal_closed
// outbox event when an IDGenerator is wired.
type UpdateVendorUseCase struct {
	Vendors     ports.VendorRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u UpdateVendorUseCase) Execute(ctx context.Context, cmd UpdateVendorCommand) (entities.Vendor, error) {
	logger := application.ResolveLogger(u.Logger)
	vendorID := strings.TrimSpace(cmd.VendorID)
	if vendorID == "" {
		return entities.Vendor{}, domainerrors.ErrInvalidVendorID
	}

	fields, err := services.NormalizeFields(cmd.Fields)
	if err != nil {
		logger.Warn("vendor update rejected",
			"event", "vendor_update_rejected",
			"module", "vendor-marketplace/deal-service",
			"layer", "application",
			"vendor_id", vendorID,
			"actor_id", cmd.ActorID,
			"error", err.Error(),
		)
		return entities.Vendor{}, err
	}

	now := u.now()
	event, err := u.dealClosedEvent(ctx, vendorID, cmd.ActorID, fields, now)
	if err != nil {
		return entities.Vendor{}, err
	}

	updated, err := u.Vendors.UpdateVendor(ctx, entities.VendorUpdate{
		VendorID:        vendorID,
		Fields:          fields,
		ExpectedVersion: cmd.ExpectedVersion,
		UpdatedAt:       now,
	}, event)
	if err != nil {
		logger.Error("vendor update failed",
			"event", "vendor_update_failed",
			"module", "vendor-marketplace/deal-service",
			"layer", "application",
			"vendor_id", vendorID,
			"actor_id", cmd.ActorID,
			"error", err.Error(),
		)
		return entities.Vendor{}, err
	}

	logger.Info("vendor updated",
		"event", "vendor_updated",
		"module", "vendor-marketplace/deal-service",
		"layer", "application",
		"vendor_id", vendorID,
		"actor_id", cmd.ActorID,
		"field_count", len(fields),
		"version", updated.Version,
	)
	return updated, nil
}

func (u UpdateVendorUseCase) dealClosedEvent(
	ctx context.Context,
	vendorID string,
	actorID string,
	fields map[string]any,
	now time.Time,
) (*ports.OutboxEvent, error) {
	if closed, _ := fields[entities.FieldDealClosed].(bool); !closed || u.IDGenerator == nil {
		return nil, nil
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return nil, err
	}
	data := map[string]any{
		"vendor_id": vendorID,
		"actor_id":  actorID,
	}
	if amount, ok := fields[entities.FieldDealValue].(float64); ok {
		data["deal_value"] = amount
	}
	if at, ok := fields[entities.FieldDealClosedAt].(time.Time); ok {
		data["deal_closed_at"] = at.Format(time.RFC3339Nano)
	}
	return &ports.OutboxEvent{
		EventID:      eventID,
		EventType:    dealClosedEventType,
		PartitionKey: vendorID,
		OccurredAt:   now,
		Data:         data,
	}, nil
}

func (u UpdateVendorUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
