package commands

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	application "vendorhub/contexts/vendor-marketplace/deal-service/application"
	"vendorhub/contexts/vendor-marketplace/deal-service/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
	"vendorhub/contexts/vendor-marketplace/deal-service/domain/services"
	"vendorhub/contexts/vendor-marketplace/deal-service/ports"
)

const dealClosedEventType = "vendor.deal_closed"

// CloseDealCommand marks a vendor deal as closed with a value.
// RawDealValue, when set, takes precedence over DealValue and may use a
// comma decimal separator.
type CloseDealCommand struct {
	VendorID        string
	ActorID         string
	DealValue       float64
	RawDealValue    string
	ExpectedVersion *int64
}

type CloseDealResult struct {
	Vendor         entities.Vendor
	FormattedValue string
}

type CloseDealUseCase struct {
	Vendors     ports.VendorRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute validates the value locally, then issues exactly one vendor write
// carrying deal_closed, deal_value and deal_closed_at plus its outbox event.
func (u CloseDealUseCase) Execute(ctx context.Context, cmd CloseDealCommand) (CloseDealResult, error) {
	logger := application.ResolveLogger(u.Logger)
	vendorID := strings.TrimSpace(cmd.VendorID)
	if vendorID == "" {
		return CloseDealResult{}, domainerrors.ErrInvalidVendorID
	}

	amount, err := resolveDealValue(cmd)
	if err != nil {
		logger.Warn("close deal rejected",
			"event", "deal_close_rejected",
			"module", "vendor-marketplace/deal-service",
			"layer", "application",
			"vendor_id", vendorID,
			"actor_id", cmd.ActorID,
			"error", err.Error(),
		)
		return CloseDealResult{}, err
	}

	now := u.now()
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CloseDealResult{}, err
	}

	logger.Info("close deal started",
		"event", "deal_close_started",
		"module", "vendor-marketplace/deal-service",
		"layer", "application",
		"vendor_id", vendorID,
		"actor_id", cmd.ActorID,
	)

	updated, err := u.Vendors.UpdateVendor(ctx, entities.VendorUpdate{
		VendorID: vendorID,
		Fields: map[string]any{
			entities.FieldDealClosed:   true,
			entities.FieldDealValue:    amount,
			entities.FieldDealClosedAt: now,
		},
		ExpectedVersion: cmd.ExpectedVersion,
		UpdatedAt:       now,
	}, &ports.OutboxEvent{
		EventID:      eventID,
		EventType:    dealClosedEventType,
		PartitionKey: vendorID,
		OccurredAt:   now,
		Data: map[string]any{
			"vendor_id":      vendorID,
			"actor_id":       cmd.ActorID,
			"deal_value":     amount,
			"deal_closed_at": now.Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		logger.Error("close deal write failed",
			"event", "deal_close_write_failed",
			"module", "vendor-marketplace/deal-service",
			"layer", "application",
			"vendor_id", vendorID,
			"actor_id", cmd.ActorID,
			"error", err.Error(),
		)
		return CloseDealResult{}, err
	}

	logger.Info("close deal completed",
		"event", "deal_close_completed",
		"module", "vendor-marketplace/deal-service",
		"layer", "application",
		"vendor_id", vendorID,
		"actor_id", cmd.ActorID,
		"version", updated.Version,
	)
	return CloseDealResult{
		Vendor:         updated,
		FormattedValue: services.FormatDealValue(amount),
	}, nil
}

func resolveDealValue(cmd CloseDealCommand) (float64, error) {
	if strings.TrimSpace(cmd.RawDealValue) != "" {
		return services.ParseDealValue(cmd.RawDealValue)
	}
	if math.IsNaN(cmd.DealValue) || math.IsInf(cmd.DealValue, 0) || cmd.DealValue <= 0 {
		return 0, domainerrors.ErrInvalidDealValue
	}
	return cmd.DealValue, nil
}

func (u CloseDealUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
