package mutator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	application "vendorhub/contexts/vendor-marketplace/vendor-console/application"
	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/vendor-console/domain/errors"
	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/services"
	"vendorhub/contexts/vendor-marketplace/vendor-console/ports"
)

// DealForm holds the deal value input and submits it as a single record
// update. Every submit is one remote write; nothing is retried or queued.
type DealForm struct {
	Writer     ports.RecordWriter
	Notifier   ports.Notifier
	Translator ports.Translator
	Clock      ports.Clock
	// OnRefresh runs after a successful write so the caller can re-fetch.
	OnRefresh  func(ctx context.Context)
	Logger     *slog.Logger

	mu         sync.Mutex
	input      string
	generation uint64
}

func (f *DealForm) SetInput(raw string) {
	f.mu.Lock()
	f.input = raw
	f.mu.Unlock()
}

func (f *DealForm) Input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Submit parses the current input and closes the deal on vendorID.
// Errors never escape: every path ends in exactly one notification.
func (f *DealForm) Submit(ctx context.Context, vendorID string) entities.MutationOutcome {
	logger := application.ResolveLogger(f.Logger)

	f.mu.Lock()
	f.generation++
	generation := f.generation
	submitted := f.input
	f.mu.Unlock()

	vendorID = strings.TrimSpace(vendorID)
	if vendorID == "" {
		return f.rejectInput(ctx, logger, vendorID, messageMissingVendor, domainerrors.ErrInvalidVendorID)
	}
	value, err := services.ParseDealValue(submitted)
	if err != nil {
		return f.rejectInput(ctx, logger, vendorID, messageInvalidValue, err)
	}

	request := entities.CloseDealRequest(vendorID, value, f.now())
	if err := f.Writer.UpdateRecord(ctx, request); err != nil {
		if !errors.Is(err, domainerrors.ErrRemote) {
			err = errors.Join(domainerrors.ErrRemote, err)
		}
		logger.Error("close deal write failed",
			"event", "console_close_deal_failed",
			"module", "vendor-marketplace/vendor-console",
			"layer", "application",
			"vendor_id", vendorID,
			"error", err.Error(),
		)
		reason := f.failureMessage(ctx, err)
		f.notify(ctx, entities.Notification{
			Title:       titleDealFailed,
			Description: reason,
			Variant:     entities.VariantDestructive,
		})
		return entities.Failure(reason, err)
	}

	formatted := formatAmount(value)
	f.notify(ctx, entities.Notification{
		Title:       titleDealClosed,
		Description: dealClosedDescription(formatted),
		Variant:     entities.VariantDefault,
	})

	f.mu.Lock()
	// A newer submit or an edit since this one owns the input now.
	cleared := generation == f.generation && f.input == submitted
	if cleared {
		f.input = ""
	}
	f.mu.Unlock()

	logger.Info("close deal completed",
		"event", "console_close_deal_completed",
		"module", "vendor-marketplace/vendor-console",
		"layer", "application",
		"vendor_id", vendorID,
		"deal_value", formatted,
		"input_cleared", cleared,
	)
	if f.OnRefresh != nil {
		f.OnRefresh(ctx)
	}
	return entities.Success(formatted)
}

func (f *DealForm) rejectInput(
	ctx context.Context,
	logger *slog.Logger,
	vendorID string,
	description string,
	err error,
) entities.MutationOutcome {
	logger.Warn("close deal input rejected",
		"event", "console_close_deal_rejected",
		"module", "vendor-marketplace/vendor-console",
		"layer", "application",
		"vendor_id", vendorID,
		"error", err.Error(),
	)
	f.notify(ctx, entities.Notification{
		Title:       titleInvalidValue,
		Description: description,
		Variant:     entities.VariantDestructive,
	})
	return entities.Failure(description, err)
}

func (f *DealForm) failureMessage(ctx context.Context, err error) string {
	var remote *domainerrors.RemoteError
	if f.Translator == nil || !errors.As(err, &remote) || remote.Code == "" {
		return messageGenericError
	}
	text, translateErr := f.Translator.Translate(ctx, remote.Code)
	if translateErr != nil || strings.TrimSpace(text) == "" {
		return messageGenericError
	}
	return text
}

func (f *DealForm) notify(ctx context.Context, notification entities.Notification) {
	if f.Notifier != nil {
		f.Notifier.Notify(ctx, notification)
	}
}

func (f *DealForm) now() time.Time {
	if f.Clock != nil {
		return f.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
