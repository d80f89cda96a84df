package unit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	dealservice "vendorhub/contexts/vendor-marketplace/deal-service"
	"vendorhub/contexts/vendor-marketplace/deal-service/application/workers"
	domainerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
	"vendorhub/contexts/vendor-marketplace/deal-service/ports"
	httptransport "vendorhub/contexts/vendor-marketplace/deal-service/transport/http"
)

type dealCapturePublisher struct {
	topics []string
	events []ports.EventEnvelope
	err    error
}

func (p *dealCapturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func TestDealServiceCloseDealAcceptsCommaDecimal(t *testing.T) {
	module := dealservice.NewInMemoryModule(nil)

	response, err := module.Handler.CloseDealHandler(context.Background(), "admin-1", "vendor-doces-ana", httptransport.CloseDealRequest{
		DealValue: "150,50",
	})
	if err != nil {
		t.Fatalf("close deal failed: %v", err)
	}
	if !response.Vendor.DealClosed {
		t.Fatalf("expected deal_closed=true")
	}
	if response.Vendor.DealValue == nil || *response.Vendor.DealValue != 150.5 {
		t.Fatalf("expected deal_value 150.5, got %v", response.Vendor.DealValue)
	}
	if response.Vendor.DealClosedAt == nil {
		t.Fatalf("expected deal_closed_at to be set")
	}
	if response.FormattedValue != "150.50" {
		t.Fatalf("expected formatted value 150.50, got %s", response.FormattedValue)
	}
	if response.Vendor.Version != 2 {
		t.Fatalf("expected version bump to 2, got %d", response.Vendor.Version)
	}
}

func TestDealServiceCloseDealRejectsInvalidValueWithoutWriting(t *testing.T) {
	module := dealservice.NewInMemoryModule(nil)

	for _, value := range []any{"abc", "0", float64(-3), true} {
		_, err := module.Handler.CloseDealHandler(context.Background(), "admin-1", "vendor-doces-ana", httptransport.CloseDealRequest{
			DealValue: value,
		})
		if !errors.Is(err, domainerrors.ErrInvalidDealValue) {
			t.Fatalf("expected invalid deal value for %v, got %v", value, err)
		}
	}

	vendor, err := module.Handler.GetVendorHandler(context.Background(), "vendor-doces-ana")
	if err != nil {
		t.Fatalf("get vendor failed: %v", err)
	}
	if vendor.DealClosed || vendor.Version != 1 {
		t.Fatalf("expected vendor untouched, got closed=%v version=%d", vendor.DealClosed, vendor.Version)
	}
}

func TestDealServiceCloseDealIsNotIdempotent(t *testing.T) {
	module := dealservice.NewInMemoryModule(nil)
	request := httptransport.CloseDealRequest{DealValue: float64(200)}

	for i := 0; i < 2; i++ {
		if _, err := module.Handler.CloseDealHandler(context.Background(), "admin-1", "vendor-buffet-sol", request); err != nil {
			t.Fatalf("close deal %d failed: %v", i, err)
		}
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected two deal_closed events for two submissions, got %d", len(pending))
	}
}

func TestDealServiceVersionConflictLeavesRecordUnchanged(t *testing.T) {
	module := dealservice.NewInMemoryModule(nil)
	stale := int64(7)

	_, err := module.Handler.UpdateVendorHandler(context.Background(), "admin-1", "vendor-som-luz", httptransport.UpdateVendorRequest{
		Fields:          map[string]any{"city": "Recife"},
		ExpectedVersion: &stale,
	})
	if !errors.Is(err, domainerrors.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	vendor, err := module.Handler.GetVendorHandler(context.Background(), "vendor-som-luz")
	if err != nil {
		t.Fatalf("get vendor failed: %v", err)
	}
	if vendor.City != "São Paulo" || vendor.Version != 1 {
		t.Fatalf("expected vendor unchanged, got city=%s version=%d", vendor.City, vendor.Version)
	}
}

func TestDealServiceGenericUpdateClosingDealRecordsEvent(t *testing.T) {
	module := dealservice.NewInMemoryModule(nil)

	vendor, err := module.Handler.UpdateVendorHandler(context.Background(), "admin-1", "vendor-click-foto", httptransport.UpdateVendorRequest{
		Fields: map[string]any{
			"deal_closed":    true,
			"deal_value":     float64(200),
			"deal_closed_at": "2024-06-01T12:00:00Z",
		},
	})
	if err != nil {
		t.Fatalf("update vendor failed: %v", err)
	}
	if !vendor.DealClosed || vendor.DealValue == nil || *vendor.DealValue != 200 {
		t.Fatalf("unexpected vendor after update: %+v", vendor)
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "vendor.deal_closed" {
		t.Fatalf("expected one vendor.deal_closed outbox row, got %+v", pending)
	}

	if _, err := module.Handler.UpdateVendorHandler(context.Background(), "admin-1", "vendor-click-foto", httptransport.UpdateVendorRequest{
		Fields: map[string]any{"city": "Jundiaí"},
	}); err != nil {
		t.Fatalf("plain update failed: %v", err)
	}
	pending, _ = module.Store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 1 {
		t.Fatalf("expected plain field updates to skip the outbox, got %d rows", len(pending))
	}
}

func TestDealServiceUpdateUnknownVendor(t *testing.T) {
	module := dealservice.NewInMemoryModule(nil)

	_, err := module.Handler.UpdateVendorHandler(context.Background(), "admin-1", "vendor-missing", httptransport.UpdateVendorRequest{
		Fields: map[string]any{"name": "Ghost"},
	})
	if !errors.Is(err, domainerrors.ErrVendorNotFound) {
		t.Fatalf("expected vendor not found, got %v", err)
	}
}

func TestDealServiceListVendorsByCategory(t *testing.T) {
	module := dealservice.NewInMemoryModule(nil)

	response, err := module.Handler.ListVendorsHandler(context.Background(), httptransport.ListVendorsRequest{Category: "decoracao"})
	if err != nil {
		t.Fatalf("list vendors failed: %v", err)
	}
	if len(response.Items) != 1 || response.Items[0].VendorID != "vendor-flor-festa" {
		t.Fatalf("expected only the decoracao vendor, got %+v", response.Items)
	}
	stars := response.Items[0].Stars
	if stars.Full != 4 || stars.Half != 1 || stars.Empty != 0 {
		t.Fatalf("expected 4.5 stars rendered as 4/1/0, got %+v", stars)
	}

	all, err := module.Handler.ListVendorsHandler(context.Background(), httptransport.ListVendorsRequest{Category: "all"})
	if err != nil {
		t.Fatalf("list all vendors failed: %v", err)
	}
	if len(all.Items) != 5 {
		t.Fatalf("expected five seeded vendors, got %d", len(all.Items))
	}

	if _, err := module.Handler.ListVendorsHandler(context.Background(), httptransport.ListVendorsRequest{Category: "circo"}); !errors.Is(err, domainerrors.ErrUnknownCategory) {
		t.Fatalf("expected unknown category, got %v", err)
	}
	if _, err := module.Handler.ListVendorsHandler(context.Background(), httptransport.ListVendorsRequest{Limit: 500}); !errors.Is(err, domainerrors.ErrInvalidListFilter) {
		t.Fatalf("expected invalid list filter, got %v", err)
	}
}

func TestDealServiceCatalogAndTranslations(t *testing.T) {
	module := dealservice.NewInMemoryModule(nil)

	catalog := module.Handler.CatalogHandler()
	if len(catalog.Categories) == 0 || len(catalog.PricingPlans) == 0 {
		t.Fatalf("expected seeded categories and pricing plans, got %+v", catalog)
	}

	translated := module.Handler.TranslateHandler("  Invalid login credentials ")
	if translated.Message != "E-mail ou senha inválidos." {
		t.Fatalf("unexpected translation: %q", translated.Message)
	}
	fallback := module.Handler.TranslateHandler("something_unmapped")
	if fallback.Message == "" || fallback.Message == "something_unmapped" {
		t.Fatalf("expected generic fallback text, got %q", fallback.Message)
	}
}

func TestDealServiceOutboxRelayPublishesEnvelopes(t *testing.T) {
	module := dealservice.NewInMemoryModule(nil)
	if _, err := module.Handler.CloseDealHandler(context.Background(), "admin-1", "vendor-doces-ana", httptransport.CloseDealRequest{
		DealValue: float64(320),
	}); err != nil {
		t.Fatalf("close deal failed: %v", err)
	}

	publisher := &dealCapturePublisher{}
	relay := workers.OutboxRelay{Outbox: module.Store, Publisher: publisher, Clock: module.Store}
	sent, err := relay.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if sent != 1 || len(publisher.events) != 1 {
		t.Fatalf("expected one published envelope, sent=%d", sent)
	}
	event := publisher.events[0]
	if publisher.topics[0] != "vendor.deal_closed" || event.PartitionKey != "vendor-doces-ana" || event.SourceService != "deal-service" {
		t.Fatalf("unexpected envelope routing: topic=%s %+v", publisher.topics[0], event)
	}
	var data map[string]any
	if err := json.Unmarshal(event.Data, &data); err != nil {
		t.Fatalf("decode envelope data: %v", err)
	}
	if data["deal_value"] != float64(320) {
		t.Fatalf("expected deal_value 320 in envelope, got %v", data["deal_value"])
	}

	sent, err = relay.RunOnce(context.Background())
	if err != nil || sent != 0 {
		t.Fatalf("expected relayed rows to be marked sent, sent=%d err=%v", sent, err)
	}
}

func TestDealServiceOutboxRelayKeepsRowsOnPublishFailure(t *testing.T) {
	module := dealservice.NewInMemoryModule(nil)
	if _, err := module.Handler.CloseDealHandler(context.Background(), "admin-1", "vendor-doces-ana", httptransport.CloseDealRequest{
		DealValue: float64(10),
	}); err != nil {
		t.Fatalf("close deal failed: %v", err)
	}

	relay := workers.OutboxRelay{Outbox: module.Store, Publisher: &dealCapturePublisher{err: errors.New("bus down")}}
	if _, err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure")
	}
	pending, _ := module.Store.ListPendingOutbox(context.Background(), 10)
	if len(pending) != 1 {
		t.Fatalf("expected row to stay pending after failure, got %d", len(pending))
	}
}
