package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	"vendorhub/contexts/vendor-marketplace/deal-service/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
	"vendorhub/contexts/vendor-marketplace/deal-service/ports"

	"github.com/google/uuid"
)

const sourceService = "deal-service"

// Store is an in-memory adapter implementing vendor/outbox ports.
// It is intended for tests and local development wiring.
type Store struct {
	mu      sync.RWMutex
	vendors map[string]entities.Vendor
	outbox  map[string]outboxRow
	now     func() time.Time
}

type outboxRow struct {
	ports.OutboxMessage
	SentAt *time.Time
}

// NewStore builds a store seeded with a handful of demo vendors.
func NewStore() *Store {
	seededAt := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	store := &Store{
		vendors: make(map[string]entities.Vendor),
		outbox:  make(map[string]outboxRow),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, vendor := range []entities.Vendor{
		{VendorID: "vendor-doces-ana", Name: "Doces da Ana", Category: "confeitaria", City: "São Paulo", PriceTier: "$$", RatingAverage: 4.8, RatingCount: 112},
		{VendorID: "vendor-flor-festa", Name: "Flor & Festa", Category: "decoracao", City: "Campinas", PriceTier: "$$$", RatingAverage: 4.5, RatingCount: 64},
		{VendorID: "vendor-buffet-sol", Name: "Buffet Sol", Category: "buffet", City: "Santos", PriceTier: "$$", RatingAverage: 3.9, RatingCount: 31},
		{VendorID: "vendor-som-luz", Name: "Som & Luz", Category: "som-iluminacao", City: "São Paulo", PriceTier: "$", RatingAverage: 4.1, RatingCount: 18},
		{VendorID: "vendor-click-foto", Name: "Click Foto", Category: "fotografia", City: "Sorocaba", PriceTier: "$$$", RatingAverage: 5, RatingCount: 9},
	} {
		vendor.CreatedAt = seededAt
		vendor.UpdatedAt = seededAt
		vendor.Version = 1
		store.vendors[vendor.VendorID] = vendor
	}
	return store
}

// Seed inserts or replaces a vendor record.
func (s *Store) Seed(vendor entities.Vendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vendor.Version == 0 {
		vendor.Version = 1
	}
	s.vendors[vendor.VendorID] = vendor
}

func (s *Store) ListVendors(_ context.Context, filter ports.VendorListFilter) ([]entities.Vendor, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Vendor, 0, len(s.vendors))
	for _, vendor := range s.vendors {
		if filter.Category != "" && vendor.Category != filter.Category {
			continue
		}
		items = append(items, vendor)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].RatingAverage == items[j].RatingAverage {
			return items[i].VendorID < items[j].VendorID
		}
		return items[i].RatingAverage > items[j].RatingAverage
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(filter.Cursor)
	if offset < 0 || offset > len(items) {
		offset = len(items)
	}
	end := offset + limit
	next := ""
	if end < len(items) {
		next = strconv.Itoa(end)
	} else {
		end = len(items)
	}
	return append([]entities.Vendor(nil), items[offset:end]...), next, nil
}

func (s *Store) GetVendor(_ context.Context, vendorID string) (entities.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vendor, ok := s.vendors[vendorID]
	if !ok {
		return entities.Vendor{}, domainerrors.ErrVendorNotFound
	}
	return vendor, nil
}

func (s *Store) UpdateVendor(
	_ context.Context,
	update entities.VendorUpdate,
	event *ports.OutboxEvent,
) (entities.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.vendors[update.VendorID]
	if !ok {
		return entities.Vendor{}, domainerrors.ErrVendorNotFound
	}
	if update.ExpectedVersion != nil && *update.ExpectedVersion != current.Version {
		return entities.Vendor{}, domainerrors.ErrVersionConflict
	}

	if event != nil {
		if _, exists := s.outbox[event.EventID]; exists {
			return entities.Vendor{}, domainerrors.ErrRepositoryInvariant
		}
		envelope, err := event.Envelope(sourceService)
		if err != nil {
			return entities.Vendor{}, err
		}
		payload, err := json.Marshal(envelope)
		if err != nil {
			return entities.Vendor{}, err
		}
		s.outbox[event.EventID] = outboxRow{OutboxMessage: ports.OutboxMessage{
			OutboxID:     event.EventID,
			EventType:    event.EventType,
			PartitionKey: event.PartitionKey,
			Payload:      payload,
			CreatedAt:    event.OccurredAt.UTC(),
		}}
	}

	updated := current.Apply(update)
	s.vendors[update.VendorID] = updated
	return updated, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.SentAt == nil {
			items = append(items, row.OutboxMessage)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[outboxID]
	if !ok {
		return domainerrors.ErrRepositoryInvariant
	}
	at := sentAt.UTC()
	row.SentAt = &at
	s.outbox[outboxID] = row
	return nil
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
