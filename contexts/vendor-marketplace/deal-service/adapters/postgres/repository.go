package postgresadapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"vendorhub/contexts/vendor-marketplace/deal-service/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
	"vendorhub/contexts/vendor-marketplace/deal-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
	sourceService       = "deal-service"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the vendor and outbox tables when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&vendorModel{}, &outboxModel{})
}

func (r *Repository) ListVendors(ctx context.Context, filter ports.VendorListFilter) ([]entities.Vendor, string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	tx := r.db.WithContext(ctx).Model(&vendorModel{})
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	tx = tx.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "rating_average"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "vendor_id"}, Desc: false})

	offset := decodeCursor(filter.Cursor)
	var rows []vendorModel
	if err := tx.Offset(offset).Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = encodeCursor(offset + limit)
		rows = rows[:limit]
	}

	items := make([]entities.Vendor, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nextCursor, nil
}

func (r *Repository) GetVendor(ctx context.Context, vendorID string) (entities.Vendor, error) {
	var row vendorModel
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vendor{}, domainerrors.ErrVendorNotFound
		}
		return entities.Vendor{}, err
	}
	return row.toEntity(), nil
}

// UpdateVendor writes the field mapping with a version bump. When an expected
// version is supplied the write is conditional on it.
func (r *Repository) UpdateVendor(
	ctx context.Context,
	update entities.VendorUpdate,
	event *ports.OutboxEvent,
) (entities.Vendor, error) {
	var payload []byte
	if event != nil {
		envelope, err := event.Envelope(sourceService)
		if err != nil {
			return entities.Vendor{}, err
		}
		payload, err = json.Marshal(envelope)
		if err != nil {
			return entities.Vendor{}, err
		}
	}

	var updated entities.Vendor
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		columns := make(map[string]any, len(update.Fields)+2)
		for name, value := range update.Fields {
			columns[name] = value
		}
		columns["version"] = gorm.Expr("version + 1")
		columns["updated_at"] = update.UpdatedAt.UTC()

		query := tx.Model(&vendorModel{}).Where("vendor_id = ?", update.VendorID)
		if update.ExpectedVersion != nil {
			query = query.Where("version = ?", *update.ExpectedVersion)
		}
		result := query.Updates(columns)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&vendorModel{}).Where("vendor_id = ?", update.VendorID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domainerrors.ErrVendorNotFound
			}
			return domainerrors.ErrVersionConflict
		}

		if event != nil {
			row := outboxModel{
				OutboxID:     event.EventID,
				EventType:    event.EventType,
				PartitionKey: event.PartitionKey,
				Payload:      payload,
				Status:       outboxStatusPending,
				CreatedAt:    event.OccurredAt.UTC(),
			}
			if err := tx.Create(&row).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrRepositoryInvariant
				}
				return err
			}
		}

		var row vendorModel
		if err := tx.Where("vendor_id = ?", update.VendorID).First(&row).Error; err != nil {
			return err
		}
		updated = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Vendor{}, err
	}
	return updated, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	at := sentAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": &at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("outbox row missing on mark sent",
			"event", "vendor_outbox_mark_sent_missing",
			"module", "vendor-marketplace/deal-service",
			"layer", "adapter",
			"outbox_id", outboxID,
		)
		return domainerrors.ErrRepositoryInvariant
	}
	return nil
}

type vendorModel struct {
	VendorID      string     `gorm:"column:vendor_id;primaryKey"`
	Name          string     `gorm:"column:name"`
	Category      string     `gorm:"column:category"`
	City          string     `gorm:"column:city"`
	PriceTier     string     `gorm:"column:price_tier"`
	ThumbnailURL  string     `gorm:"column:thumbnail_url"`
	RatingAverage float64    `gorm:"column:rating_average"`
	RatingCount   int        `gorm:"column:rating_count"`
	DealClosed    bool       `gorm:"column:deal_closed"`
	DealValue     *float64   `gorm:"column:deal_value"`
	DealClosedAt  *time.Time `gorm:"column:deal_closed_at"`
	Version       int64      `gorm:"column:version"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (vendorModel) TableName() string {
	return "vendors"
}

func (m vendorModel) toEntity() entities.Vendor {
	vendor := entities.Vendor{
		VendorID:      m.VendorID,
		Name:          m.Name,
		Category:      m.Category,
		City:          m.City,
		PriceTier:     m.PriceTier,
		ThumbnailURL:  m.ThumbnailURL,
		RatingAverage: m.RatingAverage,
		RatingCount:   m.RatingCount,
		DealClosed:    m.DealClosed,
		DealValue:     m.DealValue,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
	if m.DealClosedAt != nil {
		at := m.DealClosedAt.UTC()
		vendor.DealClosedAt = &at
	}
	return vendor
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "vendor_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func decodeCursor(cursor string) int {
	if strings.TrimSpace(cursor) == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0
	}
	index, err := strconv.Atoi(string(raw))
	if err != nil || index < 0 {
		return 0
	}
	return index
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}
