package entities

import "time"

const (
	FieldDealClosed   = "deal_closed"
	FieldDealValue    = "deal_value"
	FieldDealClosedAt = "deal_closed_at"
	FieldName         = "name"
	FieldCity         = "city"
	FieldPriceTier    = "price_tier"
	FieldThumbnailURL = "thumbnail_url"
)

// VendorUpdate is a single-record write keyed by vendor id.
// ExpectedVersion is optional; nil means last writer wins.
type VendorUpdate struct {
	VendorID        string
	Fields          map[string]any
	ExpectedVersion *int64
	UpdatedAt       time.Time
}

// Apply copies accepted field values onto the vendor and bumps its version.
// Fields must already be normalized by services.NormalizeFields.
func (v Vendor) Apply(update VendorUpdate) Vendor {
	out := v
	for name, value := range update.Fields {
		switch name {
		case FieldDealClosed:
			out.DealClosed = value.(bool)
		case FieldDealValue:
			if value == nil {
				out.DealValue = nil
				continue
			}
			amount := value.(float64)
			out.DealValue = &amount
		case FieldDealClosedAt:
			if value == nil {
				out.DealClosedAt = nil
				continue
			}
			at := value.(time.Time).UTC()
			out.DealClosedAt = &at
		case FieldName:
			out.Name = value.(string)
		case FieldCity:
			out.City = value.(string)
		case FieldPriceTier:
			out.PriceTier = value.(string)
		case FieldThumbnailURL:
			out.ThumbnailURL = value.(string)
		}
	}
	out.Version = v.Version + 1
	out.UpdatedAt = update.UpdatedAt.UTC()
	return out
}
