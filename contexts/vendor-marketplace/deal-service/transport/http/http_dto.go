package httptransport

import "time"

type ListVendorsRequest struct {
	Category string
	Limit    int
	Cursor   string
}

type StarsDTO struct {
	Full  int `json:"full"`
	Half  int `json:"half"`
	Empty int `json:"empty"`
}

// VendorDTO is the card/detail view of a vendor record.
type VendorDTO struct {
	VendorID      string     `json:"vendor_id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	City          string     `json:"city"`
	PriceTier     string     `json:"price_tier"`
	ThumbnailURL  string     `json:"thumbnail_url,omitempty"`
	RatingAverage float64    `json:"rating_average"`
	RatingCount   int        `json:"rating_count"`
	Stars         StarsDTO   `json:"stars"`
	DealClosed    bool       `json:"deal_closed"`
	DealValue     *float64   `json:"deal_value,omitempty"`
	DealClosedAt  *time.Time `json:"deal_closed_at,omitempty"`
	Version       int64      `json:"version"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ListVendorsResponse struct {
	Items      []VendorDTO `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// UpdateVendorRequest carries an explicit field/value mapping.
type UpdateVendorRequest struct {
	Fields          map[string]any `json:"fields"`
	ExpectedVersion *int64         `json:"expected_version,omitempty"`
}

// CloseDealRequest accepts deal_value as a JSON number or as text such as "150,50".
type CloseDealRequest struct {
	DealValue       any    `json:"deal_value"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

type CloseDealResponse struct {
	Vendor         VendorDTO `json:"vendor"`
	FormattedValue string    `json:"formatted_value"`
}

type CategoryDTO struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

type PricingPlanDTO struct {
	PlanID            string   `json:"plan_id"`
	Label             string   `json:"label"`
	MonthlyPriceCents int64    `json:"monthly_price_cents"`
	Highlighted       bool     `json:"highlighted"`
	Features          []string `json:"features"`
}

type CatalogResponse struct {
	Categories   []CategoryDTO    `json:"categories"`
	PricingPlans []PricingPlanDTO `json:"pricing_plans"`
}

type TranslateResponse struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
