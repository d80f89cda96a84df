package entities

import "time"

// Vendor is one event-services supplier listed in the marketplace.
type Vendor struct {
	VendorID      string     `json:"vendor_id"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	City          string     `json:"city"`
	PriceTier     string     `json:"price_tier"`
	ThumbnailURL  string     `json:"thumbnail_url"`
	RatingAverage float64    `json:"rating_average"`
	RatingCount   int        `json:"rating_count"`
	DealClosed    bool       `json:"deal_closed"`
	DealValue     *float64   `json:"deal_value,omitempty"`
	DealClosedAt  *time.Time `json:"deal_closed_at,omitempty"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Stars is the five-slot rating display shown on vendor cards.
type Stars struct {
	Full  int `json:"full"`
	Half  int `json:"half"`
	Empty int `json:"empty"`
}
