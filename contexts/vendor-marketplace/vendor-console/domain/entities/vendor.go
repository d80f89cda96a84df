package entities

import "time"

// VendorSummary is the console view of a vendor card.
type VendorSummary struct {
	VendorID      string
	Name          string
	Category      string
	City          string
	RatingAverage float64
	FullStars     int
	HalfStars     int
	EmptyStars    int
	DealClosed    bool
	DealValue     *float64
	DealClosedAt  *time.Time
	Version       int64
}
