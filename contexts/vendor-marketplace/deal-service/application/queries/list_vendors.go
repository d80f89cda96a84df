package queries

import (
	"context"
	"log/slog"
	"strings"

	application "vendorhub/contexts/vendor-marketplace/deal-service/application"
	"vendorhub/contexts/vendor-marketplace/deal-service/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
	"vendorhub/contexts/vendor-marketplace/deal-service/domain/services"
	"vendorhub/contexts/vendor-marketplace/deal-service/ports"
)

const maxListLimit = 100

type ListVendorsQuery struct {
	Category string
	Limit    int
	Cursor   string
}

// VendorCard is the thumbnail projection of a vendor.
type VendorCard struct {
	Vendor entities.Vendor
	Stars  entities.Stars
}

type ListVendorsResult struct {
	Items      []VendorCard
	NextCursor string
}

type ListVendorsUseCase struct {
	Vendors ports.VendorRepository
	Catalog ports.Catalog
	Logger  *slog.Logger
}

func (u ListVendorsUseCase) Execute(ctx context.Context, query ListVendorsQuery) (ListVendorsResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if query.Limit < 0 || query.Limit > maxListLimit {
		return ListVendorsResult{}, domainerrors.ErrInvalidListFilter
	}
	category := strings.ToLower(strings.TrimSpace(query.Category))
	if category == "all" {
		category = ""
	}
	if category != "" && u.Catalog != nil && !u.Catalog.HasCategory(category) {
		return ListVendorsResult{}, domainerrors.ErrUnknownCategory
	}

	vendors, next, err := u.Vendors.ListVendors(ctx, ports.VendorListFilter{
		Category: category,
		Limit:    query.Limit,
		Cursor:   query.Cursor,
	})
	if err != nil {
		logger.Error("list vendors failed",
			"event", "vendor_list_failed",
			"module", "vendor-marketplace/deal-service",
			"layer", "application",
			"category", category,
			"error", err.Error(),
		)
		return ListVendorsResult{}, err
	}

	items := make([]VendorCard, 0, len(vendors))
	for _, vendor := range vendors {
		items = append(items, VendorCard{
			Vendor: vendor,
			Stars:  services.StarsFor(vendor.RatingAverage),
		})
	}
	return ListVendorsResult{Items: items, NextCursor: next}, nil
}
