package httpadapter

import (
	"context"
	"log/slog"

	application "vendorhub/contexts/vendor-marketplace/deal-service/application"
	"vendorhub/contexts/vendor-marketplace/deal-service/application/commands"
	"vendorhub/contexts/vendor-marketplace/deal-service/application/queries"
	domainerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
	httptransport "vendorhub/contexts/vendor-marketplace/deal-service/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	ListVendors  queries.ListVendorsUseCase
	GetVendor    queries.GetVendorUseCase
	GetCatalog   queries.GetCatalogUseCase
	UpdateVendor commands.UpdateVendorUseCase
	CloseDeal    commands.CloseDealUseCase
	Logger       *slog.Logger
}

func (h Handler) ListVendorsHandler(
	ctx context.Context,
	request httptransport.ListVendorsRequest,
) (httptransport.ListVendorsResponse, error) {
	result, err := h.ListVendors.Execute(ctx, queries.ListVendorsQuery{
		Category: request.Category,
		Limit:    request.Limit,
		Cursor:   request.Cursor,
	})
	if err != nil {
		return httptransport.ListVendorsResponse{}, err
	}
	items := make([]httptransport.VendorDTO, 0, len(result.Items))
	for _, card := range result.Items {
		items = append(items, toVendorDTO(card))
	}
	return httptransport.ListVendorsResponse{
		Items:      items,
		NextCursor: result.NextCursor,
	}, nil
}

func (h Handler) GetVendorHandler(ctx context.Context, vendorID string) (httptransport.VendorDTO, error) {
	card, err := h.GetVendor.Execute(ctx, vendorID)
	if err != nil {
		return httptransport.VendorDTO{}, err
	}
	return toVendorDTO(card), nil
}

func (h Handler) UpdateVendorHandler(
	ctx context.Context,
	actorID string,
	vendorID string,
	request httptransport.UpdateVendorRequest,
) (httptransport.VendorDTO, error) {
	vendor, err := h.UpdateVendor.Execute(ctx, commands.UpdateVendorCommand{
		VendorID:        vendorID,
		ActorID:         actorID,
		Fields:          request.Fields,
		ExpectedVersion: request.ExpectedVersion,
	})
	if err != nil {
		return httptransport.VendorDTO{}, err
	}
	return toVendorDTO(queries.VendorCard{Vendor: vendor, Stars: starsOf(vendor.RatingAverage)}), nil
}

// CloseDealHandler closes a vendor deal with a numeric or text deal value.
func (h Handler) CloseDealHandler(
	ctx context.Context,
	actorID string,
	vendorID string,
	request httptransport.CloseDealRequest,
) (httptransport.CloseDealResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http close deal received",
		"event", "deal_http_close_received",
		"module", "vendor-marketplace/deal-service",
		"layer", "transport",
		"vendor_id", vendorID,
		"actor_id", actorID,
	)

	cmd := commands.CloseDealCommand{
		VendorID:        vendorID,
		ActorID:         actorID,
		ExpectedVersion: request.ExpectedVersion,
	}
	switch value := request.DealValue.(type) {
	case float64:
		cmd.DealValue = value
	case string:
		cmd.RawDealValue = value
	default:
		return httptransport.CloseDealResponse{}, domainerrors.ErrInvalidDealValue
	}

	result, err := h.CloseDeal.Execute(ctx, cmd)
	if err != nil {
		return httptransport.CloseDealResponse{}, err
	}
	return httptransport.CloseDealResponse{
		Vendor:         toVendorDTO(queries.VendorCard{Vendor: result.Vendor, Stars: starsOf(result.Vendor.RatingAverage)}),
		FormattedValue: result.FormattedValue,
	}, nil
}

func (h Handler) CatalogHandler() httptransport.CatalogResponse {
	result := h.GetCatalog.Execute()
	categories := make([]httptransport.CategoryDTO, 0, len(result.Categories))
	for _, category := range result.Categories {
		categories = append(categories, httptransport.CategoryDTO{
			Slug:  category.Slug,
			Label: category.Label,
			Icon:  category.Icon,
		})
	}
	plans := make([]httptransport.PricingPlanDTO, 0, len(result.PricingPlans))
	for _, plan := range result.PricingPlans {
		plans = append(plans, httptransport.PricingPlanDTO{
			PlanID:            plan.PlanID,
			Label:             plan.Label,
			MonthlyPriceCents: plan.MonthlyPriceCents,
			Highlighted:       plan.Highlighted,
			Features:          append([]string(nil), plan.Features...),
		})
	}
	return httptransport.CatalogResponse{Categories: categories, PricingPlans: plans}
}

func (h Handler) TranslateHandler(key string) httptransport.TranslateResponse {
	return httptransport.TranslateResponse{
		Key:     key,
		Message: h.GetCatalog.Translate(key),
	}
}
