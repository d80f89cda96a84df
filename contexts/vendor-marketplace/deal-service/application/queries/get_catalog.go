package queries

import "vendorhub/contexts/vendor-marketplace/deal-service/ports"

type CatalogResult struct {
	Categories   []ports.Category
	PricingPlans []ports.PricingPlan
}

// GetCatalogUseCase exposes the static lookup tables.
type GetCatalogUseCase struct {
	Catalog ports.Catalog
}

func (u GetCatalogUseCase) Execute() CatalogResult {
	if u.Catalog == nil {
		return CatalogResult{}
	}
	return CatalogResult{
		Categories:   u.Catalog.Categories(),
		PricingPlans: u.Catalog.PricingPlans(),
	}
}

func (u GetCatalogUseCase) Translate(codeOrMessage string) string {
	if u.Catalog == nil {
		return codeOrMessage
	}
	return u.Catalog.Translate(codeOrMessage)
}
