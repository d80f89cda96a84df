package httpadapter

import (
	"vendorhub/contexts/vendor-marketplace/deal-service/application/queries"
	"vendorhub/contexts/vendor-marketplace/deal-service/domain/entities"
	"vendorhub/contexts/vendor-marketplace/deal-service/domain/services"
	httptransport "vendorhub/contexts/vendor-marketplace/deal-service/transport/http"
)

func toVendorDTO(card queries.VendorCard) httptransport.VendorDTO {
	vendor := card.Vendor
	return httptransport.VendorDTO{
		VendorID:      vendor.VendorID,
		Name:          vendor.Name,
		Category:      vendor.Category,
		City:          vendor.City,
		PriceTier:     vendor.PriceTier,
		ThumbnailURL:  vendor.ThumbnailURL,
		RatingAverage: vendor.RatingAverage,
		RatingCount:   vendor.RatingCount,
		Stars: httptransport.StarsDTO{
			Full:  card.Stars.Full,
			Half:  card.Stars.Half,
			Empty: card.Stars.Empty,
		},
		DealClosed:   vendor.DealClosed,
		DealValue:    vendor.DealValue,
		DealClosedAt: vendor.DealClosedAt,
		Version:      vendor.Version,
		UpdatedAt:    vendor.UpdatedAt,
	}
}

func starsOf(average float64) entities.Stars {
	return services.StarsFor(average)
}
