package queries

import (
	"context"
	"strings"

	domainerrors "vendorhub/contexts/vendor-marketplace/deal-service/domain/errors"
	"vendorhub/contexts/vendor-marketplace/deal-service/domain/services"
	"vendorhub/contexts/vendor-marketplace/deal-service/ports"
)

type GetVendorUseCase struct {
	Vendors ports.VendorRepository
}

func (u GetVendorUseCase) Execute(ctx context.Context, vendorID string) (VendorCard, error) {
	vendorID = strings.TrimSpace(vendorID)
	if vendorID == "" {
		return VendorCard{}, domainerrors.ErrInvalidVendorID
	}
	vendor, err := u.Vendors.GetVendor(ctx, vendorID)
	if err != nil {
		return VendorCard{}, err
	}
	return VendorCard{Vendor: vendor, Stars: services.StarsFor(vendor.RatingAverage)}, nil
}
