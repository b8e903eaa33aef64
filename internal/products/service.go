package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/dashcase/salesboard-backend/pkg/errors"
)

// Service joins a vendor's products with their lifetime unit sales.
type Service interface {
	VendorProductsWithSales(ctx context.Context, vendorID uuid.UUID) ([]ProductWithSales, error)
}

// ProductWithSales is the wire shape for one product row in the dashboard
// table. AllTimeSales is units sold across every order ever recorded.
type ProductWithSales struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	VendorID     uuid.UUID `json:"vendor_id"`
	AllTimeSales int64     `json:"all_time_sales"`
}

type service struct {
	repo Repository
}

// NewService constructs a product service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// VendorProductsWithSales returns every product owned by the vendor, each
// carrying its lifetime unit total. A product with no sales stays in the
// result with a zero total; an unknown vendor yields an empty list.
func (s *service) VendorProductsWithSales(ctx context.Context, vendorID uuid.UUID) ([]ProductWithSales, error) {
	catalog, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing vendor products")
	}

	ids := make([]uuid.UUID, 0, len(catalog))
	for _, product := range catalog {
		ids = append(ids, product.ID)
	}

	units, err := s.repo.LifetimeUnitsByProduct(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summing lifetime sales")
	}

	out := make([]ProductWithSales, 0, len(catalog))
	for _, product := range catalog {
		out = append(out, ProductWithSales{
			ID:           product.ID,
			Name:         product.Name,
			VendorID:     product.VendorID,
			AllTimeSales: units[product.ID],
		})
	}
	return out, nil
}
