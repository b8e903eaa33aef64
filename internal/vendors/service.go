package vendors

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/dashcase/salesboard-backend/pkg/errors"
)

// Service exposes read-only vendor queries. Every call is independent and
// side-effect free.
type Service interface {
	ListVendors(ctx context.Context) ([]VendorDTO, error)
}

// VendorDTO is the wire shape for one vendor.
type VendorDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type service struct {
	repo Repository
}

// NewService constructs a vendor service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListVendors(ctx context.Context) ([]VendorDTO, error) {
	vendors, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing vendors")
	}

	out := make([]VendorDTO, 0, len(vendors))
	for _, vendor := range vendors {
		out = append(out, VendorDTO{ID: vendor.ID, Name: vendor.Name})
	}
	return out, nil
}
