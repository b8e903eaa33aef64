package vendors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dashcase/salesboard-backend/pkg/db/models"
)

// Repository defines read access to the vendor catalog.
type Repository interface {
	List(ctx context.Context) ([]models.Vendor, error)
	MapByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Vendor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a vendor repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *repository) MapByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Vendor, error) {
	result := make(map[uuid.UUID]models.Vendor, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}
	for _, vendor := range vendors {
		result[vendor.ID] = vendor
	}
	return result, nil
}
