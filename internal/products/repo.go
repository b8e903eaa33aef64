package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dashcase/salesboard-backend/pkg/db/models"
)

// Repository defines read access to the product catalog plus the lifetime
// unit-sales rollup backing the product table.
type Repository interface {
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.ParentProduct, error)
	MapByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.ParentProduct, error)
	LifetimeUnitsByProduct(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.ParentProduct, error) {
	var products []models.ParentProduct
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) MapByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.ParentProduct, error) {
	result := make(map[uuid.UUID]models.ParentProduct, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var products []models.ParentProduct
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		result[product.ID] = product
	}
	return result, nil
}

type lifetimeUnitsRow struct {
	ProductID uuid.UUID `gorm:"column:product_id"`
	Units     int64     `gorm:"column:units"`
}

// LifetimeUnitsByProduct sums item_count*quantity per product across all
// cart lines, with no date filter. Products with no sales are simply absent
// from the map.
func (r *repository) LifetimeUnitsByProduct(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	result := make(map[uuid.UUID]int64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var rows []lifetimeUnitsRow
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Select("product_id, SUM(item_count * quantity) AS units").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ProductID] = row.Units
	}
	return result, nil
}
