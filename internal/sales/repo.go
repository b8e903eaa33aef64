package sales

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dashcase/salesboard-backend/pkg/db/models"
)

// Repository loads paid orders for aggregation. Errors are returned raw;
// the service layer wraps them with typed codes.
type Repository interface {
	FindOrdersPaidBetween(ctx context.Context, start, end time.Time) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindOrdersPaidBetween(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("CartItems").
		Where("payment_at >= ? AND payment_at <= ?", start, end).
		Order("payment_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
