package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dashcase/salesboard-backend/pkg/db/models"
	"github.com/dashcase/salesboard-backend/pkg/pagination"
)

// Filters narrow the order listing to a payment window. Zero values leave
// the corresponding bound open.
type Filters struct {
	From time.Time
	To   time.Time
}

// Page is one page of orders plus the cursor for the next one. NextCursor
// is empty on the last page.
type Page struct {
	Orders     []models.Order
	NextCursor string
}

// Repository reads the order ledger, newest payment first.
type Repository interface {
	ListOrders(ctx context.Context, params pagination.Params, filters Filters) (Page, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListOrders(ctx context.Context, params pagination.Params, filters Filters) (Page, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return Page{}, err
	}

	query := r.db.WithContext(ctx).
		Preload("CartItems")

	if !filters.From.IsZero() {
		query = query.Where("payment_at >= ?", filters.From)
	}
	if !filters.To.IsZero() {
		query = query.Where("payment_at <= ?", filters.To)
	}
	if cursor != nil {
		query = query.Where("(payment_at < ?) OR (payment_at = ? AND id < ?)",
			cursor.PaidAt, cursor.PaidAt, cursor.ID)
	}

	var orders []models.Order
	err = query.
		Order("payment_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&orders).Error
	if err != nil {
		return Page{}, err
	}

	page := Page{Orders: orders}
	if len(orders) > normalizedLimit {
		page.Orders = orders[:normalizedLimit]
		last := page.Orders[len(page.Orders)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			PaidAt: last.PaymentAt,
			ID:     last.ID,
		})
	}
	return page, nil
}
