package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dashcase/salesboard-backend/pkg/db/models"
	pkgerrors "github.com/dashcase/salesboard-backend/pkg/errors"
	"github.com/dashcase/salesboard-backend/pkg/pagination"
)

// OrderLineDTO is the wire shape for one cart line.
type OrderLineDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	Series      string          `json:"series"`
	ItemCount   int64           `json:"item_count"`
	Quantity    int64           `json:"quantity"`
	COGS        decimal.Decimal `json:"cogs"`
	Price       decimal.Decimal `json:"price"`
	OrderStatus string          `json:"order_status"`
}

// OrderDTO is the wire shape for one order with its lines.
type OrderDTO struct {
	ID        uuid.UUID      `json:"id"`
	PaymentAt time.Time      `json:"payment_at"`
	CartItems []OrderLineDTO `json:"cart_items"`
}

// OrderPageDTO wraps one page of orders with the follow-up cursor.
type OrderPageDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// Service exposes the paginated order listing backing the dashboard's raw
// order view.
type Service interface {
	ListOrders(ctx context.Context, params pagination.Params, filters Filters) (*OrderPageDTO, error)
}

type service struct {
	repo Repository
}

// NewService constructs an order service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters Filters) (*OrderPageDTO, error) {
	if !filters.From.IsZero() && !filters.To.IsZero() && filters.From.After(filters.To) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must not be after to")
	}

	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	page, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}

	out := &OrderPageDTO{
		Orders:     make([]OrderDTO, 0, len(page.Orders)),
		NextCursor: page.NextCursor,
	}
	for _, order := range page.Orders {
		out.Orders = append(out.Orders, toOrderDTO(order))
	}
	return out, nil
}

func toOrderDTO(order models.Order) OrderDTO {
	dto := OrderDTO{
		ID:        order.ID,
		PaymentAt: order.PaymentAt,
		CartItems: make([]OrderLineDTO, 0, len(order.CartItems)),
	}
	for _, item := range order.CartItems {
		dto.CartItems = append(dto.CartItems, OrderLineDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Series:      item.Series,
			ItemCount:   item.ItemCount,
			Quantity:    item.Quantity,
			COGS:        item.COGS,
			Price:       item.Price,
			OrderStatus: item.OrderStatus.String(),
		})
	}
	return dto
}
