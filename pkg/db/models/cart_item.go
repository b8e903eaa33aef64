package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dashcase/salesboard-backend/pkg/enums"
)

// CartItem is one line within an order. The upstream store embeds these in
// the order document; relationally they live in their own table and are
// preloaded with the parent order. ProductID is deliberately unenforced:
// lines referencing deleted products survive and are dropped during
// aggregation.
type CartItem struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	VariantID    uuid.UUID         `gorm:"column:variant_id;type:uuid;not null"`
	Series       string            `gorm:"column:series;not null"`
	ItemCount    int64             `gorm:"column:item_count;not null"`
	Quantity     int64             `gorm:"column:quantity;not null"`
	COGS         decimal.Decimal   `gorm:"column:cogs;type:numeric;not null"`
	Price        decimal.Decimal   `gorm:"column:price;type:numeric;not null"`
	VendorMargin decimal.Decimal   `gorm:"column:vendor_margin;type:numeric;not null"`
	OrderStatus  enums.OrderStatus `gorm:"column:order_status;type:text;not null"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// UnitsSold returns the unit total this line contributes to sales counts.
func (c CartItem) UnitsSold() int64 {
	return c.ItemCount * c.Quantity
}
