package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is an append-only transactional record. PaymentAt drives all
// month bucketing, so it is indexed for the range scans the aggregation
// runs.
type Order struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PaymentAt time.Time  `gorm:"column:payment_at;not null;index"`
	CartItems []CartItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
