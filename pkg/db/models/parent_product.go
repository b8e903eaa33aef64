package models

import (
	"time"

	"github.com/google/uuid"
)

// ParentProduct is a sellable item owned by exactly one vendor. VendorID is
// intentionally not a foreign key: stale vendor references are expected in
// the upstream catalog and are filtered at read time, not rejected.
type ParentProduct struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	VendorID  uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ParentProduct) TableName() string {
	return "parent_products"
}
