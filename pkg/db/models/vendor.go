package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a seller entity owning parent products. Reference data, created
// by upstream processes; the API only reads it.
type Vendor struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the collection name used by the upstream catalog.
func (Vendor) TableName() string {
	return "vendors"
}
