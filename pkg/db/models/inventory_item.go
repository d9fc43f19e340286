package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is an owned stock record. The (name, category) pair is unique
// and quantity never drops below zero; both are also enforced by the schema.
// DateAdded and LastUpdated are assigned by the mutation service, not the ORM.
type InventoryItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null;uniqueIndex:idx_items_name_category"`
	Description *string         `gorm:"column:description"`
	Quantity    int             `gorm:"column:quantity;not null;default:0"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CategoryID  *uuid.UUID      `gorm:"column:category_id;type:uuid;uniqueIndex:idx_items_name_category"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CreatedByID uuid.UUID       `gorm:"column:created_by_id;type:uuid;not null"`
	CreatedBy   *User           `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	DateAdded   time.Time       `gorm:"column:date_added;not null"`
	LastUpdated time.Time       `gorm:"column:last_updated;not null"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
