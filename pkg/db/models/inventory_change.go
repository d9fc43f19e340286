package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// InventoryChange is one append-only audit row for an item transition.
// Rows are only ever written by the change recorder; there is no update or
// delete path. UserID survives user deletion as null ("System").
type InventoryChange struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID           uuid.UUID          `gorm:"column:item_id;type:uuid;not null;index"`
	Item             *InventoryItem     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	UserID           *uuid.UUID         `gorm:"column:user_id;type:uuid"`
	User             *User              `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Action           enums.ChangeAction `gorm:"column:action;type:text;not null"`
	QuantityChange   int                `gorm:"column:quantity_change;not null;default:0"`
	PreviousQuantity *int               `gorm:"column:previous_quantity"`
	NewQuantity      *int               `gorm:"column:new_quantity"`
	Notes            *string            `gorm:"column:notes"`
	Timestamp        time.Time          `gorm:"column:timestamp;not null"`
}

func (InventoryChange) TableName() string {
	return "inventory_changes"
}
