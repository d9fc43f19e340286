package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// Default notes mirror the fixed messages used by the lifecycle paths.
// adjust_stock carries caller-provided notes instead.
const (
	noteItemCreated     = "Item created"
	noteQuantityUpdated = "Quantity updated"
	noteDetailsUpdated  = "Details updated"
	noteItemDeleted     = "Item deleted"
)

// newCreateChange records the birth of an item. The starting quantity lands
// in new_quantity; quantity_change stays zero.
func newCreateChange(item *models.InventoryItem, actorID uuid.UUID, now time.Time) *models.InventoryChange {
	qty := item.Quantity
	notes := noteItemCreated
	return &models.InventoryChange{
		ID:          uuid.New(),
		ItemID:      item.ID,
		UserID:      &actorID,
		Action:      enums.ChangeActionCreate,
		NewQuantity: &qty,
		Notes:       &notes,
		Timestamp:   now,
	}
}

// newUpdateChange classifies a general update: a quantity transition becomes
// ADD or REMOVE with the delta captured, anything else is a details UPDATE
// with no quantity fields at all.
func newUpdateChange(item *models.InventoryItem, actorID uuid.UUID, oldQuantity int, now time.Time) *models.InventoryChange {
	if item.Quantity == oldQuantity {
		notes := noteDetailsUpdated
		return &models.InventoryChange{
			ID:        uuid.New(),
			ItemID:    item.ID,
			UserID:    &actorID,
			Action:    enums.ChangeActionUpdate,
			Notes:     &notes,
			Timestamp: now,
		}
	}

	delta := item.Quantity - oldQuantity
	action := enums.ChangeActionRemove
	if delta > 0 {
		action = enums.ChangeActionAdd
	}
	prev := oldQuantity
	next := item.Quantity
	notes := noteQuantityUpdated
	return &models.InventoryChange{
		ID:               uuid.New(),
		ItemID:           item.ID,
		UserID:           &actorID,
		Action:           action,
		QuantityChange:   delta,
		PreviousQuantity: &prev,
		NewQuantity:      &next,
		Notes:            &notes,
		Timestamp:        now,
	}
}

// newAdjustmentChange records an explicit stock adjustment. A zero or
// negative adjustment classifies as REMOVE.
func newAdjustmentChange(item *models.InventoryItem, actorID uuid.UUID, adjustment, oldQuantity int, notes string, now time.Time) *models.InventoryChange {
	action := enums.ChangeActionRemove
	if adjustment > 0 {
		action = enums.ChangeActionAdd
	}
	prev := oldQuantity
	next := item.Quantity
	return &models.InventoryChange{
		ID:               uuid.New(),
		ItemID:           item.ID,
		UserID:           &actorID,
		Action:           action,
		QuantityChange:   adjustment,
		PreviousQuantity: &prev,
		NewQuantity:      &next,
		Notes:            &notes,
		Timestamp:        now,
	}
}

// newDeleteChange records the removal. The final quantity lands in
// previous_quantity; new_quantity stays empty.
func newDeleteChange(item *models.InventoryItem, actorID uuid.UUID, now time.Time) *models.InventoryChange {
	qty := item.Quantity
	notes := noteItemDeleted
	return &models.InventoryChange{
		ID:               uuid.New(),
		ItemID:           item.ID,
		UserID:           &actorID,
		Action:           enums.ChangeActionDelete,
		PreviousQuantity: &qty,
		Notes:            &notes,
		Timestamp:        now,
	}
}
