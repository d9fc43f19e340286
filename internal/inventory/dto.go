package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocktrail/stocktrail-backend/internal/categories"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// ItemDTO is the transport shape for an inventory item. The category is
// embedded on reads; writes reference it by ID.
type ItemDTO struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	Description *string                 `json:"description,omitempty"`
	Quantity    int                     `json:"quantity"`
	Price       decimal.Decimal         `json:"price"`
	Category    *categories.CategoryDTO `json:"category,omitempty"`
	CreatedBy   string                  `json:"created_by"`
	DateAdded   time.Time               `json:"date_added"`
	LastUpdated time.Time               `json:"last_updated"`
}

// ChangeDTO is the read-only transport shape for an audit row. Item and user
// render as display names; a missing user shows as "System".
type ChangeDTO struct {
	ID               uuid.UUID          `json:"id"`
	Item             string             `json:"item"`
	User             string             `json:"user"`
	Action           enums.ChangeAction `json:"action"`
	ActionDisplay    string             `json:"action_display"`
	QuantityChange   int                `json:"quantity_change"`
	PreviousQuantity *int               `json:"previous_quantity,omitempty"`
	NewQuantity      *int               `json:"new_quantity,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
	Timestamp        time.Time          `json:"timestamp"`
}

// CreateInput holds the validated payload to create an item.
type CreateInput struct {
	Name        string
	Description *string
	Quantity    int
	Price       decimal.Decimal
	CategoryID  *uuid.UUID
}

// UpdateInput holds optional mutation values for an item. ClearCategory
// distinguishes an explicit null from an omitted category reference.
type UpdateInput struct {
	Name          *string
	Description   *string
	Quantity      *int
	Price         *decimal.Decimal
	CategoryID    *uuid.UUID
	ClearCategory bool
}

// AdjustInput captures a relative stock adjustment.
type AdjustInput struct {
	Adjustment int
	Notes      string
}

func ItemFromModel(item *models.InventoryItem) *ItemDTO {
	if item == nil {
		return nil
	}

	dto := &ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Quantity:    item.Quantity,
		Price:       item.Price,
		Category:    categories.FromModel(item.Category),
		DateAdded:   item.DateAdded,
		LastUpdated: item.LastUpdated,
	}
	if item.CreatedBy != nil {
		dto.CreatedBy = item.CreatedBy.Username
	}
	return dto
}

func ChangeFromModel(change *models.InventoryChange) *ChangeDTO {
	if change == nil {
		return nil
	}

	dto := &ChangeDTO{
		ID:               change.ID,
		Action:           change.Action,
		ActionDisplay:    change.Action.Display(),
		QuantityChange:   change.QuantityChange,
		PreviousQuantity: change.PreviousQuantity,
		NewQuantity:      change.NewQuantity,
		Notes:            change.Notes,
		Timestamp:        change.Timestamp,
	}
	if change.Item != nil {
		dto.Item = change.Item.Name
	}
	dto.User = "System"
	if change.User != nil {
		dto.User = change.User.Username
	}
	return dto
}

func ChangesFromModels(list []models.InventoryChange) []ChangeDTO {
	out := make([]ChangeDTO, 0, len(list))
	for i := range list {
		out = append(out, *ChangeFromModel(&list[i]))
	}
	return out
}

func ItemsFromModels(list []models.InventoryItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(list))
	for i := range list {
		out = append(out, *ItemFromModel(&list[i]))
	}
	return out
}
