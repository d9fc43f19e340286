package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

func testItem(quantity int) *models.InventoryItem {
	return &models.InventoryItem{
		ID:       uuid.New(),
		Name:     "Widget",
		Quantity: quantity,
	}
}

func TestCreateChangeCapturesStartingQuantity(t *testing.T) {
	now := time.Now().UTC()
	actor := uuid.New()
	item := testItem(7)

	change := newCreateChange(item, actor, now)

	require.Equal(t, enums.ChangeActionCreate, change.Action)
	require.Equal(t, 0, change.QuantityChange)
	require.Nil(t, change.PreviousQuantity)
	require.NotNil(t, change.NewQuantity)
	require.Equal(t, 7, *change.NewQuantity)
	require.NotNil(t, change.Notes)
	require.Equal(t, "Item created", *change.Notes)
	require.Equal(t, &actor, change.UserID)
	require.Equal(t, now, change.Timestamp)
}

func TestUpdateChangeClassifiesQuantityTransitions(t *testing.T) {
	now := time.Now().UTC()
	actor := uuid.New()

	cases := []struct {
		name       string
		oldQty     int
		newQty     int
		wantAction enums.ChangeAction
		wantDelta  int
	}{
		{"increase is add", 3, 10, enums.ChangeActionAdd, 7},
		{"decrease is remove", 10, 4, enums.ChangeActionRemove, -6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := testItem(tc.newQty)
			change := newUpdateChange(item, actor, tc.oldQty, now)

			require.Equal(t, tc.wantAction, change.Action)
			require.Equal(t, tc.wantDelta, change.QuantityChange)
			require.Equal(t, tc.oldQty, *change.PreviousQuantity)
			require.Equal(t, tc.newQty, *change.NewQuantity)
			require.Equal(t, "Quantity updated", *change.Notes)
		})
	}
}

func TestUpdateChangeWithoutQuantityIsDetailsUpdate(t *testing.T) {
	now := time.Now().UTC()
	item := testItem(5)

	change := newUpdateChange(item, uuid.New(), 5, now)

	require.Equal(t, enums.ChangeActionUpdate, change.Action)
	require.Equal(t, 0, change.QuantityChange)
	require.Nil(t, change.PreviousQuantity)
	require.Nil(t, change.NewQuantity)
	require.Equal(t, "Details updated", *change.Notes)
}

func TestAdjustmentChangeZeroClassifiesAsRemove(t *testing.T) {
	now := time.Now().UTC()
	item := testItem(5)

	change := newAdjustmentChange(item, uuid.New(), 0, 5, "stocktake", now)

	require.Equal(t, enums.ChangeActionRemove, change.Action)
	require.Equal(t, 0, change.QuantityChange)
	require.Equal(t, 5, *change.PreviousQuantity)
	require.Equal(t, 5, *change.NewQuantity)
	require.Equal(t, "stocktake", *change.Notes)
}

func TestDeleteChangeCapturesFinalQuantity(t *testing.T) {
	now := time.Now().UTC()
	item := testItem(9)

	change := newDeleteChange(item, uuid.New(), now)

	require.Equal(t, enums.ChangeActionDelete, change.Action)
	require.Equal(t, 0, change.QuantityChange)
	require.Equal(t, 9, *change.PreviousQuantity)
	require.Nil(t, change.NewQuantity)
	require.Equal(t, "Item deleted", *change.Notes)
}
