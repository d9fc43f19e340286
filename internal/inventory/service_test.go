package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/internal/categories"
	"github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn), categories.NewRepository(conn), db.FromConn(conn))
	require.NoError(t, err)
	return svc, conn
}

func price(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func TestCreateRecordsCreateChange(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")

	item, err := svc.Create(ctx, owner.ID, CreateInput{
		Name:     "Widget",
		Quantity: 7,
		Price:    price("9.99"),
	})
	require.NoError(t, err)
	require.Equal(t, 7, item.Quantity)
	require.Equal(t, "alice", item.CreatedBy)
	require.False(t, item.DateAdded.IsZero())

	changes := loadChanges(t, conn, item.ID)
	require.Len(t, changes, 1)
	require.Equal(t, enums.ChangeActionCreate, changes[0].Action)
	require.Equal(t, 0, changes[0].QuantityChange)
	require.Nil(t, changes[0].PreviousQuantity)
	require.Equal(t, 7, *changes[0].NewQuantity)
}

func TestCreateRejectsInvalidPayloads(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")

	_, err := svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: -1, Price: price("1.00")})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 1, Price: price("0")})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	unknown := uuid.New()
	_, err = svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 1, Price: price("1.00"), CategoryID: &unknown})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateDuplicateNameInCategoryConflicts(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")
	category := mustCreateTestCategory(t, conn, "Hardware")

	_, err := svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 1, Price: price("1.00"), CategoryID: &category.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 2, Price: price("2.00"), CategoryID: &category.ID})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestUpdateQuantityRecordsAddOrRemove(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")

	item, err := svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 3, Price: price("1.00")})
	require.NoError(t, err)

	ten := 10
	updated, err := svc.Update(ctx, owner.ID, item.ID, UpdateInput{Quantity: &ten})
	require.NoError(t, err)
	require.Equal(t, 10, updated.Quantity)

	four := 4
	_, err = svc.Update(ctx, owner.ID, item.ID, UpdateInput{Quantity: &four})
	require.NoError(t, err)

	changes := loadChanges(t, conn, item.ID)
	require.Len(t, changes, 3)

	byAction := map[enums.ChangeAction]models.InventoryChange{}
	for _, c := range changes {
		byAction[c.Action] = c
	}

	add := byAction[enums.ChangeActionAdd]
	require.Equal(t, 7, add.QuantityChange)
	require.Equal(t, 3, *add.PreviousQuantity)
	require.Equal(t, 10, *add.NewQuantity)

	remove := byAction[enums.ChangeActionRemove]
	require.Equal(t, -6, remove.QuantityChange)
	require.Equal(t, 10, *remove.PreviousQuantity)
	require.Equal(t, 4, *remove.NewQuantity)
}

func TestUpdateDetailsOnlyRecordsUpdate(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")

	item, err := svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 3, Price: price("1.00")})
	require.NoError(t, err)

	name := "Widget Pro"
	updated, err := svc.Update(ctx, owner.ID, item.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
	require.Equal(t, 3, updated.Quantity)

	changes := loadChanges(t, conn, item.ID)
	require.Len(t, changes, 2)
	var details *models.InventoryChange
	for i := range changes {
		if changes[i].Action == enums.ChangeActionUpdate {
			details = &changes[i]
		}
	}
	require.NotNil(t, details)
	require.Equal(t, 0, details.QuantityChange)
	require.Nil(t, details.PreviousQuantity)
	require.Nil(t, details.NewQuantity)
}

func TestUpdateClearsCategoryOnExplicitNull(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")
	category := mustCreateTestCategory(t, conn, "Hardware")

	item, err := svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 1, Price: price("1.00"), CategoryID: &category.ID})
	require.NoError(t, err)
	require.NotNil(t, item.Category)

	updated, err := svc.Update(ctx, owner.ID, item.ID, UpdateInput{ClearCategory: true})
	require.NoError(t, err)
	require.Nil(t, updated.Category)
}

func TestAdjustStockAppliesDeltaAndNotes(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")

	item, err := svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 5, Price: price("1.00")})
	require.NoError(t, err)

	adjusted, err := svc.AdjustStock(ctx, owner.ID, item.ID, AdjustInput{Adjustment: -3, Notes: "damaged in transit"})
	require.NoError(t, err)
	require.Equal(t, 2, adjusted.Quantity)

	changes := loadChanges(t, conn, item.ID)
	require.Len(t, changes, 2)
	var adj *models.InventoryChange
	for i := range changes {
		if changes[i].QuantityChange == -3 {
			adj = &changes[i]
		}
	}
	require.NotNil(t, adj)
	require.Equal(t, enums.ChangeActionRemove, adj.Action)
	require.Equal(t, "damaged in transit", *adj.Notes)
}

func TestAdjustStockRejectsNegativeResult(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")

	item, err := svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 2, Price: price("1.00")})
	require.NoError(t, err)

	_, err = svc.AdjustStock(ctx, owner.ID, item.ID, AdjustInput{Adjustment: -5})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	require.Equal(t, "Resulting quantity cannot be negative.", appErr.Message())

	// rejected adjustment leaves quantity and history untouched
	got, err := svc.Get(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Quantity)
	require.Len(t, loadChanges(t, conn, item.ID), 1)
}

func TestDeleteRemovesItemAndHidesIt(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")

	item, err := svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 2, Price: price("1.00")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner.ID, item.ID))

	_, err = svc.Get(ctx, owner.ID, item.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestOwnershipScopingHidesForeignItems(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	alice := mustCreateTestUser(t, conn, "alice")
	bob := mustCreateTestUser(t, conn, "bob")

	item, err := svc.Create(ctx, alice.ID, CreateInput{Name: "Widget", Quantity: 2, Price: price("1.00")})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob.ID, item.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	qty := 9
	_, err = svc.Update(ctx, bob.ID, item.ID, UpdateInput{Quantity: &qty})
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = svc.Delete(ctx, bob.ID, item.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	list, err := svc.List(ctx, ListInput{OwnerID: bob.ID})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestListAppliesFiltersAndOrdering(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")
	category := mustCreateTestCategory(t, conn, "Hardware")

	seed := []struct {
		name     string
		quantity int
		price    string
		category *uuid.UUID
	}{
		{"Bolts", 100, "0.10", &category.ID},
		{"Drill", 2, "89.99", &category.ID},
		{"Glue stick", 40, "1.99", nil},
	}
	for _, s := range seed {
		_, err := svc.Create(ctx, owner.ID, CreateInput{
			Name: s.name, Quantity: s.quantity, Price: price(s.price), CategoryID: s.category,
		})
		require.NoError(t, err)
	}

	lowStock := 10
	low, err := svc.List(ctx, ListInput{OwnerID: owner.ID, Filters: ListFilters{LowStock: &lowStock}})
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "Drill", low[0].Name)

	minPrice := price("1.00")
	maxPrice := price("10.00")
	priced, err := svc.List(ctx, ListInput{OwnerID: owner.ID, Filters: ListFilters{MinPrice: &minPrice, MaxPrice: &maxPrice}})
	require.NoError(t, err)
	require.Len(t, priced, 1)
	require.Equal(t, "Glue stick", priced[0].Name)

	inCategory, err := svc.List(ctx, ListInput{OwnerID: owner.ID, Filters: ListFilters{CategoryID: &category.ID}})
	require.NoError(t, err)
	require.Len(t, inCategory, 2)

	searched, err := svc.List(ctx, ListInput{OwnerID: owner.ID, Filters: ListFilters{Search: "glue"}})
	require.NoError(t, err)
	require.Len(t, searched, 1)

	byName, err := svc.List(ctx, ListInput{OwnerID: owner.ID, Ordering: "name"})
	require.NoError(t, err)
	require.Len(t, byName, 3)
	require.Equal(t, "Bolts", byName[0].Name)
	require.Equal(t, "Glue stick", byName[2].Name)
}

func TestHistoryReturnsNewestFirst(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := mustCreateTestUser(t, conn, "alice")

	item, err := svc.Create(ctx, owner.ID, CreateInput{Name: "Widget", Quantity: 2, Price: price("1.00")})
	require.NoError(t, err)
	_, err = svc.AdjustStock(ctx, owner.ID, item.ID, AdjustInput{Adjustment: 3})
	require.NoError(t, err)

	history, err := svc.History(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "Widget", history[0].Item)
	require.Equal(t, "alice", history[0].User)
	require.False(t, history[0].Timestamp.Before(history[1].Timestamp))
}

func TestListChangesScopesToActor(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	alice := mustCreateTestUser(t, conn, "alice")
	bob := mustCreateTestUser(t, conn, "bob")

	_, err := svc.Create(ctx, alice.ID, CreateInput{Name: "Widget", Quantity: 2, Price: price("1.00")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob.ID, CreateInput{Name: "Gadget", Quantity: 1, Price: price("2.00")})
	require.NoError(t, err)

	mine, err := svc.ListChanges(ctx, alice.ID, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Widget", mine[0].Item)
}
