package categories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn), db.FromConn(conn))
	require.NoError(t, err)
	return svc, conn
}

func TestCreateAndGetCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	desc := "perishable goods"
	created, err := svc.Create(ctx, CreateInput{Name: "Produce", Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "Produce", created.Name)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.Description)
	require.Equal(t, desc, *got.Description)
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Hardware"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Name: "Hardware"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestListFiltersByNameFragment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Produce", "Hardware", "Prototyping"} {
		_, err := svc.Create(ctx, CreateInput{Name: name})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	matches, err := svc.List(ctx, "PRO")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	none, err := svc.List(ctx, "zzz")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestUpdateRenamesCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Produce"})
	require.NoError(t, err)

	name := "Fresh Produce"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)

	_, err = svc.Update(ctx, uuid.New(), UpdateInput{Name: &name})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteNullsItemReferences(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Produce"})
	require.NoError(t, err)

	owner := &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, conn.Create(owner).Error)

	now := time.Now().UTC()
	item := &models.InventoryItem{
		ID:          uuid.New(),
		Name:        "Apples",
		Quantity:    4,
		Price:       decimal.RequireFromString("1.25"),
		CategoryID:  &created.ID,
		CreatedByID: owner.ID,
		DateAdded:   now,
		LastUpdated: now,
	}
	require.NoError(t, conn.Create(item).Error)

	require.NoError(t, svc.Delete(ctx, created.ID))

	var reloaded models.InventoryItem
	require.NoError(t, conn.First(&reloaded, "id = ?", item.ID).Error)
	require.Nil(t, reloaded.CategoryID)

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
