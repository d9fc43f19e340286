package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
)

// Repository wires together item and change persistence. Items are always
// addressed by (id, created_by); a foreign row behaves like a missing one.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new item.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindOwnedByID loads an item with its associations.
func (r *Repository) FindOwnedByID(ctx context.Context, id, ownerID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("CreatedBy").
		Where("id = ? AND created_by_id = ?", id, ownerID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindOwnedByIDForUpdate loads the bare item row under a row lock so
// concurrent mutations serialize. The lock is a Postgres feature; the sqlite
// test driver serializes writes on its own.
func (r *Repository) FindOwnedByIDForUpdate(ctx context.Context, id, ownerID uuid.UUID) (*models.InventoryItem, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item models.InventoryItem
	if err := query.
		Where("id = ? AND created_by_id = ?", id, ownerID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Save persists the full item row.
func (r *Repository) Save(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes the item row. Audit rows cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns the owner's items with filters and ordering applied.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.InventoryItem, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("CreatedBy").
		Where("created_by_id = ?", input.OwnerID).
		Order(ItemOrderClause(input.Ordering))

	filters := input.Filters
	if filters.LowStock != nil {
		query = query.Where("quantity < ?", *filters.LowStock)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Quantity != nil {
		query = query.Where("quantity = ?", *filters.Quantity)
	}
	if filters.Search != "" {
		needle := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", needle, needle)
	}

	var items []models.InventoryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateChange appends one audit row. There is no update or delete path.
func (r *Repository) CreateChange(ctx context.Context, change *models.InventoryChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

// ListChangesByItem returns all audit rows for the item, newest first.
func (r *Repository) ListChangesByItem(ctx context.Context, itemID uuid.UUID) ([]models.InventoryChange, error) {
	var changes []models.InventoryChange
	if err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("User").
		Where("item_id = ?", itemID).
		Order("timestamp DESC").
		Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}

// ListChangesByUser returns the audit rows recorded by the user.
func (r *Repository) ListChangesByUser(ctx context.Context, userID uuid.UUID, ordering string) ([]models.InventoryChange, error) {
	var changes []models.InventoryChange
	if err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("User").
		Where("user_id = ?", userID).
		Order(ChangeOrderClause(ordering)).
		Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}
