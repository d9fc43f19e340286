package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/internal/categories"
	"github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

// Service exposes owned inventory operations. Every mutation runs in one
// transaction that covers the item write and its audit row; if either fails
// both roll back.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*ItemDTO, error)
	Get(ctx context.Context, actorID, id uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context, input ListInput) ([]ItemDTO, error)
	Update(ctx context.Context, actorID, id uuid.UUID, input UpdateInput) (*ItemDTO, error)
	AdjustStock(ctx context.Context, actorID, id uuid.UUID, input AdjustInput) (*ItemDTO, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	History(ctx context.Context, actorID, id uuid.UUID) ([]ChangeDTO, error)
	ListChanges(ctx context.Context, actorID uuid.UUID, ordering string) ([]ChangeDTO, error)
}

type service struct {
	repo         *Repository
	categoryRepo *categories.Repository
	dbClient     *db.Client
	now          func() time.Time
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, categoryRepo *categories.Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if categoryRepo == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:         repo,
		categoryRepo: categoryRepo,
		dbClient:     dbClient,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// Create inserts the item and records a CREATE audit row in one transaction.
func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Quantity cannot be negative.")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Price must be positive.")
	}

	now := s.now()
	item := &models.InventoryItem{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		Quantity:    input.Quantity,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		CreatedByID: actorID,
		DateAdded:   now,
		LastUpdated: now,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if input.CategoryID != nil {
			if err := s.ensureCategory(ctx, tx, *input.CategoryID); err != nil {
				return err
			}
		}

		if _, err := txRepo.Create(ctx, item); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "an item with this name already exists in the category")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
		}

		if err := txRepo.CreateChange(ctx, newCreateChange(item, actorID, now)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record change")
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "create item")
	}

	return s.reload(ctx, actorID, item.ID)
}

// Get returns the owned item or NotFound.
func (s *service) Get(ctx context.Context, actorID, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindOwnedByID(ctx, id, actorID)
	if err != nil {
		return nil, itemLookupError(err)
	}
	return ItemFromModel(item), nil
}

// List returns the owner's items with filters applied.
func (s *service) List(ctx context.Context, input ListInput) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list items")
	}
	return ItemsFromModels(items), nil
}

// Update applies the provided fields and records the classified audit row.
func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, input UpdateInput) (*ItemDTO, error) {
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Quantity cannot be negative.")
	}
	if input.Price != nil && !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Price must be positive.")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		item, err := txRepo.FindOwnedByIDForUpdate(ctx, id, actorID)
		if err != nil {
			return itemLookupError(err)
		}
		oldQuantity := item.Quantity

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
			}
			item.Name = name
		}
		if input.Description != nil {
			item.Description = input.Description
		}
		if input.Quantity != nil {
			item.Quantity = *input.Quantity
		}
		if input.Price != nil {
			item.Price = *input.Price
		}
		if input.ClearCategory {
			item.CategoryID = nil
		} else if input.CategoryID != nil {
			if err := s.ensureCategory(ctx, tx, *input.CategoryID); err != nil {
				return err
			}
			item.CategoryID = input.CategoryID
		}

		now := s.now()
		item.LastUpdated = now
		if err := txRepo.Save(ctx, item); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "an item with this name already exists in the category")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
		}

		if err := txRepo.CreateChange(ctx, newUpdateChange(item, actorID, oldQuantity, now)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record change")
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "update item")
	}

	return s.reload(ctx, actorID, id)
}

// AdjustStock applies a relative quantity adjustment. The resulting quantity
// must stay non-negative.
func (s *service) AdjustStock(ctx context.Context, actorID, id uuid.UUID, input AdjustInput) (*ItemDTO, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		item, err := txRepo.FindOwnedByIDForUpdate(ctx, id, actorID)
		if err != nil {
			return itemLookupError(err)
		}

		newQuantity := item.Quantity + input.Adjustment
		if newQuantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "Resulting quantity cannot be negative.")
		}

		oldQuantity := item.Quantity
		now := s.now()
		item.Quantity = newQuantity
		item.LastUpdated = now
		if err := txRepo.Save(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
		}

		change := newAdjustmentChange(item, actorID, input.Adjustment, oldQuantity, input.Notes, now)
		if err := txRepo.CreateChange(ctx, change); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record change")
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError(err, "adjust stock")
	}

	return s.reload(ctx, actorID, id)
}

// Delete records the DELETE audit row and then removes the item, in that
// order, inside one transaction.
func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		item, err := txRepo.FindOwnedByIDForUpdate(ctx, id, actorID)
		if err != nil {
			return itemLookupError(err)
		}

		if err := txRepo.CreateChange(ctx, newDeleteChange(item, actorID, s.now())); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record change")
		}
		if err := txRepo.Delete(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete item")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return appErr
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	return nil
}

// History returns the audit rows for an owned item, newest first.
func (s *service) History(ctx context.Context, actorID, id uuid.UUID) ([]ChangeDTO, error) {
	if _, err := s.repo.FindOwnedByID(ctx, id, actorID); err != nil {
		return nil, itemLookupError(err)
	}
	changes, err := s.repo.ListChangesByItem(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list changes")
	}
	return ChangesFromModels(changes), nil
}

// ListChanges returns the audit rows recorded by the acting user.
func (s *service) ListChanges(ctx context.Context, actorID uuid.UUID, ordering string) ([]ChangeDTO, error) {
	changes, err := s.repo.ListChangesByUser(ctx, actorID, ordering)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list changes")
	}
	return ChangesFromModels(changes), nil
}

func (s *service) reload(ctx context.Context, actorID, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindOwnedByID(ctx, id, actorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	return ItemFromModel(item), nil
}

func (s *service) ensureCategory(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if _, err := s.categoryRepo.WithTx(tx).FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return nil
}

// itemLookupError hides foreign rows behind NotFound so ownership cannot be
// probed by ID.
func itemLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
}

func asServiceError(err error, operation string) error {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, operation)
}
