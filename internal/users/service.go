package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/config"
	"github.com/stocktrail/stocktrail-backend/pkg/db"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
	"github.com/stocktrail/stocktrail-backend/pkg/security"
)

// Service exposes account management operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	Get(ctx context.Context, actorID uuid.UUID, actorIsSuperuser bool, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context, actorID uuid.UUID, actorIsSuperuser bool) ([]UserDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, actorIsSuperuser bool, id uuid.UUID, input UpdateInput) (*UserDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorIsSuperuser bool, id uuid.UUID) error
}

// RegisterInput holds the validated payload for account creation.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateInput holds optional mutation values for an account.
type UpdateInput struct {
	Username *string
	Email    *string
	Password *string
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	passwordCfg config.PasswordConfig
}

// NewService constructs a users service instance.
func NewService(repo *Repository, dbClient *db.Client, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:        repo,
		dbClient:    dbClient,
		passwordCfg: passwordCfg,
	}, nil
}

// Register creates a new active account. The endpoint is open; the first
// superuser is provisioned out of band.
func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	passwordHash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	created, err := s.repo.Create(ctx, CreateUserDTO{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username or email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
	}
	return FromModel(created), nil
}

// Get returns the requested account when the actor owns it or is a superuser.
func (s *service) Get(ctx context.Context, actorID uuid.UUID, actorIsSuperuser bool, id uuid.UUID) (*UserDTO, error) {
	if err := ensureSelfOrSuperuser(actorID, actorIsSuperuser, id); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	return FromModel(user), nil
}

// List returns all accounts for superusers, or the actor's own account otherwise.
func (s *service) List(ctx context.Context, actorID uuid.UUID, actorIsSuperuser bool) ([]UserDTO, error) {
	if actorIsSuperuser {
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list users")
		}
		return FromModels(list), nil
	}

	self, err := s.repo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []UserDTO{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	return []UserDTO{*FromModel(self)}, nil
}

// Update applies the provided fields to the account.
func (s *service) Update(ctx context.Context, actorID uuid.UUID, actorIsSuperuser bool, id uuid.UUID, input UpdateInput) (*UserDTO, error) {
	if err := ensureSelfOrSuperuser(actorID, actorIsSuperuser, id); err != nil {
		return nil, err
	}

	var updated *UserDTO
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		user, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
		}

		if input.Username != nil {
			username := strings.TrimSpace(*input.Username)
			if username == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "username cannot be blank")
			}
			user.Username = username
		}
		if input.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*input.Email))
			if email == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "email cannot be blank")
			}
			user.Email = email
		}
		if input.Password != nil {
			hash, err := security.HashPassword(*input.Password, s.passwordCfg)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
			}
			user.PasswordHash = hash
		}

		if err := txRepo.Save(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username or email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user")
		}
		updated = FromModel(user)
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return updated, nil
}

// Delete removes the account. Items created by the user are cascaded away and
// their recorded changes fall back to a null actor.
func (s *service) Delete(ctx context.Context, actorID uuid.UUID, actorIsSuperuser bool, id uuid.UUID) error {
	if err := ensureSelfOrSuperuser(actorID, actorIsSuperuser, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete user")
	}
	return nil
}

func ensureSelfOrSuperuser(actorID uuid.UUID, actorIsSuperuser bool, target uuid.UUID) error {
	if actorIsSuperuser || actorID == target {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "cannot access another user's account")
}
