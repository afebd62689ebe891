package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/tendant/user-role-service/pkg/docstore"
)

// CollectionName is the document collection holding users
const CollectionName = "users"

// UserRepository defines the interface for user storage operations
type UserRepository interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, userID string) (User, error)
	// Save inserts or replaces the user stored under user.UserID
	Save(ctx context.Context, user User) (User, error)
	DeleteByID(ctx context.Context, userID string) error
	DeleteAll(ctx context.Context) error
}

// DocumentUserRepository implements UserRepository on a docstore collection
type DocumentUserRepository struct {
	users docstore.Collection[User]
}

// NewUserRepository binds a repository to the users collection of store
func NewUserRepository(ctx context.Context, store *docstore.Store) (*DocumentUserRepository, error) {
	users, err := docstore.NewCollection[User](ctx, store, CollectionName)
	if err != nil {
		return nil, err
	}
	return &DocumentUserRepository{users: users}, nil
}

func (r *DocumentUserRepository) FindAll(ctx context.Context) ([]User, error) {
	users, err := r.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	return users, nil
}

func (r *DocumentUserRepository) FindByID(ctx context.Context, userID string) (User, error) {
	user, err := r.users.FindByID(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return user, nil
}

func (r *DocumentUserRepository) Save(ctx context.Context, user User) (User, error) {
	if err := r.users.Save(ctx, user.UserID, user); err != nil {
		return User{}, fmt.Errorf("failed to save user %s: %w", user.UserID, err)
	}
	return user, nil
}

func (r *DocumentUserRepository) DeleteByID(ctx context.Context, userID string) error {
	if err := r.users.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return nil
}

func (r *DocumentUserRepository) DeleteAll(ctx context.Context) error {
	if err := r.users.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}
