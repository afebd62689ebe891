package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/tendant/user-role-service/pkg/docstore"
)

// CollectionName is the document collection holding roles
const CollectionName = "roles"

// RoleRepository defines the interface for role storage operations
type RoleRepository interface {
	FindAll(ctx context.Context) ([]Role, error)
	FindByID(ctx context.Context, id string) (Role, error)
	// Save inserts or replaces the role stored under role.ID
	Save(ctx context.Context, role Role) (Role, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// DocumentRoleRepository implements RoleRepository on a docstore collection
type DocumentRoleRepository struct {
	roles docstore.Collection[Role]
}

// NewRoleRepository binds a repository to the roles collection of store
func NewRoleRepository(ctx context.Context, store *docstore.Store) (*DocumentRoleRepository, error) {
	roles, err := docstore.NewCollection[Role](ctx, store, CollectionName)
	if err != nil {
		return nil, err
	}
	return &DocumentRoleRepository{roles: roles}, nil
}

func (r *DocumentRoleRepository) FindAll(ctx context.Context) ([]Role, error) {
	roles, err := r.roles.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find roles: %w", err)
	}
	return roles, nil
}

func (r *DocumentRoleRepository) FindByID(ctx context.Context, id string) (Role, error) {
	role, err := r.roles.FindByID(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return Role{}, ErrRoleNotFound
	}
	if err != nil {
		return Role{}, fmt.Errorf("failed to find role %s: %w", id, err)
	}
	return role, nil
}

func (r *DocumentRoleRepository) Save(ctx context.Context, role Role) (Role, error) {
	if err := r.roles.Save(ctx, role.ID, role); err != nil {
		return Role{}, fmt.Errorf("failed to save role %s: %w", role.ID, err)
	}
	return role, nil
}

func (r *DocumentRoleRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.roles.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete role %s: %w", id, err)
	}
	return nil
}

func (r *DocumentRoleRepository) DeleteAll(ctx context.Context) error {
	if err := r.roles.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete roles: %w", err)
	}
	return nil
}
