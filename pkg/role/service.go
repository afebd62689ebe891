package role

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	apperrors "github.com/tendant/user-role-service/pkg/errors"
)

var ErrRoleNotFound = errors.New("role not found")

// IDGenerator returns a fresh, globally unique role id
type IDGenerator func() string

// NewUUID generates random (v4) UUID strings
func NewUUID() string {
	return uuid.New().String()
}

// NewULID generates lexicographically sortable ULID strings
func NewULID() string {
	return ulid.Make().String()
}

// IDGeneratorFor returns the generator for a configured id format ("uuid" or "ulid")
func IDGeneratorFor(format string) IDGenerator {
	if format == "ulid" {
		return NewULID
	}
	return NewUUID
}

// ReferenceCleaner removes references to a deleted role from whatever holds them
type ReferenceCleaner interface {
	RemoveRoleReferences(ctx context.Context, roleID string) (int, error)
}

// Option configures a RoleService
type Option func(*RoleService)

// WithIDGenerator sets the generator used for ids of created roles
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *RoleService) {
		s.newID = gen
	}
}

// WithReferenceCleaner sets the cleaner run after a role is deleted
func WithReferenceCleaner(cleaner ReferenceCleaner) Option {
	return func(s *RoleService) {
		s.cleaner = cleaner
	}
}

// RoleService provides methods for role management
type RoleService struct {
	repo    RoleRepository
	newID   IDGenerator
	cleaner ReferenceCleaner
}

func NewRoleService(repo RoleRepository) *RoleService {
	return NewRoleServiceWithOptions(repo)
}

// NewRoleServiceWithOptions creates a role service using functional options
func NewRoleServiceWithOptions(repo RoleRepository, opts ...Option) *RoleService {
	service := &RoleService{
		repo:  repo,
		newID: NewUUID,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

func (s *RoleService) FindRoles(ctx context.Context) ([]Role, error) {
	roles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []Role{}
	}
	return roles, nil
}

// GetRole retrieves a role by id
func (s *RoleService) GetRole(ctx context.Context, id string) (Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Role{}, notFoundOr(err, id)
	}
	return role, nil
}

// CreateRole stores candidate under a freshly generated id. Any id on the candidate is ignored.
func (s *RoleService) CreateRole(ctx context.Context, candidate Role) (Role, error) {
	role := Role{
		ID:          s.newID(),
		Rolename:    candidate.Rolename,
		Description: candidate.Description,
	}

	saved, err := s.repo.Save(ctx, role)
	if err != nil {
		return Role{}, err
	}

	slog.Info("Role created", "id", saved.ID, "rolename", saved.Rolename)
	return saved, nil
}

// UpdateRole replaces rolename and description of an existing role
func (s *RoleService) UpdateRole(ctx context.Context, role Role) (Role, error) {
	if _, err := s.repo.FindByID(ctx, role.ID); err != nil {
		return Role{}, notFoundOr(err, role.ID)
	}

	saved, err := s.repo.Save(ctx, role)
	if err != nil {
		return Role{}, err
	}

	slog.Info("Role updated", "id", saved.ID)
	return saved, nil
}

// DeleteRole removes a role and returns what was deleted, or nil when no role had
// the id. Users referencing the role are cleaned up afterwards; a cleanup failure is
// logged and does not fail the deletion.
func (s *RoleService) DeleteRole(ctx context.Context, id string) (*Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrRoleNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}
	slog.Info("Role deleted", "id", id)

	if s.cleaner != nil {
		changed, err := s.cleaner.RemoveRoleReferences(ctx, id)
		if err != nil {
			slog.Error("Failed to remove role references", "role_id", id, "changed", changed, "error", err)
		} else if changed > 0 {
			slog.Info("Removed role references", "role_id", id, "users", changed)
		}
	}

	return &role, nil
}

func notFoundOr(err error, id string) error {
	return apperrors.WrapIf(err, ErrRoleNotFound, apperrors.ErrCodeRoleNotFound, "role not found: "+id)
}
