package user

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	apperrors "github.com/tendant/user-role-service/pkg/errors"
	"github.com/tendant/user-role-service/pkg/role"
	"golang.org/x/sync/errgroup"
)

var ErrUserNotFound = errors.New("user not found")

// DefaultCleanupConcurrency bounds the number of concurrent writes made by RemoveRoleReferences
const DefaultCleanupConcurrency = 8

// Option configures a UserService
type Option func(*UserService)

// WithCleanupConcurrency sets how many users RemoveRoleReferences re-saves at once
func WithCleanupConcurrency(n int) Option {
	return func(s *UserService) {
		if n > 0 {
			s.cleanupConcurrency = n
		}
	}
}

// RoleLookup finds the current version of a referenced role
type RoleLookup interface {
	FindByID(ctx context.Context, id string) (role.Role, error)
}

// WithRoleLookup makes reads fill each role reference from roles. References to
// roles that no longer exist are returned as stored.
func WithRoleLookup(roles RoleLookup) Option {
	return func(s *UserService) {
		s.roles = roles
	}
}

type UserService struct {
	repo               UserRepository
	roles              RoleLookup
	cleanupConcurrency int
}

func NewUserService(repo UserRepository) *UserService {
	return NewUserServiceWithOptions(repo)
}

// NewUserServiceWithOptions creates a user service using functional options
func NewUserServiceWithOptions(repo UserRepository, opts ...Option) *UserService {
	service := &UserService{
		repo:               repo,
		cleanupConcurrency: DefaultCleanupConcurrency,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

func (s *UserService) FindUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]User, 0, len(users))
	for _, u := range users {
		result = append(result, u.Clone())
	}
	if err := s.resolveRoles(ctx, result...); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return User{}, notFoundOr(err, userID)
	}
	return s.resolved(ctx, user)
}

// CreateUser stores candidate as given. Role references are not checked against
// the roles collection.
func (s *UserService) CreateUser(ctx context.Context, candidate User) (User, error) {
	if candidate.UserID == "" {
		return User{}, apperrors.InvalidInput("userId", "must not be empty")
	}

	saved, err := s.repo.Save(ctx, candidate.Clone())
	if err != nil {
		return User{}, err
	}

	slog.Info("User created", "user_id", saved.UserID, "roles", len(saved.Roles))
	return s.resolved(ctx, saved)
}

// UpdateUser replaces an existing user record
func (s *UserService) UpdateUser(ctx context.Context, user User) (User, error) {
	if _, err := s.repo.FindByID(ctx, user.UserID); err != nil {
		return User{}, notFoundOr(err, user.UserID)
	}

	saved, err := s.repo.Save(ctx, user.Clone())
	if err != nil {
		return User{}, err
	}

	slog.Info("User updated", "user_id", saved.UserID)
	return s.resolved(ctx, saved)
}

// DeleteUser removes a user and returns it, or nil when no user had the id
func (s *UserService) DeleteUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	deleted, err := s.resolved(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteByID(ctx, userID); err != nil {
		return nil, err
	}

	slog.Info("User deleted", "user_id", userID)
	return &deleted, nil
}

func (s *UserService) resolved(ctx context.Context, u User) (User, error) {
	out := u.Clone()
	if err := s.resolveRoles(ctx, out); err != nil {
		return User{}, err
	}
	return out, nil
}

// resolveRoles replaces role references in users, which must not share Roles
// backing arrays with stored data, by the roles they point at. Each id is looked
// up once per call.
func (s *UserService) resolveRoles(ctx context.Context, users ...User) error {
	if s.roles == nil {
		return nil
	}

	found := make(map[string]*role.Role)
	for _, u := range users {
		for i, ref := range u.Roles {
			if ref.ID == "" {
				continue
			}
			current, seen := found[ref.ID]
			if !seen {
				r, err := s.roles.FindByID(ctx, ref.ID)
				switch {
				case err == nil:
					current = &r
				case errors.Is(err, role.ErrRoleNotFound):
				default:
					return err
				}
				found[ref.ID] = current
			}
			if current != nil {
				u.Roles[i] = *current
			}
		}
	}
	return nil
}

// RemoveRoleReferences strips roleID from the role list of every user holding it
// and returns how many users were re-saved. Each user is re-read before its write
// so a user deleted meanwhile stays deleted. Writes run concurrently and keep going
// when one of them fails; the first failure is returned. The writes are detached
// from ctx cancellation so a disconnecting client cannot leave cleanup half done.
func (s *UserService) RemoveRoleReferences(ctx context.Context, roleID string) (int, error) {
	ctx = context.WithoutCancel(ctx)

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	var (
		g       errgroup.Group
		changed atomic.Int64
	)
	g.SetLimit(s.cleanupConcurrency)

	for _, u := range users {
		if !u.HasRole(roleID) {
			continue
		}
		userID := u.UserID
		g.Go(func() error {
			saved, err := s.removeRoleReference(ctx, userID, roleID)
			if err != nil {
				slog.Error("Failed to remove role reference", "user_id", userID, "role_id", roleID, "error", err)
				return err
			}
			if saved {
				changed.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	return int(changed.Load()), err
}

func (s *UserService) removeRoleReference(ctx context.Context, userID, roleID string) (bool, error) {
	current, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !current.HasRole(roleID) {
		return false, nil
	}
	if _, err := s.repo.Save(ctx, current.withoutRole(roleID)); err != nil {
		return false, err
	}
	return true, nil
}

func notFoundOr(err error, userID string) error {
	return apperrors.WrapIf(err, ErrUserNotFound, apperrors.ErrCodeUserNotFound, "user not found: "+userID)
}
