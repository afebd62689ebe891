package router

import (
	"context"
	"fmt"
	"strings"

	pkgconfig "github.com/tendant/user-role-service/pkg/config"
	"github.com/tendant/user-role-service/pkg/docstore"
	"github.com/tendant/user-role-service/pkg/role"
	"github.com/tendant/user-role-service/pkg/user"
)

// Services holds the repositories and services bound to one document store
type Services struct {
	RoleRepository role.RoleRepository
	UserRepository user.UserRepository
	RoleService    *role.RoleService
	UserService    *user.UserService
}

// NewServices wires repositories and services on store. User reads resolve role
// references through the role repository, and deleting a role cleans up the user
// service's references to it.
func NewServices(ctx context.Context, store *docstore.Store, cfg pkgconfig.Config) (*Services, error) {
	roleRepo, err := role.NewRoleRepository(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to create role repository: %w", err)
	}
	userRepo, err := user.NewUserRepository(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	userService := user.NewUserServiceWithOptions(userRepo,
		user.WithCleanupConcurrency(cfg.RoleCleanupConcurrency),
		user.WithRoleLookup(roleRepo),
	)
	roleService := role.NewRoleServiceWithOptions(roleRepo,
		role.WithIDGenerator(role.IDGeneratorFor(cfg.RoleIDFormat)),
		role.WithReferenceCleaner(userService),
	)

	return &Services{
		RoleRepository: roleRepo,
		UserRepository: userRepo,
		RoleService:    roleService,
		UserService:    userService,
	}, nil
}

// NewConfig builds the route configuration for services
func NewConfig(services *Services, store Pinger, cfg pkgconfig.Config) Config {
	return Config{
		PrefixConfig: cfg.Prefix,
		BaseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		RoleService:  services.RoleService,
		UserService:  services.UserService,
		Store:        store,
		LogLevel:     cfg.SlogLevel(),
		LogJSON:      cfg.LogJSON,
	}
}
