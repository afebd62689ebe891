package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tendant/user-role-service/pkg/role"
	"github.com/tendant/user-role-service/pkg/user"
)

// SeedConfig contains the repositories demo data is written through
type SeedConfig struct {
	RoleRepository role.RoleRepository
	UserRepository user.UserRepository
}

// SeedResult lists what SeedDemoData stored
type SeedResult struct {
	Roles []role.Role
	Users []user.User
}

// DemoRoles returns the fixed demo roles
func DemoRoles() []role.Role {
	roles := make([]role.Role, 0, 3)
	for i, name := range []string{"R1", "R2", "R3"} {
		roles = append(roles, role.Role{
			ID:          fmt.Sprintf("1-1-1-1-%d", i+1),
			Rolename:    name,
			Description: "Beskrivning av roll " + name,
		})
	}
	return roles
}

// DemoUsers returns the fixed demo users. The first one references the first demo
// role by id only; reads fill in the rest from the roles collection.
func DemoUsers() []user.User {
	first := DemoRoles()[0]
	return []user.User{
		{UserID: "user1", Name: "Karl Benknäckare", Roles: []role.Role{{ID: first.ID}}},
		{UserID: "user2", Name: "Britta Andehaag", Roles: []role.Role{}},
		{UserID: "user3", Name: "Walter Iskugel", Roles: []role.Role{}},
	}
}

// SeedDemoData empties both collections and stores the demo roles and users
func SeedDemoData(ctx context.Context, cfg SeedConfig) (*SeedResult, error) {
	if cfg.RoleRepository == nil || cfg.UserRepository == nil {
		return nil, fmt.Errorf("invalid seed configuration: role and user repositories are required")
	}

	if err := cfg.RoleRepository.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear roles: %w", err)
	}
	if err := cfg.UserRepository.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear users: %w", err)
	}

	result := &SeedResult{}
	for _, r := range DemoRoles() {
		saved, err := cfg.RoleRepository.Save(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("failed to seed role %s: %w", r.Rolename, err)
		}
		result.Roles = append(result.Roles, saved)
	}

	for _, u := range DemoUsers() {
		saved, err := cfg.UserRepository.Save(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", u.UserID, err)
		}
		result.Users = append(result.Users, saved)
	}

	slog.Debug("Demo data seeded", "roles", len(result.Roles), "users", len(result.Users))
	return result, nil
}
