// Package role manages the roles of the user-role service.
//
// Roles are stored through a RoleRepository; DocumentRoleRepository keeps them in the
// "roles" collection of a docstore.Store.
//
// # Basic Usage
//
//	repo, err := role.NewRoleRepository(ctx, store)
//	service := role.NewRoleServiceWithOptions(repo,
//		role.WithIDGenerator(role.IDGeneratorFor(cfg.RoleIDFormat)),
//		role.WithReferenceCleaner(userService),
//	)
//
//	created, err := service.CreateRole(ctx, role.Role{Rolename: "editor"})
//	roles, err := service.FindRoles(ctx)
//	fetched, err := service.GetRole(ctx, created.ID)
//
// # Deleting Roles
//
// DeleteRole returns the deleted role, or nil when the id did not exist. After a
// successful delete the configured ReferenceCleaner strips the role from every user
// that still references it. The cleanup runs before DeleteRole returns but its errors
// are only logged.
//
// Lookups of unknown ids fail with an error matching ErrRoleNotFound and carrying
// apperrors.ErrCodeRoleNotFound.
package role
