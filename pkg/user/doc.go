// Package user manages users and the role references they carry.
//
// A user holds copies of the roles assigned to it. Nothing ties those copies to the
// roles collection except the id, so creating a user with an unknown role id is
// allowed. When a role is deleted, RemoveRoleReferences removes it from every user;
// UserService satisfies role.ReferenceCleaner for that purpose:
//
//	users := user.NewUserServiceWithOptions(userRepo, user.WithCleanupConcurrency(8))
//	roles := role.NewRoleServiceWithOptions(roleRepo, role.WithReferenceCleaner(users))
//
// Every value returned by UserService is a fresh copy with null role references
// filtered out.
package user
