package user

import "github.com/tendant/user-role-service/pkg/role"

// User is a user with the roles assigned to it. Roles are embedded copies, matched
// to the roles collection by id only.
type User struct {
	UserID string      `json:"userId" bson:"_id"`
	Name   string      `json:"name" bson:"name"`
	Roles  []role.Role `json:"roles" bson:"roles"`
}

// Clone returns a copy of u that shares no memory with it. Null (zero) role
// references are dropped and Roles is never nil.
func (u User) Clone() User {
	roles := make([]role.Role, 0, len(u.Roles))
	for _, r := range u.Roles {
		if !r.IsZero() {
			roles = append(roles, r)
		}
	}
	u.Roles = roles
	return u
}

// HasRole reports whether u references the role with the given id
func (u User) HasRole(roleID string) bool {
	for _, r := range u.Roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

// withoutRole returns a copy of u with every reference to roleID removed
func (u User) withoutRole(roleID string) User {
	roles := make([]role.Role, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r.ID != roleID && !r.IsZero() {
			roles = append(roles, r)
		}
	}
	u.Roles = roles
	return u
}
