package role

// Role is a named, described role. Users reference roles by embedding a copy.
type Role struct {
	ID          string `json:"id" bson:"_id"`
	Rolename    string `json:"rolename" bson:"rolename"`
	Description string `json:"description" bson:"description"`
}

// IsZero reports whether r carries no data at all. Zero roles inside a user's
// role list stand for null references.
func (r Role) IsZero() bool {
	return r == Role{}
}
