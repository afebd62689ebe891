package config

// PrefixConfig holds the API endpoint prefixes for the two resource groups.
//
// Example environment variables:
//
//	API_PREFIX_USERS=/api/user
//	API_PREFIX_ROLES=/api/role
type PrefixConfig struct {
	Users string `env:"API_PREFIX_USERS" env-default:"/api/user"` // User CRUD endpoints
	Roles string `env:"API_PREFIX_ROLES" env-default:"/api/role"` // Role CRUD endpoints
}

// DefaultPrefixes returns the prefixes the service has always exposed
func DefaultPrefixes() PrefixConfig {
	return PrefixConfig{
		Users: "/api/user",
		Roles: "/api/role",
	}
}

// BuildPrefixesFromBase builds prefix configuration from a base path.
//
//	BuildPrefixesFromBase("/api/v1")
//	// PrefixConfig{Users: "/api/v1/user", Roles: "/api/v1/role"}
func BuildPrefixesFromBase(basePath string) PrefixConfig {
	// Remove trailing slash if present
	if len(basePath) > 0 && basePath[len(basePath)-1] == '/' {
		basePath = basePath[:len(basePath)-1]
	}

	return PrefixConfig{
		Users: basePath + "/user",
		Roles: basePath + "/role",
	}
}
