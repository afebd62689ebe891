// Package config loads the user-role service configuration.
//
// Configuration comes from environment variables (read with cleanenv struct tags),
// optionally seeded from a .env file located via ENV_FILE, the executable's
// directory, or the working directory.
//
//	cfg, err := config.Load()
//	if err != nil {
//		slog.Error("Failed to read configuration", "error", err)
//		os.Exit(1)
//	}
//
// The store backend is chosen with STORE_PERSISTENCE (mongo, postgres, redis, sqlite,
// file, memory); each backend reads only its own STORE_* or USERROLE_PG_* variables.
//
// The Get* helpers in common.go are for one-off lookups outside the Config struct.
package config
