package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	pkgconfig "github.com/tendant/user-role-service/pkg/config"
	"github.com/tendant/user-role-service/pkg/role"
	roleapi "github.com/tendant/user-role-service/pkg/role/api"
	"github.com/tendant/user-role-service/pkg/user"
	userapi "github.com/tendant/user-role-service/pkg/user/api"
)

// Config holds all the dependencies needed to setup routes
type Config struct {
	// Prefix configuration for all routes
	PrefixConfig pkgconfig.PrefixConfig
	// BaseURL is prepended to Location headers, e.g. http://localhost:8080
	BaseURL string

	RoleService *role.RoleService
	UserService *user.UserService

	// Store is pinged by /readyz
	Store Pinger

	StartTime time.Time
	Version   string

	// Access log settings
	LogLevel slog.Level
	LogJSON  bool
}

// SetupRoutes mounts the user, role and health routes on the provided router
func SetupRoutes(router chi.Router, cfg Config) {
	router.Get("/livez", LivezHandler(cfg.StartTime, cfg.Version))
	router.Get("/readyz", ReadyzHandler(cfg.StartTime, cfg.Version, cfg.Store))

	userHandler := userapi.NewUserHandler(cfg.UserService, cfg.BaseURL+cfg.PrefixConfig.Users)
	router.Mount(cfg.PrefixConfig.Users, userapi.Handler(userHandler))

	roleHandler := roleapi.NewRoleHandler(cfg.RoleService, cfg.BaseURL+cfg.PrefixConfig.Roles)
	router.Mount(cfg.PrefixConfig.Roles, roleapi.Handler(roleHandler))
}

// NewRouter creates the service's root router with middleware and all routes mounted
func NewRouter(cfg Config) chi.Router {
	r := chi.NewRouter()

	logger := httplog.NewLogger("user-role-service", httplog.Options{
		LogLevel:        cfg.LogLevel,
		JSON:            cfg.LogJSON,
		Concise:         true,
		QuietDownRoutes: []string{"/livez", "/readyz"},
		QuietDownPeriod: 10 * time.Second,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		// any origin is echoed back, which also works with credentials
		AllowOriginFunc: func(r *http.Request, origin string) bool { return true },
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(r, cfg)

	slog.Info("Routes mounted", "users", cfg.PrefixConfig.Users, "roles", cfg.PrefixConfig.Roles)
	return r
}
