package server

import (
	"log/slog"
	"net/http"

	"starmap-server/internal/galaxy"
	galaxyHandlers "starmap-server/internal/galaxy/handlers"
	"starmap-server/internal/middleware"
	serverHandlers "starmap-server/internal/server/handlers"
	"starmap-server/internal/shared/database"
)

type Routes struct {
	db            *database.DB
	galaxyService *galaxy.Service
	jwtSecret     string
	logger        *slog.Logger
}

// NewRoutes wires the HTTP surface. db is nil when persistence is disabled.
func NewRoutes(db *database.DB, galaxyService *galaxy.Service, jwtSecret string, logger *slog.Logger) *Routes {
	return &Routes{
		db:            db,
		galaxyService: galaxyService,
		jwtSecret:     jwtSecret,
		logger:        logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	galaxyHandler := galaxyHandlers.NewGalaxyHandler(r.galaxyService)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.HandleFunc("/api/galaxy", galaxyHandler.GetGalaxy)
	mux.HandleFunc("/api/systems", galaxyHandler.GetSystems)
	mux.HandleFunc("/api/systems/at", galaxyHandler.GetSystemAt)
	mux.HandleFunc("/api/systems/nearest", galaxyHandler.GetNearestSystem)
	mux.HandleFunc("/api/systems/reachable", galaxyHandler.GetReachableSystems)
	mux.HandleFunc("/api/systems/search", galaxyHandler.SearchSystem)
	mux.HandleFunc("/api/sectors", galaxyHandler.GetSectors)
	mux.HandleFunc("/api/route", galaxyHandler.GetRoute)

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("/api/admin/systems/name", middleware.RequireAdmin(r.jwtSecret, http.HandlerFunc(galaxyHandler.RenameSystem)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{
			"/api/server/health", "/api/galaxy", "/api/systems", "/api/systems/at", "/api/systems/nearest",
			"/api/systems/reachable", "/api/systems/search", "/api/sectors", "/api/route",
		},
		"admin_endpoints", []string{"/api/admin/systems/name"},
	)

	return mux
}
