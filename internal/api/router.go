package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pelada/internal/api/handler"
	apimiddleware "github.com/mcoot/pelada/internal/api/middleware"
	"github.com/mcoot/pelada/internal/middleware"
	"github.com/mcoot/pelada/internal/services/admission"
	"github.com/mcoot/pelada/internal/services/balancer"
	"github.com/mcoot/pelada/internal/services/playerbase"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	PlayerBase *playerbase.Service
	Admission  *admission.Controller
	Balancer   *balancer.Service

	// MCPHandler is mounted at /mcp when set
	MCPHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	// Match on the escaped path so a name may contain "/" as %2F
	r := mux.NewRouter().UseEncodedPath()

	// Create handlers
	playersHandler := handler.NewPlayersHandler(cfg.PlayerBase)
	rosterHandler := handler.NewRosterHandler(cfg.Admission)
	teamsHandler := handler.NewTeamsHandler(cfg.Admission, cfg.Balancer)

	// Create middleware
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)
	requestIDMiddleware := middleware.RequestID()
	loggingMiddleware := middleware.Logging(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(requestIDMiddleware)
	api.Use(loggingMiddleware)

	// Player base
	api.HandleFunc("/players", playersHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players/reload", playersHandler.Reload).Methods(http.MethodPost)

	// Roster. Static paths are registered before /roster/{name}.
	api.HandleFunc("/roster", rosterHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/roster", rosterHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/roster/sync", rosterHandler.Sync).Methods(http.MethodPost)
	api.HandleFunc("/roster/settings", rosterHandler.UpdateSettings).Methods(http.MethodPatch)
	api.HandleFunc("/roster/{name}", rosterHandler.SetPresence).Methods(http.MethodPut)

	// Teams
	api.HandleFunc("/teams", teamsHandler.Show).Methods(http.MethodGet)
	api.HandleFunc("/teams/export", teamsHandler.Export).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.MCPHandler != nil {
		r.Handle("/mcp", cfg.MCPHandler)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
