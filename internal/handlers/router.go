package handlers

import (
	"net/http"

	"github.com/dherslof/racing-companion/internal/auth"
	"github.com/dherslof/racing-companion/internal/middleware"
	"github.com/dherslof/racing-companion/internal/registry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// RouterConfig wires the registries into the local API. A nil Auth serves
// the API without authentication.
type RouterConfig struct {
	Vehicles    *registry.VehicleRegistry
	TrackDays   *registry.TrackDayRegistry
	Maintenance *registry.MaintenanceRegistry
	Auth        *auth.Service
	Logger      log.FieldLogger
}

// NewRouter builds the local API handler with its middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	vehicles := NewVehicleHandler(cfg.Vehicles)
	mux.HandleFunc("/api/vehicles", vehicles.Collection)
	mux.HandleFunc("/api/vehicles/{name}", vehicles.Item)
	mux.HandleFunc("/api/vehicles/{name}/toggle-active", vehicles.ToggleActive)
	mux.HandleFunc("/api/active-vehicle", vehicles.ActiveVehicle)

	trackDays := NewTrackDayHandler(cfg.TrackDays)
	mux.HandleFunc("/api/trackdays", trackDays.Collection)
	mux.HandleFunc("/api/trackdays/{index}", trackDays.Item)
	mux.HandleFunc("/api/trackdays/{index}/sessions", trackDays.Sessions)
	mux.HandleFunc("/api/trackdays/{index}/sessions/next-number", trackDays.NextSessionNumber)
	mux.HandleFunc("/api/trackdays/{index}/sessions/{number}", trackDays.Session)
	mux.HandleFunc("/api/trackdays/{index}/export.csv", trackDays.ExportCSV)

	maintenance := NewMaintenanceHandler(cfg.Maintenance)
	mux.HandleFunc("/api/maintenance", maintenance.Collection)
	mux.HandleFunc("/api/maintenance/statistics", maintenance.Statistics)
	mux.HandleFunc("/api/maintenance/charts/{kind}", maintenance.Chart)

	mux.HandleFunc("/health", health)
	mux.Handle("/metrics", promhttp.Handler())

	var handler http.Handler = mux
	if cfg.Auth != nil {
		mux.HandleFunc("/api/auth/login", NewAuthHandler(cfg.Auth).Login)
		handler = middleware.NewAuthMiddleware(cfg.Auth).Authenticate(handler)
	}
	handler = middleware.RequestID(cfg.Logger)(handler)
	return middleware.Metrics(handler)
}

func health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
