package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dherslof/racing-companion/internal/models"
	"github.com/dherslof/racing-companion/internal/registry"
)

// MaintenanceHandler serves the maintenance registry.
type MaintenanceHandler struct {
	maintenance *registry.MaintenanceRegistry
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenance *registry.MaintenanceRegistry) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance}
}

// UpdateEntryRequest identifies an entry by its current values and carries
// its replacement.
type UpdateEntryRequest struct {
	Old models.MaintenanceEntry `json:"old"`
	New models.MaintenanceEntry `json:"new"`
}

// ValidationErrorResponse lists every failed check of an entry.
type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

// Collection handles GET, POST, PUT and DELETE on /api/maintenance.
//
// GET accepts the query parameters search, vehicle, type, start_date and
// end_date. The active vehicle narrows the result unless active=false.
func (h *MaintenanceHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		var entry models.MaintenanceEntry
		if err := readJSON(r, &entry); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if valid, errs := h.maintenance.Validate(entry); !valid {
			writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Errors: errs})
			return
		}
		stored, err := h.maintenance.Add(entry)
		if err != nil {
			persistFailed(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	case http.MethodPut:
		var req UpdateEntryRequest
		if err := readJSON(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if valid, errs := h.maintenance.Validate(req.New); !valid {
			writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Errors: errs})
			return
		}
		stored, err := h.maintenance.Update(req.Old, req.New)
		if errors.Is(err, registry.ErrEntryNotFound) {
			http.Error(w, "Entry not found", http.StatusNotFound)
			return
		}
		if err != nil {
			persistFailed(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stored)
	case http.MethodDelete:
		var entry models.MaintenanceEntry
		if err := readJSON(r, &entry); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		deleted, err := h.maintenance.Delete(entry)
		if !deleted {
			http.Error(w, "Entry not found", http.StatusNotFound)
			return
		}
		if err != nil {
			persistFailed(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (h *MaintenanceHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := models.NewMaintenanceFilter()
	criteria.SearchText = q.Get("search")
	if v := q.Get("vehicle"); v != "" {
		criteria.Vehicle = v
	}
	if v := q.Get("type"); v != "" {
		criteria.MaintenanceType = v
	}
	criteria.StartDate = q.Get("start_date")
	criteria.EndDate = q.Get("end_date")

	useActive := true
	if v := q.Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "Invalid active parameter", http.StatusBadRequest)
			return
		}
		useActive = b
	}
	writeJSON(w, http.StatusOK, h.maintenance.Filter(criteria, useActive))
}

// Statistics handles GET on /api/maintenance/statistics.
func (h *MaintenanceHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, h.maintenance.Statistics())
}

// Chart handles GET on /api/maintenance/charts/{kind}.
func (h *MaintenanceHandler) Chart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	data, err := h.maintenance.ChartData(models.ChartKind(r.PathValue("kind")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
