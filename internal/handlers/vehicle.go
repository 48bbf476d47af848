package handlers

import (
	"net/http"
	"strings"

	"github.com/dherslof/racing-companion/internal/models"
	"github.com/dherslof/racing-companion/internal/registry"
)

// VehicleHandler serves the vehicle registry.
type VehicleHandler struct {
	vehicles *registry.VehicleRegistry
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles *registry.VehicleRegistry) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// VehicleRequest is the body of a create request. Year 0 means the current
// year and an empty type means Car.
type VehicleRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Year int    `json:"year"`
	Misc string `json:"misc"`
}

// VehicleListResponse lists vehicles in registration order.
type VehicleListResponse struct {
	Vehicles []models.Vehicle `json:"vehicles"`
	Active   string           `json:"active"`
}

// VehicleResponse is a single vehicle with its derived fields.
type VehicleResponse struct {
	models.Vehicle
	Abbreviation string `json:"abbreviation"`
	Active       bool   `json:"active"`
}

// ActiveVehicleRequest selects the active vehicle.
type ActiveVehicleRequest struct {
	Name string `json:"name"`
}

// Collection handles GET and POST on /api/vehicles.
func (h *VehicleHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		active, _ := h.vehicles.Active()
		writeJSON(w, http.StatusOK, VehicleListResponse{Vehicles: h.vehicles.Vehicles(), Active: active})
	case http.MethodPost:
		var req VehicleRequest
		if err := readJSON(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			http.Error(w, "Vehicle name is required", http.StatusBadRequest)
			return
		}
		added, err := h.vehicles.Add(name, req.Type, req.Year, req.Misc)
		if !added {
			http.Error(w, "Vehicle already exists", http.StatusConflict)
			return
		}
		if err != nil {
			persistFailed(w, err)
			return
		}
		h.writeVehicle(w, http.StatusCreated, name)
	default:
		methodNotAllowed(w)
	}
}

// Item handles GET, PUT and DELETE on /api/vehicles/{name}.
func (h *VehicleHandler) Item(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, ok := h.vehicles.Info(name); !ok {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.writeVehicle(w, http.StatusOK, name)
	case http.MethodPut:
		var edit models.VehicleEdit
		if err := readJSON(r, &edit); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		edited, err := h.vehicles.Edit(name, edit)
		if !edited {
			http.Error(w, "Vehicle name already taken", http.StatusConflict)
			return
		}
		if err != nil {
			persistFailed(w, err)
			return
		}
		if newName := strings.TrimSpace(edit.NewName); newName != "" {
			name = newName
		}
		h.writeVehicle(w, http.StatusOK, name)
	case http.MethodDelete:
		deleted, err := h.vehicles.Delete(name)
		if !deleted {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
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

// ToggleActive handles POST on /api/vehicles/{name}/toggle-active.
func (h *VehicleHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	name := r.PathValue("name")
	if !h.vehicles.ToggleActive(name) {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}
	h.writeVehicle(w, http.StatusOK, name)
}

// ActiveVehicle handles GET, PUT and DELETE on /api/active-vehicle.
func (h *VehicleHandler) ActiveVehicle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req ActiveVehicleRequest
		if err := readJSON(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if !h.vehicles.SetActive(req.Name) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
	case http.MethodDelete:
		h.vehicles.ClearActive()
	default:
		methodNotAllowed(w)
		return
	}
	active, _ := h.vehicles.Active()
	writeJSON(w, http.StatusOK, ActiveVehicleRequest{Name: active})
}

func (h *VehicleHandler) writeVehicle(w http.ResponseWriter, status int, name string) {
	info, _ := h.vehicles.Info(name)
	writeJSON(w, status, VehicleResponse{
		Vehicle:      models.Vehicle{Name: name, VehicleInfo: info},
		Abbreviation: h.vehicles.TypeAbbreviation(name),
		Active:       h.vehicles.IsActive(name),
	})
}
