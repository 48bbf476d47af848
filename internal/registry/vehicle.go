package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dherslof/racing-companion/internal/db"
	"github.com/dherslof/racing-companion/internal/metrics"
	"github.com/dherslof/racing-companion/internal/models"
	log "github.com/sirupsen/logrus"
)

const vehicleRegistryName = "vehicles"

// VehicleRegistry owns the ordered vehicle names, their metadata and the
// single active-vehicle slot. Names are unique after trimming and act as
// the primary key. The active vehicle is not persisted.
type VehicleRegistry struct {
	mu       sync.Mutex
	coll     db.VehicleCollection
	log      log.FieldLogger
	now      func() time.Time
	vehicles []string
	data     map[string]models.VehicleInfo
	active   string
}

// NewVehicleRegistry loads the vehicle document from coll.
func NewVehicleRegistry(coll db.VehicleCollection, logger log.FieldLogger) (*VehicleRegistry, error) {
	doc, err := coll.LoadVehicles()
	if err != nil {
		return nil, fmt.Errorf("load vehicles: %w", err)
	}
	r := &VehicleRegistry{
		coll:     coll,
		log:      loggerOrDefault(logger).WithField("registry", vehicleRegistryName),
		now:      time.Now,
		vehicles: slices.Clone(doc.Vehicles),
		data:     make(map[string]models.VehicleInfo, len(doc.VehicleData)),
	}
	if r.vehicles == nil {
		r.vehicles = []string{}
	}
	for name, info := range doc.VehicleData {
		r.data[name] = info
	}
	r.log.WithField("count", len(r.vehicles)).Debug("Loaded vehicles")
	return r, nil
}

// Add registers a vehicle. An empty vehicleType means Car and a zero year
// means the current year. It returns false without changing anything when
// the trimmed name is empty or already registered.
func (r *VehicleRegistry) Add(name, vehicleType string, year int, misc string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(r.vehicles, name) {
		metrics.Mutation(vehicleRegistryName, "add", metrics.ResultRejected)
		return false, nil
	}
	if vehicleType == "" {
		vehicleType = models.VehicleTypeCar
	}
	if year == 0 {
		year = r.now().Year()
	}

	r.vehicles = append(r.vehicles, name)
	r.data[name] = models.VehicleInfo{Type: vehicleType, Year: models.Year(year), Misc: misc}
	r.log.WithFields(log.Fields{"vehicle": name, "type": vehicleType}).Debug("Added vehicle")
	return true, r.persistLocked("add")
}

// Edit changes a vehicle. A non-blank NewName different from oldName
// renames it, carrying its metadata and the active slot along; the rename
// is refused when the new name is taken. Type, Year and Misc overwrite the
// stored values when set.
func (r *VehicleRegistry) Edit(oldName string, edit models.VehicleEdit) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.Index(r.vehicles, oldName)
	if idx < 0 {
		metrics.Mutation(vehicleRegistryName, "edit", metrics.ResultRejected)
		return false, nil
	}

	name := oldName
	if newName := strings.TrimSpace(edit.NewName); newName != "" && newName != oldName {
		if slices.Contains(r.vehicles, newName) {
			metrics.Mutation(vehicleRegistryName, "edit", metrics.ResultRejected)
			return false, nil
		}
		r.vehicles[idx] = newName
		r.data[newName] = r.data[oldName]
		delete(r.data, oldName)
		if r.active == oldName {
			r.active = newName
		}
		name = newName
		r.log.WithFields(log.Fields{"vehicle": oldName, "new_name": newName}).Debug("Renamed vehicle")
	}

	info := r.data[name]
	if edit.Type != nil {
		info.Type = *edit.Type
	}
	if edit.Year != nil {
		info.Year = models.Year(*edit.Year)
	}
	if edit.Misc != nil {
		info.Misc = *edit.Misc
	}
	r.data[name] = info
	return true, r.persistLocked("edit")
}

// Delete removes a vehicle and clears the active slot if it pointed at it.
// Records on other registries that name the vehicle are left as they are.
func (r *VehicleRegistry) Delete(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.Index(r.vehicles, name)
	if idx < 0 {
		metrics.Mutation(vehicleRegistryName, "delete", metrics.ResultRejected)
		return false, nil
	}
	r.vehicles = slices.Delete(r.vehicles, idx, idx+1)
	delete(r.data, name)
	if r.active == name {
		r.active = ""
	}
	r.log.WithField("vehicle", name).Debug("Deleted vehicle")
	return true, r.persistLocked("delete")
}

// SetActive makes name the active vehicle. Unknown names are refused.
func (r *VehicleRegistry) SetActive(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.vehicles, name) {
		return false
	}
	r.active = name
	return true
}

// ClearActive unsets the active vehicle.
func (r *VehicleRegistry) ClearActive() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = ""
}

// ToggleActive clears the active vehicle if it is name, or sets it to name
// otherwise. Unknown names are refused.
func (r *VehicleRegistry) ToggleActive(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.vehicles, name) {
		return false
	}
	if r.active == name {
		r.active = ""
	} else {
		r.active = name
	}
	return true
}

// Active returns the active vehicle, if any.
func (r *VehicleRegistry) Active() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.active != ""
}

// IsActive reports whether name is the active vehicle.
func (r *VehicleRegistry) IsActive(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != "" && r.active == name
}

// All returns a copy of the vehicle names in registration order.
func (r *VehicleRegistry) All() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.vehicles)
}

// Vehicles returns every vehicle with its metadata in registration order.
func (r *VehicleRegistry) Vehicles() []models.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Vehicle, 0, len(r.vehicles))
	for _, name := range r.vehicles {
		out = append(out, models.Vehicle{Name: name, VehicleInfo: r.data[name]})
	}
	return out
}

// Info returns the metadata of name.
func (r *VehicleRegistry) Info(name string) (models.VehicleInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.data[name]
	return info, ok
}

// HasVehicles reports whether any vehicle is registered.
func (r *VehicleRegistry) HasVehicles() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.vehicles) > 0
}

// TypeAbbreviation returns the short type label of name, or "UNK" for an
// unknown vehicle.
func (r *VehicleRegistry) TypeAbbreviation(name string) string {
	info, ok := r.Info(name)
	if !ok {
		return models.UnknownAbbreviation
	}
	return models.TypeAbbreviation(info.Type)
}

func (r *VehicleRegistry) persistLocked(operation string) error {
	doc := models.VehicleDocument{
		Vehicles:    slices.Clone(r.vehicles),
		VehicleData: make(map[string]models.VehicleInfo, len(r.data)),
	}
	for name, info := range r.data {
		doc.VehicleData[name] = info
	}
	if err := r.coll.SaveVehicles(doc); err != nil {
		metrics.Mutation(vehicleRegistryName, operation, metrics.ResultError)
		metrics.PersistFailures.WithLabelValues(vehicleRegistryName).Inc()
		r.log.WithError(err).WithField("operation", operation).Error("Failed to save vehicles")
		return fmt.Errorf("save vehicles: %w", err)
	}
	metrics.Mutation(vehicleRegistryName, operation, metrics.ResultOK)
	return nil
}
