package registry

import (
	"fmt"
	"sync"

	"github.com/dherslof/racing-companion/internal/db"
	"github.com/dherslof/racing-companion/internal/metrics"
	"github.com/dherslof/racing-companion/internal/models"
	log "github.com/sirupsen/logrus"
)

const maintenanceRegistryName = "maintenance"

// MaintenanceRegistry owns the maintenance entries in insertion order.
//
// Entries have no id: Update and Delete find their target by comparing every
// field, and act on the first match when several entries are identical.
type MaintenanceRegistry struct {
	mu       sync.Mutex
	coll     db.MaintenanceCollection
	vehicles VehicleView
	log      log.FieldLogger
	entries  []models.MaintenanceEntry
}

// NewMaintenanceRegistry loads the maintenance document from coll.
func NewMaintenanceRegistry(coll db.MaintenanceCollection, vehicles VehicleView, logger log.FieldLogger) (*MaintenanceRegistry, error) {
	entries, err := coll.LoadMaintenance()
	if err != nil {
		return nil, fmt.Errorf("load maintenance entries: %w", err)
	}
	if vehicles == nil {
		vehicles = NewStaticVehicles(nil, "")
	}
	r := &MaintenanceRegistry{
		coll:     coll,
		vehicles: vehicles,
		log:      loggerOrDefault(logger).WithField("registry", maintenanceRegistryName),
		entries:  make([]models.MaintenanceEntry, 0, len(entries)),
	}
	for _, e := range entries {
		r.entries = append(r.entries, e.Clone())
	}
	r.log.WithField("count", len(r.entries)).Debug("Loaded maintenance entries")
	return r, nil
}

func (r *MaintenanceRegistry) indexLocked(entry models.MaintenanceEntry) int {
	for i, e := range r.entries {
		if e.Equal(entry) {
			return i
		}
	}
	return -1
}

// Add appends entry. Callers validate first; see Validate.
func (r *MaintenanceRegistry) Add(entry models.MaintenanceEntry) (models.MaintenanceEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := entry.Clone()
	r.entries = append(r.entries, stored)
	r.log.WithFields(log.Fields{"vehicle": stored.Vehicle, "title": stored.Title}).Debug("Added maintenance entry")
	return stored.Clone(), r.persistLocked("add")
}

// Update replaces the first entry equal to old with updated. It fails with
// ErrEntryNotFound when no entry equals old.
func (r *MaintenanceRegistry) Update(old, updated models.MaintenanceEntry) (models.MaintenanceEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(old)
	if i < 0 {
		metrics.Mutation(maintenanceRegistryName, "update", metrics.ResultRejected)
		return models.MaintenanceEntry{}, ErrEntryNotFound
	}
	stored := updated.Clone()
	r.entries[i] = stored
	r.log.WithFields(log.Fields{"vehicle": stored.Vehicle, "title": stored.Title}).Debug("Updated maintenance entry")
	return stored.Clone(), r.persistLocked("update")
}

// Delete removes the first entry equal to entry.
func (r *MaintenanceRegistry) Delete(entry models.MaintenanceEntry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(entry)
	if i < 0 {
		metrics.Mutation(maintenanceRegistryName, "delete", metrics.ResultRejected)
		return false, nil
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	r.log.WithFields(log.Fields{"vehicle": entry.Vehicle, "title": entry.Title}).Debug("Deleted maintenance entry")
	return true, r.persistLocked("delete")
}

// All returns copies of every entry in insertion order.
func (r *MaintenanceRegistry) All() []models.MaintenanceEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.MaintenanceEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Clone())
	}
	return out
}

// Filter returns the entries matching criteria. With useActiveVehicle set,
// an active vehicle overrides criteria.Vehicle unless there is search text.
func (r *MaintenanceRegistry) Filter(criteria models.MaintenanceFilter, useActiveVehicle bool) []models.MaintenanceEntry {
	active := ""
	if useActiveVehicle {
		if name, ok := r.vehicles.Active(); ok {
			active = name
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return criteria.Apply(r.entries, active)
}

// Validate checks an entry before it is created.
func (r *MaintenanceRegistry) Validate(entry models.MaintenanceEntry) (bool, []string) {
	return models.ValidateMaintenanceEntry(entry)
}

// Statistics aggregates all entries, ignoring any filter.
func (r *MaintenanceRegistry) Statistics() models.MaintenanceStatistics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.ComputeStatistics(r.entries)
}

// ChartData derives the chart of the given kind from Statistics.
func (r *MaintenanceRegistry) ChartData(kind models.ChartKind) (models.ChartData, error) {
	stats := r.Statistics()
	switch kind {
	case models.ChartFrequency:
		return stats.FrequencyChart(), nil
	case models.ChartPie:
		return stats.PieChart(), nil
	case models.ChartVehicleComparison:
		return stats.VehicleComparisonChart(), nil
	default:
		return models.ChartData{}, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
}

// AvailableVehicles returns the registered vehicle names.
func (r *MaintenanceRegistry) AvailableVehicles() []string {
	return r.vehicles.All()
}

func (r *MaintenanceRegistry) ActiveVehicle() (string, bool) {
	return r.vehicles.Active()
}

func (r *MaintenanceRegistry) persistLocked(operation string) error {
	snapshot := make([]models.MaintenanceEntry, len(r.entries))
	for i, e := range r.entries {
		snapshot[i] = e.Clone()
	}
	if err := r.coll.SaveMaintenance(snapshot); err != nil {
		metrics.Mutation(maintenanceRegistryName, operation, metrics.ResultError)
		metrics.PersistFailures.WithLabelValues(maintenanceRegistryName).Inc()
		r.log.WithError(err).WithField("operation", operation).Error("Failed to save maintenance entries")
		return fmt.Errorf("save maintenance entries: %w", err)
	}
	metrics.Mutation(maintenanceRegistryName, operation, metrics.ResultOK)
	return nil
}
