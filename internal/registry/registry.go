// Package registry implements the vehicle, track day and maintenance
// registries. Each registry owns its collection in memory and rewrites the
// whole backing document after every mutation.
//
// Vehicle names stored on track days, sessions and maintenance entries are
// plain copies. Renaming or deleting a vehicle does not touch them.
package registry

import (
	"errors"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNoVehicles       = errors.New("please add a vehicle before creating a track day")
	ErrTrackDayNotFound = errors.New("track day not found")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrNoExportPath     = errors.New("no export path given")
	ErrUnknownChart     = errors.New("unknown chart kind")
)

// VehicleView is the read-only vehicle context the track day and
// maintenance registries filter by. *VehicleRegistry implements it.
type VehicleView interface {
	All() []string
	Active() (string, bool)
}

// StaticVehicles is a VehicleView over a caller-held list of names. It does
// not persist anything; Update replaces the names and the active vehicle.
type StaticVehicles struct {
	mu         sync.RWMutex
	names      []string
	activeName string
}

// NewStaticVehicles returns a view over names with active selected. An
// empty active means no active vehicle.
func NewStaticVehicles(names []string, active string) *StaticVehicles {
	return &StaticVehicles{names: slices.Clone(names), activeName: active}
}

// All returns a copy of the vehicle names.
func (s *StaticVehicles) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.names)
}

// Active returns the active vehicle, if any.
func (s *StaticVehicles) Active() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeName, s.activeName != ""
}

// Update replaces the view's contents.
func (s *StaticVehicles) Update(names []string, active string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = slices.Clone(names)
	s.activeName = active
}

func loggerOrDefault(logger log.FieldLogger) log.FieldLogger {
	if logger == nil {
		return log.StandardLogger()
	}
	return logger
}
