package db

import (
	"github.com/dherslof/racing-companion/internal/models"
)

// VehicleCollection defines the interface for vehicle document operations.
type VehicleCollection interface {
	LoadVehicles() (models.VehicleDocument, error)
	SaveVehicles(doc models.VehicleDocument) error
}

// TrackDayCollection defines the interface for track day document operations.
type TrackDayCollection interface {
	LoadTrackDays() ([]models.TrackDay, error)
	SaveTrackDays(days []models.TrackDay) error
}

// MaintenanceCollection defines the interface for maintenance document operations.
type MaintenanceCollection interface {
	LoadMaintenance() ([]models.MaintenanceEntry, error)
	SaveMaintenance(entries []models.MaintenanceEntry) error
}
