package db

import (
	"fmt"

	"github.com/dherslof/racing-companion/internal/models"
)

// JSONCollection keeps the three collections as JSON documents in a FileStore.
type JSONCollection struct {
	Store *FileStore
}

// NewJSONCollection wraps store.
func NewJSONCollection(store *FileStore) *JSONCollection {
	return &JSONCollection{Store: store}
}

// LoadVehicles reads the vehicle document. A missing document is empty.
func (c *JSONCollection) LoadVehicles() (models.VehicleDocument, error) {
	if c.Store == nil {
		return models.VehicleDocument{}, fmt.Errorf("file store is nil")
	}
	var doc models.VehicleDocument
	if _, err := c.Store.Load(VehiclesKey, &doc); err != nil {
		return models.VehicleDocument{}, err
	}
	if doc.Vehicles == nil {
		doc.Vehicles = []string{}
	}
	if doc.VehicleData == nil {
		doc.VehicleData = map[string]models.VehicleInfo{}
	}
	return doc, nil
}

// SaveVehicles rewrites the vehicle document.
func (c *JSONCollection) SaveVehicles(doc models.VehicleDocument) error {
	if c.Store == nil {
		return fmt.Errorf("file store is nil")
	}
	if doc.Vehicles == nil {
		doc.Vehicles = []string{}
	}
	if doc.VehicleData == nil {
		doc.VehicleData = map[string]models.VehicleInfo{}
	}
	return c.Store.Save(VehiclesKey, doc)
}

// LoadTrackDays reads the track day document. A missing document is empty.
func (c *JSONCollection) LoadTrackDays() ([]models.TrackDay, error) {
	if c.Store == nil {
		return nil, fmt.Errorf("file store is nil")
	}
	days := []models.TrackDay{}
	if _, err := c.Store.Load(TrackDaysKey, &days); err != nil {
		return nil, err
	}
	for i := range days {
		if days[i].Sessions == nil {
			days[i].Sessions = []models.Session{}
		}
	}
	return days, nil
}

// SaveTrackDays rewrites the track day document.
func (c *JSONCollection) SaveTrackDays(days []models.TrackDay) error {
	if c.Store == nil {
		return fmt.Errorf("file store is nil")
	}
	out := make([]models.TrackDay, len(days))
	for i, d := range days {
		out[i] = d.Clone()
	}
	return c.Store.Save(TrackDaysKey, out)
}

// LoadMaintenance reads the maintenance document. A missing document is empty.
func (c *JSONCollection) LoadMaintenance() ([]models.MaintenanceEntry, error) {
	if c.Store == nil {
		return nil, fmt.Errorf("file store is nil")
	}
	entries := []models.MaintenanceEntry{}
	if _, err := c.Store.Load(MaintenanceKey, &entries); err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Tags == nil {
			entries[i].Tags = []string{}
		}
	}
	return entries, nil
}

// SaveMaintenance rewrites the maintenance document.
func (c *JSONCollection) SaveMaintenance(entries []models.MaintenanceEntry) error {
	if c.Store == nil {
		return fmt.Errorf("file store is nil")
	}
	out := make([]models.MaintenanceEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return c.Store.Save(MaintenanceKey, out)
}
