package registry

import (
	"errors"
	"testing"

	"github.com/dherslof/racing-companion/internal/db"
	"github.com/dherslof/racing-companion/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// MockCollection is a mock implementation of the three collection interfaces
type MockCollection struct {
	mock.Mock
}

func (m *MockCollection) LoadVehicles() (models.VehicleDocument, error) {
	args := m.Called()
	return args.Get(0).(models.VehicleDocument), args.Error(1)
}

func (m *MockCollection) SaveVehicles(doc models.VehicleDocument) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *MockCollection) LoadTrackDays() ([]models.TrackDay, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrackDay), args.Error(1)
}

func (m *MockCollection) SaveTrackDays(days []models.TrackDay) error {
	args := m.Called(days)
	return args.Error(0)
}

func (m *MockCollection) LoadMaintenance() ([]models.MaintenanceEntry, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceEntry), args.Error(1)
}

func (m *MockCollection) SaveMaintenance(entries []models.MaintenanceEntry) error {
	args := m.Called(entries)
	return args.Error(0)
}

func newLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// newFileCollection returns a JSON collection over a fresh directory.
func newFileCollection(t *testing.T) *db.JSONCollection {
	t.Helper()
	return db.NewJSONCollection(db.NewFileStore(t.TempDir()))
}

func newVehicles(t *testing.T, coll db.VehicleCollection, names ...string) *VehicleRegistry {
	t.Helper()
	logger, _ := newLogger()
	r, err := NewVehicleRegistry(coll, logger)
	require.NoError(t, err)
	for _, n := range names {
		added, err := r.Add(n, "", 2020, "")
		require.NoError(t, err)
		require.True(t, added)
	}
	return r
}
