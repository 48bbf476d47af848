package registry

import (
	"testing"

	"github.com/dherslof/racing-companion/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func oilChange() models.MaintenanceEntry {
	return models.MaintenanceEntry{
		Title:    "Oil change",
		Vehicle:  "R6",
		Date:     "2024-05-01",
		Duration: "1 hour 30 minutes",
		Tags:     []string{"Oil", "Routine"},
	}
}

func newMaintenance(t *testing.T, vehicles VehicleView) *MaintenanceRegistry {
	t.Helper()
	logger, _ := newLogger()
	r, err := NewMaintenanceRegistry(newFileCollection(t), vehicles, logger)
	require.NoError(t, err)
	return r
}

func TestMaintenanceRegistry_AddUpdateDelete(t *testing.T) {
	coll := newFileCollection(t)
	logger, _ := newLogger()
	r, err := NewMaintenanceRegistry(coll, nil, logger)
	require.NoError(t, err)

	stored, err := r.Add(oilChange())
	require.NoError(t, err)
	assert.True(t, stored.Equal(oilChange()))

	// Identical entries are allowed.
	_, err = r.Add(oilChange())
	require.NoError(t, err)
	require.Len(t, r.All(), 2)

	updated := oilChange()
	updated.Description = "Motul 300V"
	_, err = r.Update(oilChange(), updated)
	require.NoError(t, err)

	all := r.All()
	assert.Equal(t, "Motul 300V", all[0].Description, "first match is updated")
	assert.Empty(t, all[1].Description)

	_, err = r.Update(models.MaintenanceEntry{Title: "Nope"}, updated)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	deleted, err := r.Delete(updated)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = r.Delete(updated)
	require.NoError(t, err)
	assert.False(t, deleted)

	reloaded, err := NewMaintenanceRegistry(coll, nil, logger)
	require.NoError(t, err)
	require.Len(t, reloaded.All(), 1)
	assert.True(t, reloaded.All()[0].Equal(oilChange()))
}

func TestMaintenanceRegistry_StoredEntriesAreCopies(t *testing.T) {
	r := newMaintenance(t, nil)
	e := oilChange()
	_, err := r.Add(e)
	require.NoError(t, err)

	e.Tags[0] = "changed"
	r.All()[0].Tags[1] = "changed"
	assert.Equal(t, []string{"Oil", "Routine"}, r.All()[0].Tags)
}

func TestMaintenanceRegistry_Filter(t *testing.T) {
	view := NewStaticVehicles([]string{"R6", "Golf"}, "")
	r := newMaintenance(t, view)
	brakes := models.MaintenanceEntry{Title: "Brake pads", Vehicle: "Golf", Date: "2024-06-10", Tags: []string{"Brakes"}}
	for _, e := range []models.MaintenanceEntry{oilChange(), brakes} {
		_, err := r.Add(e)
		require.NoError(t, err)
	}

	assert.Len(t, r.Filter(models.NewMaintenanceFilter(), true), 2)

	view.Update([]string{"R6", "Golf"}, "Golf")
	got := r.Filter(models.NewMaintenanceFilter(), true)
	require.Len(t, got, 1)
	assert.Equal(t, "Brake pads", got[0].Title)

	assert.Len(t, r.Filter(models.NewMaintenanceFilter(), false), 2)
	assert.Len(t, r.Filter(models.MaintenanceFilter{SearchText: "oil"}, true), 1)

	active, ok := r.ActiveVehicle()
	assert.True(t, ok)
	assert.Equal(t, "Golf", active)
	assert.Equal(t, []string{"R6", "Golf"}, r.AvailableVehicles())
}

func TestMaintenanceRegistry_Validate(t *testing.T) {
	r := newMaintenance(t, nil)
	e := oilChange()
	e.Date = "12-06-2024"
	ok, errs := r.Validate(e)
	assert.False(t, ok)
	assert.Equal(t, []string{"Date must be in YYYY-MM-DD format"}, errs)
}

func TestMaintenanceRegistry_StatisticsAndCharts(t *testing.T) {
	r := newMaintenance(t, nil)
	for _, e := range []models.MaintenanceEntry{
		oilChange(),
		{Title: "Chain", Vehicle: "R6", Date: "2024-05-20", Duration: "2hr 15min", Tags: []string{"Routine"}},
	} {
		_, err := r.Add(e)
		require.NoError(t, err)
	}

	stats := r.Statistics()
	assert.Equal(t, models.VehicleStats{Count: 2, TotalMinutes: 225}, stats.Vehicles["R6"])

	chart, err := r.ChartData(models.ChartPie)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oil", "Routine"}, chart.Labels)
	assert.Equal(t, []int{1, 2}, chart.Values)

	_, err = r.ChartData(models.ChartKind("radar"))
	assert.ErrorIs(t, err, ErrUnknownChart)
}

func TestMaintenanceRegistry_PersistFailure(t *testing.T) {
	coll := new(MockCollection)
	coll.On("LoadMaintenance").Return([]models.MaintenanceEntry{}, nil)
	coll.On("SaveMaintenance", mock.Anything).Return(errDiskFull).Once()
	coll.On("SaveMaintenance", mock.Anything).Return(nil)

	logger, hook := newLogger()
	r, err := NewMaintenanceRegistry(coll, nil, logger)
	require.NoError(t, err)

	_, err = r.Add(oilChange())
	assert.ErrorIs(t, err, errDiskFull)
	assert.Len(t, r.All(), 1)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "maintenance", hook.LastEntry().Data["registry"])

	// The next successful write includes the earlier entry.
	_, err = r.Add(oilChange())
	require.NoError(t, err)
	coll.AssertNumberOfCalls(t, "SaveMaintenance", 2)
	last := coll.Calls[len(coll.Calls)-1].Arguments.Get(0).([]models.MaintenanceEntry)
	assert.Len(t, last, 2)
}
