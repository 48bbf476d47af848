package registry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dherslof/racing-companion/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func session(number, laps string) models.Session {
	return models.Session{SessionNumber: number, Laps: laps, Vehicle: "R6", Weather: "Sunny"}
}

func newTrackDays(t *testing.T, vehicles VehicleView) *TrackDayRegistry {
	t.Helper()
	logger, _ := newLogger()
	r, err := NewTrackDayRegistry(newFileCollection(t), vehicles, logger)
	require.NoError(t, err)
	return r
}

func TestTrackDayRegistry_CreateRequiresVehicles(t *testing.T) {
	r := newTrackDays(t, NewStaticVehicles(nil, ""))
	_, err := r.Create("Anderstorp", "2024-06-12", "", "R6")
	assert.ErrorIs(t, err, ErrNoVehicles)
	assert.False(t, r.HasTrackDays())

	r = newTrackDays(t, NewStaticVehicles([]string{"R6"}, ""))
	_, err = r.Create("Anderstorp", "2024-06-12", "", models.NoVehiclesAvailable)
	assert.ErrorIs(t, err, ErrNoVehicles)

	day, err := r.Create("Anderstorp", "2024-06-12", "MC Club", "R6")
	require.NoError(t, err)
	assert.Equal(t, models.TrackDay{Track: "Anderstorp", Date: "2024-06-12", Organizer: "MC Club", Vehicle: "R6", Sessions: []models.Session{}}, day)
	assert.True(t, r.HasTrackDays())
	assert.False(t, r.HasSessions(0))
}

func TestTrackDayRegistry_FilteredIndexes(t *testing.T) {
	view := NewStaticVehicles([]string{"R6", "Golf"}, "")
	r := newTrackDays(t, view)
	for _, d := range []struct{ track, vehicle string }{
		{"Anderstorp", "R6"}, {"Mantorp", "Golf"}, {"Knutstorp", "R6"},
	} {
		_, err := r.Create(d.track, "2024-06-12", "", d.vehicle)
		require.NoError(t, err)
	}

	view.Update([]string{"R6", "Golf"}, "R6")
	days := r.Filtered()
	require.Len(t, days, 2)
	assert.Equal(t, "Knutstorp", days[1].Track)

	// Index 1 of the filtered view is storage index 2.
	added, err := r.AddSession(1, session("1", "10"))
	require.NoError(t, err)
	require.True(t, added)

	_, ok := r.Get(2)
	assert.False(t, ok)

	view.Update([]string{"R6", "Golf"}, "")
	all := r.Filtered()
	require.Len(t, all, 3)
	assert.Empty(t, all[0].Sessions)
	assert.Len(t, all[2].Sessions, 1)
	assert.Equal(t, "R6", r.TrackDayVehicle(2))
	assert.Equal(t, "N/A", r.TrackDayVehicle(3))

	view.Update([]string{"R6", "Golf"}, "Golf")
	removed, deleted, err := r.Delete(0)
	require.NoError(t, err)
	require.True(t, deleted)
	assert.Equal(t, "Mantorp", removed.Track)

	view.Update([]string{"R6", "Golf"}, "")
	assert.Len(t, r.Filtered(), 2)

	_, deleted, err = r.Delete(5)
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestTrackDayRegistry_Sessions(t *testing.T) {
	r := newTrackDays(t, NewStaticVehicles([]string{"R6"}, ""))
	_, err := r.Create("Anderstorp", "2024-06-12", "", "R6")
	require.NoError(t, err)

	assert.Equal(t, "1", r.NextSessionNumber(0))
	assert.Empty(t, r.Sessions(7))

	_, err = r.AddSession(0, session("1", "10"))
	require.NoError(t, err)
	_, err = r.AddSession(0, models.Session{Laps: "3", Vehicle: "R6", Weather: "Cloudy"})
	require.NoError(t, err)
	_, err = r.AddSession(0, session("1", "99"))
	require.NoError(t, err)

	assert.Equal(t, "4", r.NextSessionNumber(0))
	assert.Equal(t, []string{"1", "Session 2", "1"}, r.SessionNumbers(0))

	found, ok := r.FindSession(0, "1")
	require.True(t, ok)
	assert.Equal(t, "10", found.Laps, "first match wins")

	t.Run("patch merges fields", func(t *testing.T) {
		laps := "12"
		best := "1:41.9"
		patched, updated, err := r.UpdateSession(0, "1", models.SessionPatch{Laps: &laps, BestLapTime: &best})
		require.NoError(t, err)
		require.True(t, updated)

		want := models.Session{SessionNumber: "1", Laps: "12", Vehicle: "R6", Weather: "Sunny", BestLapTime: "1:41.9"}
		assert.Equal(t, want, patched)
		assert.Equal(t, want, r.Sessions(0)[0])
		assert.Equal(t, "99", r.Sessions(0)[2].Laps)
	})

	t.Run("unknown session or track day", func(t *testing.T) {
		laps := "1"
		_, updated, err := r.UpdateSession(0, "42", models.SessionPatch{Laps: &laps})
		assert.NoError(t, err)
		assert.False(t, updated)

		_, updated, err = r.UpdateSession(3, "1", models.SessionPatch{Laps: &laps})
		assert.NoError(t, err)
		assert.False(t, updated)

		added, err := r.AddSession(3, session("1", "1"))
		assert.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("returned sessions are copies", func(t *testing.T) {
		sessions := r.Sessions(0)
		sessions[0].Laps = "changed"
		assert.Equal(t, "12", r.Sessions(0)[0].Laps)
	})
}

func TestTrackDayRegistry_ValidateSession(t *testing.T) {
	r := newTrackDays(t, nil)
	ok, msg := r.ValidateSession(session("1", "10"))
	assert.True(t, ok)
	assert.Equal(t, "Valid", msg)

	ok, msg = r.ValidateSession(models.Session{SessionNumber: "1", Vehicle: "R6", Weather: "Sunny"})
	assert.False(t, ok)
	assert.Equal(t, "Missing required field: laps", msg)
}

func TestTrackDayRegistry_Persistence(t *testing.T) {
	coll := newFileCollection(t)
	view := NewStaticVehicles([]string{"R6"}, "")
	logger, _ := newLogger()

	r, err := NewTrackDayRegistry(coll, view, logger)
	require.NoError(t, err)
	_, err = r.Create("Anderstorp", "2024-06-12", "", "R6")
	require.NoError(t, err)
	_, err = r.AddSession(0, session("1", "10"))
	require.NoError(t, err)

	reloaded, err := NewTrackDayRegistry(coll, view, logger)
	require.NoError(t, err)
	assert.Equal(t, r.Filtered(), reloaded.Filtered())
}

func TestTrackDayRegistry_PersistFailure(t *testing.T) {
	coll := new(MockCollection)
	coll.On("LoadTrackDays").Return([]models.TrackDay{}, nil)
	coll.On("SaveTrackDays", mock.Anything).Return(errDiskFull)

	logger, hook := newLogger()
	r, err := NewTrackDayRegistry(coll, NewStaticVehicles([]string{"R6"}, ""), logger)
	require.NoError(t, err)

	_, err = r.Create("Anderstorp", "2024-06-12", "", "R6")
	assert.ErrorIs(t, err, errDiskFull)
	assert.Len(t, r.Filtered(), 1)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "trackdays", hook.LastEntry().Data["registry"])
}

func TestTrackDayRegistry_ExportCSV(t *testing.T) {
	r := newTrackDays(t, NewStaticVehicles([]string{"R6"}, ""))
	_, err := r.Create("Anderstorp", "2024-06-12", "MC Club", "R6")
	require.NoError(t, err)

	dir := t.TempDir()

	t.Run("zero sessions", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		require.NoError(t, r.ExportCSV(0, path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t,
			strings.Join(models.CSVHeader, ",")+"\r\n"+"Anderstorp,2024-06-12,MC Club,R6,,,,,,,\r\n",
			string(data))
	})

	t.Run("quotes fields with commas", func(t *testing.T) {
		s := session("1", "10")
		s.Comments = "slid in T3, cold tires"
		_, err := r.AddSession(0, s)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, r.WriteCSV(0, &buf))
		assert.Contains(t, buf.String(), `"slid in T3, cold tires"`)
	})

	t.Run("invalid index writes nothing", func(t *testing.T) {
		path := filepath.Join(dir, "missing.csv")
		assert.ErrorIs(t, r.ExportCSV(4, path), ErrTrackDayNotFound)
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("failed write removes the file", func(t *testing.T) {
		path := filepath.Join(dir, "partial.csv")
		r.createFile = func(name string) (*os.File, error) {
			if err := os.WriteFile(name, []byte("stale"), 0o644); err != nil {
				return nil, err
			}
			// Read-only handle, so every write fails.
			return os.Open(name)
		}
		defer func() { r.createFile = os.Create }()

		assert.Error(t, r.ExportCSV(0, path))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("empty path", func(t *testing.T) {
		assert.ErrorIs(t, r.ExportCSV(0, ""), ErrNoExportPath)
	})
}
