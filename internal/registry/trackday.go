package registry

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/dherslof/racing-companion/internal/db"
	"github.com/dherslof/racing-companion/internal/metrics"
	"github.com/dherslof/racing-companion/internal/models"
	log "github.com/sirupsen/logrus"
)

const trackDayRegistryName = "trackdays"

// TrackDayRegistry owns the track days and their sessions.
//
// Every index taken by its methods points into the filtered view: the track
// days of the active vehicle, or all of them when no vehicle is active. The
// index is resolved to the stored record by identity before anything is
// changed, so a filtered index never touches the wrong record.
type TrackDayRegistry struct {
	mu       sync.Mutex
	coll     db.TrackDayCollection
	vehicles VehicleView
	log      log.FieldLogger
	days     []*models.TrackDay

	createFile func(name string) (*os.File, error)
}

// NewTrackDayRegistry loads the track day document from coll. vehicles
// supplies the registered names and the active vehicle.
func NewTrackDayRegistry(coll db.TrackDayCollection, vehicles VehicleView, logger log.FieldLogger) (*TrackDayRegistry, error) {
	days, err := coll.LoadTrackDays()
	if err != nil {
		return nil, fmt.Errorf("load track days: %w", err)
	}
	if vehicles == nil {
		vehicles = NewStaticVehicles(nil, "")
	}
	r := &TrackDayRegistry{
		coll:     coll,
		vehicles: vehicles,
		log:      loggerOrDefault(logger).WithField("registry", trackDayRegistryName),
		days:     make([]*models.TrackDay, 0, len(days)),

		createFile: os.Create,
	}
	for i := range days {
		d := days[i].Clone()
		r.days = append(r.days, &d)
	}
	r.log.WithField("count", len(r.days)).Debug("Loaded track days")
	return r, nil
}

func (r *TrackDayRegistry) filteredLocked() []*models.TrackDay {
	active, ok := r.vehicles.Active()
	if !ok {
		return r.days
	}
	out := make([]*models.TrackDay, 0, len(r.days))
	for _, d := range r.days {
		if d.Vehicle == active {
			out = append(out, d)
		}
	}
	return out
}

func (r *TrackDayRegistry) getLocked(index int) *models.TrackDay {
	filtered := r.filteredLocked()
	if index < 0 || index >= len(filtered) {
		return nil
	}
	return filtered[index]
}

// storageIndexLocked maps a filtered index to the position in r.days, or -1.
func (r *TrackDayRegistry) storageIndexLocked(index int) int {
	target := r.getLocked(index)
	if target == nil {
		return -1
	}
	for i, d := range r.days {
		if d == target {
			return i
		}
	}
	return -1
}

// Filtered returns copies of the track days in the filtered view.
func (r *TrackDayRegistry) Filtered() []models.TrackDay {
	r.mu.Lock()
	defer r.mu.Unlock()
	filtered := r.filteredLocked()
	out := make([]models.TrackDay, 0, len(filtered))
	for _, d := range filtered {
		out = append(out, d.Clone())
	}
	return out
}

// HasTrackDays reports whether the filtered view is non-empty.
func (r *TrackDayRegistry) HasTrackDays() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filteredLocked()) > 0
}

// Get returns a copy of the track day at index.
func (r *TrackDayRegistry) Get(index int) (models.TrackDay, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.getLocked(index)
	if d == nil {
		return models.TrackDay{}, false
	}
	return d.Clone(), true
}

// Delete removes the track day at index and returns it.
func (r *TrackDayRegistry) Delete(index int) (models.TrackDay, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.storageIndexLocked(index)
	if i < 0 {
		metrics.Mutation(trackDayRegistryName, "delete", metrics.ResultRejected)
		return models.TrackDay{}, false, nil
	}
	removed := r.days[i]
	r.days = append(r.days[:i], r.days[i+1:]...)
	r.log.WithFields(log.Fields{"index": index, "track": removed.Track, "date": removed.Date}).Debug("Deleted track day")
	return removed.Clone(), true, r.persistLocked("delete")
}

// Create appends a track day without sessions. It fails with
// ErrNoVehicles when no vehicle is registered or vehicle is the
// NoVehiclesAvailable placeholder. The vehicle is not checked against the
// registered names otherwise.
func (r *TrackDayRegistry) Create(track, date, organizer, vehicle string) (models.TrackDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.vehicles.All()) == 0 || vehicle == models.NoVehiclesAvailable {
		metrics.Mutation(trackDayRegistryName, "create", metrics.ResultRejected)
		return models.TrackDay{}, ErrNoVehicles
	}
	day := &models.TrackDay{
		Track:     track,
		Date:      date,
		Organizer: organizer,
		Vehicle:   vehicle,
		Sessions:  []models.Session{},
	}
	r.days = append(r.days, day)
	r.log.WithFields(log.Fields{"track": track, "date": date, "vehicle": vehicle}).Debug("Created track day")
	return day.Clone(), r.persistLocked("create")
}

// Sessions returns copies of the sessions of the track day at index, or an
// empty slice.
func (r *TrackDayRegistry) Sessions(index int) []models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.getLocked(index)
	if d == nil {
		return []models.Session{}
	}
	return d.Clone().Sessions
}

func (r *TrackDayRegistry) HasSessions(index int) bool {
	return len(r.Sessions(index)) > 0
}

// SessionNumbers returns the session labels of the track day at index.
func (r *TrackDayRegistry) SessionNumbers(index int) []string {
	sessions := r.Sessions(index)
	out := make([]string, 0, len(sessions))
	for i, s := range sessions {
		out = append(out, s.Label(i+1))
	}
	return out
}

func findSession(d *models.TrackDay, number string) *models.Session {
	for i := range d.Sessions {
		if d.Sessions[i].SessionNumber == number {
			return &d.Sessions[i]
		}
	}
	return nil
}

// FindSession returns the first session of the track day at index whose
// number equals number.
func (r *TrackDayRegistry) FindSession(index int, number string) (models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.getLocked(index)
	if d == nil {
		return models.Session{}, false
	}
	s := findSession(d, number)
	if s == nil {
		return models.Session{}, false
	}
	return *s, true
}

// UpdateSession merges patch onto the first session numbered number and
// returns the patched session. Fields the patch leaves nil keep their values.
func (r *TrackDayRegistry) UpdateSession(index int, number string, patch models.SessionPatch) (models.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.getLocked(index)
	if d == nil {
		metrics.Mutation(trackDayRegistryName, "update_session", metrics.ResultRejected)
		return models.Session{}, false, nil
	}
	s := findSession(d, number)
	if s == nil {
		metrics.Mutation(trackDayRegistryName, "update_session", metrics.ResultRejected)
		return models.Session{}, false, nil
	}
	patch.Apply(s)
	r.log.WithFields(log.Fields{"index": index, "session": number}).Debug("Updated session")
	return *s, true, r.persistLocked("update_session")
}

// AddSession appends session to the track day at index. The session is not
// validated here; see ValidateSession.
func (r *TrackDayRegistry) AddSession(index int, session models.Session) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.storageIndexLocked(index)
	if i < 0 {
		metrics.Mutation(trackDayRegistryName, "add_session", metrics.ResultRejected)
		return false, nil
	}
	r.days[i].Sessions = append(r.days[i].Sessions, session)
	r.log.WithFields(log.Fields{"index": index, "session": session.SessionNumber}).Debug("Added session")
	return true, r.persistLocked("add_session")
}

// NextSessionNumber suggests a label for the next session. It is not
// guaranteed to be unused.
func (r *TrackDayRegistry) NextSessionNumber(index int) string {
	return strconv.Itoa(len(r.Sessions(index)) + 1)
}

// TrackDayVehicle returns the vehicle of the track day at index, or "N/A".
func (r *TrackDayRegistry) TrackDayVehicle(index int) string {
	d, ok := r.Get(index)
	if !ok {
		return "N/A"
	}
	return d.Vehicle
}

// ValidateSession checks the required session fields.
func (r *TrackDayRegistry) ValidateSession(session models.Session) (bool, string) {
	return models.ValidateSession(session)
}

// WriteCSV writes the track day at index as CSV to w.
func (r *TrackDayRegistry) WriteCSV(index int, w io.Writer) error {
	d, ok := r.Get(index)
	if !ok {
		return ErrTrackDayNotFound
	}
	return writeTrackDayCSV(d, w)
}

// ExportCSV writes the track day at index to the file at path. Nothing is
// written when path is empty or the track day does not exist, and a file
// that fails part way is removed.
func (r *TrackDayRegistry) ExportCSV(index int, path string) error {
	if path == "" {
		return ErrNoExportPath
	}
	d, ok := r.Get(index)
	if !ok {
		return ErrTrackDayNotFound
	}

	f, err := r.createFile(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	err = writeTrackDayCSV(d, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close export file: %w", cerr)
	}
	if err != nil {
		if rerr := os.Remove(path); rerr != nil {
			r.log.WithError(rerr).WithField("path", path).Warn("Failed to remove partial export")
		}
		return err
	}
	r.log.WithFields(log.Fields{"index": index, "path": path, "sessions": len(d.Sessions)}).Info("Exported track day")
	return nil
}

func writeTrackDayCSV(d models.TrackDay, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(models.CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(d.CSVRows()); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

func (r *TrackDayRegistry) persistLocked(operation string) error {
	snapshot := make([]models.TrackDay, len(r.days))
	for i, d := range r.days {
		snapshot[i] = d.Clone()
	}
	if err := r.coll.SaveTrackDays(snapshot); err != nil {
		metrics.Mutation(trackDayRegistryName, operation, metrics.ResultError)
		metrics.PersistFailures.WithLabelValues(trackDayRegistryName).Inc()
		r.log.WithError(err).WithField("operation", operation).Error("Failed to save track days")
		return fmt.Errorf("save track days: %w", err)
	}
	metrics.Mutation(trackDayRegistryName, operation, metrics.ResultOK)
	return nil
}
