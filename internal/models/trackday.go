package models

import "fmt"

// NoVehiclesAvailable is the placeholder a front end shows in its vehicle
// picker when no vehicle is registered. It is never a valid vehicle.
const NoVehiclesAvailable = "No Vehicles Available"

// WeatherOptions is the fixed set of weather values offered for sessions.
var WeatherOptions = []string{
	"Sunny", "Cloudy", "Overcast", "Light Rain", "Heavy Rain",
	"Wet Track", "Mixed Conditions", "drying-up",
}

// TrackDay is one outing at a track. Sessions keep append order.
type TrackDay struct {
	Track     string    `json:"track" yaml:"track"`
	Date      string    `json:"date" yaml:"date"` // YYYY-MM-DD, not enforced
	Organizer string    `json:"organizer" yaml:"organizer"`
	Vehicle   string    `json:"vehicle" yaml:"vehicle"`
	Sessions  []Session `json:"sessions" yaml:"sessions"`
}

// Clone returns a deep copy of the track day.
func (t TrackDay) Clone() TrackDay {
	out := t
	out.Sessions = make([]Session, len(t.Sessions))
	copy(out.Sessions, t.Sessions)
	return out
}

// Session is one run within a track day. SessionNumber is a display label,
// not an index, and is not guaranteed to be unique.
type Session struct {
	SessionNumber string `json:"session_number" yaml:"session_number" validate:"required"`
	Laps          string `json:"laps" yaml:"laps" validate:"required"`
	Vehicle       string `json:"vehicle" yaml:"vehicle" validate:"required"`
	Weather       string `json:"weather" yaml:"weather" validate:"required"`
	TireType      string `json:"tire_type" yaml:"tire_type"`
	TireStatus    string `json:"tire_status" yaml:"tire_status"`
	BestLapTime   string `json:"best_lap_time" yaml:"best_lap_time"`
	Comments      string `json:"comments" yaml:"comments"`
}

// Label returns the session number, or "Session N" for a session stored
// without one, where N is its 1-based position.
func (s Session) Label(position int) string {
	if s.SessionNumber != "" {
		return s.SessionNumber
	}
	return fmt.Sprintf("Session %d", position)
}

// SessionPatch is a partial session update. Nil fields are left untouched.
type SessionPatch struct {
	SessionNumber *string `json:"session_number,omitempty"`
	Laps          *string `json:"laps,omitempty"`
	Vehicle       *string `json:"vehicle,omitempty"`
	Weather       *string `json:"weather,omitempty"`
	TireType      *string `json:"tire_type,omitempty"`
	TireStatus    *string `json:"tire_status,omitempty"`
	BestLapTime   *string `json:"best_lap_time,omitempty"`
	Comments      *string `json:"comments,omitempty"`
}

// Apply merges the patch onto s.
func (p SessionPatch) Apply(s *Session) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.SessionNumber, p.SessionNumber)
	set(&s.Laps, p.Laps)
	set(&s.Vehicle, p.Vehicle)
	set(&s.Weather, p.Weather)
	set(&s.TireType, p.TireType)
	set(&s.TireStatus, p.TireStatus)
	set(&s.BestLapTime, p.BestLapTime)
	set(&s.Comments, p.Comments)
}

// CSVHeader is the column order of a track day export.
var CSVHeader = []string{
	"track", "date", "organizer", "vehicle",
	"session_number", "laps", "weather", "tire_type", "tire_status", "best_lap_time", "comments",
}

// CSVRows flattens the track day into export rows: one per session, or a
// single row with blank session columns when there are no sessions.
func (t TrackDay) CSVRows() [][]string {
	head := []string{t.Track, t.Date, t.Organizer, t.Vehicle}
	if len(t.Sessions) == 0 {
		return [][]string{append(head, "", "", "", "", "", "", "")}
	}
	rows := make([][]string, 0, len(t.Sessions))
	for _, s := range t.Sessions {
		row := make([]string, 0, len(CSVHeader))
		row = append(row, head...)
		row = append(row, s.SessionNumber, s.Laps, s.Weather, s.TireType, s.TireStatus, s.BestLapTime, s.Comments)
		rows = append(rows, row)
	}
	return rows
}
