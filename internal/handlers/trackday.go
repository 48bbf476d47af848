package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dherslof/racing-companion/internal/models"
	"github.com/dherslof/racing-companion/internal/registry"
)

// TrackDayHandler serves the track day registry. Every {index} in a path
// refers to the list returned by GET /api/trackdays, which follows the
// active vehicle.
type TrackDayHandler struct {
	trackDays *registry.TrackDayRegistry
}

// NewTrackDayHandler creates a new track day handler
func NewTrackDayHandler(trackDays *registry.TrackDayRegistry) *TrackDayHandler {
	return &TrackDayHandler{trackDays: trackDays}
}

// TrackDayRequest is the body of a create request.
type TrackDayRequest struct {
	Track     string `json:"track"`
	Date      string `json:"date"`
	Organizer string `json:"organizer"`
	Vehicle   string `json:"vehicle"`
}

// NextSessionResponse carries the suggested next session number.
type NextSessionResponse struct {
	SessionNumber string `json:"session_number"`
	Vehicle       string `json:"vehicle"`
}

// Collection handles GET and POST on /api/trackdays.
func (h *TrackDayHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.trackDays.Filtered())
	case http.MethodPost:
		var req TrackDayRequest
		if err := readJSON(r, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		day, err := h.trackDays.Create(req.Track, req.Date, req.Organizer, req.Vehicle)
		if errors.Is(err, registry.ErrNoVehicles) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			persistFailed(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, day)
	default:
		methodNotAllowed(w)
	}
}

// Item handles GET and DELETE on /api/trackdays/{index}.
func (h *TrackDayHandler) Item(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		day, found := h.trackDays.Get(index)
		if !found {
			http.Error(w, "Track day not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, day)
	case http.MethodDelete:
		_, deleted, err := h.trackDays.Delete(index)
		if !deleted {
			http.Error(w, "Track day not found", http.StatusNotFound)
			return
		}
		if err != nil {
			persistFailed(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// Sessions handles GET and POST on /api/trackdays/{index}/sessions.
func (h *TrackDayHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.trackDays.Sessions(index))
	case http.MethodPost:
		var session models.Session
		if err := readJSON(r, &session); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if valid, msg := h.trackDays.ValidateSession(session); !valid {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		added, err := h.trackDays.AddSession(index, session)
		if !added {
			http.Error(w, "Track day not found", http.StatusNotFound)
			return
		}
		if err != nil {
			persistFailed(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, session)
	default:
		methodNotAllowed(w)
	}
}

// NextSessionNumber handles GET on /api/trackdays/{index}/sessions/next-number.
func (h *TrackDayHandler) NextSessionNumber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NextSessionResponse{
		SessionNumber: h.trackDays.NextSessionNumber(index),
		Vehicle:       h.trackDays.TrackDayVehicle(index),
	})
}

// Session handles GET and PATCH on /api/trackdays/{index}/sessions/{number}.
func (h *TrackDayHandler) Session(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	number := r.PathValue("number")

	switch r.Method {
	case http.MethodGet:
		session, found := h.trackDays.FindSession(index, number)
		if !found {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, session)
	case http.MethodPatch:
		var patch models.SessionPatch
		if err := readJSON(r, &patch); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		session, updated, err := h.trackDays.UpdateSession(index, number, patch)
		if !updated {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		if err != nil {
			persistFailed(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	default:
		methodNotAllowed(w)
	}
}

// ExportCSV handles GET on /api/trackdays/{index}/export.csv.
func (h *TrackDayHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.trackDays.WriteCSV(index, &buf); err != nil {
		if errors.Is(err, registry.ErrTrackDayNotFound) {
			http.Error(w, "Track day not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to export track day", http.StatusInternalServerError)
		return
	}

	day, _ := h.trackDays.Get(index)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName(day)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func exportFileName(day models.TrackDay) string {
	name := strings.Join([]string{day.Track, day.Date}, "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', '"':
			return '_'
		}
		return r
	}, name)
	return name + ".csv"
}
