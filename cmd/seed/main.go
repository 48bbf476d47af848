package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dherslof/racing-companion/internal/handlers"
	"github.com/dherslof/racing-companion/internal/models"
	log "github.com/sirupsen/logrus"
)

// demoVehicles are registered before any records are created.
var demoVehicles = []handlers.VehicleRequest{
	{Name: "Yamaha R6", Type: models.VehicleTypeMotorcycle, Year: 2019, Misc: "Track bike"},
	{Name: "Golf GTI", Type: models.VehicleTypeCar, Year: 2005, Misc: "Clubman class"},
	{Name: "Ski-Doo MXZ", Type: models.VehicleTypeSnowmobile, Year: 2021},
}

var tracks = []struct {
	Name      string
	Organizer string
}{
	{"Anderstorp Raceway", "MC Club Smaland"},
	{"Mantorp Park", "Trackday Sweden"},
	{"Knutstorp", "Racing Club South"},
	{"Gelleråsen", "Karlskoga MK"},
	{"Falkenberg", "Halland Motor"},
}

var tireTypes = []string{"Slicks", "Rain", "Intermediate", "Street"}
var tireStatuses = []string{"New", "Used", "Worn"}

var maintenanceTitles = []string{
	"Oil change", "Brake pads", "Chain clean and lube", "Valve clearance check",
	"Coolant flush", "Tire change", "ECU update", "Suspension service",
}

var authToken string

func authorizedRequest(method, url string, body *bytes.Buffer) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = body
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

// postJSON sends v and decodes the response into out when out is non-nil.
func postJSON(url string, v interface{}, expected int, out interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	resp, err := authorizedRequest(http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s failed with status %d: %s", url, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func login(apiURL, passphrase string) (string, error) {
	var resp models.LoginResponse
	if err := postJSON(apiURL+"/auth/login", models.LoginRequest{Passphrase: passphrase}, http.StatusOK, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func createVehicle(apiURL string, v handlers.VehicleRequest) error {
	if err := postJSON(apiURL+"/vehicles", v, http.StatusCreated, nil); err != nil {
		return err
	}
	log.WithFields(log.Fields{"vehicle": v.Name, "type": v.Type, "year": v.Year}).Info("Created vehicle")
	return nil
}

// createTrackDay creates a track day and returns its index in the server's
// current track day list.
func createTrackDay(apiURL string, req handlers.TrackDayRequest) (int, error) {
	if err := postJSON(apiURL+"/trackdays", req, http.StatusCreated, nil); err != nil {
		return 0, err
	}

	resp, err := authorizedRequest(http.MethodGet, apiURL+"/trackdays", nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	var days []models.TrackDay
	if err := json.NewDecoder(resp.Body).Decode(&days); err != nil {
		return 0, fmt.Errorf("failed to decode track days: %w", err)
	}
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if d.Track == req.Track && d.Date == req.Date && d.Vehicle == req.Vehicle {
			log.WithFields(log.Fields{"index": i, "track": d.Track, "date": d.Date, "vehicle": d.Vehicle}).Info("Created track day")
			return i, nil
		}
	}
	return 0, fmt.Errorf("track day %s %s is not visible, is another vehicle active?", req.Track, req.Date)
}

func addSession(apiURL string, index int, s models.Session) error {
	return postJSON(fmt.Sprintf("%s/trackdays/%d/sessions", apiURL, index), s, http.StatusCreated, nil)
}

func createMaintenance(apiURL string, e models.MaintenanceEntry) error {
	if err := postJSON(apiURL+"/maintenance", e, http.StatusCreated, nil); err != nil {
		return err
	}
	log.WithFields(log.Fields{"vehicle": e.Vehicle, "title": e.Title, "date": e.Date}).Info("Logged maintenance")
	return nil
}

func randomLapTime() string {
	secs := 85 + rand.Float64()*30
	return fmt.Sprintf("%d:%04.1f", int(secs)/60, secs-float64(int(secs)/60*60))
}

func randomSession(number int, vehicle string) models.Session {
	return models.Session{
		SessionNumber: strconv.Itoa(number),
		Laps:          strconv.Itoa(5 + rand.Intn(15)),
		Vehicle:       vehicle,
		Weather:       models.WeatherOptions[rand.Intn(len(models.WeatherOptions))],
		TireType:      tireTypes[rand.Intn(len(tireTypes))],
		TireStatus:    tireStatuses[rand.Intn(len(tireStatuses))],
		BestLapTime:   randomLapTime(),
	}
}

func randomDuration() string {
	hours := rand.Intn(4)
	minutes := 5 * rand.Intn(12)
	switch {
	case hours == 0:
		return fmt.Sprintf("%d minutes", minutes+15)
	case minutes == 0:
		return fmt.Sprintf("%d hours", hours)
	default:
		return fmt.Sprintf("%d hours %d minutes", hours, minutes)
	}
}

func randomEntry(vehicle string, date time.Time) models.MaintenanceEntry {
	tags := []string{models.DefaultTags[rand.Intn(len(models.DefaultTags))]}
	if extra := models.DefaultTags[rand.Intn(len(models.DefaultTags))]; extra != tags[0] {
		tags = append(tags, extra)
	}
	return models.MaintenanceEntry{
		Title:    maintenanceTitles[rand.Intn(len(maintenanceTitles))],
		Vehicle:  vehicle,
		Date:     date.Format("2006-01-02"),
		Duration: randomDuration(),
		Tags:     tags,
	}
}

// seedOptions controls how much demo data is created per vehicle.
type seedOptions struct {
	TrackDays   int
	Sessions    int
	Maintenance int
	Start       time.Time
}

// seedResult counts what was created.
type seedResult struct {
	Vehicles    int
	TrackDays   int
	Sessions    int
	Maintenance int
}

func seed(apiURL string, opts seedOptions) (seedResult, error) {
	var res seedResult
	for _, v := range demoVehicles {
		if err := createVehicle(apiURL, v); err != nil {
			return res, err
		}
		res.Vehicles++
	}

	for vi, v := range demoVehicles {
		for d := 0; d < opts.TrackDays; d++ {
			track := tracks[(vi+d)%len(tracks)]
			date := opts.Start.AddDate(0, 0, 14*d+vi)
			index, err := createTrackDay(apiURL, handlers.TrackDayRequest{
				Track:     track.Name,
				Date:      date.Format("2006-01-02"),
				Organizer: track.Organizer,
				Vehicle:   v.Name,
			})
			if err != nil {
				return res, err
			}
			res.TrackDays++
			for s := 1; s <= opts.Sessions; s++ {
				if err := addSession(apiURL, index, randomSession(s, v.Name)); err != nil {
					return res, err
				}
				res.Sessions++
			}
		}

		for m := 0; m < opts.Maintenance; m++ {
			date := opts.Start.AddDate(0, m, rand.Intn(28))
			if err := createMaintenance(apiURL, randomEntry(v.Name, date)); err != nil {
				return res, err
			}
			res.Maintenance++
		}
	}
	return res, nil
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func main() {
	apiURL := os.Getenv("RC_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8081/api"
	}

	if passphrase := os.Getenv("RC_API_PASSPHRASE"); passphrase != "" {
		token, err := login(apiURL, passphrase)
		if err != nil {
			log.WithError(err).Fatal("Login failed")
		}
		authToken = token
	}

	opts := seedOptions{
		TrackDays:   envInt("SEED_TRACK_DAYS", 3),
		Sessions:    envInt("SEED_SESSIONS", 4),
		Maintenance: envInt("SEED_MAINTENANCE", 5),
		Start:       time.Now().AddDate(0, -6, 0),
	}

	log.WithFields(log.Fields{
		"api_url":     apiURL,
		"track_days":  opts.TrackDays,
		"sessions":    opts.Sessions,
		"maintenance": opts.Maintenance,
	}).Info("Seeding demo data")

	res, err := seed(apiURL, opts)
	if err != nil {
		log.WithError(err).Fatal("Seeding failed")
	}
	log.WithFields(log.Fields{
		"vehicles":    res.Vehicles,
		"track_days":  res.TrackDays,
		"sessions":    res.Sessions,
		"maintenance": res.Maintenance,
	}).Info("Seeding completed")
}
