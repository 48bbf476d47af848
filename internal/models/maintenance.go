package models

import (
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// FilterAll is the sentinel that disables the vehicle and type filters.
const FilterAll = "All"

// DefaultTags is the tag vocabulary offered when logging maintenance.
// Entries may carry any other tag as well.
var DefaultTags = []string{
	"Routine", "Repair", "Major", "Minor", "Preventive", "Oil",
	"Tires", "Engine", "Chassis", "Brakes", "Update", "Electronics",
}

// MaintenanceEntry is one service, repair or maintenance action.
type MaintenanceEntry struct {
	Title       string   `json:"title" yaml:"title" validate:"notblank"`
	Vehicle     string   `json:"vehicle" yaml:"vehicle" validate:"notblank"`
	Date        string   `json:"date" yaml:"date" validate:"notblank,ymd"`
	Duration    string   `json:"duration" yaml:"duration"`
	Description string   `json:"description" yaml:"description"`
	HandbookRef string   `json:"handbook_ref" yaml:"handbook_ref"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// Equal reports whether e and o hold the same values in every field.
// A nil tag list equals an empty one.
func (e MaintenanceEntry) Equal(o MaintenanceEntry) bool {
	return e.Title == o.Title &&
		e.Vehicle == o.Vehicle &&
		e.Date == o.Date &&
		e.Duration == o.Duration &&
		e.Description == o.Description &&
		e.HandbookRef == o.HandbookRef &&
		slices.Equal(e.Tags, o.Tags)
}

// Clone returns a copy that shares no memory with e.
func (e MaintenanceEntry) Clone() MaintenanceEntry {
	out := e
	out.Tags = make([]string, len(e.Tags))
	copy(out.Tags, e.Tags)
	return out
}

// HasTag reports whether tag appears verbatim in the entry's tags.
func (e MaintenanceEntry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

func (e MaintenanceEntry) matchesText(lowered string) bool {
	return strings.Contains(strings.ToLower(e.Title), lowered) ||
		strings.Contains(strings.ToLower(e.Description), lowered) ||
		strings.Contains(strings.ToLower(e.Vehicle), lowered)
}

// MaintenanceFilter holds the criteria of a maintenance search. It is never
// persisted. An empty Vehicle or MaintenanceType behaves like FilterAll.
type MaintenanceFilter struct {
	SearchText      string `json:"search_text"`
	Vehicle         string `json:"vehicle"`
	MaintenanceType string `json:"maintenance_type"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
}

// NewMaintenanceFilter returns a filter that matches everything.
func NewMaintenanceFilter() MaintenanceFilter {
	return MaintenanceFilter{Vehicle: FilterAll, MaintenanceType: FilterAll}
}

// Apply returns the entries matching f, in their original order. When
// activeVehicle is non-empty and there is no search text, it replaces
// f.Vehicle. Dates are compared as strings, so bounds only work for
// YYYY-MM-DD values.
func (f MaintenanceFilter) Apply(entries []MaintenanceEntry, activeVehicle string) []MaintenanceEntry {
	vehicle := f.Vehicle
	if activeVehicle != "" && f.SearchText == "" {
		vehicle = activeVehicle
	}
	search := strings.ToLower(f.SearchText)

	out := make([]MaintenanceEntry, 0, len(entries))
	for _, e := range entries {
		if search != "" && !e.matchesText(search) {
			continue
		}
		if vehicle != "" && vehicle != FilterAll && !strings.Contains(e.Vehicle, vehicle) {
			continue
		}
		if f.MaintenanceType != "" && f.MaintenanceType != FilterAll && !e.HasTag(f.MaintenanceType) {
			continue
		}
		if f.StartDate != "" && e.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && e.Date > f.EndDate {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*(?:hour|hr)s?`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:minute|min)s?`)
)

// MaxDurationMinutes caps a single parsed duration.
const MaxDurationMinutes = math.MaxInt32

// ParseDurationMinutes reads a free-text duration such as "1 hour 30 minutes"
// or "2hr 15min" and returns the total in minutes. Missing parts count as 0
// and the result saturates at MaxDurationMinutes.
func ParseDurationMinutes(duration string) int {
	if duration == "" {
		return 0
	}
	hours := firstInt(hoursPattern, duration)
	minutes := firstInt(minutesPattern, duration)
	if hours > MaxDurationMinutes/60 || minutes > MaxDurationMinutes-hours*60 {
		return MaxDurationMinutes
	}
	return hours*60 + minutes
}

// firstInt returns the first captured number, clamped to MaxDurationMinutes.
func firstInt(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	// The pattern only captures digits, so Atoi can fail on range alone.
	n, err := strconv.Atoi(m[1])
	if err != nil || n > MaxDurationMinutes {
		return MaxDurationMinutes
	}
	return n
}

// UnknownBucket groups entries with no vehicle or an unusable date.
const UnknownBucket = "Unknown"

// VehicleStats aggregates the entries of one vehicle.
type VehicleStats struct {
	Count        int `json:"count" yaml:"count"`
	TotalMinutes int `json:"total_minutes" yaml:"total_minutes"`
}

// MaintenanceStatistics is derived from the entry list on demand.
// VehicleOrder and TagOrder keep first-seen order for display.
type MaintenanceStatistics struct {
	Vehicles     map[string]VehicleStats `json:"vehicles" yaml:"vehicles"`
	Months       map[string]int          `json:"months" yaml:"months"`
	Tags         map[string]int          `json:"tags" yaml:"tags"`
	VehicleOrder []string                `json:"vehicle_order" yaml:"vehicle_order"`
	TagOrder     []string                `json:"tag_order" yaml:"tag_order"`
}

// ComputeStatistics aggregates entries in a single pass.
func ComputeStatistics(entries []MaintenanceEntry) MaintenanceStatistics {
	stats := MaintenanceStatistics{
		Vehicles:     map[string]VehicleStats{},
		Months:       map[string]int{},
		Tags:         map[string]int{},
		VehicleOrder: []string{},
		TagOrder:     []string{},
	}
	for _, e := range entries {
		vehicle := e.Vehicle
		if vehicle == "" {
			vehicle = UnknownBucket
		}
		vs, seen := stats.Vehicles[vehicle]
		if !seen {
			stats.VehicleOrder = append(stats.VehicleOrder, vehicle)
		}
		vs.Count++
		vs.TotalMinutes += ParseDurationMinutes(e.Duration)
		stats.Vehicles[vehicle] = vs

		month := UnknownBucket
		if len(e.Date) >= 7 {
			month = e.Date[:7]
		}
		stats.Months[month]++

		for _, tag := range e.Tags {
			if _, ok := stats.Tags[tag]; !ok {
				stats.TagOrder = append(stats.TagOrder, tag)
			}
			stats.Tags[tag]++
		}
	}
	return stats
}

// ChartKind selects a chart derivation.
type ChartKind string

const (
	ChartFrequency         ChartKind = "frequency"
	ChartPie               ChartKind = "pie"
	ChartVehicleComparison ChartKind = "vehicle_comparison"
)

// ChartData is a display-ready aggregation. Frequency and pie charts fill
// Labels and Values; vehicle comparison fills VehicleNames, Counts and Times
// (hours).
type ChartData struct {
	Title        string    `json:"title" yaml:"title"`
	XLabel       string    `json:"xlabel,omitempty" yaml:"xlabel,omitempty"`
	YLabel       string    `json:"ylabel,omitempty" yaml:"ylabel,omitempty"`
	Labels       []string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Values       []int     `json:"values,omitempty" yaml:"values,omitempty"`
	VehicleNames []string  `json:"vehicle_names,omitempty" yaml:"vehicle_names,omitempty"`
	Counts       []int     `json:"counts,omitempty" yaml:"counts,omitempty"`
	Times        []float64 `json:"times,omitempty" yaml:"times,omitempty"`
}

// FrequencyChart counts entries per month in chronological order, labelled
// MM/YYYY.
func (s MaintenanceStatistics) FrequencyChart() ChartData {
	months := make([]string, 0, len(s.Months))
	for m := range s.Months {
		months = append(months, m)
	}
	sort.Strings(months)

	out := ChartData{
		Title:  "Maintenance Frequency by Month",
		XLabel: "Month",
		YLabel: "Number of Maintenance Tasks",
		Labels: make([]string, 0, len(months)),
		Values: make([]int, 0, len(months)),
	}
	for _, m := range months {
		out.Labels = append(out.Labels, formatMonthLabel(m))
		out.Values = append(out.Values, s.Months[m])
	}
	return out
}

// PieChart counts entries per tag.
func (s MaintenanceStatistics) PieChart() ChartData {
	out := ChartData{
		Title:  "Maintenance Tasks by Type",
		Labels: make([]string, 0, len(s.TagOrder)),
		Values: make([]int, 0, len(s.TagOrder)),
	}
	for _, tag := range s.TagOrder {
		out.Labels = append(out.Labels, tag)
		out.Values = append(out.Values, s.Tags[tag])
	}
	return out
}

// VehicleComparisonChart compares entry counts and hours spent per vehicle.
// A parenthetical suffix such as "Civic (track)" is dropped from the name.
func (s MaintenanceStatistics) VehicleComparisonChart() ChartData {
	out := ChartData{
		Title:        "Maintenance Comparison by Vehicle",
		VehicleNames: make([]string, 0, len(s.VehicleOrder)),
		Counts:       make([]int, 0, len(s.VehicleOrder)),
		Times:        make([]float64, 0, len(s.VehicleOrder)),
	}
	for _, v := range s.VehicleOrder {
		name, _, _ := strings.Cut(v, " (")
		out.VehicleNames = append(out.VehicleNames, name)
		out.Counts = append(out.Counts, s.Vehicles[v].Count)
		out.Times = append(out.Times, float64(s.Vehicles[v].TotalMinutes)/60)
	}
	return out
}

func formatMonthLabel(month string) string {
	if len(month) >= 7 {
		return month[5:7] + "/" + month[0:4]
	}
	return month
}
