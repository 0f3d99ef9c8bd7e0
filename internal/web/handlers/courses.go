package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/golfmapper/coursemap/internal/match"
	"github.com/golfmapper/coursemap/internal/normalize"
)

// Limits for the course search.
const (
	DefaultCoursesLimit = 100
	MaxCoursesLimit     = 500
)

// CoursesHandler serves lookups over the reference pool.
type CoursesHandler struct {
	Pool *match.Pool
}

// CourseResult is a reference course in search results.
type CourseResult struct {
	ID          int64    `json:"id"`
	DisplayName string   `json:"display_name"`
	ClubName    *string  `json:"club_name"`
	CourseName  *string  `json:"course_name"`
	City        *string  `json:"city"`
	State       *string  `json:"state"`
	Country     *string  `json:"country"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// SearchCourses finds reference courses whose club or course name contains
// the search term, ignoring case. City, state and country narrow the result
// after normalization.
func (h *CoursesHandler) SearchCourses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	term := strings.ToLower(strings.TrimSpace(query.Get("search")))
	city := normalize.NormalizeLocation(query.Get("city"))
	state := normalize.NormalizeState(query.Get("state"))
	country := normalize.NormalizeCountry(query.Get("country"))
	limit := clampLimit(parseIntParam(query.Get("limit"), DefaultCoursesLimit), MaxCoursesLimit)

	results := []CourseResult{}
	for _, c := range h.Pool.Candidates() {
		if len(results) == limit {
			break
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(match.Value(c.ClubName)), term) &&
			!strings.Contains(strings.ToLower(match.Value(c.CourseName)), term) {
			continue
		}
		if city != "" && normalize.NormalizeLocation(match.Value(c.City)) != city {
			continue
		}
		if state != "" && normalize.NormalizeState(match.Value(c.State)) != state {
			continue
		}
		if country != "" && normalize.NormalizeCountry(match.Value(c.Country)) != country {
			continue
		}
		results = append(results, CourseResult{
			ID:          c.ID,
			DisplayName: c.DisplayName(),
			ClubName:    c.ClubName,
			CourseName:  c.CourseName,
			City:        c.City,
			State:       c.State,
			Country:     c.Country,
			Latitude:    c.Latitude,
			Longitude:   c.Longitude,
		})
	}

	writeJSON(w, http.StatusOK, results)
}

// StatsResponse describes the reference pool.
type StatsResponse struct {
	TotalCourses      int            `json:"total_courses"`
	WithCoordinates   int            `json:"with_coordinates"`
	DistinctCountries int            `json:"distinct_countries"`
	ByCountry         map[string]int `json:"by_country"`
	Countries         []string       `json:"countries"`
}

// GetStats returns the pool size and its country breakdown.
func (h *CoursesHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := StatsResponse{ByCountry: make(map[string]int)}
	for _, c := range h.Pool.Candidates() {
		stats.TotalCourses++
		if c.Latitude != nil && c.Longitude != nil {
			stats.WithCoordinates++
		}
		if country := normalize.NormalizeCountry(match.Value(c.Country)); country != "" {
			stats.ByCountry[country]++
		}
	}

	stats.Countries = make([]string, 0, len(stats.ByCountry))
	for country := range stats.ByCountry {
		stats.Countries = append(stats.Countries, country)
	}
	sort.Strings(stats.Countries)
	stats.DistinctCountries = len(stats.Countries)

	writeJSON(w, http.StatusOK, stats)
}
