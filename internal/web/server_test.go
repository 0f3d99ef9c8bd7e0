package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golfmapper/coursemap/internal/match"
	"github.com/golfmapper/coursemap/internal/report"
	"github.com/golfmapper/coursemap/internal/web/handlers"
)

func sptr(s string) *string { return &s }
func fptr(f float64) *float64 { return &f }

func testServer(t *testing.T) *Server {
	t.Helper()

	candidates := []match.Candidate{
		{ID: 1, ClubName: sptr("RTJ Golf Trail at Magnolia Grove"), CourseName: sptr("Falls"),
			City: sptr("Mobile"), State: sptr("Alabama"), Country: sptr("United States"),
			Latitude: fptr(30.740501), Longitude: fptr(-88.20578)},
		{ID: 2, ClubName: sptr("RTJ Golf Trail at Magnolia Grove"), CourseName: sptr("Crossings"),
			City: sptr("Mobile"), State: sptr("AL"), Country: sptr("USA")},
		{ID: 3, ClubName: sptr("St Andrews Links"), CourseName: sptr("Old Course"),
			City: sptr("St Andrews"), Country: sptr("Scotland")},
	}
	pool := match.NewPool(candidates)

	mappings := []match.Mapping{
		{
			Query:      match.Query{ID: 10, Name: sptr("Magnolia Grove - Falls"), TimesPlayed: 2},
			Match:      &pool.Candidates()[0],
			Confidence: 5,
			Composite:  0.97,
			NameScore:  0.93,
		},
		{
			Query:      match.Query{ID: 11, Name: sptr("Unknown Links")},
			Confidence: 1,
		},
	}
	doc := report.Build(mappings, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	s, err := NewServer(DefaultConfig(), doc, pool)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func get(t *testing.T, s *Server, target string, v interface{}) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if v != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
			t.Fatalf("GET %s: decode: %v\n%s", target, err, rec.Body.String())
		}
	}
	return rec
}

func TestNewServerRequiresInputs(t *testing.T) {
	if _, err := NewServer(DefaultConfig(), nil, match.NewPool(nil)); err == nil {
		t.Error("NewServer() without report returned no error")
	}
	if _, err := NewServer(DefaultConfig(), &report.Document{}, nil); err == nil {
		t.Error("NewServer() without pool returned no error")
	}
}

func TestListMappings(t *testing.T) {
	s := testServer(t)

	var all handlers.MappingsResponse
	if rec := get(t, s, "/api/mappings", &all); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if all.Total != 2 || all.Count != 2 || all.Mappings[0].Garmin.ID != 10 {
		t.Errorf("mappings = %+v", all)
	}

	var high handlers.MappingsResponse
	get(t, s, "/api/mappings?confidence=5", &high)
	if high.Total != 1 || high.Mappings[0].Garmin.ID != 10 {
		t.Errorf("confidence=5 = %+v", high)
	}

	var limited handlers.MappingsResponse
	get(t, s, "/api/mappings?limit=1", &limited)
	if limited.Total != 2 || limited.Count != 1 {
		t.Errorf("limit=1 = total %d count %d", limited.Total, limited.Count)
	}

	if rec := get(t, s, "/api/mappings?confidence=9", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("confidence=9 status = %d, want 400", rec.Code)
	}
}

func TestGetMapping(t *testing.T) {
	s := testServer(t)

	var e report.Entry
	if rec := get(t, s, "/api/mappings/10", &e); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if e.GolfCourses.ID == nil || *e.GolfCourses.ID != 1 {
		t.Errorf("golf course = %+v", e.GolfCourses)
	}

	if rec := get(t, s, "/api/mappings/99", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", rec.Code)
	}
	if rec := get(t, s, "/api/mappings/abc", nil); rec.Code != http.StatusNotFound {
		t.Errorf("non-numeric id status = %d, want 404", rec.Code)
	}
}

func TestGetSummary(t *testing.T) {
	s := testServer(t)

	var summary handlers.SummaryResponse
	get(t, s, "/api/summary", &summary)
	if summary.Metadata.TotalGarminCourses != 2 || summary.Metadata.TotalMatches != 1 {
		t.Errorf("metadata = %+v", summary.Metadata)
	}
	if summary.Metadata.ConfidenceDistribution["5"] != 1 || summary.Stats.Unmatched != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestSearchCourses(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		target string
		want   []int64
	}{
		{"/api/courses?search=magnolia", []int64{1, 2}},
		{"/api/courses?search=CROSSINGS", []int64{2}},
		{"/api/courses?state=alabama", []int64{1, 2}},
		{"/api/courses?country=usa", []int64{1, 2}},
		{"/api/courses?city=st%20andrews", []int64{3}},
		{"/api/courses?search=magnolia&limit=1", []int64{1}},
		{"/api/courses?search=pebble", []int64{}},
	}

	for _, tt := range tests {
		var got []handlers.CourseResult
		if rec := get(t, s, tt.target, &got); rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", tt.target, rec.Code)
		}
		ids := make([]int64, 0, len(got))
		for _, c := range got {
			ids = append(ids, c.ID)
		}
		if len(ids) != len(tt.want) {
			t.Errorf("GET %s = %v, want %v", tt.target, ids, tt.want)
			continue
		}
		for i := range ids {
			if ids[i] != tt.want[i] {
				t.Errorf("GET %s = %v, want %v", tt.target, ids, tt.want)
				break
			}
		}
	}
}

func TestGetStats(t *testing.T) {
	s := testServer(t)

	var stats handlers.StatsResponse
	get(t, s, "/api/stats", &stats)
	if stats.TotalCourses != 3 || stats.WithCoordinates != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.DistinctCountries != 2 {
		t.Errorf("DistinctCountries = %d, want 2 (%v)", stats.DistinctCountries, stats.Countries)
	}
}

func TestCORSHeaders(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("Server = %+v, want localhost:8080", cfg.Server)
	}
	if cfg.ReportPath != "dbs/garmin_to_golf_courses_mapping.json" {
		t.Errorf("ReportPath = %q", cfg.ReportPath)
	}

	s, err := NewServer(cfg, &report.Document{}, match.NewPool(nil))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if got := s.Addr(); got != "localhost:8080" {
		t.Errorf("Addr() = %q, want localhost:8080", got)
	}
}
