package match

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

func magnoliaQuery() Query {
	return Query{
		ID:        101,
		Name:      sptr("RTJ Golf Trail at Magnolia Grove - Falls"),
		City:      sptr("Mobile"),
		State:     sptr("Alabama"),
		Country:   sptr("US"),
		Latitude:  fptr(30.740501),
		Longitude: fptr(-88.20578),
	}
}

func magnoliaCandidate(id int64, course string) Candidate {
	return Candidate{
		ID:         id,
		ClubName:   sptr("RTJ Golf Trail at Magnolia Grove"),
		CourseName: sptr(course),
		City:       sptr("Mobile"),
		State:      sptr("Alabama"),
		Country:    sptr("United States"),
		Latitude:   fptr(30.740501),
		Longitude:  fptr(-88.20578),
	}
}

func newTestEngine(t *testing.T, candidates []Candidate) *Engine {
	t.Helper()
	e, err := NewEngine(EngineConfig{Pool: NewPool(candidates), Workers: 4})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestMagnoliaGroveExactMatch(t *testing.T) {
	e := newTestEngine(t, []Candidate{
		magnoliaCandidate(1, "Crossings"),
		magnoliaCandidate(2, "Falls"),
	})

	m := e.MapQuery(false, magnoliaQuery())
	if !m.HasMatch() || m.Match.ID != 2 {
		t.Fatalf("MapQuery() match = %+v, want candidate 2", m.Match)
	}
	if m.Confidence != ConfidenceCertain {
		t.Errorf("Confidence = %d, want 5", m.Confidence)
	}
	if m.Composite < 0.85 {
		t.Errorf("Composite = %v, want >= 0.85", m.Composite)
	}
	if m.DistanceMeters == nil || math.Abs(*m.DistanceMeters) > 0.01 {
		t.Errorf("DistanceMeters = %v, want ~0", m.DistanceMeters)
	}
	if !m.SplitName || m.ClubScore != 1 || m.CourseScore != 1 {
		t.Errorf("name parts = %v/%v split=%v, want 1/1 split", m.ClubScore, m.CourseScore, m.SplitName)
	}
	if len(m.Alternates) != 1 || m.Alternates[0].ID != 1 {
		t.Errorf("Alternates = %+v, want candidate 1", m.Alternates)
	}
}

func TestDomesticStateMismatchIsNoMatch(t *testing.T) {
	q := magnoliaQuery()
	q.State = sptr("Texas")
	c := magnoliaCandidate(7, "Falls")
	c.State = sptr("California")

	e := newTestEngine(t, []Candidate{c})

	r := e.Score(&q, &c)
	if !r.ViolatesHardConstraint() || r.Confidence() != ConfidenceNone {
		t.Errorf("Score() = %+v, want hard constraint and confidence 1", r)
	}

	m := e.MapQuery(false, q)
	if m.HasMatch() {
		t.Errorf("MapQuery() matched %d, want no match", m.Match.ID)
	}
	if m.Confidence != ConfidenceNone {
		t.Errorf("Confidence = %d, want 1", m.Confidence)
	}
}

func TestForeignStateMismatchStillRanks(t *testing.T) {
	q := magnoliaQuery()
	q.Country = sptr("Canada")
	q.State = sptr("ON")
	c := magnoliaCandidate(3, "Falls")
	c.Country = sptr("CA")
	c.State = sptr("Quebec")

	m := newTestEngine(t, []Candidate{c}).MapQuery(false, q)
	if !m.HasMatch() {
		t.Fatal("MapQuery() found no match for a non-domestic query")
	}
	if m.Confidence != ConfidenceCertain {
		t.Errorf("Confidence = %d, want 5", m.Confidence)
	}
}

func TestDistanceLimitExcludesCandidate(t *testing.T) {
	far := magnoliaCandidate(4, "Falls")
	far.Latitude = fptr(33.5) // roughly 300km north
	near := magnoliaCandidate(5, "Something Else")
	near.Latitude = fptr(30.7410)

	e := newTestEngine(t, []Candidate{far, near})
	results := e.FindMatches(false, ptrQuery(magnoliaQuery()), 3)
	if len(results) != 1 || results[0].Candidate.ID != 5 {
		t.Fatalf("FindMatches() = %+v, want only candidate 5", results)
	}
}

func TestMissingCoordinatesCapConfidence(t *testing.T) {
	q := magnoliaQuery()
	q.Latitude, q.Longitude = nil, nil
	c := magnoliaCandidate(9, "Falls")

	m := newTestEngine(t, []Candidate{c}).MapQuery(false, q)
	if !m.HasMatch() {
		t.Fatal("MapQuery() found no match")
	}
	if !m.MissingCoordinates || m.DistanceMeters != nil {
		t.Errorf("MissingCoordinates = %v, DistanceMeters = %v", m.MissingCoordinates, m.DistanceMeters)
	}
	// name 1.0 and city 1.0 without distance: 0.35 + 0.15
	if math.Abs(m.Composite-0.50) > 1e-9 {
		t.Errorf("Composite = %v, want 0.50", m.Composite)
	}
	if m.Confidence != ConfidencePossible {
		t.Errorf("Confidence = %d, want 3", m.Confidence)
	}
}

func TestFilterFallsBackToFullPool(t *testing.T) {
	q := magnoliaQuery()
	q.Country = sptr("Scotland")
	q.State = nil
	c := magnoliaCandidate(11, "Falls")
	c.State = nil

	results := newTestEngine(t, []Candidate{c}).FindMatches(false, &q, 3)
	if len(results) != 1 {
		t.Fatalf("FindMatches() returned %d results, want fallback to 1", len(results))
	}
}

func TestCountryFilterNarrowsPool(t *testing.T) {
	us := magnoliaCandidate(1, "Falls")
	ca := magnoliaCandidate(2, "Falls")
	ca.Country = sptr("Canada")
	ca.State = nil

	results := newTestEngine(t, []Candidate{ca, us}).FindMatches(false, ptrQuery(magnoliaQuery()), 3)
	if len(results) != 1 || results[0].Candidate.ID != 1 {
		t.Errorf("FindMatches() = %+v, want only the US candidate", results)
	}
}

func TestFindMatchesTopNAndStableTies(t *testing.T) {
	var pool []Candidate
	for id := int64(1); id <= 5; id++ {
		pool = append(pool, magnoliaCandidate(id, "Falls"))
	}
	results := newTestEngine(t, pool).FindMatches(false, ptrQuery(magnoliaQuery()), 3)

	if len(results) != 3 {
		t.Fatalf("FindMatches() returned %d results, want 3", len(results))
	}
	for i, want := range []int64{1, 2, 3} {
		if results[i].Candidate.ID != want {
			t.Errorf("results[%d] = %d, want %d", i, results[i].Candidate.ID, want)
		}
	}
}

func TestMapAllIsolatesFailures(t *testing.T) {
	e := newTestEngine(t, []Candidate{magnoliaCandidate(1, "Falls")})
	e.rank = func(localDebug bool, q *Query, topN int) []Result {
		if q.ID == 2 {
			panic("boom")
		}
		return e.FindMatches(localDebug, q, topN)
	}

	queries := []Query{magnoliaQuery(), magnoliaQuery(), magnoliaQuery()}
	for i := range queries {
		queries[i].ID = int64(i + 1)
	}

	out, err := e.MapAll(context.Background(), queries)
	if err != nil {
		t.Fatalf("MapAll() error = %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("MapAll() returned %d mappings, want 3", len(out))
	}
	for i, m := range out {
		if m.Query.ID != int64(i+1) {
			t.Errorf("out[%d].Query.ID = %d, want input order", i, m.Query.ID)
		}
	}
	if out[1].HasMatch() || out[1].Confidence != ConfidenceNone {
		t.Errorf("failed query mapping = %+v, want no match", out[1])
	}
	if !out[0].HasMatch() || !out[2].HasMatch() {
		t.Error("healthy queries lost their matches")
	}
}

func TestMapAllDeterministic(t *testing.T) {
	pool := []Candidate{
		magnoliaCandidate(1, "Falls"),
		magnoliaCandidate(2, "Crossings"),
		magnoliaCandidate(3, "Judge"),
	}
	var queries []Query
	for i, name := range []string{"Magnolia Grove - Falls", "Magnolia Grove - Crossings", "Judge", "Unrelated Links"} {
		q := magnoliaQuery()
		q.ID = int64(i + 1)
		q.Name = sptr(name)
		queries = append(queries, q)
	}

	e := newTestEngine(t, pool)
	first, err := e.MapAll(context.Background(), queries)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.MapAll(context.Background(), queries)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("MapAll() results differ between identical runs")
	}
	got, err := MapAll(queries, pool)
	if err != nil {
		t.Fatalf("MapAll() error = %v", err)
	}
	if !reflect.DeepEqual(summarize(got), summarize(first)) {
		t.Error("package MapAll() disagrees with Engine.MapAll()")
	}

	for i := range queries {
		quiet := e.FindMatches(false, &queries[i], 0)
		traced := e.FindMatches(true, &queries[i], 0)
		if !reflect.DeepEqual(quiet, traced) {
			t.Errorf("FindMatches(%d) differs with tracing on", queries[i].ID)
		}
	}
}

func TestMapAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(t, nil).MapAll(ctx, []Query{magnoliaQuery()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("MapAll() error = %v, want context.Canceled", err)
	}
}

func TestCandidateDisplayName(t *testing.T) {
	tests := []struct {
		club, course *string
		want         string
	}{
		{sptr("Bandon Dunes"), sptr("Pacific Dunes"), "Bandon Dunes - Pacific Dunes"},
		{sptr("Bandon Dunes"), nil, "Bandon Dunes"},
		{nil, sptr("Pacific Dunes"), "Pacific Dunes"},
		{nil, sptr(""), "Unknown"},
	}
	for _, tt := range tests {
		c := Candidate{ClubName: tt.club, CourseName: tt.course}
		if got := c.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func ptrQuery(q Query) *Query { return &q }

type mappingSummary struct {
	query, match int64
	confidence   int
	composite    float64
}

func summarize(ms []Mapping) []mappingSummary {
	out := make([]mappingSummary, len(ms))
	for i, m := range ms {
		out[i] = mappingSummary{query: m.Query.ID, confidence: m.Confidence, composite: m.Composite}
		if m.Match != nil {
			out[i].match = m.Match.ID
		}
	}
	return out
}
