package match

import (
	"github.com/golfmapper/coursemap/internal/debug"
	"github.com/golfmapper/coursemap/internal/geo"
	"github.com/golfmapper/coursemap/internal/normalize"
)

// Pool is the reference candidate set with every comparison field normalized
// once up front. It is read-only after construction and safe for concurrent use.
type Pool struct {
	candidates []Candidate
	entries    []poolEntry
}

type poolEntry struct {
	cand     *Candidate
	club     string
	course   string
	city     string
	state    string
	country  string
	point    geo.Point
	hasPoint bool
}

// NewPool copies the candidates and precomputes their normalized fields.
// Input order is kept and decides ranking ties.
func NewPool(candidates []Candidate) *Pool {
	p := &Pool{
		candidates: make([]Candidate, len(candidates)),
		entries:    make([]poolEntry, len(candidates)),
	}
	copy(p.candidates, candidates)

	for i := range p.candidates {
		c := &p.candidates[i]
		point, ok := geo.NewPoint(c.Latitude, c.Longitude)
		p.entries[i] = poolEntry{
			cand:     c,
			club:     normalize.NormalizeName(Value(c.ClubName)),
			course:   normalize.NormalizeName(Value(c.CourseName)),
			city:     normalize.NormalizeLocation(Value(c.City)),
			state:    normalize.NormalizeState(Value(c.State)),
			country:  normalize.NormalizeCountry(Value(c.Country)),
			point:    point,
			hasPoint: ok,
		}
	}
	return p
}

// Len returns the number of candidates.
func (p *Pool) Len() int {
	return len(p.candidates)
}

// Candidates returns the pool's candidates in input order. Callers must not modify them.
func (p *Pool) Candidates() []Candidate {
	return p.candidates
}

// queryView is a query with its comparison fields normalized.
type queryView struct {
	query    *Query
	name     queryName
	city     string
	state    string
	country  string
	domestic bool
	point    geo.Point
	hasPoint bool
}

func newQueryView(q *Query) queryView {
	point, ok := geo.NewPoint(q.Latitude, q.Longitude)
	country := normalize.NormalizeCountry(Value(q.Country))
	return queryView{
		query:    q,
		name:     newQueryName(Value(q.Name)),
		city:     normalize.NormalizeLocation(Value(q.City)),
		state:    normalize.NormalizeState(Value(q.State)),
		country:  country,
		domestic: country == normalize.CountryUnitedStates,
		point:    point,
		hasPoint: ok,
	}
}

// narrow pre-filters the pool by country and, for domestic queries, by state.
// When the filters leave nothing the full pool is returned so that
// inconsistent location data never blocks a match.
func (p *Pool) narrow(localDebug bool, v *queryView) []poolEntry {
	filtered := p.entries

	if v.country != "" {
		filtered = filterEntries(filtered, func(e *poolEntry) bool {
			return e.country == v.country
		})
		debug.DebugOutput(localDebug, "Country filter %q: %d candidates", v.country, len(filtered))
	}

	if v.domestic && v.state != "" {
		filtered = filterEntries(filtered, func(e *poolEntry) bool {
			return e.state == v.state
		})
		debug.DebugOutput(localDebug, "State filter %q: %d candidates", v.state, len(filtered))
	}

	if len(filtered) == 0 {
		debug.DebugOutput(localDebug, "Filters left no candidates, falling back to all %d", len(p.entries))
		return p.entries
	}
	return filtered
}

func filterEntries(entries []poolEntry, keep func(*poolEntry) bool) []poolEntry {
	var out []poolEntry
	for i := range entries {
		if keep(&entries[i]) {
			out = append(out, entries[i])
		}
	}
	return out
}
