// Package addrparse fills missing location fields of used courses from their
// free-text address.
package addrparse

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/golfmapper/coursemap/internal/match"
)

// Parser splits a free-text address into labelled components such as
// "city", "state" and "country".
type Parser interface {
	Parse(address string) map[string]string
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(address string) map[string]string

// Parse calls f.
func (f ParserFunc) Parse(address string) map[string]string {
	return f(address)
}

// Backfill sets the query's missing city, state and country from its parsed
// address. Present values are never overwritten. It reports whether any
// field changed.
func Backfill(q *match.Query, p Parser) bool {
	address := strings.TrimSpace(match.Value(q.Address))
	if address == "" {
		return false
	}
	if !blank(q.City) && !blank(q.State) && !blank(q.Country) {
		return false
	}

	components := p.Parse(address)
	changed := fill(&q.City, components["city"])
	changed = fill(&q.State, components["state"]) || changed
	changed = fill(&q.Country, components["country"]) || changed
	return changed
}

// BackfillAll runs Backfill over every query and returns how many changed.
func BackfillAll(queries []match.Query, p Parser) int {
	changed := 0
	for i := range queries {
		if Backfill(&queries[i], p) {
			changed++
		}
	}
	log.Info().Int("courses", changed).Msg("Backfilled location fields from addresses")
	return changed
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func fill(field **string, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || !blank(*field) {
		return false
	}
	*field = &value
	return true
}
