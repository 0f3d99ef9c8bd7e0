package report

import "github.com/golfmapper/coursemap/internal/match"

// TierStats aggregates the entries of one confidence level.
type TierStats struct {
	Level             int      `json:"level"`
	Count             int      `json:"count"`
	AvgDistance       *float64 `json:"avg_distance_meters"` // nil when no entry has a distance
	AvgNameSimilarity float64  `json:"avg_name_similarity"`
}

// Stats summarizes a report.
type Stats struct {
	Total              int         `json:"total"`
	Matched            int         `json:"matched"`
	Unmatched          int         `json:"unmatched"`
	MissingCoordinates int         `json:"missing_coordinates"`
	Tiers              []TierStats `json:"tiers"` // levels 5 down to 1
}

// Summarize computes the per-tier statistics of a report.
func Summarize(doc *Document) Stats {
	s := Stats{Total: len(doc.Mappings)}

	type acc struct {
		count, withDist int
		dist, name      float64
	}
	var tiers [match.ConfidenceCertain + 1]acc

	for _, e := range doc.Mappings {
		if e.Matched() {
			s.Matched++
		} else {
			s.Unmatched++
		}
		if e.MatchQuality.MissingCoordinates {
			s.MissingCoordinates++
		}

		level := e.MatchQuality.ConfidenceLevel
		if level < match.ConfidenceNone || level > match.ConfidenceCertain {
			continue
		}
		a := &tiers[level]
		a.count++
		a.name += e.MatchQuality.NameSimilarity
		if d := e.MatchQuality.DistanceMeters; d != nil {
			a.withDist++
			a.dist += *d
		}
	}

	for level := match.ConfidenceCertain; level >= match.ConfidenceNone; level-- {
		a := tiers[level]
		ts := TierStats{Level: level, Count: a.count}
		if a.count > 0 {
			ts.AvgNameSimilarity = a.name / float64(a.count)
		}
		if a.withDist > 0 {
			avg := a.dist / float64(a.withDist)
			ts.AvgDistance = &avg
		}
		s.Tiers = append(s.Tiers, ts)
	}
	return s
}

// Tier returns the statistics of one confidence level.
func (s Stats) Tier(level int) TierStats {
	for _, t := range s.Tiers {
		if t.Level == level {
			return t
		}
	}
	return TierStats{Level: level}
}

// Percent expresses n as a percentage of the total, 0 for an empty report.
func (s Stats) Percent(n int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(n) / float64(s.Total) * 100
}
