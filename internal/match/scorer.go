package match

import (
	"errors"
	"fmt"
	"math"
)

// Composite weights. State is a gate, never a weighted input.
const (
	WeightDistance = 0.50
	WeightName     = 0.35
	WeightCity     = 0.15
)

// Club/course blend applied when the query name splits into two parts.
const (
	ClubPartWeight   = 0.30
	CoursePartWeight = 0.70
)

// MaxDistanceMeters is the hard distance limit. Farther candidates are dropped.
const MaxDistanceMeters = 100000.0

// Confidence tiers.
const (
	ConfidenceNone     = 1
	ConfidenceWeak     = 2
	ConfidencePossible = 3
	ConfidenceLikely   = 4
	ConfidenceCertain  = 5

	// MaxConfidenceNoGeo caps results lacking coordinates on either side.
	MaxConfidenceNoGeo = ConfidenceLikely
)

const (
	// DefaultTopN is how many ranked results a mapping considers.
	DefaultTopN = 3
	// MaxAlternates is the number of runner-ups kept on a mapping.
	MaxAlternates = DefaultTopN - 1

	weightSumTolerance = 1e-9
)

// ConfidenceThreshold pairs a tier with the minimum composite score it needs.
type ConfidenceThreshold struct {
	Level    int
	MinScore float64
}

// ConfidenceThresholds lists the tiers from most to least confident.
var ConfidenceThresholds = [...]ConfidenceThreshold{
	{ConfidenceCertain, 0.85},
	{ConfidenceLikely, 0.70},
	{ConfidencePossible, 0.50},
	{ConfidenceWeak, 0.30},
	{ConfidenceNone, 0.00},
}

// ErrInvalidWeights is returned when composite weights do not sum to 1.0.
var ErrInvalidWeights = errors.New("composite weights must be non-negative and sum to 1.0")

// Weights holds the composite score weights.
type Weights struct {
	Distance float64
	Name     float64
	City     float64
}

// DefaultWeights returns the fixed production weights.
func DefaultWeights() Weights {
	return Weights{
		Distance: WeightDistance,
		Name:     WeightName,
		City:     WeightCity,
	}
}

// Validate checks that every weight is non-negative and that they sum to 1.0.
func (w Weights) Validate() error {
	if w.Distance < 0 || w.Name < 0 || w.City < 0 {
		return fmt.Errorf("%w: got distance=%v name=%v city=%v", ErrInvalidWeights, w.Distance, w.Name, w.City)
	}
	if sum := w.Distance + w.Name + w.City; math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: got sum %v", ErrInvalidWeights, sum)
	}
	return nil
}

// Scorer combines feature scores into a composite score.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer, rejecting weights that do not sum to 1.0.
func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// MustScorer is NewScorer for weights known at compile time.
func MustScorer(weights Weights) *Scorer {
	s, err := NewScorer(weights)
	if err != nil {
		panic(err)
	}
	return s
}

var defaultScorer = MustScorer(DefaultWeights())

// DefaultScorer returns the scorer built from DefaultWeights.
func DefaultScorer() *Scorer {
	return defaultScorer
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Composite returns the weighted sum of the distance, name and city scores.
func (s *Scorer) Composite(distanceScore, nameScore, cityScore float64) float64 {
	return distanceScore*s.weights.Distance +
		nameScore*s.weights.Name +
		cityScore*s.weights.City
}

// CompositeScore is Composite with the default weights.
func CompositeScore(distanceScore, nameScore, cityScore float64) float64 {
	return defaultScorer.Composite(distanceScore, nameScore, cityScore)
}

// AssignConfidence maps a composite score to a 1-5 tier after the hard
// constraints. A domestic state mismatch with state data on both sides, or a
// known distance beyond MaxDistanceMeters, forces tier 1. Without coordinates
// on both sides the tier is capped at 4.
func AssignConfidence(composite float64, hasCoordinates bool, distanceMeters *float64,
	stateMatch, bothHaveState, domestic bool) int {
	if domestic && bothHaveState && !stateMatch {
		return ConfidenceNone
	}
	if distanceMeters != nil && *distanceMeters > MaxDistanceMeters {
		return ConfidenceNone
	}

	maxLevel := ConfidenceCertain
	if !hasCoordinates {
		maxLevel = MaxConfidenceNoGeo
	}

	for _, t := range ConfidenceThresholds {
		if t.Level > maxLevel {
			continue
		}
		if composite >= t.MinScore {
			return t.Level
		}
	}
	return ConfidenceNone
}
