package match

import (
	"errors"
	"math"
	"testing"
)

func fptr(f float64) *float64 { return &f }
func sptr(s string) *string { return &s }

func TestCompositeScore(t *testing.T) {
	tests := []struct {
		name                  string
		distance, nameS, city float64
		want                  float64
	}{
		{"all perfect", 1, 1, 1, 1.0},
		{"all zero", 0, 0, 0, 0.0},
		{"distance only", 1, 0, 0, 0.50},
		{"name only", 0, 1, 0, 0.35},
		{"city only", 0, 0, 1, 0.15},
		{"mixed", 0.9, 0.8, 0.8, 0.45 + 0.28 + 0.12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompositeScore(tt.distance, tt.nameS, tt.city)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("CompositeScore(%v, %v, %v) = %v, want %v", tt.distance, tt.nameS, tt.city, got, tt.want)
			}
		})
	}
}

func TestNewScorerRejectsBadWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{"defaults", DefaultWeights(), false},
		{"even thirds rounded", Weights{Distance: 0.4, Name: 0.4, City: 0.2}, false},
		{"sum too high", Weights{Distance: 0.6, Name: 0.35, City: 0.15}, true},
		{"sum too low", Weights{Distance: 0.5, Name: 0.3, City: 0.1}, true},
		{"negative", Weights{Distance: 1.2, Name: -0.2, City: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScorer(tt.weights)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewScorer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidWeights) {
				t.Errorf("NewScorer() error = %v, want ErrInvalidWeights", err)
			}
		})
	}
}

func TestMustScorerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustScorer() did not panic on invalid weights")
		}
	}()
	MustScorer(Weights{Distance: 1, Name: 1, City: 1})
}

func TestNewEngineRejectsBadWeights(t *testing.T) {
	_, err := NewEngine(EngineConfig{Weights: &Weights{Distance: 0.5}})
	if !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("NewEngine() error = %v, want ErrInvalidWeights", err)
	}
}

func TestConfidenceThresholdTable(t *testing.T) {
	want := map[int]float64{5: 0.85, 4: 0.70, 3: 0.50, 2: 0.30, 1: 0.0}
	prev := 2.0
	for _, th := range ConfidenceThresholds {
		if th.MinScore != want[th.Level] {
			t.Errorf("threshold for level %d = %v, want %v", th.Level, th.MinScore, want[th.Level])
		}
		if th.MinScore >= prev {
			t.Errorf("thresholds not descending at level %d", th.Level)
		}
		prev = th.MinScore
	}
}

func TestAssignConfidence(t *testing.T) {
	tests := []struct {
		name           string
		composite      float64
		hasCoordinates bool
		distance       *float64
		stateMatch     bool
		bothHaveState  bool
		domestic       bool
		want           int
	}{
		{"perfect", 0.95, true, fptr(10), true, true, true, 5},
		{"exact threshold 5", 0.85, true, fptr(10), true, true, true, 5},
		{"just below 5", 0.8499, true, fptr(10), true, true, true, 4},
		{"threshold 4", 0.70, true, fptr(10), true, true, true, 4},
		{"threshold 3", 0.50, true, fptr(10), true, true, true, 3},
		{"threshold 2", 0.30, true, fptr(10), true, true, true, 2},
		{"floor", 0.29, true, fptr(10), true, true, true, 1},
		{"domestic state mismatch", 0.95, true, fptr(10), false, true, true, 1},
		{"foreign state mismatch is not a gate", 0.95, true, fptr(10), false, true, false, 5},
		{"state missing on one side", 0.95, true, fptr(10), false, false, true, 5},
		{"too far", 0.95, true, fptr(100001), true, true, true, 1},
		{"exactly at the limit", 0.95, true, fptr(100000), true, true, true, 5},
		{"no coordinates caps at 4", 0.99, false, nil, true, true, true, 4},
		{"no coordinates low score", 0.55, false, nil, true, true, true, 3},
		{"coordinates but distance unknown", 0.90, true, nil, true, true, true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignConfidence(tt.composite, tt.hasCoordinates, tt.distance, tt.stateMatch, tt.bothHaveState, tt.domestic)
			if got != tt.want {
				t.Errorf("AssignConfidence() = %d, want %d", got, tt.want)
			}
		})
	}
}
