package match

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/golfmapper/coursemap/internal/debug"
	"github.com/golfmapper/coursemap/internal/geo"
)

// Engine ranks reference candidates for used courses.
type Engine struct {
	pool    *Pool
	scorer  *Scorer
	topN    int
	workers int

	// rank is FindMatches, swappable in tests.
	rank func(localDebug bool, q *Query, topN int) []Result
}

// EngineConfig holds configuration for the matching engine
type EngineConfig struct {
	Pool    *Pool
	Weights *Weights // nil means DefaultWeights
	TopN    int      // 0 means DefaultTopN
	Workers int      // 0 means 1
}

// NewEngine creates a matching engine. It fails when the weights are invalid.
func NewEngine(config EngineConfig) (*Engine, error) {
	if config.Pool == nil {
		config.Pool = NewPool(nil)
	}

	weights := DefaultWeights()
	if config.Weights != nil {
		weights = *config.Weights
	}
	scorer, err := NewScorer(weights)
	if err != nil {
		return nil, err
	}

	topN := config.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}

	e := &Engine{
		pool:    config.Pool,
		scorer:  scorer,
		topN:    topN,
		workers: workers,
	}
	e.rank = e.FindMatches
	return e, nil
}

// Pool returns the engine's candidate pool.
func (e *Engine) Pool() *Pool {
	return e.pool
}

// Score compares one query with one candidate.
func (e *Engine) Score(q *Query, c *Candidate) Result {
	v := newQueryView(q)
	entry := NewPool([]Candidate{*c}).entries[0]
	entry.cand = c
	return e.score(&v, &entry)
}

func (e *Engine) score(v *queryView, c *poolEntry) Result {
	r := Result{
		Candidate: c.cand,
		Domestic:  v.domestic,
		SplitName: v.name.split,
	}

	if v.hasPoint && c.hasPoint {
		r.HasCoordinates = true
		if d, ok := geo.Distance(v.point, c.point); ok {
			r.DistanceMeters = &d
			r.DistanceScore = BucketDistance(d)
		}
	}

	r.NameScore, r.ClubScore, r.CourseScore = v.name.score(c.club, c.course)
	r.CityScore = cityScore(v.city, c.city)

	stateVal, both := stateScore(v.state, c.state)
	r.StateMatch = stateVal > 0
	r.BothHaveState = both

	r.Composite = e.scorer.Composite(r.DistanceScore, r.NameScore, r.CityScore)
	return r
}

// FindMatches scores every candidate that survives the country and state
// pre-filter, drops those violating a hard constraint and returns the best
// topN by composite score. Ties keep pool order. An empty result means no
// candidate is acceptable.
func (e *Engine) FindMatches(localDebug bool, q *Query, topN int) []Result {
	debug.DebugHeader(localDebug)
	defer debug.DebugFooter(localDebug)

	if topN <= 0 {
		topN = e.topN
	}

	v := newQueryView(q)
	debug.DebugOutput(localDebug, "Query %d: name=%q city=%q state=%q country=%q domestic=%v",
		q.ID, v.name.full, v.city, v.state, v.country, v.domestic)

	entries := e.pool.narrow(localDebug, &v)

	results := make([]Result, 0, len(entries))
	excluded := 0
	for i := range entries {
		r := e.score(&v, &entries[i])
		if r.ViolatesHardConstraint() {
			excluded++
			continue
		}
		if localDebug {
			debug.DebugOutput(localDebug, "  %d %q: composite=%.3f name=%.3f dist=%.1f city=%.1f",
				r.Candidate.ID, r.Candidate.DisplayName(), r.Composite, r.NameScore, r.DistanceScore, r.CityScore)
		}
		results = append(results, r)
	}
	debug.DebugOutput(localDebug, "Scored %d candidates, %d excluded by hard constraints", len(entries), excluded)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Composite > results[j].Composite
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

// MapQuery ranks candidates for one query and builds its mapping.
func (e *Engine) MapQuery(localDebug bool, q Query) Mapping {
	return newMapping(q, e.rank(localDebug, &q, e.topN))
}

func newMapping(q Query, ranked []Result) Mapping {
	m := Mapping{Query: q, Confidence: ConfidenceNone}
	if len(ranked) == 0 {
		return m
	}

	best := ranked[0]
	m.Match = best.Candidate
	m.Confidence = best.Confidence()
	m.Composite = best.Composite
	m.NameScore = best.NameScore
	m.ClubScore = best.ClubScore
	m.CourseScore = best.CourseScore
	m.SplitName = best.SplitName
	m.DistanceMeters = best.DistanceMeters
	m.MissingCoordinates = !best.HasCoordinates

	for _, alt := range ranked[1:] {
		if len(m.Alternates) == MaxAlternates {
			break
		}
		m.Alternates = append(m.Alternates, Alternate{
			ID:         alt.Candidate.ID,
			ClubName:   alt.Candidate.ClubName,
			CourseName: alt.Candidate.CourseName,
			Score:      alt.Composite,
		})
	}
	return m
}

// MapAll maps every query, spreading the work across the engine's workers.
// The output has one mapping per query in input order. A query whose scoring
// panics is logged and reported as unmatched without affecting the others.
func (e *Engine) MapAll(ctx context.Context, queries []Query) ([]Mapping, error) {
	start := time.Now()
	out := make([]Mapping, len(queries))
	total := len(queries)
	var done atomic.Int64

	log.Info().
		Int("queries", total).
		Int("candidates", e.pool.Len()).
		Int("workers", e.workers).
		Msg("Mapping used courses")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range queries {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.mapSafely(queries[i])
			logMapping(int(done.Add(1)), total, out[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("mapping interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mapping interrupted: %w", err)
	}

	log.Info().
		Int("queries", total).
		Dur("took", time.Since(start)).
		Msg("Mapping complete")
	return out, nil
}

func (e *Engine) mapSafely(q Query) (m Mapping) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Int64("query_id", q.ID).
				Interface("panic", r).
				Msg("Scoring failed, recording as unmatched")
			m = Mapping{Query: q, Confidence: ConfidenceNone}
		}
	}()
	return e.MapQuery(false, q)
}

func logMapping(n, total int, m Mapping) {
	name := Value(m.Query.Name)
	if !m.HasMatch() {
		log.Warn().Int64("query_id", m.Query.ID).Msgf("[%d/%d] %q -> NO MATCH", n, total, name)
		return
	}

	evt := log.Info().
		Int64("query_id", m.Query.ID).
		Int64("golf_course_id", m.Match.ID).
		Int("confidence", m.Confidence).
		Float64("score", m.Composite).
		Float64("name_score", m.NameScore)
	if m.SplitName {
		evt = evt.Str("name_parts", fmt.Sprintf("Club:%.2f, Course:%.2f", m.ClubScore, m.CourseScore))
	}
	if m.DistanceMeters != nil {
		evt = evt.Float64("distance_m", *m.DistanceMeters)
	}
	if m.MissingCoordinates {
		evt = evt.Bool("missing_coords", true)
	}
	evt.Msgf("[%d/%d] %q -> %q", n, total, name, m.Match.DisplayName())
}

// MapAll maps queries against candidates with a default engine.
func MapAll(queries []Query, candidates []Candidate) ([]Mapping, error) {
	e, err := NewEngine(EngineConfig{Pool: NewPool(candidates)})
	if err != nil {
		return nil, err
	}
	return e.MapAll(context.Background(), queries)
}
