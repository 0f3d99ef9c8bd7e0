package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/golfmapper/coursemap/internal/addrparse"
	"github.com/golfmapper/coursemap/internal/cache"
	"github.com/golfmapper/coursemap/internal/db"
	"github.com/golfmapper/coursemap/internal/match"
	"github.com/golfmapper/coursemap/internal/source"
)

// loadQueries reads the used courses and, when enabled, backfills missing
// location fields from their addresses.
func loadQueries(ctx context.Context, opts source.Options) ([]match.Query, error) {
	conn, err := db.Open(ctx, run.Stores.Used)
	if err != nil {
		return nil, fmt.Errorf("used-course store: %w", err)
	}
	defer conn.Close()

	queries, err := source.LoadUsedCourses(ctx, conn.DB, opts)
	if err != nil {
		return nil, err
	}

	if run.Matching.ParseAddresses {
		parser := addrparse.Libpostal{}
		if !addrparse.Available {
			log.Warn().Msg("Address parsing requested but this build has no libpostal support")
		}
		addrparse.BackfillAll(queries, parser)
	}
	return queries, nil
}

// loadCandidates returns the reference pool, from the snapshot at
// run.Cache.Pool when it was built from the configured reference store and
// that store has not changed since. A fresh load refreshes that snapshot.
func loadCandidates(ctx context.Context) ([]match.Candidate, error) {
	snapshotPath := run.Cache.Pool
	if snapshotPath == "" {
		return readReference(ctx)
	}

	fingerprint, err := db.Fingerprint(ctx, run.Stores.Reference)
	if err != nil {
		return nil, fmt.Errorf("reference store: %w", err)
	}

	snap, found, err := cache.Read(snapshotPath)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("path", snapshotPath).Msg("Ignoring unreadable pool cache")
	case found && snap.Fresh(run.Stores.Reference, fingerprint):
		log.Info().Str("path", snapshotPath).Int("candidates", len(snap.Candidates)).
			Time("created_at", snap.CreatedAt).Msg("Loaded reference pool from cache")
		return snap.Candidates, nil
	case found && snap.Source != run.Stores.Reference:
		log.Info().Str("cached_source", snap.Source).Msg("Pool cache built from another store, reloading")
	case found:
		log.Warn().Str("path", snapshotPath).Time("created_at", snap.CreatedAt).
			Msg("Reference store changed since the pool cache was built, reloading")
	}

	candidates, err := readReference(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.Write(snapshotPath, run.Stores.Reference, fingerprint, candidates, time.Now()); err != nil {
		log.Warn().Err(err).Str("path", snapshotPath).Msg("Failed to write pool cache")
	}
	return candidates, nil
}

func readReference(ctx context.Context) ([]match.Candidate, error) {
	conn, err := db.Open(ctx, run.Stores.Reference)
	if err != nil {
		return nil, fmt.Errorf("reference store: %w", err)
	}
	defer conn.Close()

	return source.LoadReferenceCourses(ctx, conn.DB)
}

func newEngine(candidates []match.Candidate) (*match.Engine, error) {
	return match.NewEngine(match.EngineConfig{
		Pool:    match.NewPool(candidates),
		Workers: run.Matching.Workers,
	})
}
