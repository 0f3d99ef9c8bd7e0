// Package cache persists the reference candidate pool as a msgpack snapshot
// so repeated runs skip the reference store.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/golfmapper/coursemap/internal/match"
)

// Current schema version - increment when Snapshot format changes
const SchemaVersion uint16 = 2

// ErrSchemaMismatch is returned for snapshots written by another schema version.
var ErrSchemaMismatch = errors.New("pool cache schema mismatch")

// Snapshot is the on-disk form of the reference pool.
type Snapshot struct {
	Schema      uint16            `msgpack:"schema"`
	CreatedAt   time.Time         `msgpack:"created_at"`
	Source      string            `msgpack:"source"`      // reference store the pool came from
	Fingerprint string            `msgpack:"fingerprint"` // store contents when the pool was read
	Candidates  []match.Candidate `msgpack:"candidates"`
}

// Fresh reports whether the snapshot was read from source while it had the
// given fingerprint.
func (s *Snapshot) Fresh(source, fingerprint string) bool {
	return s.Source == source && fingerprint != "" && s.Fingerprint == fingerprint
}

// Write stores the candidates at path, replacing any existing file atomically.
func Write(path, source, fingerprint string, candidates []match.Candidate, createdAt time.Time) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	f, err := os.CreateTemp(dir, ".pool-*.tmp")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	snap := Snapshot{
		Schema:      SchemaVersion,
		CreatedAt:   createdAt.UTC(),
		Source:      source,
		Fingerprint: fingerprint,
		Candidates:  candidates,
	}
	if err := msgpack.NewEncoder(f).Encode(&snap); err != nil {
		f.Close()
		return fmt.Errorf("encode pool cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	// Atomic replace
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("install cache file: %w", err)
	}
	return nil
}

// Read loads a snapshot. A missing file reports found=false with no error.
func Read(path string) (snap *Snapshot, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open pool cache: %w", err)
	}
	defer f.Close()

	var out Snapshot
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode pool cache %s: %w", path, err)
	}
	if out.Schema != SchemaVersion {
		return nil, false, fmt.Errorf("%w: %s has schema %d, want %d", ErrSchemaMismatch, path, out.Schema, SchemaVersion)
	}
	return &out, true, nil
}
