// Package source loads used courses and reference courses from their stores.
package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"

	"fortio.org/safecast"
	"github.com/rs/zerolog/log"

	"github.com/golfmapper/coursemap/internal/match"
)

// ErrNoUsedCourses is returned when the used-course store has no course in use.
var ErrNoUsedCourses = errors.New("no used courses found")

// Options selects which usage tables feed the used-course list.
type Options struct {
	// NewOnly reads only new_user_courses, which also carries the year played.
	NewOnly bool
	// Limit keeps the first Limit courses by id. Zero keeps all.
	Limit int
}

const usedIDsAll = `
	SELECT garmin_id FROM user_courses WHERE garmin_id IS NOT NULL
	UNION
	SELECT course_id FROM new_user_courses`

const usedIDsNew = `
	SELECT course_id FROM new_user_courses`

const usedCoursesQuery = `
SELECT id, g_course, g_address, g_city, g_state, g_country, g_latitude, g_longitude
FROM courses
WHERE id IN (%s)
ORDER BY id`

const usageAll = `
SELECT course_id, COUNT(*) FROM (
	SELECT garmin_id AS course_id FROM user_courses WHERE garmin_id IS NOT NULL
	UNION ALL
	SELECT course_id FROM new_user_courses
) u GROUP BY course_id`

const usageNew = `
SELECT course_id, COUNT(*) FROM new_user_courses GROUP BY course_id`

const yearsQuery = `
SELECT course_id, year FROM new_user_courses
WHERE year IS NOT NULL
ORDER BY course_id, year`

const referenceQuery = `
SELECT id, club_name, course_name, address, city, state, country, latitude, longitude
FROM courses
ORDER BY id`

// LoadUsedCourses loads every course that appears in the usage tables,
// ordered by id, with its play count and, for NewOnly, the years played.
func LoadUsedCourses(ctx context.Context, db *sql.DB, opts Options) ([]match.Query, error) {
	ids := usedIDsAll
	usage := usageAll
	if opts.NewOnly {
		ids = usedIDsNew
		usage = usageNew
		log.Info().Msg("Using new_user_courses table only")
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(usedCoursesQuery, ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query used courses: %w", err)
	}
	defer rows.Close()

	var queries []match.Query
	for rows.Next() {
		var (
			q                                   match.Query
			name, address, city, state, country sql.NullString
			lat, lon                            sql.NullFloat64
		)
		if err := rows.Scan(&q.ID, &name, &address, &city, &state, &country, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan used course: %w", err)
		}
		q.Name, q.Address, q.City = nullString(name), nullString(address), nullString(city)
		q.State, q.Country = nullString(state), nullString(country)
		q.Latitude, q.Longitude = nullFloat(lat), nullFloat(lon)
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read used courses: %w", err)
	}
	if len(queries) == 0 {
		return nil, ErrNoUsedCourses
	}

	counts, err := loadUsage(ctx, db, usage)
	if err != nil {
		return nil, err
	}
	var years map[int64][]int
	if opts.NewOnly {
		if years, err = loadYears(ctx, db); err != nil {
			return nil, err
		}
	}

	for i := range queries {
		queries[i].TimesPlayed = counts[queries[i].ID]
		queries[i].YearsPlayed = years[queries[i].ID]
	}

	total := len(queries)
	if opts.Limit > 0 && opts.Limit < total {
		queries = queries[:opts.Limit]
		log.Info().Int("kept", opts.Limit).Int("total", total).Msg("Limit applied to used courses")
	}

	log.Info().Int("courses", len(queries)).Msg("Loaded used courses")
	return queries, nil
}

func loadUsage(ctx context.Context, db *sql.DB, query string) (map[int64]int, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan usage count: %w", err)
		}
		c, err := safecast.Conv[int](n)
		if err != nil {
			return nil, fmt.Errorf("usage count for course %d: %w", id, err)
		}
		counts[id] += c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read usage counts: %w", err)
	}
	return counts, nil
}

func loadYears(ctx context.Context, db *sql.DB) (map[int64][]int, error) {
	rows, err := db.QueryContext(ctx, yearsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query years played: %w", err)
	}
	defer rows.Close()

	seen := make(map[int64]map[int]bool)
	for rows.Next() {
		var id, year int64
		if err := rows.Scan(&id, &year); err != nil {
			return nil, fmt.Errorf("failed to scan year played: %w", err)
		}
		y, err := safecast.Conv[int](year)
		if err != nil {
			return nil, fmt.Errorf("year for course %d: %w", id, err)
		}
		if seen[id] == nil {
			seen[id] = make(map[int]bool)
		}
		seen[id][y] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read years played: %w", err)
	}

	years := make(map[int64][]int, len(seen))
	for id, set := range seen {
		list := make([]int, 0, len(set))
		for y := range set {
			list = append(list, y)
		}
		sort.Ints(list)
		years[id] = list
	}
	return years, nil
}

// LoadReferenceCourses loads the whole reference pool ordered by id.
func LoadReferenceCourses(ctx context.Context, db *sql.DB) ([]match.Candidate, error) {
	rows, err := db.QueryContext(ctx, referenceQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference courses: %w", err)
	}
	defer rows.Close()

	var (
		candidates []match.Candidate
		withCoords int
	)
	for rows.Next() {
		var (
			c                                           match.Candidate
			club, course, address, city, state, country sql.NullString
			lat, lon                                    sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &club, &course, &address, &city, &state, &country, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan reference course: %w", err)
		}
		c.ClubName, c.CourseName, c.Address = nullString(club), nullString(course), nullString(address)
		c.City, c.State, c.Country = nullString(city), nullString(state), nullString(country)
		c.Latitude, c.Longitude = nullFloat(lat), nullFloat(lon)
		if c.Latitude != nil {
			withCoords++
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference courses: %w", err)
	}

	log.Info().
		Int("courses", len(candidates)).
		Int("with_coordinates", withCoords).
		Msg("Loaded reference courses")
	return candidates, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid || math.IsNaN(f.Float64) {
		return nil
	}
	v := f.Float64
	return &v
}
