// Package report turns mapping results into the CSV, JSON, Markdown and XLSX
// artifacts reviewed before a migration.
package report

import (
	"strconv"
	"time"

	"github.com/golfmapper/coursemap/internal/match"
)

// Artifact file names inside the output directory.
const (
	CSVFile      = "garmin_to_golf_courses_mapping.csv"
	JSONFile     = "garmin_to_golf_courses_mapping.json"
	MarkdownFile = "mapping_summary.md"
	XLSXFile     = "garmin_to_golf_courses_mapping.xlsx"
)

// Document is the full mapping report. Its JSON form is the
// garmin_to_golf_courses_mapping.json artifact.
type Document struct {
	Metadata Metadata `json:"metadata"`
	Mappings []Entry  `json:"mappings"`
}

// Metadata summarizes a run.
type Metadata struct {
	GeneratedAt            time.Time      `json:"generated_at"`
	TotalGarminCourses     int            `json:"total_garmin_courses"`
	TotalMatches           int            `json:"total_matches"`
	ConfidenceDistribution map[string]int `json:"confidence_distribution"`
}

// Entry is one used course and its outcome.
type Entry struct {
	Garmin       GarminCourse  `json:"garmin"`
	GolfCourses  GolfCourse    `json:"golf_courses"`
	MatchQuality MatchQuality  `json:"match_quality"`
	Alternatives []Alternative `json:"alternatives"`
	Usage        Usage         `json:"usage"`
}

// GarminCourse is the used course side of an entry.
type GarminCourse struct {
	ID          int64    `json:"id"`
	CourseName  *string  `json:"course_name"`
	City        *string  `json:"city"`
	State       *string  `json:"state"`
	Country     *string  `json:"country"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	YearsPlayed []int    `json:"years_played"`
}

// GolfCourse is the matched reference course. Every field is null for an
// unmatched entry.
type GolfCourse struct {
	ID         *int64   `json:"id"`
	ClubName   *string  `json:"club_name"`
	CourseName *string  `json:"course_name"`
	City       *string  `json:"city"`
	State      *string  `json:"state"`
	Country    *string  `json:"country"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// MatchQuality carries the scores of the best match.
type MatchQuality struct {
	ConfidenceLevel    int      `json:"confidence_level"`
	CompositeScore     float64  `json:"composite_score"`
	NameSimilarity     float64  `json:"name_similarity"`
	DistanceMeters     *float64 `json:"distance_meters"`
	MissingCoordinates bool     `json:"missing_coordinates"`
}

// Alternative is a runner-up reference course.
type Alternative struct {
	GolfCoursesID int64   `json:"golf_courses_id"`
	ClubName      *string `json:"club_name"`
	CourseName    *string `json:"course_name"`
	Score         float64 `json:"score"`
}

// Usage records how often the course was played.
type Usage struct {
	TimesPlayed int `json:"times_played"`
}

// Matched reports whether the entry has a reference course.
func (e Entry) Matched() bool {
	return e.GolfCourses.ID != nil
}

// Build assembles a report from mappings in their given order.
func Build(mappings []match.Mapping, generatedAt time.Time) *Document {
	doc := &Document{
		Metadata: Metadata{
			GeneratedAt:            generatedAt,
			TotalGarminCourses:     len(mappings),
			ConfidenceDistribution: make(map[string]int, match.ConfidenceCertain),
		},
		Mappings: make([]Entry, 0, len(mappings)),
	}
	for level := match.ConfidenceNone; level <= match.ConfidenceCertain; level++ {
		doc.Metadata.ConfidenceDistribution[strconv.Itoa(level)] = 0
	}

	for _, m := range mappings {
		entry := newEntry(m)
		if entry.Matched() {
			doc.Metadata.TotalMatches++
		}
		doc.Metadata.ConfidenceDistribution[strconv.Itoa(entry.MatchQuality.ConfidenceLevel)]++
		doc.Mappings = append(doc.Mappings, entry)
	}
	return doc
}

func newEntry(m match.Mapping) Entry {
	q := m.Query
	years := q.YearsPlayed
	if years == nil {
		years = []int{}
	}

	e := Entry{
		Garmin: GarminCourse{
			ID:          q.ID,
			CourseName:  q.Name,
			City:        q.City,
			State:       q.State,
			Country:     q.Country,
			Latitude:    q.Latitude,
			Longitude:   q.Longitude,
			YearsPlayed: years,
		},
		MatchQuality: MatchQuality{
			ConfidenceLevel:    m.Confidence,
			CompositeScore:     m.Composite,
			NameSimilarity:     m.NameScore,
			DistanceMeters:     m.DistanceMeters,
			MissingCoordinates: m.MissingCoordinates,
		},
		Alternatives: make([]Alternative, 0, len(m.Alternates)),
		Usage:        Usage{TimesPlayed: q.TimesPlayed},
	}

	if c := m.Match; c != nil {
		id := c.ID
		e.GolfCourses = GolfCourse{
			ID:         &id,
			ClubName:   c.ClubName,
			CourseName: c.CourseName,
			City:       c.City,
			State:      c.State,
			Country:    c.Country,
			Latitude:   c.Latitude,
			Longitude:  c.Longitude,
		}
	}

	for _, alt := range m.Alternates {
		e.Alternatives = append(e.Alternatives, Alternative{
			GolfCoursesID: alt.ID,
			ClubName:      alt.ClubName,
			CourseName:    alt.CourseName,
			Score:         alt.Score,
		})
	}
	return e
}

// DisplayName joins the matched club and course names.
func (g GolfCourse) DisplayName() string {
	c := match.Candidate{ClubName: g.ClubName, CourseName: g.CourseName}
	return c.DisplayName()
}
