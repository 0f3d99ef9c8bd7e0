package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Columns is the flat column set shared by the CSV and XLSX artifacts.
var Columns = []string{
	"garmin_id", "garmin_course_name", "garmin_city", "garmin_state", "garmin_country",
	"garmin_latitude", "garmin_longitude", "times_played", "years_played",
	"golf_courses_id", "golf_club_name", "golf_course_name", "golf_city", "golf_state",
	"golf_country", "golf_latitude", "golf_longitude",
	"distance_meters", "name_similarity_score", "composite_score", "confidence_level",
	"missing_coordinates",
	"second_best_golf_id", "second_best_club_name", "second_best_course_name", "second_best_score",
	"third_best_golf_id", "third_best_club_name", "third_best_course_name", "third_best_score",
}

// Cell is one flat value. Nil means the value is absent.
type Cell = interface{}

// Row flattens an entry in Columns order. Absent values are nil; the rest
// keep their native types for the XLSX writer.
func (e Entry) Row() []Cell {
	g, c, mq := e.Garmin, e.GolfCourses, e.MatchQuality
	row := []Cell{
		g.ID, str(g.CourseName), str(g.City), str(g.State), str(g.Country),
		num(g.Latitude), num(g.Longitude), e.Usage.TimesPlayed, yearsList(g.YearsPlayed),
		id(c.ID), str(c.ClubName), str(c.CourseName), str(c.City), str(c.State),
		str(c.Country), num(c.Latitude), num(c.Longitude),
		num(mq.DistanceMeters), mq.NameSimilarity, mq.CompositeScore, mq.ConfidenceLevel,
		mq.MissingCoordinates,
	}
	for i := 0; i < 2; i++ {
		if i < len(e.Alternatives) {
			a := e.Alternatives[i]
			row = append(row, a.GolfCoursesID, str(a.ClubName), str(a.CourseName), a.Score)
		} else {
			row = append(row, nil, nil, nil, nil)
		}
	}
	return row
}

// WriteCSV writes the flat mapping table.
func WriteCSV(w io.Writer, doc *Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(Columns))
	for _, e := range doc.Mappings {
		for i, v := range e.Row() {
			record[i] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", e.Garmin.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v Cell) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(x)
	}
}

func str(s *string) Cell {
	if s == nil {
		return nil
	}
	return *s
}

func num(f *float64) Cell {
	if f == nil {
		return nil
	}
	return *f
}

func id(i *int64) Cell {
	if i == nil {
		return nil
	}
	return *i
}

func yearsList(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
