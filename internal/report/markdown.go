package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/golfmapper/coursemap/internal/match"
)

const (
	highSampleSize   = 10
	mediumSampleSize = 20
)

// WriteMarkdown writes the human-readable summary grouped by confidence tier.
func WriteMarkdown(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	s := Summarize(doc)
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	p("# Golf Course Mapping Summary Report")
	p("")
	p("**Generated**: %s", doc.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"))
	p("")
	p("## Overview")
	p("")
	p("- **Total Garmin courses mapped**: %d", s.Total)
	p("- **Courses with matches**: %d (%.1f%%)", s.Matched, s.Percent(s.Matched))
	p("- **Courses without matches**: %d (%.1f%%)", s.Unmatched, s.Percent(s.Unmatched))
	p("- **Matches with missing coordinates**: %d (%.1f%%)", s.MissingCoordinates, s.Percent(s.MissingCoordinates))
	p("")
	p("## Confidence Level Distribution")
	p("")
	p("| Confidence | Count | Percentage | Avg Distance (m) | Avg Name Similarity |")
	p("|-----------|-------|------------|------------------|---------------------|")
	for _, t := range s.Tiers {
		if t.Count == 0 {
			continue
		}
		dist := "N/A"
		if t.AvgDistance != nil {
			dist = fmt.Sprintf("%.0f", *t.AvgDistance)
		}
		p("| %d | %d | %.1f%% | %s | %.3f |", t.Level, t.Count, s.Percent(t.Count), dist, t.AvgNameSimilarity)
	}

	high := filterEntries(doc, match.ConfidenceLikely, match.ConfidenceCertain)
	p("")
	p("## High-Confidence Matches (Confidence 4-5)")
	p("")
	p("**%d courses** (%.1f%%) are ready for migration with high confidence.", len(high), s.Percent(len(high)))
	p("")
	p("### Sample High-Confidence Matches")
	p("")
	for _, e := range head(high, highSampleSize) {
		p("- **%s** -> **%s** (Confidence: %d, Score: %.3f, Distance: %s)",
			value(e.Garmin.CourseName), e.GolfCourses.DisplayName(),
			e.MatchQuality.ConfidenceLevel, e.MatchQuality.CompositeScore, distance(e))
	}

	if medium := filterEntries(doc, match.ConfidencePossible, match.ConfidencePossible); len(medium) > 0 {
		p("")
		p("## Medium-Confidence Matches (Confidence 3)")
		p("")
		p("**%d courses** (%.1f%%) may need manual review.", len(medium), s.Percent(len(medium)))
		p("")
		p("### Courses Needing Review")
		p("")
		for _, e := range head(medium, mediumSampleSize) {
			p("- %s", matchedLine(e))
		}
	}

	if low := filterEntries(doc, match.ConfidenceNone, match.ConfidenceWeak); len(low) > 0 {
		p("")
		p("## Low-Confidence Matches & No Matches (Confidence 1-2)")
		p("")
		p("**%d courses** (%.1f%%) require manual review or may not exist in the reference database.",
			len(low), s.Percent(len(low)))
		p("")
		p("### Unmatched or Poorly Matched Courses")
		p("")
		for _, e := range low {
			if e.Matched() {
				p("- %s", matchedLine(e))
			} else {
				p("- **%s** (%s, %s) -> **NO MATCH FOUND**",
					value(e.Garmin.CourseName), value(e.Garmin.City), value(e.Garmin.State))
			}
		}
	}

	return bw.Flush()
}

func matchedLine(e Entry) string {
	return fmt.Sprintf("**%s** (%s, %s) -> **%s** (%s, %s) (Score: %.3f, Distance: %s)",
		value(e.Garmin.CourseName), value(e.Garmin.City), value(e.Garmin.State),
		e.GolfCourses.DisplayName(), value(e.GolfCourses.City), value(e.GolfCourses.State),
		e.MatchQuality.CompositeScore, distance(e))
}

func filterEntries(doc *Document, minLevel, maxLevel int) []Entry {
	var out []Entry
	for _, e := range doc.Mappings {
		if l := e.MatchQuality.ConfidenceLevel; l >= minLevel && l <= maxLevel {
			out = append(out, e)
		}
	}
	return out
}

func head(entries []Entry, n int) []Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func distance(e Entry) string {
	if d := e.MatchQuality.DistanceMeters; d != nil {
		return fmt.Sprintf("%.0fm", *d)
	}
	return "N/A"
}

func value(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}
