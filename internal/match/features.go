package match

import (
	"github.com/golfmapper/coursemap/internal/fuzz"
	"github.com/golfmapper/coursemap/internal/geo"
	"github.com/golfmapper/coursemap/internal/normalize"
)

// Distance buckets, nearest first. Anything at or beyond the last bound scores 0.
var distanceBuckets = [...]struct {
	below float64
	score float64
}{
	{100, 1.0},
	{500, 0.9},
	{1000, 0.7},
	{5000, 0.4},
	{10000, 0.2},
}

// City scoring.
const (
	CityFuzzyThreshold = 0.85
	CityFuzzyScore     = 0.8
)

// BucketDistance converts a distance in meters to a score in [0,1].
func BucketDistance(meters float64) float64 {
	for _, b := range distanceBuckets {
		if meters < b.below {
			return b.score
		}
	}
	return 0.0
}

// MeasureDistance returns the geodesic distance between two optional
// coordinate pairs. hasCoordinates is true when all four values are present,
// even if the distance itself cannot be computed.
func MeasureDistance(lat1, lon1, lat2, lon2 *float64) (meters *float64, hasCoordinates bool) {
	a, okA := geo.NewPoint(lat1, lon1)
	b, okB := geo.NewPoint(lat2, lon2)
	if !okA || !okB {
		return nil, false
	}
	d, ok := geo.Distance(a, b)
	if !ok {
		return nil, true
	}
	return &d, true
}

// DistanceScore scores two optional coordinate pairs. Missing or invalid
// coordinates score 0.
func DistanceScore(lat1, lon1, lat2, lon2 *float64) float64 {
	meters, _ := MeasureDistance(lat1, lon1, lat2, lon2)
	if meters == nil {
		return 0.0
	}
	return BucketDistance(*meters)
}

// NameSimilarity normalizes both names and returns the best of the plain,
// token-sort and partial ratios. Empty names score 0.
func NameSimilarity(name1, name2 string) float64 {
	return nameScore(normalize.NormalizeName(name1), normalize.NormalizeName(name2))
}

func nameScore(n1, n2 string) float64 {
	if n1 == "" || n2 == "" {
		return 0.0
	}
	return fuzz.Best(n1, n2)
}

// CityMatch scores two city names: 1.0 for equal normalized names,
// CityFuzzyScore when their ratio reaches CityFuzzyThreshold, otherwise 0.
func CityMatch(city1, city2 string) float64 {
	return cityScore(normalize.NormalizeLocation(city1), normalize.NormalizeLocation(city2))
}

func cityScore(c1, c2 string) float64 {
	if c1 == "" || c2 == "" {
		return 0.0
	}
	if c1 == c2 {
		return 1.0
	}
	if fuzz.Ratio(c1, c2) >= CityFuzzyThreshold {
		return CityFuzzyScore
	}
	return 0.0
}

// StateMatch compares two state values after normalization. bothPresent is
// false when either side is empty, in which case the score is 0.
func StateMatch(state1, state2 string) (score float64, bothPresent bool) {
	return stateScore(normalize.NormalizeState(state1), normalize.NormalizeState(state2))
}

func stateScore(s1, s2 string) (float64, bool) {
	if s1 == "" || s2 == "" {
		return 0.0, false
	}
	if s1 == s2 {
		return 1.0, true
	}
	return 0.0, true
}

// queryName is a query's course name prepared for repeated comparison.
type queryName struct {
	full   string // normalized full name
	club   string // normalized club part, set when split
	course string // normalized course part, set when split
	split  bool
}

func newQueryName(raw string) queryName {
	qn := queryName{full: normalize.NormalizeName(raw)}
	club, course := normalize.ParseCourseName(raw)
	if course != "" {
		qn.split = true
		qn.club = normalize.NormalizeName(club)
		qn.course = normalize.NormalizeName(course)
	}
	return qn
}

// score compares the query name with a candidate's normalized club and
// course names, returning the blended name score and its two parts.
func (qn queryName) score(club, course string) (name, clubPart, coursePart float64) {
	if qn.split {
		clubPart = nameScore(qn.club, club)
		coursePart = nameScore(qn.course, course)
		return ClubPartWeight*clubPart + CoursePartWeight*coursePart, clubPart, coursePart
	}
	clubPart = nameScore(qn.full, club)
	coursePart = nameScore(qn.full, course)
	return max(clubPart, coursePart), clubPart, coursePart
}

// CourseNameScore scores a possibly composite query name against a
// candidate's club and course names. A split name blends the club and course
// parts 30/70; an unsplit name takes the better of the two comparisons.
func CourseNameScore(queryName string, clubName, courseName *string) float64 {
	name, _, _ := newQueryName(queryName).score(
		normalize.NormalizeName(Value(clubName)),
		normalize.NormalizeName(Value(courseName)))
	return name
}
