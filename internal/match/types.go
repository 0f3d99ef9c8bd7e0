package match

// Query is a used course awaiting a match in the reference pool. Optional
// attributes are nil when the source store has no value.
type Query struct {
	ID          int64
	Name        *string // may be composite, e.g. "Club - Course"
	Address     *string
	City        *string
	State       *string
	Country     *string
	Latitude    *float64
	Longitude   *float64
	TimesPlayed int
	YearsPlayed []int // sorted, distinct
}

// Candidate is a reference course. Club and course names are independently optional.
type Candidate struct {
	ID         int64    `msgpack:"id"`
	ClubName   *string  `msgpack:"club_name"`
	CourseName *string  `msgpack:"course_name"`
	Address    *string  `msgpack:"address"`
	City       *string  `msgpack:"city"`
	State      *string  `msgpack:"state"`
	Country    *string  `msgpack:"country"`
	Latitude   *float64 `msgpack:"latitude"`
	Longitude  *float64 `msgpack:"longitude"`
}

// DisplayName joins club and course names for log and report lines.
func (c *Candidate) DisplayName() string {
	club, course := Value(c.ClubName), Value(c.CourseName)
	switch {
	case club != "" && course != "":
		return club + " - " + course
	case club != "":
		return club
	case course != "":
		return course
	default:
		return "Unknown"
	}
}

// Result is the scored comparison of one query against one candidate.
type Result struct {
	Candidate *Candidate

	DistanceScore float64
	NameScore     float64
	ClubScore     float64 // club part, or the full name against the club name
	CourseScore   float64 // course part, or the full name against the course name
	CityScore     float64
	StateMatch    bool
	BothHaveState bool

	Composite      float64
	HasCoordinates bool     // both sides carry a coordinate pair
	DistanceMeters *float64 // nil when not computable
	Domestic       bool     // the query is a US course
	SplitName      bool     // the query name had a club/course separator
}

// ViolatesHardConstraint reports whether the result must be excluded from
// the ranking altogether: a state mismatch on a domestic query with state data
// on both sides, or a computable distance beyond MaxDistanceMeters.
func (r Result) ViolatesHardConstraint() bool {
	if r.Domestic && r.BothHaveState && !r.StateMatch {
		return true
	}
	return r.DistanceMeters != nil && *r.DistanceMeters > MaxDistanceMeters
}

// Confidence classifies the result into a 1-5 tier.
func (r Result) Confidence() int {
	return AssignConfidence(r.Composite, r.HasCoordinates, r.DistanceMeters,
		r.StateMatch, r.BothHaveState, r.Domestic)
}

// Alternate is a runner-up candidate reported alongside the best match.
type Alternate struct {
	ID         int64
	ClubName   *string
	CourseName *string
	Score      float64
}

// Mapping is the final outcome for one query.
type Mapping struct {
	Query Query

	// Match is nil when every candidate was excluded by a hard constraint.
	Match *Candidate

	Confidence         int
	Composite          float64
	NameScore          float64
	ClubScore          float64
	CourseScore        float64
	SplitName          bool
	DistanceMeters     *float64
	MissingCoordinates bool
	Alternates         []Alternate // at most MaxAlternates
}

// HasMatch reports whether a candidate survived filtering.
func (m Mapping) HasMatch() bool {
	return m.Match != nil
}

// Value dereferences an optional string, treating nil as empty.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
