package normalize

import "strings"

// courseSeparators split "Club - Course" style names. All three are equally
// valid; the leftmost one in the name wins.
var courseSeparators = []string{" - ", " – ", " — "}

// ParseCourseName splits a composite name into its club part and its
// course-specific part. Names without a separator come back whole as the club
// part with an empty course part.
func ParseCourseName(full string) (club, course string) {
	full = trim(full)
	if full == "" {
		return "", ""
	}

	at, sepLen := -1, 0
	for _, sep := range courseSeparators {
		if i := strings.Index(full, sep); i >= 0 && (at < 0 || i < at) {
			at, sepLen = i, len(sep)
		}
	}
	if at < 0 {
		return full, ""
	}

	return trim(full[:at]), trim(full[at+sepLen:])
}
