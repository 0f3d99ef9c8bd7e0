package normalize

import (
	"regexp"
	"strings"
)

var wsPlus = ws + `+`

func wsPattern(p string) *regexp.Regexp {
	return regexp.MustCompile(strings.ReplaceAll(p, `\s+`, wsPlus))
}

var (
	reLeadingThe = wsPattern(`^the\s+`)

	// Generic trailing facility descriptors.
	reGenericSuffix = wsPattern(`\s+(golf\s+and\s+country\s+club|country\s+club|yacht\s+and\s+country\s+club|` +
		`yacht\s+&\s+country\s+club|golf\s+club|golf\s+course|golf\s+trail|` +
		`g\.c\.|c\.c\.|cc|gc|links)$`)

	// Organisation prefixes such as the Robert Trent Jones trail.
	reOrgPrefix = wsPattern(`^(rtj\s+golf\s+trail\s+at|golf\s+trail\s+at)\s+`)

	reStandaloneTerm = wsPattern(`\s+(golf|course|club|trail)\s+`)
	reTrailingTerm   = wsPattern(`\s+(golf|course|club|trail)$`)
)

// locationTerms are rewritten in order before any descriptor stripping.
var locationTerms = []struct{ token, repl string }{
	{"saint", "st"},
	{"st.", "st"},
	{"mount", "mt"},
	{"mt.", "mt"},
}

// NormalizeName canonicalizes a course or club name for fuzzy comparison.
// The rewrite rules are applied until the name stops changing, so the result
// is a fixed point: NormalizeName(NormalizeName(x)) == NormalizeName(x).
func NormalizeName(name string) string {
	n := namePass(name)
	// Every pass that changes the name after the first one shortens it.
	for limit := len(n); limit >= 0; limit-- {
		next := namePass(n)
		if next == n {
			break
		}
		n = next
	}
	return n
}

func namePass(name string) string {
	name = lower(trim(name))
	if name == "" {
		return ""
	}

	name = reLeadingThe.ReplaceAllString(name, "")

	for _, t := range locationTerms {
		name = replaceBounded(name, t.token, t.repl)
	}

	name = reGenericSuffix.ReplaceAllString(name, "")
	name = reOrgPrefix.ReplaceAllString(name, "")
	name = reStandaloneTerm.ReplaceAllString(name, " ")
	name = reTrailingTerm.ReplaceAllString(name, "")

	name = stripPunctuation(name)
	return collapse(name)
}

// stripPunctuation replaces every rune that is neither a word character nor
// whitespace with a space.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if isWord(r) || isSpace(r) {
			return r
		}
		return ' '
	}, s)
}

// NormalizeLocation lower-cases and trims a city name. No descriptor stripping.
func NormalizeLocation(location string) string {
	return lower(trim(location))
}

// NormalizeState upper-cases a state or province and expands US and Canadian
// two-letter codes to their full names. Unknown values pass through upper-cased.
func NormalizeState(state string) string {
	state = upper(trim(state))
	if state == "" {
		return ""
	}
	if full, ok := stateNames[state]; ok {
		return full
	}
	return state
}

// Country aliases folded by NormalizeCountry.
const (
	CountryUnitedStates = "united states"
	CountryCanada       = "canada"
)

// NormalizeCountry lower-cases a country and folds the common US and Canada
// spellings.
func NormalizeCountry(country string) string {
	country = lower(trim(country))
	if canonical, ok := countryAliases[country]; ok {
		return canonical
	}
	return country
}

// IsDomestic reports whether a raw country value normalizes to the United States.
func IsDomestic(country string) bool {
	return NormalizeCountry(country) == CountryUnitedStates
}
