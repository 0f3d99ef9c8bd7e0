// Package fuzz provides the string similarity ratios used for name and city
// matching. Scores are computed on a 0-100 scale internally and returned in
// [0, 1].
package fuzz

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
)

// indel is the insertion/deletion edit distance: a substitution costs one
// deletion plus one insertion.
var indel = &metrics.Levenshtein{
	CaseSensitive: true,
	InsertCost:    1,
	DeleteCost:    1,
	ReplaceCost:   2,
}

// Ratio returns the normalized Indel similarity of a and b,
// 1 - distance/(len(a)+len(b)) over code points. Two empty strings are identical.
func Ratio(a, b string) float64 {
	return ratio(a, b) / 100
}

// TokenSortRatio compares a and b after sorting their whitespace-separated
// tokens, so word order does not matter.
func TokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b)) / 100
}

// PartialRatio returns the best Ratio between the shorter string and any
// equally long window of the longer one, including windows clipped at either
// end of the longer string.
func PartialRatio(a, b string) float64 {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}
	if len(s1) == 0 {
		if len(s2) == 0 {
			return 1
		}
		return 0
	}

	best := partialWindows(s1, s2)
	if best != 100 && len(s1) == len(s2) {
		if alt := partialWindows(s2, s1); alt > best {
			best = alt
		}
	}
	return best / 100
}

// Best returns the maximum of Ratio, TokenSortRatio and PartialRatio.
func Best(a, b string) float64 {
	best := Ratio(a, b)
	if s := TokenSortRatio(a, b); s > best {
		best = s
	}
	if s := PartialRatio(a, b); s > best {
		best = s
	}
	return best
}

func ratio(a, b string) float64 {
	lensum := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if lensum == 0 {
		return 100
	}
	dist := indel.Distance(a, b)
	return (1 - float64(dist)/float64(lensum)) * 100
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// partialWindows slides needle across hay. It is used for every needle
// length; rapidfuzz switches to a matching-blocks search for needles over 64
// runes, so very long names may score slightly differently there. Only windows whose edge rune also
// occurs in the needle can produce the best alignment, so the others are
// skipped.
func partialWindows(needle, hay []rune) float64 {
	n, h := len(needle), len(hay)
	chars := make(map[rune]struct{}, n)
	for _, r := range needle {
		chars[r] = struct{}{}
	}
	in := func(r rune) bool {
		_, ok := chars[r]
		return ok
	}

	target := string(needle)
	best := 0.0
	try := func(window []rune) bool {
		if r := ratio(target, string(window)); r > best {
			best = r
		}
		return best == 100
	}

	// Windows clipped at the start of hay.
	for i := 1; i < n; i++ {
		if in(hay[i-1]) && try(hay[:i]) {
			return best
		}
	}
	// Full-length windows.
	for i := 0; i < h-n; i++ {
		if in(hay[i]) && try(hay[i:i+n]) {
			return best
		}
	}
	// Windows clipped at the end of hay.
	for i := h - n; i < h; i++ {
		if in(hay[i]) && try(hay[i:]) {
			return best
		}
	}
	return best
}
