package utils

import (
	"strconv"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower lower-cases s with full Unicode rules (final sigma and friends).
// Casers keep state, so each call gets its own.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// CapitalPattern records which rune positions of an input were upper case.
type CapitalPattern []bool

// ParseCapitals returns the capital pattern of s, or nil when s has no
// upper case letters.
func ParseCapitals(s string) CapitalPattern {
	var pattern CapitalPattern
	i := 0
	for _, r := range s {
		if unicode.IsUpper(r) {
			if pattern == nil {
				pattern = make(CapitalPattern, len([]rune(s)))
			}
			pattern[i] = true
		}
		i++
	}
	return pattern
}

// Apply upper-cases the runes of word found at the recorded positions.
func (p CapitalPattern) Apply(word string) string {
	if len(p) == 0 {
		return word
	}
	runes := []rune(word)
	for i := 0; i < len(runes) && i < len(p); i++ {
		if p[i] {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}

// FormatWithCommas renders n with thousands separators.
func FormatWithCommas(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
