package utils

// SuggestionFilter drops case-insensitive duplicates of suggestions and the
// input word itself. Case is folded with Lower, the same way lookups fold it.
// Not safe for concurrent use.
type SuggestionFilter struct {
	seenWords map[string]bool
}

// NewSuggestionFilter creates a new filter instance that will exclude the given input word
func NewSuggestionFilter(input string) *SuggestionFilter {
	return &SuggestionFilter{
		seenWords: map[string]bool{Lower(input): true},
	}
}

// ShouldInclude checks if a word should be included in results (not a duplicate)
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	lowerWord := Lower(word)
	if f.seenWords[lowerWord] {
		return false
	}
	f.seenWords[lowerWord] = true
	return true
}
