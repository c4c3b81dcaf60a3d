// Package suggest is the serving layer over the pruning trie: it guards the
// trie with a single-writer lock, folds case, applies frequency thresholds
// and caches hot prefixes.
package suggest

// ICompleter defines the interface for word completion engines
type ICompleter interface {
	// Complete returns up to limit suggestions for prefix, most frequent first
	Complete(prefix string, limit int) []Suggestion

	// AddWord adds frequency to word and returns its new total
	AddWord(word string, frequency uint64) (uint64, error)

	// Stats returns statistics about the loaded dictionary
	Stats() map[string]int
}

var _ ICompleter = (*Completer)(nil)
