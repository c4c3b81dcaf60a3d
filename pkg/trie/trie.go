package trie

import (
	"errors"
	"unicode/utf8"
)

// Unbounded asks Lookup for every matching completion.
const Unbounded = 0

var (
	// ErrEmptyTerm is returned when inserting the empty string.
	ErrEmptyTerm = errors.New("trie: empty term")
	// ErrInvalidUTF8 is returned for terms or prefixes that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("trie: invalid UTF-8")
	// ErrEmptySeparator is returned by Load and Save when no separator is given.
	ErrEmptySeparator = errors.New("trie: empty separator")
)

// Trie is a pruning radix trie of weighted terms.
type Trie struct {
	arena arena
	terms int
}

// Stats describes the size of a trie.
type Stats struct {
	Terms     int
	Nodes     int
	MaxWeight uint64
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{arena: newArena()}
}

// Insert adds weight to term and returns the total weight now stored for it.
// Accumulated weights saturate at math.MaxUint64.
func (t *Trie) Insert(term string, weight uint64) (uint64, error) {
	if term == "" {
		return 0, ErrEmptyTerm
	}
	if !utf8.ValidString(term) {
		return 0, ErrInvalidUTF8
	}
	total := t.insert(rootNode, term, weight)
	root := t.arena.at(rootNode)
	root.childMax = max(root.childMax, total)
	return total, nil
}

// Lookup returns the topK heaviest terms starting with prefix, heaviest
// first and alphabetical among equal weights. A topK of Unbounded (or any
// value below one) returns every match. The empty prefix matches all terms.
func (t *Trie) Lookup(prefix string, topK int) ([]Completion, error) {
	if !utf8.ValidString(prefix) {
		return nil, ErrInvalidUTF8
	}
	if topK < 0 {
		topK = Unbounded
	}
	return t.lookup(prefix, topK), nil
}

// Len returns the number of distinct terms.
func (t *Trie) Len() int {
	return t.terms
}

// IsEmpty reports whether no term has been inserted.
func (t *Trie) IsEmpty() bool {
	return t.terms == 0
}

func (t *Trie) Stats() Stats {
	return Stats{
		Terms:     t.terms,
		Nodes:     t.arena.len(),
		MaxWeight: t.arena.at(rootNode).childMax,
	}
}
