/*
Package trie implements a pruning radix trie for weighted prefix completion.

Terms are stored on a compressed trie whose edges carry multi-byte fragments.
Every node caches an upper bound of the best weight reachable below it, and
siblings are kept ordered by their best contribution, so a top-k lookup can
stop exploring as soon as nothing left in a subtree can beat the k-th result.

	t := trie.New()
	t.Insert("cat", 5)
	t.Insert("car", 3)
	t.Insert("cart", 2)

	res, _ := t.Lookup("ca", 2) // [{cat 5} {car 3}]

Insertion is additive: inserting an existing term adds to its weight. The
whole dictionary can be enumerated with an empty prefix, which is what Save
does to write it back out as delimited text.

# Concurrency

A Trie is not safe for concurrent use. Insert mutates sibling lists in place,
so callers that share a trie between goroutines need a single-writer lock
around it (see pkg/suggest).
*/
package trie
