package trie

import "strings"

// walker carries the state of one lookup down the trie.
type walker struct {
	arena *arena
	path  []byte
	res   *resultSet
}

// descend follows the query prefix from id. Once the prefix is used up,
// at a node boundary or in the middle of an edge, it switches to enumerate.
func (w *walker) descend(id nodeID, prefix string) {
	for _, e := range w.arena.at(id).children {
		switch {
		case strings.HasPrefix(e.key, prefix):
			w.visit(e)
			return
		case strings.HasPrefix(prefix, e.key):
			w.path = append(w.path, e.key...)
			w.descend(e.id, prefix[len(e.key):])
			return
		}
	}
}

// enumerate offers every term below id, skipping subtrees whose bound
// cannot beat the current k-th result.
func (w *walker) enumerate(id nodeID) {
	n := w.arena.at(id)
	if w.res.cannotImprove(n.childMax) {
		return
	}
	for _, e := range n.children {
		// Siblings are ordered by contribution, highest first, so once one
		// is unproductive every following sibling is too.
		if w.res.cannotImprove(w.arena.at(e.id).contribution()) {
			return
		}
		w.visit(e)
	}
}

// visit offers the node behind e and everything below it.
func (w *walker) visit(e edge) {
	w.path = append(w.path, e.key...)
	n := w.arena.at(e.id)
	if n.terminal && !w.res.cannotImprove(n.weight) {
		w.res.offer(string(w.path), n.weight)
	}
	if len(n.children) > 0 {
		w.enumerate(e.id)
	}
	w.path = w.path[:len(w.path)-len(e.key)]
}

func (t *Trie) lookup(prefix string, topK int) []Completion {
	w := &walker{
		arena: &t.arena,
		path:  make([]byte, 0, 64),
		res:   newResultSet(topK),
	}
	if prefix == "" {
		w.enumerate(rootNode)
	} else {
		w.descend(rootNode, prefix)
	}
	return w.res.sorted()
}
