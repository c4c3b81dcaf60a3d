package trie

import (
	"math"
	"unicode/utf8"
)

// matchKind classifies how the remaining term relates to a child edge.
type matchKind int

const (
	noMatch matchKind = iota
	// equal: the term ends exactly on the child.
	equal
	// shorter: the term ends inside the child edge.
	shorter
	// longer: the child edge is a strict prefix of the term.
	longer
	// fork: term and edge share a prefix and then diverge.
	fork
)

type match struct {
	kind   matchKind
	index  int    // position of the edge in the parent's sibling list
	child  nodeID // node the edge points to
	key    string // edge fragment
	common int    // length in bytes of the shared prefix
}

// commonPrefix returns the length of the longest common prefix of a and b,
// backed off so it never ends inside a multi-byte character.
func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	for i > 0 && i < len(a) && !utf8.RuneStart(a[i]) {
		i--
	}
	return i
}

// matchChildren finds the single child of parent whose edge shares a
// non-empty prefix with term.
func (t *Trie) matchChildren(parent nodeID, term string) match {
	for i, e := range t.arena.at(parent).children {
		common := commonPrefix(term, e.key)
		if common == 0 {
			continue
		}
		m := match{index: i, child: e.id, key: e.key, common: common}
		switch {
		case common == len(term) && common == len(e.key):
			m.kind = equal
		case common == len(term):
			m.kind = shorter
		case common == len(e.key):
			m.kind = longer
		default:
			m.kind = fork
		}
		return m
	}
	return match{kind: noMatch}
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// insert adds term below parent and returns the total weight stored on the
// node that terminates it. The caller is responsible for raising parent's
// own bound with the returned weight.
func (t *Trie) insert(parent nodeID, term string, weight uint64) uint64 {
	m := t.matchChildren(parent, term)
	switch m.kind {
	case equal:
		n := t.arena.at(m.child)
		if n.terminal {
			n.weight = saturatingAdd(n.weight, weight)
		} else {
			n.weight, n.terminal = weight, true
			t.terms++
		}
		total := n.weight
		t.arena.promote(parent, m.index)
		return total

	case shorter:
		old := t.arena.at(m.child).contribution()
		mid := t.arena.alloc(node{
			children: []edge{{key: m.key[m.common:], id: m.child}},
			weight:   weight,
			terminal: true,
			childMax: old,
		})
		t.arena.unlink(parent, m.index)
		t.arena.link(parent, term[:m.common], mid)
		t.terms++
		return weight

	case longer:
		total := t.insert(m.child, term[m.common:], weight)
		n := t.arena.at(m.child)
		if total > n.childMax {
			n.childMax = total
			t.arena.promote(parent, m.index)
		}
		return total

	case fork:
		old := t.arena.at(m.child).contribution()
		leaf := t.arena.alloc(node{weight: weight, terminal: true})
		mid := t.arena.alloc(node{childMax: max(old, weight)})
		t.arena.link(mid, m.key[m.common:], m.child)
		t.arena.link(mid, term[m.common:], leaf)
		t.arena.unlink(parent, m.index)
		t.arena.link(parent, term[:m.common], mid)
		t.terms++
		return weight

	default:
		leaf := t.arena.alloc(node{weight: weight, terminal: true})
		t.arena.link(parent, term, leaf)
		t.terms++
		return weight
	}
}
