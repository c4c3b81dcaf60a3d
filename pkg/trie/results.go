package trie

import (
	"container/heap"
	"sort"
)

// Completion is a term found by Lookup together with its total weight.
type Completion struct {
	Term   string
	Weight uint64
}

// before reports whether a ranks ahead of b: heavier first, then by term.
func before(a, b Completion) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	return a.Term < b.Term
}

// resultSet keeps the best k completions seen so far. It is a heap with the
// worst retained completion on top, so it can be evicted in O(log k).
type resultSet struct {
	items []Completion
	limit int // 0 means unbounded
}

func newResultSet(limit int) *resultSet {
	rs := &resultSet{limit: limit}
	if limit > 0 {
		rs.items = make([]Completion, 0, min(limit, 64))
	}
	return rs
}

func (rs *resultSet) Len() int           { return len(rs.items) }
func (rs *resultSet) Less(i, j int) bool { return before(rs.items[j], rs.items[i]) }
func (rs *resultSet) Swap(i, j int)      { rs.items[i], rs.items[j] = rs.items[j], rs.items[i] }

func (rs *resultSet) Push(x any) {
	rs.items = append(rs.items, x.(Completion))
}

func (rs *resultSet) Pop() any {
	last := rs.items[len(rs.items)-1]
	rs.items = rs.items[:len(rs.items)-1]
	return last
}

func (rs *resultSet) full() bool {
	return rs.limit > 0 && len(rs.items) >= rs.limit
}

// worst is the weight of the lowest ranked retained completion.
// Only meaningful when the set is non-empty.
func (rs *resultSet) worst() uint64 {
	return rs.items[0].Weight
}

// cannotImprove reports whether a subtree whose best weight is bound can
// no longer change the result set.
func (rs *resultSet) cannotImprove(bound uint64) bool {
	return rs.full() && bound < rs.worst()
}

func (rs *resultSet) offer(term string, weight uint64) {
	c := Completion{Term: term, Weight: weight}
	if rs.limit == 0 {
		rs.items = append(rs.items, c)
		return
	}
	if len(rs.items) < rs.limit {
		heap.Push(rs, c)
		return
	}
	if before(c, rs.items[0]) {
		rs.items[0] = c
		heap.Fix(rs, 0)
	}
}

// sorted drains the set into ranking order.
func (rs *resultSet) sorted() []Completion {
	out := rs.items
	rs.items = nil
	sort.Slice(out, func(i, j int) bool { return before(out[i], out[j]) })
	return out
}
