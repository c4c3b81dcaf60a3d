package trie

// nodeID is the stable index of a node in the arena. Ids are never reused.
type nodeID int

const rootNode nodeID = 0

type edge struct {
	key string
	id  nodeID
}

type node struct {
	children []edge
	weight   uint64
	terminal bool
	// childMax bounds the weight of any term strictly below this node.
	childMax uint64
}

// contribution is the best weight a lookup can get out of n,
// counting the node itself.
func (n *node) contribution() uint64 {
	if n.terminal && n.weight > n.childMax {
		return n.weight
	}
	return n.childMax
}

// arena owns every node of a trie. Nodes are only ever appended.
type arena struct {
	nodes []node
}

func newArena() arena {
	return arena{nodes: []node{{}}}
}

func (a *arena) alloc(n node) nodeID {
	id := nodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return id
}

// at returns a pointer into the arena. It is invalidated by the next alloc.
func (a *arena) at(id nodeID) *node {
	return &a.nodes[id]
}

func (a *arena) len() int {
	return len(a.nodes)
}

// insertionIndex returns where an edge to child belongs in parent's sibling
// list: after every sibling whose contribution is greater or equal.
func (a *arena) insertionIndex(parent, child nodeID) int {
	c := a.at(child).contribution()
	children := a.at(parent).children
	lo, hi := 0, len(children)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if a.at(children[mid].id).contribution() >= c {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// link adds an edge from parent to child, keeping siblings ordered by
// contribution, highest first.
func (a *arena) link(parent nodeID, key string, child nodeID) {
	i := a.insertionIndex(parent, child)
	p := a.at(parent)
	p.children = append(p.children, edge{})
	copy(p.children[i+1:], p.children[i:])
	p.children[i] = edge{key: key, id: child}
}

// unlink removes the edge at index i of parent and returns it.
func (a *arena) unlink(parent nodeID, i int) edge {
	p := a.at(parent)
	e := p.children[i]
	p.children = append(p.children[:i], p.children[i+1:]...)
	return e
}

// promote moves the edge at index i towards the front of parent's sibling
// list after its child's contribution grew. Contributions never shrink, so
// the edge only ever moves left.
func (a *arena) promote(parent nodeID, i int) {
	children := a.at(parent).children
	c := a.at(children[i].id).contribution()
	if i == 0 || a.at(children[i-1].id).contribution() >= c {
		return
	}
	e := children[i]
	j := i
	for j > 0 && a.at(children[j-1].id).contribution() < c {
		children[j] = children[j-1]
		j--
	}
	children[j] = e
}
