package bplustree

import "cmp"

// kind tags a node as exactly one of the two variants. Dispatch on this
// field replaces virtual calls: split, merge and borrow are asymmetric
// between leaf and index nodes and gain nothing from a shared interface.
type kind uint8

const (
	leafKind kind = iota
	indexKind
)

// node is the tagged Leaf/Index variant described in the spec's data
// model. Only the fields meaningful to its kind are populated: keys and
// values (plus next/prev) for a leaf, keys and children for an index.
type node[K cmp.Ordered, V Cloner[V]] struct {
	kind kind

	keys   []K
	values []V // leaf only

	children []*node[K, V] // index only

	next *node[K, V] // leaf only, non-owning
	prev *node[K, V] // leaf only, non-owning
}

func newLeaf[K cmp.Ordered, V Cloner[V]]() *node[K, V] {
	return &node[K, V]{kind: leafKind}
}

func newIndex[K cmp.Ordered, V Cloner[V]]() *node[K, V] {
	return &node[K, V]{kind: indexKind}
}

func (n *node[K, V]) isLeaf() bool { return n.kind == leafKind }

// ceilDiv computes ceil(a/b) for positive integers.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Leaf capacity predicates (spec §4.2): keyed on key count.
func (n *node[K, V]) isFullLeaf(fanout int) bool {
	assertInvariant(n.isLeaf(), "isFullLeaf called on an index node")
	return len(n.keys) == fanout
}

func (n *node[K, V]) isMinimumLeaf(fanout int) bool {
	assertInvariant(n.isLeaf(), "isMinimumLeaf called on an index node")
	return len(n.keys) == ceilDiv(fanout, 2)
}

func (n *node[K, V]) isUnderflowLeaf(fanout int) bool {
	assertInvariant(n.isLeaf(), "isUnderflowLeaf called on an index node")
	return len(n.keys) < ceilDiv(fanout, 2)
}

// Index capacity predicates (spec §4.3): keyed on child count.
func (n *node[K, V]) isFullIndex(fanout int) bool {
	assertInvariant(!n.isLeaf(), "isFullIndex called on a leaf node")
	return len(n.keys) == fanout
}

func (n *node[K, V]) isMinimumIndex(fanout int) bool {
	assertInvariant(!n.isLeaf(), "isMinimumIndex called on a leaf node")
	return len(n.children) == ceilDiv(fanout+1, 2)
}

func (n *node[K, V]) isUnderflowIndex(fanout int) bool {
	assertInvariant(!n.isLeaf(), "isUnderflowIndex called on a leaf node")
	return len(n.children) < ceilDiv(fanout+1, 2)
}

// isMinimum/isUnderflow dispatch on the node's own kind so callers that
// only hold a generic child handle (as IndexNode's rebalancing code
// does) don't need to branch themselves.
func (n *node[K, V]) isMinimum(fanout int) bool {
	if n.isLeaf() {
		return n.isMinimumLeaf(fanout)
	}
	return n.isMinimumIndex(fanout)
}

func (n *node[K, V]) isUnderflow(fanout int) bool {
	if n.isLeaf() {
		return n.isUnderflowLeaf(fanout)
	}
	return n.isUnderflowIndex(fanout)
}

func (n *node[K, V]) isFull(fanout int) bool {
	if n.isLeaf() {
		return n.isFullLeaf(fanout)
	}
	return n.isFullIndex(fanout)
}

// subtreeMin descends leftmost to a leaf and returns its first key. Used
// to refresh a separator after the key it used to track has changed
// (spec §4.5's separator-maintenance rule).
func (n *node[K, V]) subtreeMin() K {
	cur := n
	for !cur.isLeaf() {
		assertInvariant(len(cur.children) > 0, "index node has no children while descending for subtree min")
		cur = cur.children[0]
	}
	assertInvariant(len(cur.keys) > 0, "leftmost leaf is empty while computing subtree min")
	return cur.keys[0]
}

// insertAt and removeAt are the slice-splice primitives every node
// mutation is built from, in the spirit of andjam-btree's list.go: grow
// or shrink by one and shift the remainder rather than rebuild the
// slice.
func insertAt[T any](s []T, idx int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}

func removeAt[T any](s []T, idx int) []T {
	copy(s[idx:], s[idx+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1]
}
