// Package bplustree implements an in-memory, single-writer B+ tree: an
// ordered key/value container parameterized by a fanout, a totally
// ordered key type, and a cloneable value type. Splits propagate
// upward on insert, merges and borrows propagate upward on remove, and
// the leaf level is kept as a doubly linked chain in ascending key
// order for traversal.
package bplustree

import (
	"cmp"
	"fmt"

	"github.com/sahilb/bplustree/internal/telemetry"
)

// Tree owns the root handle. Every child below the root is exclusively
// owned by its parent's children slice; the leaf chain's next/prev
// links are non-owning observers that must never be read to resurrect
// a node its owning path has already discarded.
type Tree[K cmp.Ordered, V Cloner[V]] struct {
	root   *node[K, V]
	fanout int
	size   int
	height int

	telemetry *telemetry.Logger
}

// New returns an empty tree with the given fanout. fanout must be at
// least 3; this mirrors the teacher's common.Assert-style constructor
// guard rather than silently clamping it.
func New[K cmp.Ordered, V Cloner[V]](fanout int) *Tree[K, V] {
	assertInvariant(fanout >= 3, "fanout must be >= 3, got %d", fanout)
	return &Tree[K, V]{
		root:      newLeaf[K, V](),
		fanout:    fanout,
		height:    0,
		telemetry: telemetry.Nop(),
	}
}

// SetTelemetry wires a structured logger into the tree's recursive
// driver. Passing nil reverts to discarding every event. Telemetry
// observes mutations; it never feeds back into tree state, so this is
// safe to call between any two public operations.
func (t *Tree[K, V]) SetTelemetry(l *telemetry.Logger) {
	if l == nil {
		l = telemetry.Nop()
	}
	t.telemetry = l
}

// Len reports the number of keys currently stored.
func (t *Tree[K, V]) Len() int { return t.size }

// Height reports the tree's current height: the number of edges from
// the root down to a leaf, so a tree whose root is a leaf has height 0.
// All leaves sit at the same depth (spec invariant 4).
func (t *Tree[K, V]) Height() int { return t.height }

// Search descends from the root, routing at each index node to the
// child right of the largest separator <= k, and returns a clone of
// the leaf value at k, or the zero value and false.
func (t *Tree[K, V]) Search(k K) (V, bool) {
	n := t.root
	for !n.isLeaf() {
		_, pos := n.route(k)
		n = n.children[pos]
	}
	return n.leafGet(k)
}

// Insert adds (k, v). If k is already present the insert is a defined
// no-op: the first write wins and the existing value is left alone.
func (t *Tree[K, V]) Insert(k K, v V) {
	sep, right, split := t.insertInto(t.root, k, v, 0)
	if !split {
		return
	}

	newRoot := newIndex[K, V]()
	newRoot.keys = append(newRoot.keys, sep)
	newRoot.children = append(newRoot.children, t.root, right)
	t.root = newRoot
	t.height++
	t.telemetry.RootGrow(t.height)
}

// insertInto implements the recursive descent of spec §4.4. The
// parent-child relationship lives entirely on the Go call stack; no
// node stores a parent pointer. A split at this level is reported to
// the caller, who is responsible for splicing the promoted key and new
// sibling into itself and checking its own overflow in turn.
func (t *Tree[K, V]) insertInto(n *node[K, V], k K, v V, depth int) (promoted K, right *node[K, V], split bool) {
	if n.isLeaf() {
		if n.leafInsert(k, v) {
			t.size++
		}
		if !n.isFullLeaf(t.fanout) {
			var zero K
			return zero, nil, false
		}
		sep, r := n.splitLeaf(t.fanout)
		t.telemetry.Split("leaf", depth, fmt.Sprintf("%v", sep))
		return sep, r, true
	}

	_, pos := n.route(k)
	childSep, childRight, childSplit := t.insertInto(n.children[pos], k, v, depth+1)
	if !childSplit {
		var zero K
		return zero, nil, false
	}

	n.keys = insertAt(n.keys, pos, childSep)
	n.children = insertAt(n.children, pos+1, childRight)

	if !n.isFullIndex(t.fanout) {
		var zero K
		return zero, nil, false
	}
	sep, r := n.splitIndex(t.fanout)
	t.telemetry.Split("index", depth, fmt.Sprintf("%v", sep))
	return sep, r, true
}

// Remove deletes k if present. Removing an absent key is a defined
// no-op.
func (t *Tree[K, V]) Remove(k K) {
	t.removeFrom(t.root, k, 0)

	if !t.root.isLeaf() && len(t.root.keys) == 0 {
		assertInvariant(len(t.root.children) == 1,
			"collapsing root with 0 separators must have exactly 1 child, got %d", len(t.root.children))
		t.root = t.root.children[0]
		t.height--
		t.telemetry.RootCollapse(t.height)
	}
}

// removeFrom implements the recursive descent of spec §4.5. An index
// node already knows, from its own route(k), whether k equals one of
// its separators (exact); it discovers whether its child underflowed
// only after the recursive call returns, which is why the repair is
// post-order.
func (t *Tree[K, V]) removeFrom(n *node[K, V], k K, depth int) {
	if n.isLeaf() {
		if n.leafRemove(k) {
			t.size--
		}
		return
	}

	exact, pos := n.route(k)
	child := n.children[pos]
	t.removeFrom(child, k, depth+1)

	if child.isUnderflow(t.fanout) {
		childKind, before := kindLabel(child), len(n.children)
		usedLeft := pos > 0 // sibling selection always prefers left when available (spec §4.3)
		n.fixUnderflow(pos, t.fanout)
		if len(n.children) < before {
			t.telemetry.Merge(childKind, depth, usedLeft)
		} else {
			t.telemetry.Borrow(childKind, depth, usedLeft)
		}
		return
	}

	if exact {
		n.keys[pos-1] = n.children[pos].subtreeMin()
	}
}

func kindLabel[K cmp.Ordered, V Cloner[V]](n *node[K, V]) string {
	if n.isLeaf() {
		return "leaf"
	}
	return "index"
}
