package bplustree

import (
	"fmt"
	"strings"
)

// PrettyPrint writes a depth-first, indented rendering of the tree to
// stdout: every node's keys (and, for leaves, their paired values), one
// branch per child. Advisory only, not part of any stability contract.
func (t *Tree[K, V]) PrettyPrint() {
	if t.root == nil {
		fmt.Println("(empty tree)")
		return
	}
	t.printNode(t.root, "", true)
}

func (t *Tree[K, V]) printNode(n *node[K, V], prefix string, isLast bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}

	label := "INDEX"
	if n.isLeaf() {
		label = "LEAF"
	} else if n == t.root {
		label = "ROOT"
	}

	fmt.Printf("%s%s%s [", prefix, connector, label)
	for i, k := range n.keys {
		if i > 0 {
			fmt.Print(", ")
		}
		if n.isLeaf() {
			fmt.Printf("%v:%v", k, n.values[i])
		} else {
			fmt.Printf("%v", k)
		}
	}
	fmt.Println("]")

	childPrefix := prefix
	if isLast {
		childPrefix += "    "
	} else {
		childPrefix += "│   "
	}
	for i, c := range n.children {
		t.printNode(c, childPrefix, i == len(n.children)-1)
	}
}

// DebugLevels renders the tree level by level, one line per node: each
// line lists the node's level, its kind, its keys, and (for a leaf) its
// values or (for an index) its child count. Unlike PrettyPrint it
// returns the dump as a string, which is what the idempotence checks
// (spec §8 property 7) compare.
func (t *Tree[K, V]) DebugLevels() string {
	var b strings.Builder
	if t.root == nil {
		return "(empty tree)\n"
	}

	level := []*node[K, V]{t.root}
	depth := 0
	for len(level) > 0 {
		var next []*node[K, V]
		for _, n := range level {
			if n.isLeaf() {
				fmt.Fprintf(&b, "level %d: leaf%v values%v\n", depth, n.keys, n.values)
			} else {
				fmt.Fprintf(&b, "level %d: index%v(children=%d)\n", depth, n.keys, len(n.children))
				next = append(next, n.children...)
			}
		}
		level = next
		depth++
	}
	return b.String()
}
