package bplustree

// route binary-searches an index node's separators for k. An exact
// match at position i means k equals a separator, and the search must
// continue into the child just right of it: (true, i+1). Otherwise it
// returns the insertion position p and descends left: (false, p).
func (n *node[K, V]) route(k K) (exact bool, childPos int) {
	assertInvariant(!n.isLeaf(), "route called on a leaf node")
	lo, hi := 0, len(n.keys)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case n.keys[mid] == k:
			return true, mid + 1
		case n.keys[mid] < k:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false, lo
}

// splitIndex is precondition on n having exactly fanout keys (fanout+1
// children). The middle key is promoted to the parent; everything
// after it moves to a newly allocated right sibling.
func (n *node[K, V]) splitIndex(fanout int) (promoted K, right *node[K, V]) {
	assertInvariant(!n.isLeaf(), "split(index) called on a leaf node")
	assertInvariant(len(n.keys) == fanout, "index split precondition violated: have %d keys, want %d", len(n.keys), fanout)

	m := fanout / 2
	promoted = n.keys[m]

	right = newIndex[K, V]()
	right.keys = append(right.keys, n.keys[m+1:]...)
	right.children = append(right.children, n.children[m+1:]...)

	n.keys = n.keys[:m]
	n.children = n.children[:m+1]

	return promoted, right
}

// mergeFrom absorbs other's keys and children into n, pulling down sep
// (the separator that used to sit between them in the parent) as the
// new key joining the two runs. If otherIsNext, other's content is
// appended after sep; otherwise it is prepended before sep.
func (n *node[K, V]) mergeFrom(other *node[K, V], sep K, otherIsNext bool) {
	assertInvariant(!n.isLeaf() && !other.isLeaf(), "index merge called with a leaf operand")

	if otherIsNext {
		n.keys = append(n.keys, sep)
		n.keys = append(n.keys, other.keys...)
		n.children = append(n.children, other.children...)
		return
	}

	keys := make([]K, 0, len(other.keys)+1+len(n.keys))
	keys = append(keys, other.keys...)
	keys = append(keys, sep)
	keys = append(keys, n.keys...)
	n.keys = keys

	children := make([]*node[K, V], 0, len(other.children)+len(n.children))
	children = append(children, other.children...)
	children = append(children, n.children...)
	n.children = children
}

// borrowIndexFrom rotates one key/child through the separator that sits
// between n and other. oldSeparator is that separator's current value;
// the return is its replacement, which the caller must write back into
// the parent.
func (n *node[K, V]) borrowIndexFrom(other *node[K, V], oldSeparator K, otherIsNext bool) (newSeparator K) {
	assertInvariant(!n.isLeaf() && !other.isLeaf(), "index borrow called with a leaf operand")
	assertInvariant(len(other.keys) > 0, "cannot borrow from an index node with no keys")

	if otherIsNext {
		n.keys = append(n.keys, oldSeparator)
		n.children = append(n.children, other.children[0])
		newSeparator = other.keys[0]
		other.keys = removeAt(other.keys, 0)
		other.children = removeAt(other.children, 0)
		return newSeparator
	}

	n.keys = insertAt(n.keys, 0, oldSeparator)
	n.children = insertAt(n.children, 0, other.children[len(other.children)-1])
	newSeparator = other.keys[len(other.keys)-1]
	other.keys = removeAt(other.keys, len(other.keys)-1)
	other.children = removeAt(other.children, len(other.children)-1)
	return newSeparator
}

// fixUnderflow repairs the child at pos after it was found underflowed
// by the caller's post-order recursion (spec §4.5). It selects a
// sibling per the left-preferred tie-break, merges when the sibling is
// at (or below) minimum occupancy, or borrows a single entry when it has
// room to spare.
func (n *node[K, V]) fixUnderflow(pos, fanout int) {
	assertInvariant(!n.isLeaf(), "fixUnderflow called on a leaf node")
	hasLeft := pos > 0
	hasRight := pos < len(n.children)-1
	assertInvariant(hasLeft || hasRight, "underflowed child at pos %d has no sibling", pos)

	if hasLeft {
		left := n.children[pos-1]
		if left.isMinimum(fanout) || left.isUnderflow(fanout) {
			n.mergeChildren(pos, true)
		} else {
			n.rebalanceChildren(pos, true)
		}
		return
	}

	right := n.children[pos+1]
	if right.isMinimum(fanout) || right.isUnderflow(fanout) {
		n.mergeChildren(pos, false)
	} else {
		n.rebalanceChildren(pos, false)
	}
}

// mergeChildren merges the child at pos into an adjacent sibling.
// mergeIntoLeft selects which: true absorbs child pos into pos-1 (the
// separator at pos-1 is removed), false absorbs it into pos+1 (the
// separator at pos is removed). The emptied child is dropped from
// n.children.
func (n *node[K, V]) mergeChildren(pos int, mergeIntoLeft bool) {
	child := n.children[pos]

	if mergeIntoLeft {
		sepIdx := pos - 1
		sep := n.keys[sepIdx]
		left := n.children[pos-1]
		if left.isLeaf() {
			left.merge(child, true)
		} else {
			left.mergeFrom(child, sep, true)
		}
		n.keys = removeAt(n.keys, sepIdx)
		n.children = removeAt(n.children, pos)
		return
	}

	sep := n.keys[pos]
	right := n.children[pos+1]
	if right.isLeaf() {
		right.merge(child, false)
	} else {
		right.mergeFrom(child, sep, false)
	}
	n.keys = removeAt(n.keys, pos)
	n.children = removeAt(n.children, pos)
}

// rebalanceChildren borrows a single entry from the chosen sibling into
// the underflowed child at pos, then refreshes the separator the
// borrow just invalidated.
func (n *node[K, V]) rebalanceChildren(pos int, borrowFromLeft bool) {
	child := n.children[pos]

	if borrowFromLeft {
		left := n.children[pos-1]
		if child.isLeaf() {
			child.borrowLeafFrom(left, false)
			n.keys[pos-1] = child.keys[0]
		} else {
			n.keys[pos-1] = child.borrowIndexFrom(left, n.keys[pos-1], false)
		}
		return
	}

	right := n.children[pos+1]
	if child.isLeaf() {
		child.borrowLeafFrom(right, true)
		n.keys[pos] = right.keys[0]
	} else {
		n.keys[pos] = child.borrowIndexFrom(right, n.keys[pos], true)
	}
}
