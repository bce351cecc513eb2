package bplustree

// leafSearch binary-searches keys for k, returning the index of an
// exact match (found=true) or the insertion position (found=false).
func (n *node[K, V]) leafSearch(k K) (idx int, found bool) {
	assertInvariant(n.isLeaf(), "leafSearch called on an index node")
	lo, hi := 0, len(n.keys)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case n.keys[mid] == k:
			return mid, true
		case n.keys[mid] < k:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// leafInsert splices (k, v) into sorted position. Returns false as a
// no-op when k is already present; duplicate inserts never overwrite.
func (n *node[K, V]) leafInsert(k K, v V) bool {
	idx, found := n.leafSearch(k)
	if found {
		return false
	}
	n.keys = insertAt(n.keys, idx, k)
	n.values = insertAt(n.values, idx, v)
	return true
}

// leafGet returns a clone of the value at k, or the zero value and
// false if k is absent.
func (n *node[K, V]) leafGet(k K) (V, bool) {
	idx, found := n.leafSearch(k)
	if !found {
		var zero V
		return zero, false
	}
	return n.values[idx].Clone(), true
}

// leafRemove splices out k and its value. No-op if k is absent; the
// return reports whether a removal actually happened.
func (n *node[K, V]) leafRemove(k K) bool {
	idx, found := n.leafSearch(k)
	if !found {
		return false
	}
	n.keys = removeAt(n.keys, idx)
	n.values = removeAt(n.values, idx)
	return true
}

// splitLeaf is precondition on n having exactly fanout keys. It moves the
// upper half into a freshly allocated right leaf, wires the leaf chain
// around the new node, and returns the separator (the new leaf's first
// key) the caller must promote into the parent.
func (n *node[K, V]) splitLeaf(fanout int) (splitKey K, right *node[K, V]) {
	assertInvariant(n.isLeaf(), "split(leaf) called on an index node")
	assertInvariant(len(n.keys) == fanout, "leaf split precondition violated: have %d keys, want %d", len(n.keys), fanout)

	m := fanout / 2
	right = newLeaf[K, V]()
	right.keys = append(right.keys, n.keys[m:]...)
	right.values = append(right.values, n.values[m:]...)
	n.keys = n.keys[:m]
	n.values = n.values[:m]

	right.next = n.next
	right.prev = n
	n.next = right
	if right.next != nil {
		right.next.prev = right
	}

	return right.keys[0], right
}

// merge pulls every entry of other into n and unlinks other from the
// leaf chain. If otherIsNext, other's entries are appended (other sits
// to n's right); otherwise they are prepended (other sits to n's left).
// other is destroyed by this call; the caller must drop its reference
// to it in the parent's children array.
func (n *node[K, V]) merge(other *node[K, V], otherIsNext bool) {
	assertInvariant(n.isLeaf() && other.isLeaf(), "leaf merge called with a non-leaf operand")

	if otherIsNext {
		n.keys = append(n.keys, other.keys...)
		n.values = append(n.values, other.values...)
		n.next = other.next
		if n.next != nil {
			n.next.prev = n
		}
		return
	}

	n.keys = append(append([]K{}, other.keys...), n.keys...)
	n.values = append(append([]V{}, other.values...), n.values...)
	n.prev = other.prev
	if n.prev != nil {
		n.prev.next = n
	}
}

// borrowLeafFrom moves exactly one entry from other into n: other's first
// entry if it is n's right neighbor, or other's last entry if it is
// n's left neighbor. The caller is responsible for refreshing the
// separator that sits between n and other afterward.
func (n *node[K, V]) borrowLeafFrom(other *node[K, V], otherIsNext bool) {
	assertInvariant(n.isLeaf() && other.isLeaf(), "leaf borrow called with a non-leaf operand")
	assertInvariant(len(other.keys) > 0, "cannot borrow from an empty leaf")

	if otherIsNext {
		k, v := other.keys[0], other.values[0]
		other.keys = removeAt(other.keys, 0)
		other.values = removeAt(other.values, 0)
		n.keys = append(n.keys, k)
		n.values = append(n.values, v)
		return
	}

	last := len(other.keys) - 1
	k, v := other.keys[last], other.values[last]
	other.keys = removeAt(other.keys, last)
	other.values = removeAt(other.values, last)
	n.keys = insertAt(n.keys, 0, k)
	n.values = insertAt(n.values, 0, v)
}
