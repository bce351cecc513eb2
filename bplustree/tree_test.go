package bplustree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertInt(tr *Tree[int, IntValue], k int) {
	tr.Insert(k, IntValue(k))
}

// inOrder walks the leaf chain from its leftmost leaf and returns every
// key in ascending order, independent of tree shape.
func inOrder(tr *Tree[int, IntValue]) []int {
	n := tr.root
	for !n.isLeaf() {
		n = n.children[0]
	}
	var out []int
	for n != nil {
		out = append(out, n.keys...)
		n = n.next
	}
	return out
}

func TestScenarioA_BasicSplitChain(t *testing.T) {
	tr := New[int, IntValue](3)
	for _, k := range []int{1, 2, 3, 4, 5} {
		insertInt(tr, k)
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, inOrder(tr))
	assert.Equal(t, 2, tr.Height())

	for _, k := range []int{1, 2, 3, 4, 5} {
		v, ok := tr.Search(k)
		require.True(t, ok)
		assert.Equal(t, IntValue(k), v)
	}
}

func TestScenarioB_ReverseInsert(t *testing.T) {
	tr := New[int, IntValue](3)
	for _, k := range []int{4, 3, 2, 1, 0} {
		insertInt(tr, k)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, inOrder(tr))

	reference := New[int, IntValue](3)
	for _, k := range []int{1, 2, 3, 4, 5} {
		insertInt(reference, k)
	}
	assert.Equal(t, reference.Height(), tr.Height())
}

func TestScenarioC_DeletionWithMerge(t *testing.T) {
	tr := New[int, IntValue](3)
	for _, k := range []int{1, 2, 3, 4, 5} {
		insertInt(tr, k)
	}
	heightBefore := tr.Height()

	tr.Remove(2)

	_, ok := tr.Search(2)
	assert.False(t, ok)
	for _, k := range []int{1, 3, 4, 5} {
		v, ok := tr.Search(k)
		require.True(t, ok)
		assert.Equal(t, IntValue(k), v)
	}
	assert.GreaterOrEqual(t, tr.Height(), heightBefore-1)
	assertInvariants(t, tr)
}

func TestScenarioD_DeletionOfSeparatorKey(t *testing.T) {
	tr := New[int, IntValue](3)
	for _, k := range []int{1, 2, 3, 5, 44, 197, 438} {
		insertInt(tr, k)
	}

	tr.Remove(2)

	_, ok := tr.Search(2)
	assert.False(t, ok)
	assertNoSeparatorEquals(t, tr, 2)
	assertInvariants(t, tr)
}

func TestScenarioE_SparseDeletion(t *testing.T) {
	tr := New[int, IntValue](6)
	for _, k := range []int{1, 2, 3, 5, 44, 197, 438, 50, 60} {
		insertInt(tr, k)
	}

	tr.Remove(2)

	assert.Equal(t, []int{1, 3, 5, 44, 50, 60, 197, 438}, inOrder(tr))
	assertInvariants(t, tr)
}

func TestScenarioF_DuplicateInsert(t *testing.T) {
	tr := New[int, IntValue](3)
	insertInt(tr, 7)

	dumpBefore := tr.DebugLevels()

	tr.Insert(7, IntValue(99))

	v, ok := tr.Search(7)
	require.True(t, ok)
	assert.Equal(t, IntValue(7), v, "first write wins")
	assert.Equal(t, dumpBefore, tr.DebugLevels(), "duplicate insert must leave structure unchanged")
}

func TestRemoveAbsentKeyIsNoop(t *testing.T) {
	tr := New[int, IntValue](3)
	for _, k := range []int{1, 2, 3} {
		insertInt(tr, k)
	}
	dumpBefore := tr.DebugLevels()

	tr.Remove(999)

	assert.Equal(t, dumpBefore, tr.DebugLevels())
}

func TestSearchEmptyTree(t *testing.T) {
	tr := New[int, IntValue](3)
	_, ok := tr.Search(1)
	assert.False(t, ok)
}

func TestLeafChainReciprocity(t *testing.T) {
	tr := New[int, IntValue](3)
	for i := 0; i < 50; i++ {
		insertInt(tr, i)
	}

	n := tr.root
	for !n.isLeaf() {
		n = n.children[0]
	}
	assert.Nil(t, n.prev)
	for n.next != nil {
		assert.Same(t, n, n.next.prev)
		n = n.next
	}
	assert.Nil(t, n.next)
}

func TestRoundTripSetEquivalencePermutations(t *testing.T) {
	seed := int64(7)
	rnd := rand.New(rand.NewSource(seed))

	base := make([]int, 60)
	for i := range base {
		base[i] = i
	}

	for trial := 0; trial < 5; trial++ {
		perm := append([]int(nil), base...)
		rnd.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

		tr := New[int, IntValue](4)
		for _, k := range perm {
			insertInt(tr, k)
		}

		assert.Equal(t, base, inOrder(tr))
		assertInvariants(t, tr)
	}
}

func TestRandomizedOperationsAgainstReferenceMap(t *testing.T) {
	seed := int64(42)
	rnd := rand.New(rand.NewSource(seed))

	tr := New[int, IntValue](4)
	ref := make(map[int]int)

	poolSize := 300
	ops := 2000
	for i := 0; i < ops; i++ {
		k := rnd.Intn(poolSize)
		switch rnd.Intn(3) {
		case 0: // delete
			tr.Remove(k)
			delete(ref, k)
		default: // insert (duplicate inserts are no-ops, first writer wins)
			if _, exists := ref[k]; !exists {
				ref[k] = k * 31
				tr.Insert(k, IntValue(k*31))
			}
		}
	}

	for k, want := range ref {
		got, ok := tr.Search(k)
		if assert.True(t, ok, "expected key %d to be present", k) {
			assert.Equal(t, IntValue(want), got)
		}
	}
	for k := 0; k < poolSize; k++ {
		if _, exists := ref[k]; !exists {
			_, ok := tr.Search(k)
			assert.False(t, ok, "expected key %d to be absent", k)
		}
	}

	assertInvariants(t, tr)
}

func TestFanoutTooSmallPanics(t *testing.T) {
	assert.Panics(t, func() {
		New[int, IntValue](2)
	})
}

// assertInvariants walks the whole tree and checks the structural
// invariants of spec §3 and §8: key order, fanout bounds, height
// uniformity, and separator correspondence.
func assertInvariants(t *testing.T, tr *Tree[int, IntValue]) {
	t.Helper()

	leafDepth := -1
	var walk func(n *node[int, IntValue], depth int, isRoot bool)
	walk = func(n *node[int, IntValue], depth int, isRoot bool) {
		for i := 1; i < len(n.keys); i++ {
			assert.Less(t, n.keys[i-1], n.keys[i], "keys must be strictly ascending")
		}

		if n.isLeaf() {
			if leafDepth == -1 {
				leafDepth = depth
			} else {
				assert.Equal(t, leafDepth, depth, "all leaves must be at the same depth")
			}
			if !isRoot {
				assert.GreaterOrEqual(t, len(n.keys), ceilDiv(tr.fanout, 2))
			}
			assert.LessOrEqual(t, len(n.keys), tr.fanout)
			return
		}

		assert.Equal(t, len(n.keys)+1, len(n.children), "index node must have keys+1 children")
		if !isRoot {
			assert.GreaterOrEqual(t, len(n.children), ceilDiv(tr.fanout+1, 2))
		} else {
			assert.GreaterOrEqual(t, len(n.children), 2)
		}
		assert.LessOrEqual(t, len(n.keys), tr.fanout)

		for i, sep := range n.keys {
			got := n.children[i+1].subtreeMin()
			assert.Equal(t, sep, got, "separator must equal the minimum key of its right subtree")
		}
		for _, c := range n.children {
			walk(c, depth+1, false)
		}
	}
	walk(tr.root, 0, true)
}

// assertNoSeparatorEquals checks no index node anywhere carries a stale
// separator equal to a key that no longer exists.
func assertNoSeparatorEquals(t *testing.T, tr *Tree[int, IntValue], stale int) {
	t.Helper()
	var walk func(n *node[int, IntValue])
	walk = func(n *node[int, IntValue]) {
		if n.isLeaf() {
			return
		}
		for _, k := range n.keys {
			assert.NotEqual(t, stale, k, "separator must not reference a removed key")
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(tr.root)
}

func TestDebugLevelsReportsLevelsAndCounts(t *testing.T) {
	tr := New[int, IntValue](3)
	for _, k := range []int{1, 2, 3, 4, 5} {
		insertInt(tr, k)
	}
	out := tr.DebugLevels()
	assert.Contains(t, out, "level 0:")
	assert.Contains(t, out, "level 1:")
	assert.Contains(t, out, fmt.Sprintf("level %d:", tr.Height()))
}
