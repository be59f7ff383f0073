package shape

import (
	"container/heap"
	"sort"
)

// BVT is a static bounding-volume tree over indexed leaves. It is built
// once per composite shape, in the shape's local frame, and consumed by
// best-first branch-and-bound traversals.
type BVT struct {
	nodes []bvtNode
	root  int
}

type bvtNode struct {
	aabb  AABB
	left  int
	right int
	leaf  int // sub-part index for leaves, -1 for internal nodes
}

// NewBVT builds a tree over the given leaf bounding boxes. The i-th box
// corresponds to sub-part index i. Returns an empty tree when no leaves
// are provided.
func NewBVT(leaves []AABB) *BVT {
	tree := &BVT{root: -1}
	if len(leaves) == 0 {
		return tree
	}

	indices := make([]int, len(leaves))
	for i := range indices {
		indices[i] = i
	}

	tree.nodes = make([]bvtNode, 0, 2*len(leaves)-1)
	tree.root = tree.build(leaves, indices)

	return tree
}

// IsEmpty reports whether the tree indexes no sub-part.
func (t *BVT) IsEmpty() bool {
	return t.root < 0
}

// build recursively splits the leaves at the median of their centers
// along the axis of largest spread.
func (t *BVT) build(leaves []AABB, indices []int) int {
	if len(indices) == 1 {
		t.nodes = append(t.nodes, bvtNode{
			aabb: leaves[indices[0]],
			leaf: indices[0],
		})
		return len(t.nodes) - 1
	}

	enclosing := leaves[indices[0]]
	for _, i := range indices[1:] {
		enclosing = enclosing.Merged(leaves[i])
	}

	axis := 0
	extents := enclosing.HalfExtents()
	if extents.Y() > extents.X() {
		axis = 1
	}

	sort.Slice(indices, func(i, j int) bool {
		return leaves[indices[i]].Center()[axis] < leaves[indices[j]].Center()[axis]
	})

	mid := len(indices) / 2
	left := t.build(leaves, indices[:mid])
	right := t.build(leaves, indices[mid:])

	t.nodes = append(t.nodes, bvtNode{
		aabb:  enclosing,
		left:  left,
		right: right,
		leaf:  -1,
	})

	return len(t.nodes) - 1
}

// Traverse walks the tree depth-first. Subtrees whose bounding volume is
// rejected by visitNode are pruned. visitLeaf returning false aborts the
// whole traversal early.
func (t *BVT) Traverse(visitNode func(aabb AABB) bool, visitLeaf func(index int) bool) {
	if t.root >= 0 {
		t.traverse(t.root, visitNode, visitLeaf)
	}
}

func (t *BVT) traverse(node int, visitNode func(aabb AABB) bool, visitLeaf func(index int) bool) bool {
	n := &t.nodes[node]
	if !visitNode(n.aabb) {
		return true
	}

	if n.leaf >= 0 {
		return visitLeaf(n.leaf)
	}

	return t.traverse(n.left, visitNode, visitLeaf) &&
		t.traverse(n.right, visitNode, visitLeaf)
}

// BestFirstCost drives a best-first traversal of the tree.
//
// BoundCost returns an admissible lower bound on the cost of any leaf
// below a node with the given bounding volume, or false to prune the
// whole subtree. LeafCost returns the exact cost of a leaf sub-part, or
// false to discard it.
//
// BoundCost must never overestimate: the traversal stops as soon as the
// cheapest frontier bound cannot improve on the best leaf found.
type BestFirstCost interface {
	BoundCost(aabb AABB) (float64, bool)
	LeafCost(index int) (float64, bool)
}

type frontierEntry struct {
	node int
	cost float64
}

type frontier []frontierEntry

func (f frontier) Len() int            { return len(f) }
func (f frontier) Less(i, j int) bool  { return f[i].cost < f[j].cost }
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(frontierEntry)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	entry := old[n-1]
	*f = old[:n-1]
	return entry
}

// BestFirstSearch runs a branch-and-bound traversal expanding the node
// with the lowest lower-bound cost first. It returns the sub-part index
// with the smallest exact cost, together with that cost. The third return
// value is false when every leaf was pruned or the tree is empty.
func (t *BVT) BestFirstSearch(cost BestFirstCost) (int, float64, bool) {
	if t.root < 0 {
		return 0, 0, false
	}

	rootCost, ok := cost.BoundCost(t.nodes[t.root].aabb)
	if !ok {
		return 0, 0, false
	}

	queue := frontier{{node: t.root, cost: rootCost}}
	heap.Init(&queue)

	bestIndex := 0
	bestCost := 0.0
	found := false

	for queue.Len() > 0 {
		entry := heap.Pop(&queue).(frontierEntry)

		// The frontier minimum cannot improve on the best leaf: done.
		if found && entry.cost >= bestCost {
			break
		}

		node := &t.nodes[entry.node]

		if node.leaf >= 0 {
			if leafCost, ok := cost.LeafCost(node.leaf); ok {
				if !found || leafCost < bestCost {
					bestIndex = node.leaf
					bestCost = leafCost
					found = true
				}
			}
			continue
		}

		for _, child := range [2]int{node.left, node.right} {
			if childCost, ok := cost.BoundCost(t.nodes[child].aabb); ok {
				heap.Push(&queue, frontierEntry{node: child, cost: childCost})
			}
		}
	}

	return bestIndex, bestCost, found
}
