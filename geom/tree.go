package geom

import (
	"math"
	"sort"
)

// noChild marks a leaf node.
const noChild = -1

// TreeNode is a single node of the block tree, stored in a flat array.
// Internal nodes bound the union of their children; leaves bound one cell.
type TreeNode struct {
	Bounds AABox
	Left   int32 // index of the first child, or -1 for a leaf
	Right  int32 // index of the second child, or -1 for a leaf
	Cell   int32 // cell index for leaves, -1 for internal nodes
}

// Leaf reports whether the node has no children.
func (n *TreeNode) Leaf() bool {
	return n.Left == noChild
}

// Tree is a static binary bounding-volume hierarchy over the unit cells of a
// composite shape, in the shape's local frame. The root is at index 0; an
// empty tree has no nodes. Built once at shape creation.
type Tree struct {
	Nodes []TreeNode
}

// Empty reports whether the tree covers no cells.
func (t *Tree) Empty() bool {
	return len(t.Nodes) == 0
}

// Bounds returns the local-frame bounding box of node i.
func (t *Tree) Bounds(i int32) AABox {
	return t.Nodes[i].Bounds
}

// BuildTree builds the hierarchy over unit cells centered at the given
// offsets. Cells are split at the median of the longest bounds axis, giving a
// balanced tree whose parent bounds are always the union of their children.
func BuildTree(cells []Vec2) Tree {
	if len(cells) == 0 {
		return Tree{}
	}
	idx := make([]int32, len(cells))
	for i := range idx {
		idx[i] = int32(i)
	}
	t := Tree{Nodes: make([]TreeNode, 0, 2*len(cells)-1)}
	t.build(cells, idx)
	return t
}

// build appends the subtree over idx and returns its node index.
func (t *Tree) build(cells []Vec2, idx []int32) int32 {
	node := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, TreeNode{Left: noChild, Right: noChild, Cell: noChild})

	bounds := UnitBox(cells[idx[0]])
	for _, i := range idx[1:] {
		bounds = bounds.Union(UnitBox(cells[i]))
	}
	t.Nodes[node].Bounds = bounds

	if len(idx) == 1 {
		t.Nodes[node].Cell = idx[0]
		return node
	}

	// Median split along the longest axis.
	ext := bounds.HalfExtents()
	if ext.X >= ext.Y {
		sort.Slice(idx, func(a, b int) bool { return cells[idx[a]].X < cells[idx[b]].X })
	} else {
		sort.Slice(idx, func(a, b int) bool { return cells[idx[a]].Y < cells[idx[b]].Y })
	}
	mid := len(idx) / 2

	left := t.build(cells, idx[:mid])
	right := t.build(cells, idx[mid:])
	t.Nodes[node].Left = left
	t.Nodes[node].Right = right
	return node
}

// worldBox returns the world-space center and half-extents of a node's box
// for an owner at position pos with rotation rot.
func worldBox(n *TreeNode, pos Vec2, rot float64) (Vec2, Vec2) {
	return pos.Add(n.Bounds.Center().Rotate(rot)), n.Bounds.HalfExtents()
}

// IntersectTrees descends two block trees simultaneously and returns the
// first contact found, or nil. Node boxes are transformed into world space
// through each owner's position and rotation and rejected with the oriented
// box test; when both sides are leaves the test result is the contact. The
// search short-circuits on the first leaf pair that overlaps, so at most one
// contact is reported per call.
func IntersectTrees(ta *Tree, posA Vec2, rotA float64, tb *Tree, posB Vec2, rotB float64) *Contact {
	if ta.Empty() || tb.Empty() {
		return nil
	}
	return intersectNodes(ta, posA, rotA, 0, tb, posB, rotB, 0)
}

func intersectNodes(ta *Tree, posA Vec2, rotA float64, ia int32, tb *Tree, posB Vec2, rotB float64, ib int32) *Contact {
	na := &ta.Nodes[ia]
	nb := &tb.Nodes[ib]

	cA, hA := worldBox(na, posA, rotA)
	cB, hB := worldBox(nb, posB, rotB)
	contact := IntersectBoxes(cA, rotA, hA, cB, rotB, hB)
	if contact == nil {
		return nil
	}
	if na.Leaf() && nb.Leaf() {
		return contact
	}

	if !na.Leaf() {
		if c := intersectNodes(ta, posA, rotA, na.Left, tb, posB, rotB, ib); c != nil {
			return c
		}
		return intersectNodes(ta, posA, rotA, na.Right, tb, posB, rotB, ib)
	}
	if c := intersectNodes(ta, posA, rotA, ia, tb, posB, rotB, nb.Left); c != nil {
		return c
	}
	return intersectNodes(ta, posA, rotA, ia, tb, posB, rotB, nb.Right)
}

// IntersectTreeBox tests a single oriented box against a block tree. The
// returned contact's direction pushes the tree's owner out, matching
// IntersectBoxes with the tree side first.
func IntersectTreeBox(t *Tree, pos Vec2, rot float64, cBox Vec2, rotBox float64, hBox Vec2) *Contact {
	if t.Empty() {
		return nil
	}
	return intersectNodeBox(t, pos, rot, 0, cBox, rotBox, hBox)
}

func intersectNodeBox(t *Tree, pos Vec2, rot float64, i int32, cBox Vec2, rotBox float64, hBox Vec2) *Contact {
	n := &t.Nodes[i]
	c, h := worldBox(n, pos, rot)
	contact := IntersectBoxes(c, rot, h, cBox, rotBox, hBox)
	if contact == nil {
		return nil
	}
	if n.Leaf() {
		return contact
	}
	if hit := intersectNodeBox(t, pos, rot, n.Left, cBox, rotBox, hBox); hit != nil {
		return hit
	}
	return intersectNodeBox(t, pos, rot, n.Right, cBox, rotBox, hBox)
}

// slabEps is the threshold under which a ray direction component is treated
// as parallel to the slab, avoiding division by zero.
const slabEps = 1e-12

// Raycast casts a ray through the tree in the shape's local frame and
// returns the distance and point of the nearest hit at a strictly positive
// parametric distance. A ray starting inside a cell does not hit that cell,
// but still hits cells ahead of it.
func (t *Tree) Raycast(origin, dir Vec2) (float64, Vec2, bool) {
	if t.Empty() {
		return 0, Vec2{}, false
	}
	dist, ok := raycastNode(t, 0, origin, dir)
	if !ok {
		return 0, Vec2{}, false
	}
	return dist, origin.Add(dir.Scale(dist)), true
}

func raycastNode(t *Tree, i int32, origin, dir Vec2) (float64, bool) {
	n := &t.Nodes[i]
	enter, ok := rayBox(n.Bounds, origin, dir)
	if !ok {
		return 0, false
	}
	if n.Leaf() {
		// A non-positive entry means the origin is inside the cell.
		if enter <= 0 {
			return 0, false
		}
		return enter, true
	}

	ld, lok := raycastNode(t, n.Left, origin, dir)
	rd, rok := raycastNode(t, n.Right, origin, dir)
	switch {
	case lok && rok:
		return math.Min(ld, rd), true
	case lok:
		return ld, true
	case rok:
		return rd, true
	}
	return 0, false
}

// rayBox is the slab test, returning the parametric entry distance. The entry
// is negative when the origin is inside the box; only boxes entirely behind
// the ray are rejected, so descent still reaches leaves ahead of an origin
// that sits inside an internal node's bounds. A direction component smaller
// than slabEps is treated as parallel: the ray misses unless the origin lies
// inside the slab.
func rayBox(b AABox, origin, dir Vec2) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	if math.Abs(dir.X) < slabEps {
		if origin.X < b.Min.X || origin.X > b.Max.X {
			return 0, false
		}
	} else {
		t1 := (b.Min.X - origin.X) / dir.X
		t2 := (b.Max.X - origin.X) / dir.X
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}

	if math.Abs(dir.Y) < slabEps {
		if origin.Y < b.Min.Y || origin.Y > b.Max.Y {
			return 0, false
		}
	} else {
		t1 := (b.Min.Y - origin.Y) / dir.Y
		t2 := (b.Max.Y - origin.Y) / dir.Y
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}

	if tmin > tmax || tmax <= 0 {
		return 0, false
	}
	return tmin, true
}
