// pkg/physics/aabb.go
package physics

import (
	"math"
	"sort"
)

// AABB is an axis-aligned bounding box
type AABB struct {
	Min Vector2D `json:"min"`
	Max Vector2D `json:"max"`
}

// BoundingBox returns the tight axis-aligned box around polygon
func BoundingBox(polygon Polygon) AABB {
	box := AABB{
		Min: Vector2D{X: math.Inf(1), Y: math.Inf(1)},
		Max: Vector2D{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, v := range polygon {
		box.Min.X = math.Min(box.Min.X, v.X)
		box.Min.Y = math.Min(box.Min.Y, v.Y)
		box.Max.X = math.Max(box.Max.X, v.X)
		box.Max.Y = math.Max(box.Max.Y, v.Y)
	}
	return box
}

// BoxAround returns the box of the given half extents centred on c
func BoxAround(c Vector2D, halfWidth, halfHeight float64) AABB {
	return AABB{
		Min: Vector2D{X: c.X - halfWidth, Y: c.Y - halfHeight},
		Max: Vector2D{X: c.X + halfWidth, Y: c.Y + halfHeight},
	}
}

// Overlaps is true unless the boxes are strictly separated along x or y.
// Touching boxes overlap.
func (a AABB) Overlaps(b AABB) bool {
	return !(a.Max.X < b.Min.X || b.Max.X < a.Min.X ||
		a.Max.Y < b.Min.Y || b.Max.Y < a.Min.Y)
}

// Contains reports whether other lies entirely inside a
func (a AABB) Contains(other AABB) bool {
	return a.Min.X <= other.Min.X && a.Max.X >= other.Max.X &&
		a.Min.Y <= other.Min.Y && a.Max.Y >= other.Max.Y
}

// ContainsPoint reports whether p lies inside or on the box
func (a AABB) ContainsPoint(p Vector2D) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

// Merge returns the smallest box containing both boxes
func (a AABB) Merge(b AABB) AABB {
	return AABB{
		Min: Vector2D{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
		Max: Vector2D{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
	}
}

// Center returns the midpoint of the box
func (a AABB) Center() Vector2D {
	return a.Min.Add(a.Max).Scale(0.5)
}

// Width returns the x extent of the box
func (a AABB) Width() float64 {
	return a.Max.X - a.Min.X
}

// Height returns the y extent of the box
func (a AABB) Height() float64 {
	return a.Max.Y - a.Min.Y
}

// QuadTree is a spatial index over boxes. Items that straddle a
// quadrant boundary stay in the parent node. Query results come back in
// insertion order so callers stay deterministic.
type QuadTree struct {
	Boundary AABB
	Capacity int
	items    []quadItem
	divided  bool
	children [4]*QuadTree
	depth    int
}

type quadItem struct {
	box   AABB
	key   uint64
	order int
}

const maxQuadDepth = 8

// NewQuadTree creates a new quad tree with the given boundary and capacity
func NewQuadTree(boundary AABB, capacity int) *QuadTree {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree{
		Boundary: boundary,
		Capacity: capacity,
		items:    make([]quadItem, 0, capacity),
	}
}

// Insert stores key under box. Boxes outside the boundary are rejected.
func (qt *QuadTree) Insert(box AABB, key uint64, order int) bool {
	if !qt.Boundary.Contains(box) {
		return false
	}
	qt.insert(quadItem{box: box, key: key, order: order})
	return true
}

func (qt *QuadTree) insert(item quadItem) {
	if qt.divided {
		for _, child := range qt.children {
			if child.Boundary.Contains(item.box) {
				child.insert(item)
				return
			}
		}
		qt.items = append(qt.items, item)
		return
	}

	qt.items = append(qt.items, item)
	if len(qt.items) > qt.Capacity && qt.depth < maxQuadDepth {
		qt.subdivide()
	}
}

// subdivide splits the node into four quadrants and pushes down every
// item that fits entirely inside one of them
func (qt *QuadTree) subdivide() {
	c := qt.Boundary.Center()
	b := qt.Boundary
	quads := [4]AABB{
		{Min: Vector2D{X: b.Min.X, Y: c.Y}, Max: Vector2D{X: c.X, Y: b.Max.Y}}, // north-west
		{Min: c, Max: b.Max}, // north-east
		{Min: b.Min, Max: c}, // south-west
		{Min: Vector2D{X: c.X, Y: b.Min.Y}, Max: Vector2D{X: b.Max.X, Y: c.Y}}, // south-east
	}
	for i, q := range quads {
		qt.children[i] = NewQuadTree(q, qt.Capacity)
		qt.children[i].depth = qt.depth + 1
	}
	qt.divided = true

	kept := qt.items[:0]
	for _, item := range qt.items {
		placed := false
		for _, child := range qt.children {
			if child.Boundary.Contains(item.box) {
				child.insert(item)
				placed = true
				break
			}
		}
		if !placed {
			kept = append(kept, item)
		}
	}
	qt.items = kept
}

// Query returns the keys of every item whose box overlaps area
func (qt *QuadTree) Query(area AABB) []uint64 {
	var found []quadItem
	qt.query(area, &found)
	return sortedKeys(found)
}

// QueryPoint returns the keys of every item whose box contains p
func (qt *QuadTree) QueryPoint(p Vector2D) []uint64 {
	return qt.Query(AABB{Min: p, Max: p})
}

func (qt *QuadTree) query(area AABB, found *[]quadItem) {
	if !qt.Boundary.Overlaps(area) {
		return
	}
	for _, item := range qt.items {
		if item.box.Overlaps(area) {
			*found = append(*found, item)
		}
	}
	if !qt.divided {
		return
	}
	for _, child := range qt.children {
		child.query(area, found)
	}
}

// Len returns the number of stored items
func (qt *QuadTree) Len() int {
	n := len(qt.items)
	if qt.divided {
		for _, child := range qt.children {
			n += child.Len()
		}
	}
	return n
}

func sortedKeys(items []quadItem) []uint64 {
	sort.Slice(items, func(i, j int) bool { return items[i].order < items[j].order })
	keys := make([]uint64, len(items))
	for i, item := range items {
		keys[i] = item.key
	}
	return keys
}
