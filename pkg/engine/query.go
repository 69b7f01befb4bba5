// pkg/engine/query.go
package engine

import (
	"github.com/opd-ai/go-physbox/pkg/entity"
	"github.com/opd-ai/go-physbox/pkg/physics"
)

// spatialCapacity is the number of boxes a quad tree node holds before
// it subdivides
const spatialCapacity = 8

// QueryPoint returns the bodies whose shape contains p, in insertion
// order. Point bodies never match.
func (w *World) QueryPoint(p physics.Vector2D) []entity.ID {
	w.refreshSpatialIndex()

	var found []entity.ID
	for _, key := range w.spatial.QueryPoint(p) {
		b := w.lookup(entity.ID(key))
		polygon := b.WorldPolygon()
		if polygon == nil {
			continue
		}
		d, err := physics.PointToPolygonDistance(p, polygon)
		if err != nil || d > 0 {
			continue
		}
		found = append(found, b.ID())
	}
	return found
}

// QueryAABB returns the bodies whose bounding box overlaps box, in
// insertion order. Point bodies match when their position lies in box.
func (w *World) QueryAABB(box physics.AABB) []entity.ID {
	w.refreshSpatialIndex()

	keys := w.spatial.Query(box)
	found := make([]entity.ID, len(keys))
	for i, key := range keys {
		found[i] = entity.ID(key)
	}
	return found
}

// refreshSpatialIndex rebuilds the quad tree from committed state after
// a step or a membership change
func (w *World) refreshSpatialIndex() {
	if !w.spatialDirty && w.spatial != nil {
		return
	}

	boxes := make([]physics.AABB, len(w.bodies))
	var bounds physics.AABB
	for i, b := range w.bodies {
		if p := b.WorldPolygon(); p != nil {
			boxes[i] = physics.BoundingBox(p)
		} else {
			boxes[i] = physics.AABB{Min: b.Position(), Max: b.Position()}
		}
		if i == 0 {
			bounds = boxes[i]
		} else {
			bounds = bounds.Merge(boxes[i])
		}
	}

	w.spatial = physics.NewQuadTree(bounds, spatialCapacity)
	for i, b := range w.bodies {
		w.spatial.Insert(boxes[i], uint64(b.ID()), i)
	}
	w.spatialDirty = false
}
