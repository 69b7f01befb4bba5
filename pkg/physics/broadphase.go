// pkg/physics/broadphase.go
package physics

import "fmt"

// Pair is one overlapping polygon pair reported by CollideAll. I < J
// index into the slice passed to CollideAll.
type Pair struct {
	I, J       int
	Separation float64
	Normal     Vector2D // points from polygon I towards polygon J
	// ReferenceEdge is the edge index on the polygon that owns the axis
	// (see Reference), IncidentEdge the chosen edge on the other one.
	ReferenceEdge int
	IncidentEdge  int
	Reference     int
}

// Stats counts the work done by one CollideAll call
type Stats struct {
	CandidatePairs int
	AABBRejected   int
	NarrowPhase    int
	Overlapping    int
}

// CollideAll tests every unordered pair (i < j, outer index first) of
// polygons. Pairs whose bounding boxes do not overlap never reach the
// SAT narrow phase. Nil entries are skipped, which lets callers keep
// shapeless bodies in the same index space.
func CollideAll(polygons []Polygon) ([]Pair, Stats, error) {
	var stats Stats
	boxes := make([]AABB, len(polygons))
	for i, p := range polygons {
		if p != nil {
			boxes[i] = BoundingBox(p)
		}
	}

	var pairs []Pair
	for i := 0; i < len(polygons)-1; i++ {
		if polygons[i] == nil {
			continue
		}
		for j := i + 1; j < len(polygons); j++ {
			if polygons[j] == nil {
				continue
			}
			stats.CandidatePairs++

			if !boxes[i].Overlaps(boxes[j]) {
				stats.AABBRejected++
				continue
			}

			stats.NarrowPhase++
			sep, err := Collide(polygons[i], polygons[j])
			if err != nil {
				return nil, stats, fmt.Errorf("pair (%d, %d): %w", i, j, err)
			}
			if !sep.Overlapping() {
				continue
			}

			pair, err := newPair(i, j, sep, polygons[i], polygons[j])
			if err != nil {
				return nil, stats, fmt.Errorf("pair (%d, %d): %w", i, j, err)
			}
			pairs = append(pairs, pair)
			stats.Overlapping++
		}
	}
	return pairs, stats, nil
}

func newPair(i, j int, sep Separation, pi, pj Polygon) (Pair, error) {
	incident, referenceNormal := pj, sep.Normal
	if sep.Reference == 2 {
		// the axis belongs to polygon J; its outward normal is the
		// negation of the reported I-to-J normal
		incident, referenceNormal = pi, sep.Normal.Neg()
	}

	_, edge, err := IncidentNormal(referenceNormal, incident, sep.Vertex)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		I:             i,
		J:             j,
		Separation:    sep.Distance,
		Normal:        sep.Normal,
		ReferenceEdge: sep.Edge,
		IncidentEdge:  edge,
		Reference:     sep.Reference,
	}, nil
}
