package raster

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// PointInPolygon reports whether p lies inside the polygon described by ring.
// The test is planar ray-casting; points exactly on the boundary count as
// inside.
func PointInPolygon(p orb.Point, ring orb.Ring) bool {
	return planar.RingContains(ring, p)
}

// PolygonMask returns a rows×cols mask that is true for every cell whose
// centre lies inside ring. Cells outside the ring's bounding box are skipped
// without the full containment test.
func (r *Raster) PolygonMask(ring orb.Ring) [][]bool {
	bound := ring.Bound()
	mask := make([][]bool, r.rows)
	for i := range mask {
		mask[i] = make([]bool, r.cols)
		for j := range mask[i] {
			x, y := r.CellCenter(i, j)
			p := orb.Point{x, y}
			if !bound.Contains(p) {
				continue
			}
			mask[i][j] = planar.RingContains(ring, p)
		}
	}
	return mask
}
