package raster

import (
	"fmt"

	"github.com/twpayne/go-proj/v11"
)

// A LatLonSampler samples a projected Raster at WGS84 (EPSG:4326)
// coordinates, reprojecting the query points into the raster's coordinate
// reference system first.
type LatLonSampler struct {
	raster *Raster
	pj     *proj.PJ
}

// NewLatLonSampler returns a LatLonSampler for r, whose coordinate reference
// system is identified by its EPSG SRID.
func NewLatLonSampler(r *Raster, srid int) (*LatLonSampler, error) {
	pj, err := proj.NewCRSToCRS("epsg:4326", fmt.Sprintf("epsg:%d", srid), nil)
	if err != nil {
		return nil, err
	}
	return &LatLonSampler{
		raster: r,
		pj:     pj,
	}, nil
}

// Sample returns the nearest-neighbour raster value for each (lon, lat) pair
// in coords. Points falling outside the raster yield NoData. The input is
// not modified.
func (s *LatLonSampler) Sample(coords4326 [][]float64) ([]float64, error) {
	coords := cloneCoords(coords4326)
	flipCoords(coords)
	if err := s.pj.ForwardFloat64Slices(coords); err != nil {
		return nil, err
	}
	flipCoords(coords)

	x := make([]float64, len(coords))
	y := make([]float64, len(coords))
	for i, coord := range coords {
		x[i] = coord[0]
		y[i] = coord[1]
	}
	return s.raster.Sample(x, y), nil
}

func cloneCoords(coords [][]float64) [][]float64 {
	clonedCoordsFlat := make([]float64, 2*len(coords))
	clonedCoords := make([][]float64, len(coords))
	for i, coord := range coords {
		copy(clonedCoordsFlat[2*i:2*i+2], coord)
		clonedCoords[i] = clonedCoordsFlat[2*i : 2*i+2]
	}
	return clonedCoords
}

func flipCoords(coords [][]float64) {
	for i, coord := range coords {
		coords[i][0], coords[i][1] = coord[1], coord[0]
	}
}
