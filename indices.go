package raster

import "math"

// OutOfRegion is the sentinel row or column index returned for a coordinate
// that falls outside the grid envelope.
const OutOfRegion = -999

// FindIndex returns the row and column indices of the grid cell containing
// the point (lat, lon).
//
// The grid is described by the latitude and longitude of the centre of its
// lower left cell (lat0, lon0), the regular cell spacing (dlat, dlon) and its
// dimensions (nrows, ncols). Rows are numbered from the top of the grid
// southward, columns from the left eastward. A coordinate outside the grid
// envelope yields OutOfRegion for the corresponding index; latitude and
// longitude are tested independently, so a point can be out of region in one
// axis only. NaN coordinates are out of region.
func FindIndex(lat, lon, lat0, lon0, dlat, dlon float64, nrows, ncols int) (row, col int) {
	minLat := lat0 - 0.5*dlat
	maxLat := minLat + float64(nrows)*dlat
	minLon := lon0 - 0.5*dlon
	maxLon := minLon + float64(ncols)*dlon
	return rowIndex(lat, minLat, maxLat, dlat, nrows), colIndex(lon, minLon, maxLon, dlon, ncols)
}

// FindIndices is the batch form of [FindIndex]. The latitudes and longitudes
// are indexed independently: rows has one entry per latitude and cols one
// entry per longitude, in input order.
func FindIndices(lats, lons []float64, lat0, lon0, dlat, dlon float64, nrows, ncols int) (rows, cols []int) {
	minLat := lat0 - 0.5*dlat
	maxLat := minLat + float64(nrows)*dlat
	minLon := lon0 - 0.5*dlon
	maxLon := minLon + float64(ncols)*dlon

	rows = make([]int, len(lats))
	for i, lat := range lats {
		rows[i] = rowIndex(lat, minLat, maxLat, dlat, nrows)
	}
	cols = make([]int, len(lons))
	for i, lon := range lons {
		cols[i] = colIndex(lon, minLon, maxLon, dlon, ncols)
	}
	return rows, cols
}

// rowIndex maps a latitude to a row index. The first and last row bands are
// edge-inclusive on both sides, giving the edge rows a half-cell wider
// catchment than interior rows. This tie-break is long-standing behaviour
// that downstream readers rely on; do not "fix" it.
func rowIndex(lat, minLat, maxLat, dlat float64, nrows int) int {
	switch {
	case math.IsNaN(lat) || lat < minLat || maxLat < lat: // outside region
		return OutOfRegion
	case maxLat-dlat <= lat && lat <= maxLat: // first row
		return 0
	case minLat <= lat && lat <= minLat+dlat: // last row
		return nrows - 1
	default:
		return int(math.Floor(float64(nrows) - (lat-minLat)/dlat))
	}
}

// colIndex maps a longitude to a column index, with the same edge-band
// tie-break as rowIndex.
func colIndex(lon, minLon, maxLon, dlon float64, ncols int) int {
	switch {
	case math.IsNaN(lon) || lon < minLon || maxLon < lon: // outside region
		return OutOfRegion
	case minLon <= lon && lon <= minLon+dlon: // first column
		return 0
	case maxLon-dlon <= lon && lon <= maxLon: // last column
		return ncols - 1
	default:
		return int(math.Floor((lon - minLon) / dlon))
	}
}
