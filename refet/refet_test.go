package refet_test

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	raster "github.com/hydrolab/go-raster"
	"github.com/hydrolab/go-raster/refet"
)

func inEps(t *testing.T, expected, actual, eps float64) {
	t.Helper()
	assert.True(t, math.Abs(expected-actual) < eps,
		"expected %v within %v of %v", actual, eps, expected)
}

// The published intermediate values of FAO56 example 19: N'Diaye, Mali,
// 1 October, for the periods 02:00-03:00 (night) and 14:00-15:00 (day).
func example19Input() refet.Input {
	return refet.Input{
		Temp:          []float64{28, 38},
		Elevation:     []float64{8, 8},
		RelHumidity:   []float64{90, 52},
		Day:           []int{1, 1},
		Month:         []int{10, 10},
		Year:          []int{2006, 2006},
		Latitude:      []float64{16.22, 16.22},
		MidpointTime:  []float64{2.5, 14.5},
		ZoneLongitude: []float64{15, 15},
		Longitude:     []float64{16.25, 16.25},
		Period:        []float64{1, 1},
		SolarRad:      []float64{0, 2.45},
		WindSpeed:     []float64{1.9, 3.3},
	}
}

func TestReferenceET_FAO56Example19(t *testing.T) {
	et, err := refet.ReferenceET(example19Input())
	assert.NoError(t, err)
	assert.Equal(t, 2, len(et))

	inEps(t, 0.00, et[0], 0.01) // night
	inEps(t, 0.63, et[1], 0.01) // day
}

func TestReferenceET_NoDataPropagates(t *testing.T) {
	in := example19Input()
	in.SolarRad[1] = raster.NoData

	et, err := refet.ReferenceET(in)
	assert.NoError(t, err)
	inEps(t, 0.00, et[0], 0.01)
	assert.Equal(t, raster.NoData, et[1])
}

func TestReferenceET_LengthMismatch(t *testing.T) {
	in := example19Input()
	in.WindSpeed = in.WindSpeed[:1]

	_, err := refet.ReferenceET(in)
	assert.Error(t, err)
}

func TestVapourPressure(t *testing.T) {
	// FAO56 example 19 intermediate values, published to 3-4 figures.
	inEps(t, 0.220, refet.VapourPressureSlope(28), 5e-4)
	inEps(t, 0.358, refet.VapourPressureSlope(38), 5e-4)
	inEps(t, 0.0673, refet.PsychrometricConstant(8), 5e-5)
	inEps(t, 3.780, refet.SaturationVapourPressure(28), 5e-3)
	inEps(t, 6.625, refet.SaturationVapourPressure(38), 5e-3)
	inEps(t, 3.402, refet.ActualVapourPressure(28, 90), 5e-3)
	inEps(t, 3.445, refet.ActualVapourPressure(38, 52), 5e-3)
	inEps(t, 3.180, refet.VapourPressureDeficit(38, 52), 5e-3)
}

func TestJulianDay(t *testing.T) {
	for _, tc := range []struct {
		day      int
		month    int
		year     int
		expected int
	}{
		{day: 1, month: 1, year: 2006, expected: 1},
		{day: 1, month: 10, year: 2006, expected: 274},
		{day: 31, month: 12, year: 2006, expected: 365},
		{day: 28, month: 2, year: 2023, expected: 59},
		{day: 29, month: 2, year: 2024, expected: 60},
		{day: 1, month: 3, year: 2024, expected: 61},
		{day: 31, month: 12, year: 2024, expected: 366},
		{day: 1, month: 3, year: 1900, expected: 60}, // century, not leap
		{day: 1, month: 3, year: 2000, expected: 61}, // quadricentennial, leap
	} {
		assert.Equal(t, tc.expected, refet.JulianDay(tc.day, tc.month, tc.year))
	}
}
