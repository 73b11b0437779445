// Package refet computes hourly reference crop evapotranspiration with the
// FAO Penman-Monteith method of FAO56 (Allen, Pereira, Raes and Smith, 1998,
// "Crop evapotranspiration", FAO Irrigation and drainage paper 56). Inputs
// are slices of meteorological variables, one entry per location.
package refet

import (
	"fmt"
	"math"

	raster "github.com/hydrolab/go-raster"
)

// An Input holds the meteorological variables for one or more locations at
// one observation period. All slices must have the same length.
type Input struct {
	Temp          []float64 // mean air temperature for the period, degrees C
	Elevation     []float64 // station elevation above sea level, m
	RelHumidity   []float64 // mean relative humidity, percent
	Day           []int     // day of month
	Month         []int
	Year          []int
	Latitude      []float64 // decimal degrees, south negative
	MidpointTime  []float64 // standard clock time at the period midpoint, hours
	ZoneLongitude []float64 // longitude of the time zone centre, degrees west of Greenwich
	Longitude     []float64 // longitude of the site, degrees west of Greenwich
	Period        []float64 // period length, hours
	SolarRad      []float64 // measured solar radiation Rs, MJ m-2 hour-1
	WindSpeed     []float64 // wind speed at 2 m, m/s
}

// ReferenceET returns the reference crop evapotranspiration in mm for each
// location of in, one entry per location in input order. Entries with any
// input equal to raster.NoData yield raster.NoData.
func ReferenceET(in Input) ([]float64, error) {
	n := len(in.Temp)
	for name, l := range map[string]int{
		"elevation":      len(in.Elevation),
		"rel humidity":   len(in.RelHumidity),
		"day":            len(in.Day),
		"month":          len(in.Month),
		"year":           len(in.Year),
		"latitude":       len(in.Latitude),
		"midpoint time":  len(in.MidpointTime),
		"zone longitude": len(in.ZoneLongitude),
		"longitude":      len(in.Longitude),
		"period":         len(in.Period),
		"solar rad":      len(in.SolarRad),
		"wind speed":     len(in.WindSpeed),
	} {
		if l != n {
			return nil, fmt.Errorf("refet: %d temperatures for %d %s values", n, l, name)
		}
	}

	et := make([]float64, n)
	for i := range et {
		if in.Temp[i] == raster.NoData ||
			in.RelHumidity[i] == raster.NoData ||
			in.SolarRad[i] == raster.NoData ||
			in.WindSpeed[i] == raster.NoData {
			et[i] = raster.NoData
			continue
		}
		et[i] = referenceET(
			in.Temp[i], in.Elevation[i], in.RelHumidity[i],
			in.Day[i], in.Month[i], in.Year[i],
			in.Latitude[i], in.MidpointTime[i], in.ZoneLongitude[i],
			in.Longitude[i], in.Period[i], in.SolarRad[i], in.WindSpeed[i],
		)
	}
	return et, nil
}

func referenceET(temp, elev, relHum float64, day, month, year int, lat, tm, lz, lm, period, rs, u2 float64) float64 {
	delta := VapourPressureSlope(temp)
	gamma := PsychrometricConstant(elev)
	e0 := SaturationVapourPressure(temp)
	ea := ActualVapourPressure(temp, relHum)

	j := JulianDay(day, month, year)
	phi := lat * math.Pi / 180 // FAO56 eq. 22
	dr := invRelEarthSunDist(j)
	decl := solarDeclination(j)
	sc := solarTimeCorrection(j)
	omega := midpointSolarTimeAngle(tm, lz, lm, sc)
	omega1 := omega - math.Pi*period/24 // eq. 29
	omega2 := omega + math.Pi*period/24 // eq. 30

	ra := extraterrestrialRadiation(dr, decl, phi, omega, omega1, omega2)
	rs0 := clearSkyRadiation(ra, elev)
	rns := netSWRadiation(rs)
	rnl := netOutgoingLWRadiation(temp, ea, rs, rs0)
	rn := rns - rnl // eq. 40
	g := soilHeatFlux(rn, rs)

	return computeET(delta, rn, g, gamma, temp, e0, ea, u2)
}

// VapourPressureSlope returns the slope of the saturation vapour pressure
// curve at temperature t in degrees C, in kPa per degree C (FAO56 eq. 13).
func VapourPressureSlope(t float64) float64 {
	a := t + 237.3
	return 4098 * SaturationVapourPressure(t) / (a * a)
}

// PsychrometricConstant returns the psychrometric constant in kPa per degree
// C for a station z metres above sea level (FAO56 eq. 8, with atmospheric
// pressure from eq. 7).
func PsychrometricConstant(z float64) float64 {
	p := 101.3 * math.Pow((293-0.0065*z)/293, 5.26)
	return 0.000665 * p
}

// SaturationVapourPressure returns the saturation vapour pressure in kPa at
// temperature t in degrees C (FAO56 eq. 11).
func SaturationVapourPressure(t float64) float64 {
	return 0.6108 * math.Exp(17.27*t/(t+237.3))
}

// ActualVapourPressure returns the actual vapour pressure in kPa from the
// temperature in degrees C and the relative humidity in percent (FAO56
// eq. 54).
func ActualVapourPressure(t, relHum float64) float64 {
	return SaturationVapourPressure(t) * relHum / 100
}

// VapourPressureDeficit returns the difference between the saturation and
// actual vapour pressures in kPa.
func VapourPressureDeficit(t, relHum float64) float64 {
	return SaturationVapourPressure(t) - ActualVapourPressure(t, relHum)
}

// JulianDay returns the day number of the year (FAO56 annex 2, table 2.5
// footnote formula).
func JulianDay(day, month, year int) int {
	j := int(math.Floor(275*float64(month)/9-30+float64(day))) - 2
	if month < 3 {
		j += 2
	}
	if isLeapYear(year) && month > 2 {
		j++
	}
	return j
}

func isLeapYear(year int) bool {
	switch {
	case year%400 == 0:
		return true
	case year%100 == 0:
		return false
	default:
		return year%4 == 0
	}
}

// invRelEarthSunDist is the inverse relative earth-sun distance (eq. 23).
func invRelEarthSunDist(j int) float64 {
	return 1 + 0.033*math.Cos(2*math.Pi/365*float64(j))
}

// solarDeclination in radians (eq. 24).
func solarDeclination(j int) float64 {
	return 0.409 * math.Sin(2*math.Pi/365*float64(j)-1.39)
}

// solarTimeCorrection is the seasonal correction in hours (eqs. 32, 33).
func solarTimeCorrection(j int) float64 {
	b := 2 * math.Pi * (float64(j) - 81) / 364
	return 0.1645*math.Sin(2*b) - 0.1255*math.Cos(b) - 0.025*math.Sin(b)
}

// midpointSolarTimeAngle is the solar time angle at the period midpoint in
// radians (eq. 31).
func midpointSolarTimeAngle(tm, lz, lm, sc float64) float64 {
	return math.Pi / 12 * (tm + 0.06667*(lz-lm) + sc - 12)
}

// extraterrestrialRadiation in MJ m-2 hour-1 (eqs. 25, 28); zero outside the
// sunset time angle.
func extraterrestrialRadiation(dr, decl, phi, omega, omega1, omega2 float64) float64 {
	omegaS := math.Acos(-math.Tan(phi) * math.Tan(decl))
	if omega < -omegaS || omega > omegaS {
		return 0
	}
	a := (omega2 - omega1) * math.Sin(phi) * math.Sin(decl)
	b := math.Cos(phi) * math.Cos(decl) * (math.Sin(omega2) - math.Sin(omega1))
	return 12 * 60 / math.Pi * 0.082 * dr * (a + b)
}

// clearSkyRadiation in MJ m-2 hour-1 for a station z metres above sea level
// (eq. 37).
func clearSkyRadiation(ra, z float64) float64 {
	return (0.75 + 0.00002*z) * ra
}

// netSWRadiation with the reference crop albedo of 0.23 (eq. 38).
func netSWRadiation(rs float64) float64 {
	return 0.77 * rs
}

// netOutgoingLWRadiation (eq. 39). The Rs/Rs0 cloudiness ratio is fixed at
// 0.8 at night; FAO56 suggests carrying the ratio from 2-3 hours before
// sunset instead.
func netOutgoingLWRadiation(t, ea, rs, rs0 float64) float64 {
	a := 2.043e-10 * math.Pow(t+273.16, 4)
	b := 0.34 - 0.14*math.Sqrt(ea)

	c := 0.8
	if rs0 > 0 {
		c = rs / rs0
	}
	c = min(c, 1)
	return a * b * (1.35*c - 0.35)
}

// soilHeatFlux (eqs. 45, 46). Night is assumed when the measured solar
// radiation falls below 0.05 MJ m-2 hour-1.
func soilHeatFlux(rn, rs float64) float64 {
	if rs < 0.05 {
		return 0.5 * rn
	}
	return 0.1 * rn
}

// computeET is the hourly FAO Penman-Monteith equation (eq. 53).
func computeET(delta, rn, g, gamma, t, e0, ea, u2 float64) float64 {
	a := 0.408 * delta * (rn - g)
	b := gamma * 37 / (t + 273) * u2 * (e0 - ea)
	c := delta + gamma*(1+0.34*u2)
	return (a + b) / c
}
