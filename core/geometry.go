package core

import (
	"math"

	"github.com/shiyongxin/SatLink/model"
)

// oblatenessFactor is the fixed geodetic correction in the elevation
// formula; it folds the Earth's flattening into the spherical model.
const oblatenessFactor = 0.15116

// Elevation returns the look angle from the ground station up to the
// satellite, in degrees. Negative values mean the satellite sits below
// the local horizon; the caller decides whether that is acceptable.
func Elevation(gs model.GroundStation, sat model.SatellitePosition) float64 {
	deltaLong := sat.LongitudeRad() - gs.LongitudeRad()
	cosBeta := math.Cos(deltaLong) * math.Cos(gs.LatitudeRad())

	// The denominator vanishes only with the satellite at zenith,
	// where the ratio diverges and Atan correctly yields 90°.
	e := math.Atan((cosBeta - oblatenessFactor) / math.Sqrt(1-cosBeta*cosBeta))
	return e * 180 / math.Pi
}

// Azimuth returns the compass bearing from the ground station to the
// satellite, in degrees within (0, 360).
func Azimuth(gs model.GroundStation, sat model.SatellitePosition) float64 {
	deltaLong := sat.LongitudeRad() - gs.LongitudeRad()
	az := math.Pi + math.Atan2(math.Tan(deltaLong), math.Sin(gs.LatitudeRad()))
	return az * 180 / math.Pi
}

// SlantRange returns the straight-line distance in kilometres between
// the ground station and the satellite, via the law of cosines on the
// geocentric triangle.
func SlantRange(gs model.GroundStation, sat model.SatellitePosition) float64 {
	e := Elevation(gs, sat) * math.Pi / 180
	r := gs.EarthRadius()
	orbit := r + sat.AltitudeKm
	return math.Sqrt(orbit*orbit-(r*math.Cos(e))*(r*math.Cos(e))) - r*math.Sin(e)
}
