package model

import "math"

// EarthRadiusKm is the mean Earth radius of the spherical model used
// throughout the geometry formulas.
const EarthRadiusKm = 6371.0

// GroundStation is a receive site on the Earth's surface.
type GroundStation struct {
	LatitudeDeg  float64
	LongitudeDeg float64
}

// LatitudeRad returns the site latitude in radians.
func (g GroundStation) LatitudeRad() float64 {
	return g.LatitudeDeg * math.Pi / 180
}

// LongitudeRad returns the site longitude in radians.
func (g GroundStation) LongitudeRad() float64 {
	return g.LongitudeDeg * math.Pi / 180
}

// EarthRadius returns the local Earth radius in km. The spherical
// model uses the same radius at every site.
func (g GroundStation) EarthRadius() float64 {
	return EarthRadiusKm
}
