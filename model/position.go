package model

import "math"

// GEOAltitudeKm is the nominal geostationary orbit altitude above the
// Earth's surface.
const GEOAltitudeKm = 35786.0

// SatellitePosition fixes a satellite's sub-satellite point and altitude.
// Longitudes and latitudes are degrees, east and north positive.
// Immutable once constructed; derive a new value instead of mutating.
type SatellitePosition struct {
	LongitudeDeg float64
	LatitudeDeg  float64 // 0 for geostationary satellites
	AltitudeKm   float64
}

// NewSatellitePosition builds a position, substituting the GEO altitude
// when altitudeKm is zero.
func NewSatellitePosition(longitudeDeg, latitudeDeg, altitudeKm float64) SatellitePosition {
	if altitudeKm == 0 {
		altitudeKm = GEOAltitudeKm
	}
	return SatellitePosition{
		LongitudeDeg: longitudeDeg,
		LatitudeDeg:  latitudeDeg,
		AltitudeKm:   altitudeKm,
	}
}

// NewGEOPosition places a geostationary satellite at the given longitude.
func NewGEOPosition(longitudeDeg float64) SatellitePosition {
	return NewSatellitePosition(longitudeDeg, 0, GEOAltitudeKm)
}

// LongitudeRad returns the sub-satellite longitude in radians.
func (sp SatellitePosition) LongitudeRad() float64 {
	return sp.LongitudeDeg * math.Pi / 180
}

// LatitudeRad returns the sub-satellite latitude in radians.
func (sp SatellitePosition) LatitudeRad() float64 {
	return sp.LatitudeDeg * math.Pi / 180
}

// DistanceFromCenterKm returns the orbital radius measured from the
// Earth's centre.
func (sp SatellitePosition) DistanceFromCenterKm() float64 {
	return EarthRadiusKm + sp.AltitudeKm
}
