package model

import "testing"

// TestSatellitePositionDefaults verifies the GEO altitude substitution
// and the orbital radius derivation.
func TestSatellitePositionDefaults(t *testing.T) {
	sp := NewSatellitePosition(-70, 0, 0)
	if sp.AltitudeKm != GEOAltitudeKm {
		t.Fatalf("zero altitude not defaulted: got %v", sp.AltitudeKm)
	}
	if got, want := sp.DistanceFromCenterKm(), EarthRadiusKm+GEOAltitudeKm; got != want {
		t.Fatalf("DistanceFromCenterKm = %v, want %v", got, want)
	}

	geo := NewGEOPosition(-70)
	if geo != sp {
		t.Fatalf("NewGEOPosition = %+v, want %+v", geo, sp)
	}
}
