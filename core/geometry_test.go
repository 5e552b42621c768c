package core

import (
	"math"
	"testing"

	"github.com/shiyongxin/SatLink/model"
)

func TestElevationOverheadGEO(t *testing.T) {
	// Station on the equator directly under the satellite: zenith pass,
	// and the slant range collapses to the orbital altitude.
	gs := model.GroundStation{LatitudeDeg: 0, LongitudeDeg: -70}
	sat := model.NewGEOPosition(-70)

	if e := Elevation(gs, sat); math.Abs(e-90) > 1e-9 {
		t.Fatalf("overhead elevation = %v, want 90", e)
	}
	if d := SlantRange(gs, sat); math.Abs(d-model.GEOAltitudeKm) > 1e-6 {
		t.Fatalf("overhead slant range = %v km, want %v", d, model.GEOAltitudeKm)
	}
}

func TestElevationBelowHorizon(t *testing.T) {
	// A GEO satellite on the far side of the planet is below the horizon;
	// the formula reports that as a negative elevation instead of failing.
	gs := model.GroundStation{LatitudeDeg: 0, LongitudeDeg: 110}
	sat := model.NewGEOPosition(-70)

	if e := Elevation(gs, sat); e >= 0 {
		t.Fatalf("far-side elevation = %v, want negative", e)
	}
}

func TestLookAnglesKnownScenario(t *testing.T) {
	// Maranhão site against a 70°W geostationary satellite. Expected
	// ranges bracket the values the full budget pipeline reports.
	gs := model.GroundStation{LatitudeDeg: -3.7, LongitudeDeg: -45.9}
	sat := model.NewGEOPosition(-70)

	e := Elevation(gs, sat)
	if e < 60 || e > 65 {
		t.Errorf("elevation = %v, want within [60, 65]", e)
	}

	// A law-of-cosines check over R=6371 and the GEO orbit radius puts
	// the range near 36,448 km for this site.
	d := SlantRange(gs, sat)
	if d < 36400 || d > 36500 {
		t.Errorf("slant range = %v km, want within [36400, 36500]", d)
	}

	az := Azimuth(gs, sat)
	if az <= 0 || az >= 360 {
		t.Errorf("azimuth = %v, want within (0, 360)", az)
	}
}

func TestSlantRangeGrowsTowardHorizon(t *testing.T) {
	sat := model.NewGEOPosition(0)
	prev := 0.0
	for i, long := range []float64{0, 20, 40, 60, 75} {
		gs := model.GroundStation{LatitudeDeg: 0, LongitudeDeg: long}
		d := SlantRange(gs, sat)
		if i > 0 && d <= prev {
			t.Fatalf("slant range at Δlong=%v is %v km, expected above %v", long, d, prev)
		}
		prev = d
	}
}
