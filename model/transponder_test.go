package model

import (
	"math"
	"testing"
)

// TestEffectiveEIRPBandwidthRatio verifies that doubling the carrier
// bandwidth against a fixed transponder bandwidth adds exactly
// 10*log10(2) dB of effective EIRP.
func TestEffectiveEIRPBandwidthRatio(t *testing.T) {
	tr := Transponder{FrequencyGHz: 14, MaxEIRPdBW: 54, BandwidthMHz: 36}

	narrow := tr.EffectiveEIRP(9)
	wide := tr.EffectiveEIRP(18)

	gain := wide - narrow
	want := 10 * math.Log10(2)
	if math.Abs(gain-want) > 1e-9 {
		t.Fatalf("EIRP gain on bandwidth doubling = %v dB, want %v dB", gain, want)
	}
}

// TestEffectiveEIRPMonotonicInLosses verifies that effective EIRP
// strictly decreases as back-off or contour loss grows.
func TestEffectiveEIRPMonotonicInLosses(t *testing.T) {
	base := Transponder{FrequencyGHz: 14, MaxEIRPdBW: 54, BandwidthMHz: 36}

	prev := base.EffectiveEIRP(9)
	for _, backOff := range []float64{0.5, 1, 2, 4, 8} {
		tr := base
		tr.BackOffDB = backOff
		got := tr.EffectiveEIRP(9)
		if got >= prev {
			t.Fatalf("EIRP %v at back-off %v dB, expected below %v", got, backOff, prev)
		}
		prev = got
	}

	prev = base.EffectiveEIRP(9)
	for _, contour := range []float64{1, 3, 6} {
		tr := base
		tr.ContourDB = contour
		got := tr.EffectiveEIRP(9)
		if got >= prev {
			t.Fatalf("EIRP %v at contour %v dB, expected below %v", got, contour, prev)
		}
		prev = got
	}
}

// TestEffectiveEIRPZeroBandwidthDefaults verifies the 36 MHz
// substitution for unset bandwidths on both sides of the ratio.
func TestEffectiveEIRPZeroBandwidthDefaults(t *testing.T) {
	tr := Transponder{MaxEIRPdBW: 50}

	// Both bandwidths unset: the ratio collapses to 1 and the
	// effective EIRP is the un-backed-off maximum.
	if got := tr.EffectiveEIRP(0); math.Abs(got-50) > 1e-12 {
		t.Fatalf("EffectiveEIRP(0) with unset transponder bandwidth = %v, want 50", got)
	}

	// Unset transponder bandwidth behaves as 36 MHz.
	tr36 := Transponder{MaxEIRPdBW: 50, BandwidthMHz: 36}
	if got, want := tr.EffectiveEIRP(9), tr36.EffectiveEIRP(9); math.Abs(got-want) > 1e-12 {
		t.Fatalf("unset transponder bandwidth EIRP = %v, want %v", got, want)
	}
}
