package core

import (
	"context"
	"math"
)

// AttenuationBreakdown carries the slant-path atmospheric attenuation
// terms, in dB, for a single exceedance probability.
type AttenuationBreakdown struct {
	GaseousDB       float64
	CloudDB         float64
	RainDB          float64
	ScintillationDB float64
	TotalDB         float64
}

// AtmosphereModel produces the atmospheric part of the link budget.
// Implementations must be deterministic for fixed inputs and free of
// side effects; the engine may invoke SlantPath thousands of times
// while solving for availability.
//
// p is the exceedance probability as a percentage of time (0.001 means
// 0.001%). Attenuation is expected to be monotonically non-increasing
// in p.
type AtmosphereModel interface {
	SlantPath(ctx context.Context, latDeg, longDeg, freqGHz, elevationDeg, p, antennaDiameterM float64) (AttenuationBreakdown, error)
}

// FreeSpacePathLoss returns the spreading loss in dB over distanceKm at
// freqGHz. The 92.45 constant absorbs the km and GHz unit scaling.
func FreeSpacePathLoss(distanceKm, freqGHz float64) float64 {
	return 92.45 + 20*math.Log10(distanceKm) + 20*math.Log10(freqGHz)
}
