package model

import "math"

// DefaultBandwidthMHz substitutes for an unset transponder or carrier
// bandwidth so the EIRP bandwidth ratio stays defined.
const DefaultBandwidthMHz = 36.0

// Transponder describes the RF characteristics of one satellite
// transponder on the downlink.
type Transponder struct {
	FrequencyGHz float64 // downlink centre frequency
	MaxEIRPdBW   float64 // saturated EIRP at beam centre
	BandwidthMHz float64 // total transponder bandwidth; 0 means 36
	BackOffDB    float64 // output back-off from saturation
	ContourDB    float64 // beam contour loss at the receive site
}

// EffectiveEIRP returns the EIRP available to a carrier occupying
// carrierBandwidthMHz of this transponder. Zero bandwidths on either
// side are normalized to DefaultBandwidthMHz before the ratio so the
// logarithm stays finite.
func (t Transponder) EffectiveEIRP(carrierBandwidthMHz float64) float64 {
	transponderMHz := t.BandwidthMHz
	if transponderMHz == 0 {
		transponderMHz = DefaultBandwidthMHz
	}
	if carrierBandwidthMHz == 0 {
		carrierBandwidthMHz = DefaultBandwidthMHz
	}
	return t.MaxEIRPdBW - t.BackOffDB - t.ContourDB +
		10*math.Log10(carrierBandwidthMHz/transponderMHz)
}
