package model

// Carrier describes a single carrier inside a transponder: the
// modulation and coding scheme plus the spectrum it occupies.
type Carrier struct {
	Modulation   string  // e.g. "8PSK"
	FEC          string  // table-native form, e.g. "120/180"
	RollOff      float64 // pulse-shaping excess bandwidth factor
	BandwidthMHz float64 // utilized bandwidth; 0 means 36
}

// UtilizedBandwidthHz returns the occupied bandwidth in Hz, with the
// zero-bandwidth default applied.
func (c Carrier) UtilizedBandwidthHz() float64 {
	mhz := c.BandwidthMHz
	if mhz == 0 {
		mhz = DefaultBandwidthMHz
	}
	return mhz * 1e6
}

// SymbolRate returns the symbol rate in symbols/s implied by the
// utilized bandwidth and roll-off.
func (c Carrier) SymbolRate() float64 {
	return c.UtilizedBandwidthHz() / (1 + c.RollOff)
}

// Bitrate returns the information rate in bit/s for the given spectral
// efficiency (bit/s/Hz).
func (c Carrier) Bitrate(spectralEfficiency float64) float64 {
	return c.UtilizedBandwidthHz() * spectralEfficiency
}
