package core

import "math"

// speedOfLight in m/s.
const speedOfLight = 299792458.0

// ReceiveChain carries the feed and LNB terms of a receive system in
// the form the system-noise model consumes.
type ReceiveChain struct {
	CouplingLossDB     float64
	CableLossDB        float64
	PolarizationLossDB float64 // stored for completeness; the BO.790 chain uses coupling+cable only
	LNBGainDB          float64
	LNBNoiseTempK      float64
}

// Receiver is the capability set the link engine needs from a receive
// system. DetailedReceiver derives everything from hardware values;
// SimpleReceiver works backward from an advertised figure of merit and
// its derived quantities are estimates, not precise inverses.
type Receiver interface {
	// AntennaGain returns the receive gain in dBi at freqGHz.
	AntennaGain(freqGHz float64) float64
	// Beamwidth returns the 3 dB beamwidth in degrees at freqGHz.
	Beamwidth(freqGHz float64) float64
	// PointingLoss returns the depointing loss in dB at freqGHz.
	PointingLoss(freqGHz float64) float64
	// GroundTemperature returns ground noise pickup in K at the given
	// elevation in degrees.
	GroundTemperature(elevationDeg float64) float64
	// SkyTemperature returns the clear-sky brightness temperature in K.
	SkyTemperature(freqGHz, elevationDeg float64) float64
	// AntennaDiameter reports the dish diameter in metres, false when
	// the physical hardware is unknown.
	AntennaDiameter() (float64, bool)
	// FigureOfMerit reports a directly supplied G/T in dB/K, false
	// when G/T must be derived from the noise chain.
	FigureOfMerit() (float64, bool)
	// Chain returns the feed/LNB terms for the noise model.
	Chain() ReceiveChain
}

// groundTemperatureForElevation maps elevation bands to ground noise
// pickup. An antenna aimed near the horizon sees the warm ground; one
// aimed overhead sees almost none.
func groundTemperatureForElevation(elevationDeg float64) float64 {
	switch {
	case elevationDeg < -10:
		return 290
	case elevationDeg < 0:
		return 150
	case elevationDeg < 10:
		return 50
	default:
		return 10
	}
}

// skyTemperatureApprox is a coarse stand-in for the ITU-R P.372
// brightness tables, split at the 10 GHz water-vapour knee.
func skyTemperatureApprox(freqGHz, elevationDeg float64) float64 {
	if freqGHz < 10 {
		return 10 + 0.5*elevationDeg
	}
	return 20 + 0.3*elevationDeg
}

// DetailedReceiver models a receive system from its hardware values.
// PolarizationLossDB is recorded on the chain but does not enter the
// BO.790 noise composition, which uses coupling and cable losses only.
type DetailedReceiver struct {
	AntennaDiameterM   float64
	AntennaEfficiency  float64 // aperture efficiency, 0..1
	LNBGainDB          float64
	LNBNoiseTempK      float64
	CouplingLossDB     float64
	CableLossDB        float64
	PolarizationLossDB float64
	MaxPointingErrDeg  float64
}

// AntennaGain derives the aperture gain at freqGHz.
func (r *DetailedReceiver) AntennaGain(freqGHz float64) float64 {
	d := math.Pi * r.AntennaDiameterM * freqGHz * 1e9 / speedOfLight
	return 10 * math.Log10(r.AntennaEfficiency*d*d)
}

// Beamwidth returns the 70λ/D half-power beamwidth in degrees.
func (r *DetailedReceiver) Beamwidth(freqGHz float64) float64 {
	return 70 * speedOfLight / (freqGHz * 1e9 * r.AntennaDiameterM)
}

// PointingLoss returns the worst-case depointing loss for the
// configured maximum pointing error.
func (r *DetailedReceiver) PointingLoss(freqGHz float64) float64 {
	ratio := r.MaxPointingErrDeg / r.Beamwidth(freqGHz)
	return 12 * ratio * ratio
}

func (r *DetailedReceiver) GroundTemperature(elevationDeg float64) float64 {
	return groundTemperatureForElevation(elevationDeg)
}

func (r *DetailedReceiver) SkyTemperature(freqGHz, elevationDeg float64) float64 {
	return skyTemperatureApprox(freqGHz, elevationDeg)
}

func (r *DetailedReceiver) AntennaDiameter() (float64, bool) {
	return r.AntennaDiameterM, true
}

func (r *DetailedReceiver) FigureOfMerit() (float64, bool) {
	return 0, false
}

func (r *DetailedReceiver) Chain() ReceiveChain {
	return ReceiveChain{
		CouplingLossDB:     r.CouplingLossDB,
		CableLossDB:        r.CableLossDB,
		PolarizationLossDB: r.PolarizationLossDB,
		LNBGainDB:          r.LNBGainDB,
		LNBNoiseTempK:      r.LNBNoiseTempK,
	}
}

// SimpleReceiver describes a terminal by its advertised figure of
// merit alone. Gain assumes a nominal 100 K system temperature and
// beamwidth assumes a 0.6 aperture efficiency, so both are rough
// estimates rather than inverses of the detailed model.
type SimpleReceiver struct {
	GTdBK           float64 // advertised G/T
	PointingLossDB  float64 // supplied depointing loss estimate
	RefFreqGHz      float64 // optional, informational
	RefElevationDeg float64 // optional, informational
}

// AntennaGain estimates gain as G/T + 10·log10(100 K).
func (r *SimpleReceiver) AntennaGain(freqGHz float64) float64 {
	return r.GTdBK + 20
}

// Beamwidth infers the dish size that would produce the estimated gain
// at 0.6 efficiency, then applies the 70λ/D rule.
func (r *SimpleReceiver) Beamwidth(freqGHz float64) float64 {
	wavelength := speedOfLight / (freqGHz * 1e9)
	gainLin := math.Pow(10, r.AntennaGain(freqGHz)/10)
	diameter := math.Sqrt(gainLin/0.6) * wavelength / math.Pi
	return 70 * wavelength / diameter
}

func (r *SimpleReceiver) PointingLoss(freqGHz float64) float64 {
	return r.PointingLossDB
}

func (r *SimpleReceiver) GroundTemperature(elevationDeg float64) float64 {
	return groundTemperatureForElevation(elevationDeg)
}

func (r *SimpleReceiver) SkyTemperature(freqGHz, elevationDeg float64) float64 {
	return skyTemperatureApprox(freqGHz, elevationDeg)
}

func (r *SimpleReceiver) AntennaDiameter() (float64, bool) {
	return 0, false
}

func (r *SimpleReceiver) FigureOfMerit() (float64, bool) {
	return r.GTdBK, true
}

func (r *SimpleReceiver) Chain() ReceiveChain {
	return ReceiveChain{}
}
