package core

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shiyongxin/SatLink/model"
)

var (
	// ErrNoGroundStation reports a geometry or budget request made
	// before a ground station was associated.
	ErrNoGroundStation = errors.New("no ground station associated with link")
	// ErrNoReceiver reports a budget request made before a receiver
	// was associated.
	ErrNoReceiver = errors.New("no receiver associated with link")
)

const (
	// DefaultExceedance is the finest exceedance probability modeled,
	// as a percentage of time.
	DefaultExceedance = 0.001
	// DefaultAntennaDiameterM substitutes in atmospheric calls when
	// the receiver exposes no physical dish. The diameter barely moves
	// rain attenuation across consumer dish sizes.
	DefaultAntennaDiameterM = 1.0
	// boltzmannDB is -10*log10 of Boltzmann's constant, the term that
	// turns EIRP - losses + G/T into a C/N0 density.
	boltzmannDB = 228.6
)

// Attenuation is the full per-probability loss breakdown in dB.
type Attenuation struct {
	FreeSpaceDB     float64
	PointingDB      float64
	GaseousDB       float64
	CloudDB         float64
	RainDB          float64
	ScintillationDB float64
	AtmosphericDB   float64 // gaseous+cloud+rain+scintillation combined
	TotalDB         float64 // free space + pointing + atmospheric
}

// linkDerived holds every probability-dependent quantity for one p.
type linkDerived struct {
	attenuation      Attenuation
	xpd              XPD
	antennaNoiseK    float64
	systemNoiseK     float64
	figureOfMerit    float64
	powerFluxDensity float64
	cn0              float64
	snr              float64
}

// Link is a single link-budget session over one satellite position,
// transponder and carrier, with a ground station and receiver attached
// after construction. Probability-dependent quantities are memoized
// per exceedance probability, so repeated getters at the same p never
// re-invoke the atmospheric model and a new p never reuses stale
// values.
//
// A Link is not safe for concurrent use; concurrent computations each
// build their own session over shared read-only component values.
type Link struct {
	position    model.SatellitePosition
	transponder model.Transponder
	carrier     model.Carrier

	station  *model.GroundStation
	receiver Receiver

	atmosphere AtmosphereModel
	modcods    *ModcodTable

	// AntennaDiameterM feeds the atmospheric model when the receiver
	// has no physical dish size.
	AntennaDiameterM float64

	derived map[float64]*linkDerived
}

// NewLink builds a session over immutable component values. The
// atmosphere model and modcod table are shared read-only
// collaborators.
func NewLink(pos model.SatellitePosition, tr model.Transponder, ca model.Carrier, atmosphere AtmosphereModel, modcods *ModcodTable) *Link {
	return &Link{
		position:         pos,
		transponder:      tr,
		carrier:          ca,
		atmosphere:       atmosphere,
		modcods:          modcods,
		AntennaDiameterM: DefaultAntennaDiameterM,
		derived:          make(map[float64]*linkDerived),
	}
}

// SetGroundStation associates the receive site and discards previously
// derived quantities.
func (l *Link) SetGroundStation(gs model.GroundStation) {
	l.station = &gs
	l.derived = make(map[float64]*linkDerived)
}

// SetReceiver associates the receive system and discards previously
// derived quantities.
func (l *Link) SetReceiver(r Receiver) {
	l.receiver = r
	l.derived = make(map[float64]*linkDerived)
}

// Elevation returns the look-angle elevation in degrees.
func (l *Link) Elevation() (float64, error) {
	if l.station == nil {
		return 0, ErrNoGroundStation
	}
	return Elevation(*l.station, l.position), nil
}

// Azimuth returns the compass bearing to the satellite in degrees.
func (l *Link) Azimuth() (float64, error) {
	if l.station == nil {
		return 0, ErrNoGroundStation
	}
	return Azimuth(*l.station, l.position), nil
}

// SlantRange returns the station-to-satellite distance in km.
func (l *Link) SlantRange() (float64, error) {
	if l.station == nil {
		return 0, ErrNoGroundStation
	}
	return SlantRange(*l.station, l.position), nil
}

// EffectiveEIRP returns the carrier's share of the transponder EIRP in
// dBW.
func (l *Link) EffectiveEIRP() float64 {
	return l.transponder.EffectiveEIRP(l.carrier.BandwidthMHz)
}

// SNRThreshold returns the demodulation threshold for the carrier's
// modulation and FEC.
func (l *Link) SNRThreshold() (float64, error) {
	params, err := l.modcods.LookupModulation(l.carrier.Modulation, l.carrier.FEC)
	if err != nil {
		return 0, err
	}
	return params.SNRThresholdDB, nil
}

// SymbolRate returns the carrier symbol rate in symbols/s.
func (l *Link) SymbolRate() float64 {
	return l.carrier.SymbolRate()
}

// Bitrate returns the carrier information rate in bit/s.
func (l *Link) Bitrate() (float64, error) {
	params, err := l.modcods.LookupModulation(l.carrier.Modulation, l.carrier.FEC)
	if err != nil {
		return 0, err
	}
	return l.carrier.Bitrate(params.SpectralEfficiency), nil
}

// derivedAt computes or returns the memo entry for p. A zero p means
// DefaultExceedance.
func (l *Link) derivedAt(ctx context.Context, p float64) (*linkDerived, error) {
	if l.station == nil {
		return nil, ErrNoGroundStation
	}
	if l.receiver == nil {
		return nil, ErrNoReceiver
	}
	if p == 0 {
		p = DefaultExceedance
	}
	if d, ok := l.derived[p]; ok {
		return d, nil
	}

	elevation := Elevation(*l.station, l.position)
	distanceKm := SlantRange(*l.station, l.position)
	freq := l.transponder.FrequencyGHz

	diameter := l.AntennaDiameterM
	if d, ok := l.receiver.AntennaDiameter(); ok {
		diameter = d
	}

	atm, err := l.atmosphere.SlantPath(ctx, l.station.LatitudeDeg, l.station.LongitudeDeg, freq, elevation, p, diameter)
	if err != nil {
		return nil, fmt.Errorf("atmospheric model at p=%v%%: %w", p, err)
	}

	pointing := l.receiver.PointingLoss(freq)
	att := Attenuation{
		FreeSpaceDB:     FreeSpacePathLoss(distanceKm, freq),
		PointingDB:      pointing,
		GaseousDB:       atm.GaseousDB,
		CloudDB:         atm.CloudDB,
		RainDB:          atm.RainDB,
		ScintillationDB: atm.ScintillationDB,
		AtmosphericDB:   atm.TotalDB,
	}
	att.TotalDB = att.FreeSpaceDB + att.PointingDB + att.AtmosphericDB

	sky := l.receiver.SkyTemperature(freq, elevation)
	ground := l.receiver.GroundTemperature(elevation)
	antennaNoise := antennaNoiseUnderRain(sky, ground, att.AtmosphericDB)
	chain := l.receiver.Chain()
	systemNoise := systemNoiseTemp(antennaNoise, chain)

	gt, supplied := l.receiver.FigureOfMerit()
	if !supplied {
		gt = figureOfMerit(l.receiver.AntennaGain(freq), pointing, antennaNoise, systemNoise, chain)
	}

	eirp := l.EffectiveEIRP()
	distanceM := distanceKm * 1000
	pfd := 10 * math.Log10(math.Pow(10, (eirp-att.AtmosphericDB)/10)/(4*math.Pi*distanceM*distanceM))

	cn0 := eirp - att.TotalDB + gt + boltzmannDB
	snr := cn0 - 10*math.Log10(l.carrier.UtilizedBandwidthHz())

	d := &linkDerived{
		attenuation:      att,
		xpd:              crossPolDiscrimination(freq, elevation, atm.RainDB, p),
		antennaNoiseK:    antennaNoise,
		systemNoiseK:     systemNoise,
		figureOfMerit:    gt,
		powerFluxDensity: pfd,
		cn0:              cn0,
		snr:              snr,
	}
	l.derived[p] = d
	return d, nil
}

// Attenuation returns the loss breakdown at exceedance probability p.
func (l *Link) Attenuation(ctx context.Context, p float64) (Attenuation, error) {
	d, err := l.derivedAt(ctx, p)
	if err != nil {
		return Attenuation{}, err
	}
	return d.attenuation, nil
}

// CrossPolDiscrimination returns the rain depolarization figures at p.
func (l *Link) CrossPolDiscrimination(ctx context.Context, p float64) (XPD, error) {
	d, err := l.derivedAt(ctx, p)
	if err != nil {
		return XPD{}, err
	}
	return d.xpd, nil
}

// AntennaNoiseTemp returns the rain-degraded antenna noise in K at p.
func (l *Link) AntennaNoiseTemp(ctx context.Context, p float64) (float64, error) {
	d, err := l.derivedAt(ctx, p)
	if err != nil {
		return 0, err
	}
	return d.antennaNoiseK, nil
}

// SystemNoiseTemp returns the system noise temperature in K at p.
func (l *Link) SystemNoiseTemp(ctx context.Context, p float64) (float64, error) {
	d, err := l.derivedAt(ctx, p)
	if err != nil {
		return 0, err
	}
	return d.systemNoiseK, nil
}

// FigureOfMerit returns G/T in dB/K at p. For a SimpleReceiver this is
// the supplied value independent of p.
func (l *Link) FigureOfMerit(ctx context.Context, p float64) (float64, error) {
	d, err := l.derivedAt(ctx, p)
	if err != nil {
		return 0, err
	}
	return d.figureOfMerit, nil
}

// PowerFluxDensity returns the flux at the site in dBW/m² at p.
func (l *Link) PowerFluxDensity(ctx context.Context, p float64) (float64, error) {
	d, err := l.derivedAt(ctx, p)
	if err != nil {
		return 0, err
	}
	return d.powerFluxDensity, nil
}

// CarrierToNoiseDensity returns C/N0 in dB-Hz at p.
func (l *Link) CarrierToNoiseDensity(ctx context.Context, p float64) (float64, error) {
	d, err := l.derivedAt(ctx, p)
	if err != nil {
		return 0, err
	}
	return d.cn0, nil
}

// SNR returns the signal-to-noise ratio in dB at p.
func (l *Link) SNR(ctx context.Context, p float64) (float64, error) {
	d, err := l.derivedAt(ctx, p)
	if err != nil {
		return 0, err
	}
	return d.snr, nil
}
