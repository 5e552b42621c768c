// Package atmosphere provides the built-in slant-path attenuation
// model: a simplified composition of the ITU-R P.676 gaseous, P.840
// cloud, P.618/P.838 rain, and P.618 scintillation models. It is
// deterministic and monotonically non-increasing in the exceedance
// probability, which is all the link engine's solver relies on.
package atmosphere

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shiyongxin/SatLink/core"
)

// ErrCoverage reports coordinates outside the model's geographic
// domain.
var ErrCoverage = errors.New("coordinates outside atmospheric model coverage")

// Config sets the site climate parameters the ITU maps would normally
// supply. The zero value is a temperate mid-latitude site at sea level.
type Config struct {
	// RainRate001 is the point rain rate exceeded 0.01% of an average
	// year, in mm/h. Zero picks a latitude-dependent default.
	RainRate001 float64
	// SurfaceTempK is the mean surface temperature. Zero means 288.15.
	SurfaceTempK float64
	// SurfacePressureHPa is the surface pressure. Zero means 1013.25.
	SurfacePressureHPa float64
	// WaterVapourDensity is the surface water vapour density in g/m³.
	// Zero means 7.5.
	WaterVapourDensity float64
	// CloudLiquidWater is the columnar cloud liquid water exceeded 1%
	// of the year, in kg/m². Zero means 1.0.
	CloudLiquidWater float64
	// StationHeightKm is the station altitude above mean sea level.
	StationHeightKm float64
}

// Model is the built-in core.AtmosphereModel implementation.
type Model struct {
	cfg Config
}

// NewModel builds a model, filling zero config fields with the
// temperate-site defaults.
func NewModel(cfg Config) *Model {
	if cfg.SurfaceTempK == 0 {
		cfg.SurfaceTempK = 288.15
	}
	if cfg.SurfacePressureHPa == 0 {
		cfg.SurfacePressureHPa = 1013.25
	}
	if cfg.WaterVapourDensity == 0 {
		cfg.WaterVapourDensity = 7.5
	}
	if cfg.CloudLiquidWater == 0 {
		cfg.CloudLiquidWater = 1.0
	}
	return &Model{cfg: cfg}
}

// SlantPath implements core.AtmosphereModel.
func (m *Model) SlantPath(_ context.Context, latDeg, longDeg, freqGHz, elevationDeg, p, antennaDiameterM float64) (core.AttenuationBreakdown, error) {
	if latDeg < -90 || latDeg > 90 || longDeg < -180 || longDeg > 180 {
		return core.AttenuationBreakdown{}, fmt.Errorf("%w: lat=%v long=%v", ErrCoverage, latDeg, longDeg)
	}
	if elevationDeg <= 0 || elevationDeg > 90 {
		return core.AttenuationBreakdown{}, fmt.Errorf("slant path needs elevation in (0, 90], got %v", elevationDeg)
	}
	if p <= 0 || p >= 100 {
		return core.AttenuationBreakdown{}, fmt.Errorf("exceedance probability must be in (0, 100), got %v", p)
	}
	if freqGHz <= 0 {
		return core.AttenuationBreakdown{}, fmt.Errorf("frequency must be positive, got %v GHz", freqGHz)
	}

	sinE := math.Sin(elevationDeg * math.Pi / 180)

	b := core.AttenuationBreakdown{
		GaseousDB:       m.gaseous(freqGHz) / sinE,
		CloudDB:         m.cloud(freqGHz, p) / sinE,
		RainDB:          m.rain(latDeg, freqGHz, elevationDeg, p),
		ScintillationDB: m.scintillation(freqGHz, elevationDeg, p, antennaDiameterM),
	}
	// P.618 combination: gases add directly, rain and cloud correlate,
	// scintillation adds in quadrature.
	b.TotalDB = b.GaseousDB + math.Sqrt((b.RainDB+b.CloudDB)*(b.RainDB+b.CloudDB)+b.ScintillationDB*b.ScintillationDB)
	return b, nil
}

// gaseous returns the zenith gaseous attenuation in dB following the
// simplified P.676 oxygen and water-vapour terms.
func (m *Model) gaseous(freqGHz float64) float64 {
	f := freqGHz
	theta := 300.0 / m.cfg.SurfaceTempK
	e := m.cfg.WaterVapourDensity * m.cfg.SurfaceTempK / 216.7
	rp := m.cfg.SurfacePressureHPa / 1013.25

	// Oxygen: the non-resonant term plus the wings of the 60 GHz
	// complex, valid well away from the resonance itself.
	gammaO := (7.2*math.Pow(rp, 2)*math.Pow(theta, 2)/(f*f+0.34*rp*rp*math.Pow(theta, 2)) +
		0.62/(math.Pow(54-f, 1.16)+0.83)) * f * f * 1e-3

	// Water vapour: 22.235 GHz line plus continuum.
	gamma22 := 0.1 * e * math.Pow(theta, 2.5)
	line22 := gamma22 / ((f-22.235)*(f-22.235) + gamma22*gamma22)
	gammaW := (0.05 + 0.0021*e + 3.6*line22) * e * f * f * math.Pow(theta, 2.5) * 1e-4

	// Equivalent heights: ~6 km for dry air, ~2 km for water vapour.
	return gammaO*6.0 + gammaW*2.0
}

// cloud returns the zenith cloud attenuation in dB per P.840, scaling
// the 1%-exceeded columnar liquid water down as p grows.
func (m *Model) cloud(freqGHz, p float64) float64 {
	// Specific attenuation coefficient for cloud liquid at ~0 °C,
	// Rayleigh regime.
	kl := 0.0819 * freqGHz / (5.285 + freqGHz*freqGHz/185)
	liquid := m.cfg.CloudLiquidWater * cloudProbabilityScale(p)
	return kl * liquid
}

// cloudProbabilityScale maps exceedance probability to a liquid-water
// scale factor, pinned to 1 at p=1% and decaying toward high p.
func cloudProbabilityScale(p float64) float64 {
	s := 1 - 0.45*math.Log10(p)
	if s < 0.1 {
		return 0.1
	}
	return s
}

// rain returns the slant-path rain attenuation in dB per the P.618
// method with P.838 specific-attenuation coefficients.
func (m *Model) rain(latDeg, freqGHz, elevationDeg, p float64) float64 {
	r001 := m.cfg.RainRate001
	if r001 == 0 {
		r001 = defaultRainRate001(latDeg)
	}

	k, alpha := rainCoefficients(freqGHz)
	gammaR := k * math.Pow(r001, alpha)

	// Rain height and slant length through rain.
	absLat := math.Abs(latDeg)
	hr := 5.0
	if absLat > 23 {
		hr = 5.0 - 0.075*(absLat-23)
	}
	if hr <= m.cfg.StationHeightKm {
		return 0
	}
	sinE := math.Sin(elevationDeg * math.Pi / 180)
	ls := (hr - m.cfg.StationHeightKm) / sinE

	// Horizontal reduction for the 0.01% slant path.
	lg := ls * math.Cos(elevationDeg*math.Pi/180)
	r001factor := 1 / (1 + lg*gammaR/(35*math.Exp(-0.015*r001)))
	a001 := gammaR * ls * r001factor

	// Scale from 0.01% to the requested exceedance probability
	// (P.618 annual scaling; monotone decreasing in p).
	scale := 0.12 * math.Pow(p, -(0.546+0.043*math.Log10(p)))
	return a001 * scale
}

// defaultRainRate001 is a coarse two-zone stand-in for the P.837 rain
// maps: tropical sites see heavier point rain rates.
func defaultRainRate001(latDeg float64) float64 {
	if math.Abs(latDeg) < 30 {
		return 60
	}
	return 30
}

// P.838 regression coefficients for horizontal polarization: each row
// is (amplitude, center, width) of a Gaussian term in log-frequency.
var (
	rainKTerms = [][3]float64{
		{-5.33980, -0.10008, 1.13098},
		{-0.35351, 1.26970, 0.45400},
		{-0.23789, 0.86036, 0.15354},
		{-0.94158, 0.64552, 0.16817},
	}
	rainKShift = 0.71147 // log-k offset
	rainKSlope = -0.18961

	rainAlphaTerms = [][3]float64{
		{-0.14318, 1.82442, -0.55187},
		{0.29591, 0.77564, 0.19822},
		{0.32177, 0.63773, 0.13164},
		{-5.37610, -0.96230, 1.47828},
		{16.1721, -3.29980, 3.43990},
	}
	rainAlphaShift = -1.95537
	rainAlphaSlope = 0.67849
)

// rainCoefficients evaluates the P.838 k and alpha regressions at
// freqGHz for horizontal polarization.
func rainCoefficients(freqGHz float64) (k, alpha float64) {
	logF := math.Log10(freqGHz)

	logK := rainKSlope*logF + rainKShift
	for _, t := range rainKTerms {
		d := (logF - t[1]) / t[2]
		logK += t[0] * math.Exp(-d*d)
	}
	k = math.Pow(10, logK)

	alpha = rainAlphaSlope*logF + rainAlphaShift
	for _, t := range rainAlphaTerms {
		d := (logF - t[1]) / t[2]
		alpha += t[0] * math.Exp(-d*d)
	}
	return k, alpha
}

// scintillation returns the tropospheric scintillation fade depth in
// dB per the P.618 method, with aperture averaging over the antenna
// diameter.
func (m *Model) scintillation(freqGHz, elevationDeg, p, antennaDiameterM float64) float64 {
	if antennaDiameterM <= 0 {
		antennaDiameterM = 1
	}
	sinE := math.Sin(elevationDeg * math.Pi / 180)

	// Reference signal standard deviation from wet-term climatology;
	// a fixed Nwet for the simplified model.
	const nWet = 42.5
	sigmaRef := 3.6e-3 + 1e-4*nWet

	// Effective turbulence path and aperture averaging.
	const hl = 1000.0 // turbulence layer height, m
	l := 2 * hl / (math.Sqrt(sinE*sinE+2.35e-4) + sinE)
	x := 1.22 * antennaDiameterM * antennaDiameterM * freqGHz / l
	if x >= 7.0 {
		// Fully averaged; no scintillation fade left.
		return 0
	}
	g := math.Sqrt(3.86*math.Pow(x*x+1, 11.0/12)*math.Sin(11.0/6*math.Atan(1/x)) - 7.08*math.Pow(x, 5.0/6))

	sigma := sigmaRef * math.Pow(freqGHz, 7.0/12) * g / math.Pow(sinE, 1.2)

	// Time-percentage factor, clamped to the validated 0.01..50 range.
	pc := math.Min(math.Max(p, 0.01), 50)
	logP := math.Log10(pc)
	aP := -0.061*logP*logP*logP + 0.072*logP*logP - 1.71*logP + 3
	if aP < 0 {
		return 0
	}
	return aP * sigma
}
