package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LinkCollector bundles Prometheus metrics for the link-budget
// calculation pipeline and exposes a ready-made /metrics handler.
type LinkCollector struct {
	gatherer prometheus.Gatherer

	Calculations        *prometheus.CounterVec
	CalculationDuration prometheus.Histogram
	SolverIterations    prometheus.Histogram
	AtmosphereCalls     prometheus.Counter

	StoreSatellites   prometheus.Gauge
	StoreTransponders prometheus.Gauge
	StoreCarriers     prometheus.Gauge
	StoreStations     prometheus.Gauge
	StoreReceivers    prometheus.Gauge
	StoreCalculations prometheus.Gauge
}

// NewLinkCollector registers the calculation metrics against the
// provided registerer, defaulting to the global Prometheus registry
// when nil.
func NewLinkCollector(reg prometheus.Registerer) (*LinkCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "satlink_calculations_total",
		Help: "Total number of link calculations, labeled by outcome.",
	}, []string{"outcome"})
	calculations, err := registerCounterVec(reg, calculations, "satlink_calculations_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "satlink_calculation_duration_seconds",
		Help:    "End-to-end link calculation latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}), "satlink_calculation_duration_seconds")
	if err != nil {
		return nil, err
	}

	iterations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "satlink_solver_iterations",
		Help:    "SNR evaluations the availability solver spent converging.",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 50, 100, 500, 1000, 5000},
	}), "satlink_solver_iterations")
	if err != nil {
		return nil, err
	}

	atmosphere, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "satlink_atmosphere_calls_total",
		Help: "Total invocations of the slant-path atmospheric model.",
	}), "satlink_atmosphere_calls_total")
	if err != nil {
		return nil, err
	}

	gauges := make([]prometheus.Gauge, 0, 6)
	for _, g := range []struct {
		name, help string
	}{
		{"satlink_store_satellites", "Current number of satellite positions in the store."},
		{"satlink_store_transponders", "Current number of transponders in the store."},
		{"satlink_store_carriers", "Current number of carriers in the store."},
		{"satlink_store_ground_stations", "Current number of ground stations in the store."},
		{"satlink_store_receivers", "Current number of receivers (both shapes) in the store."},
		{"satlink_store_calculations", "Current number of persisted calculation records."},
	} {
		gauge, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: g.name, Help: g.help}), g.name)
		if err != nil {
			return nil, err
		}
		gauges = append(gauges, gauge)
	}

	return &LinkCollector{
		gatherer:            gatherer,
		Calculations:        calculations,
		CalculationDuration: duration,
		SolverIterations:    iterations,
		AtmosphereCalls:     atmosphere,
		StoreSatellites:     gauges[0],
		StoreTransponders:   gauges[1],
		StoreCarriers:       gauges[2],
		StoreStations:       gauges[3],
		StoreReceivers:      gauges[4],
		StoreCalculations:   gauges[5],
	}, nil
}

// ObserveCalculation records one finished calculation: its outcome
// label, wall time, and how many SNR evaluations the solver used.
func (c *LinkCollector) ObserveCalculation(outcome string, elapsed time.Duration, solverIterations int) {
	if c == nil {
		return
	}
	if c.Calculations != nil {
		c.Calculations.WithLabelValues(outcome).Inc()
	}
	if c.CalculationDuration != nil {
		c.CalculationDuration.Observe(elapsed.Seconds())
	}
	if c.SolverIterations != nil && solverIterations > 0 {
		c.SolverIterations.Observe(float64(solverIterations))
	}
}

// IncAtmosphereCalls counts one slant-path model invocation.
func (c *LinkCollector) IncAtmosphereCalls() {
	if c == nil || c.AtmosphereCalls == nil {
		return
	}
	c.AtmosphereCalls.Inc()
}

// SetComponentCounts satisfies store.MetricsRecorder so the store can
// drive the gauges directly from its mutators.
func (c *LinkCollector) SetComponentCounts(satellites, transponders, carriers, stations, receivers, calculations int) {
	if c == nil {
		return
	}
	set := func(g prometheus.Gauge, v int) {
		if g != nil {
			g.Set(float64(v))
		}
	}
	set(c.StoreSatellites, satellites)
	set(c.StoreTransponders, transponders)
	set(c.StoreCarriers, carriers)
	set(c.StoreStations, stations)
	set(c.StoreReceivers, receivers)
	set(c.StoreCalculations, calculations)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *LinkCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
