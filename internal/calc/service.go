// Package calc implements the calculation request contract: it
// resolves components from the store, drives a link session through
// the full budget, and persists the derived results.
package calc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/shiyongxin/SatLink/core"
	"github.com/shiyongxin/SatLink/internal/logging"
	"github.com/shiyongxin/SatLink/internal/observability"
	"github.com/shiyongxin/SatLink/store"
)

const tracerName = "github.com/shiyongxin/SatLink/internal/calc"

// ReceiverRef names one of the two receiver shapes in the store.
type ReceiverRef struct {
	Kind string // "detailed" | "simple"
	ID   string
}

// Request identifies the calculation inputs and solver tuning.
type Request struct {
	SatelliteID     string
	TransponderID   string
	CarrierID       string
	GroundStationID string
	Receiver        ReceiverRef

	// Requester scopes component visibility and owns the persisted
	// record.
	Requester string

	MarginDB     float64
	RelaxationDB float64
	// P is the exceedance probability the point results are reported
	// at; zero means 0.001%.
	P float64
	// LegacySolver switches the availability search to the preserved
	// adaptive-step heuristic.
	LegacySolver bool
}

// Result carries every derived output of one link calculation.
type Result struct {
	RecordID string

	ElevationDeg float64
	AzimuthDeg   float64
	DistanceKm   float64

	Attenuation core.Attenuation
	XPD         core.XPD

	AntennaNoiseK   float64
	SystemNoiseK    float64
	FigureOfMeritDB float64
	PFDdBWm2        float64

	CN0dBHz        float64
	SNRdB          float64
	SNRThresholdDB float64
	LinkMarginDB   float64

	Availability     float64
	WorstMonthAvail  float64
	SolverIterations int

	SymbolRateBd float64
	BitrateBps   float64

	Warnings []string
}

// Service wires the store, the atmospheric model, and the MODCOD table
// into the compute_link operation.
type Service struct {
	store      *store.Store
	atmosphere core.AtmosphereModel
	modcods    *core.ModcodTable
	log        logging.Logger
	metrics    *observability.LinkCollector
}

// NewService builds a calculation service. Logger and metrics may be
// nil.
func NewService(st *store.Store, atm core.AtmosphereModel, modcods *core.ModcodTable, log logging.Logger, metrics *observability.LinkCollector) *Service {
	if log == nil {
		log = logging.Noop()
	}
	return &Service{store: st, atmosphere: atm, modcods: modcods, log: log, metrics: metrics}
}

// countingAtmosphere feeds the atmosphere-call counter without the
// engine knowing about metrics.
type countingAtmosphere struct {
	inner   core.AtmosphereModel
	metrics *observability.LinkCollector
}

func (c countingAtmosphere) SlantPath(ctx context.Context, lat, lon, freq, elev, p, diam float64) (core.AttenuationBreakdown, error) {
	c.metrics.IncAtmosphereCalls()
	return c.inner.SlantPath(ctx, lat, lon, freq, elev, p, diam)
}

// ComputeLink resolves the request's components, runs the full link
// budget, persists a calculation record, and returns the results.
func (s *Service) ComputeLink(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	ctx, reqLog := logging.WithRequestLogger(ctx, s.log)
	reqLog = reqLog.With(
		logging.String("operation", "compute_link"),
		logging.String("satellite_id", req.SatelliteID),
		logging.String("ground_station_id", req.GroundStationID),
	)
	ctx = logging.ContextWithLogger(ctx, reqLog)

	res, solverIters, err := s.computeLink(ctx, req)
	outcome := Classify(err)
	if s.metrics != nil {
		s.metrics.ObserveCalculation(outcome, time.Since(start), solverIters)
	}

	if err != nil {
		reqLog.Warn(ctx, "link calculation failed",
			logging.String("outcome", outcome),
			logging.Err(err),
		)
		return Result{}, err
	}

	reqLog.Info(ctx, "link calculation finished",
		logging.String("record_id", res.RecordID),
		logging.Float64("snr_db", res.SNRdB),
		logging.Float64("availability", res.Availability),
	)
	return res, nil
}

// GetCalculation returns a previously persisted calculation visible to
// the requester.
func (s *Service) GetCalculation(id, requester string) (Result, error) {
	rec, err := s.store.GetCalculation(id, requester)
	if err != nil {
		return Result{}, err
	}
	return recordToResult(rec), nil
}

func (s *Service) computeLink(ctx context.Context, req Request) (Result, int, error) {
	reqLog := logging.LoggerFromContext(ctx)
	if reqLog == nil {
		reqLog = s.log
	}

	if err := ValidateRequest(req); err != nil {
		return Result{}, 0, err
	}

	ctx, span := startSpan(ctx, "calc/compute_link",
		attribute.String("satellite_id", req.SatelliteID),
		attribute.String("ground_station_id", req.GroundStationID),
	)
	defer span.End()

	link, receiverDesc, err := s.resolve(ctx, req)
	if err != nil {
		span.RecordError(err)
		return Result{}, 0, err
	}

	p := req.P
	if p == 0 {
		p = core.DefaultExceedance
	}

	res := Result{}
	if res.ElevationDeg, err = link.Elevation(); err != nil {
		return Result{}, 0, err
	}
	if res.ElevationDeg <= 0 {
		return Result{}, 0, fmt.Errorf("%w: satellite is below the horizon (elevation %.2f°)", ErrInvalidRequest, res.ElevationDeg)
	}
	if res.AzimuthDeg, err = link.Azimuth(); err != nil {
		return Result{}, 0, err
	}
	if res.DistanceKm, err = link.SlantRange(); err != nil {
		return Result{}, 0, err
	}

	if res.Attenuation, err = link.Attenuation(ctx, p); err != nil {
		span.RecordError(err)
		return Result{}, 0, err
	}
	if res.XPD, err = link.CrossPolDiscrimination(ctx, p); err != nil {
		return Result{}, 0, err
	}
	for _, w := range res.XPD.Warnings {
		reqLog.Warn(ctx, "model validity warning", logging.String("warning", w))
	}
	res.Warnings = res.XPD.Warnings

	if res.AntennaNoiseK, err = link.AntennaNoiseTemp(ctx, p); err != nil {
		return Result{}, 0, err
	}
	if res.SystemNoiseK, err = link.SystemNoiseTemp(ctx, p); err != nil {
		return Result{}, 0, err
	}
	if res.FigureOfMeritDB, err = link.FigureOfMerit(ctx, p); err != nil {
		return Result{}, 0, err
	}
	if res.PFDdBWm2, err = link.PowerFluxDensity(ctx, p); err != nil {
		return Result{}, 0, err
	}
	if res.CN0dBHz, err = link.CarrierToNoiseDensity(ctx, p); err != nil {
		return Result{}, 0, err
	}
	if res.SNRdB, err = link.SNR(ctx, p); err != nil {
		return Result{}, 0, err
	}
	if res.SNRThresholdDB, err = link.SNRThreshold(); err != nil {
		return Result{}, 0, err
	}
	res.LinkMarginDB = res.SNRdB - res.SNRThresholdDB

	res.SymbolRateBd = link.SymbolRate()
	if res.BitrateBps, err = link.Bitrate(); err != nil {
		return Result{}, 0, err
	}

	solved, err := link.Availability(ctx, core.SolverConfig{
		MarginDB:     req.MarginDB,
		RelaxationDB: req.RelaxationDB,
		Legacy:       req.LegacySolver,
	})
	if err != nil {
		span.RecordError(err)
		return Result{}, solved.Iterations, err
	}
	res.Availability = solved.Availability
	res.WorstMonthAvail = core.WorstMonthAvailability(solved.Availability)
	res.SolverIterations = solved.Iterations

	recordID, err := s.store.PutCalculation(buildRecord(req, receiverDesc, p, res))
	if err != nil {
		span.RecordError(err)
		return Result{}, solved.Iterations, fmt.Errorf("persisting calculation: %w", err)
	}
	res.RecordID = recordID

	span.SetAttributes(
		attribute.Float64("snr_db", res.SNRdB),
		attribute.Float64("availability", res.Availability),
		attribute.Int("solver_iterations", res.SolverIterations),
	)
	return res, solved.Iterations, nil
}

// resolve fetches every referenced component, honoring visibility, and
// assembles a fresh link session.
func (s *Service) resolve(ctx context.Context, req Request) (*core.Link, ReceiverRef, error) {
	_, span := startSpan(ctx, "calc/resolve")
	defer span.End()

	sat, err := s.store.GetSatellite(req.SatelliteID, req.Requester)
	if err != nil {
		return nil, ReceiverRef{}, err
	}
	tr, err := s.store.GetTransponder(req.TransponderID, req.Requester)
	if err != nil {
		return nil, ReceiverRef{}, err
	}
	car, err := s.store.GetCarrier(req.CarrierID, req.Requester)
	if err != nil {
		return nil, ReceiverRef{}, err
	}
	gs, err := s.store.GetGroundStation(req.GroundStationID, req.Requester)
	if err != nil {
		return nil, ReceiverRef{}, err
	}

	var receiver core.Receiver
	switch req.Receiver.Kind {
	case ReceiverDetailed:
		rec, err := s.store.GetDetailedReceiver(req.Receiver.ID, req.Requester)
		if err != nil {
			return nil, ReceiverRef{}, err
		}
		hw := rec.Receiver
		receiver = &hw
	case ReceiverSimple:
		rec, err := s.store.GetSimpleReceiver(req.Receiver.ID, req.Requester)
		if err != nil {
			return nil, ReceiverRef{}, err
		}
		gt := rec.Receiver
		receiver = &gt
	}

	atm := s.atmosphere
	if s.metrics != nil {
		atm = countingAtmosphere{inner: s.atmosphere, metrics: s.metrics}
	}

	link := core.NewLink(sat.Position, tr.Transponder, car.Carrier, atm, s.modcods)
	link.SetGroundStation(gs.Station)
	link.SetReceiver(receiver)
	return link, req.Receiver, nil
}

// startSpan starts a child span for a calculation stage.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
