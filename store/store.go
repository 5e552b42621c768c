// Package store is the in-memory reference implementation of the
// component-persistence contract: satellites, transponders, carriers,
// ground stations, the two receiver shapes, and computed link
// calculation records, each keyed by an opaque ID and tagged with an
// owner and a visibility flag.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shiyongxin/SatLink/core"
	"github.com/shiyongxin/SatLink/model"
)

var (
	ErrSatelliteNotFound     = errors.New("satellite not found")
	ErrTransponderNotFound   = errors.New("transponder not found")
	ErrCarrierNotFound       = errors.New("carrier not found")
	ErrGroundStationNotFound = errors.New("ground station not found")
	ErrReceiverNotFound      = errors.New("receiver not found")
	ErrCalculationNotFound   = errors.New("calculation not found")
	ErrExists                = errors.New("already exists")
	ErrEmptyID               = errors.New("empty ID")
)

// Metadata tags every stored component with identity, ownership and
// visibility.
type Metadata struct {
	ID        string
	Name      string
	Owner     string
	Public    bool
	CreatedAt time.Time
}

// visibleTo reports whether the component can be read by requester.
// Public components are visible to everyone; private ones only to
// their owner. An empty owner means unowned and readable.
func (m Metadata) visibleTo(requester string) bool {
	return m.Public || m.Owner == "" || m.Owner == requester
}

// Satellite pairs metadata with an orbital position.
type Satellite struct {
	Metadata
	Position model.SatellitePosition
}

// Transponder pairs metadata with transponder RF characteristics.
type Transponder struct {
	Metadata
	Transponder model.Transponder
}

// Carrier pairs metadata with a carrier definition.
type Carrier struct {
	Metadata
	Carrier model.Carrier
}

// GroundStation pairs metadata with a receive site.
type GroundStation struct {
	Metadata
	Station model.GroundStation
}

// DetailedReceiver pairs metadata with a hardware receiver description.
type DetailedReceiver struct {
	Metadata
	Receiver core.DetailedReceiver
}

// SimpleReceiver pairs metadata with a figure-of-merit receiver
// description.
type SimpleReceiver struct {
	Metadata
	Receiver core.SimpleReceiver
}

// CalculationRecord persists one computed link budget: the input
// references and every derived output.
type CalculationRecord struct {
	Metadata

	SatelliteID     string
	TransponderID   string
	CarrierID       string
	GroundStationID string
	ReceiverKind    string
	ReceiverID      string
	MarginDB        float64
	RelaxationDB    float64
	ExceedanceP     float64

	ElevationDeg    float64
	AzimuthDeg      float64
	DistanceKm      float64
	Attenuation     core.Attenuation
	XPD             core.XPD
	AntennaNoiseK   float64
	SystemNoiseK    float64
	FigureOfMeritDB float64
	PFDdBWm2        float64
	CN0dBHz         float64
	SNRdB           float64
	SNRThresholdDB  float64
	LinkMarginDB    float64
	Availability    float64
	WorstMonthAvail float64
	Warnings        []string
}

// MetricsRecorder receives component-count updates after every
// mutation; the observability collector implements it to drive gauges.
type MetricsRecorder interface {
	SetComponentCounts(satellites, transponders, carriers, stations, receivers, calculations int)
}

// Store is a concurrency-safe in-memory component store.
type Store struct {
	mu sync.RWMutex

	satellites   map[string]Satellite
	transponders map[string]Transponder
	carriers     map[string]Carrier
	stations     map[string]GroundStation
	detailed     map[string]DetailedReceiver
	simple       map[string]SimpleReceiver
	calculations map[string]CalculationRecord

	metrics MetricsRecorder
}

// Option configures a Store at construction.
type Option func(*Store)

// WithMetricsRecorder wires gauge updates into the store's mutators.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Store) { s.metrics = m }
}

// New constructs an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		satellites:   make(map[string]Satellite),
		transponders: make(map[string]Transponder),
		carriers:     make(map[string]Carrier),
		stations:     make(map[string]GroundStation),
		detailed:     make(map[string]DetailedReceiver),
		simple:       make(map[string]SimpleReceiver),
		calculations: make(map[string]CalculationRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// recordCounts pushes current sizes to the metrics recorder. Callers
// hold the write lock.
func (s *Store) recordCounts() {
	if s.metrics == nil {
		return
	}
	s.metrics.SetComponentCounts(
		len(s.satellites),
		len(s.transponders),
		len(s.carriers),
		len(s.stations),
		len(s.detailed)+len(s.simple),
		len(s.calculations),
	)
}

func stampMetadata(m *Metadata) error {
	if m.ID == "" {
		return ErrEmptyID
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return nil
}

// PutSatellite stores a satellite definition.
func (s *Store) PutSatellite(sat Satellite) error {
	if err := stampMetadata(&sat.Metadata); err != nil {
		return fmt.Errorf("satellite: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.satellites[sat.ID]; ok {
		return fmt.Errorf("satellite %q: %w", sat.ID, ErrExists)
	}
	s.satellites[sat.ID] = sat
	s.recordCounts()
	return nil
}

// GetSatellite fetches a satellite visible to requester.
func (s *Store) GetSatellite(id, requester string) (Satellite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sat, ok := s.satellites[id]
	if !ok || !sat.visibleTo(requester) {
		return Satellite{}, fmt.Errorf("%w: %q", ErrSatelliteNotFound, id)
	}
	return sat, nil
}

// PutTransponder stores a transponder definition.
func (s *Store) PutTransponder(tr Transponder) error {
	if err := stampMetadata(&tr.Metadata); err != nil {
		return fmt.Errorf("transponder: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transponders[tr.ID]; ok {
		return fmt.Errorf("transponder %q: %w", tr.ID, ErrExists)
	}
	s.transponders[tr.ID] = tr
	s.recordCounts()
	return nil
}

// GetTransponder fetches a transponder visible to requester.
func (s *Store) GetTransponder(id, requester string) (Transponder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tr, ok := s.transponders[id]
	if !ok || !tr.visibleTo(requester) {
		return Transponder{}, fmt.Errorf("%w: %q", ErrTransponderNotFound, id)
	}
	return tr, nil
}

// PutCarrier stores a carrier definition.
func (s *Store) PutCarrier(c Carrier) error {
	if err := stampMetadata(&c.Metadata); err != nil {
		return fmt.Errorf("carrier: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carriers[c.ID]; ok {
		return fmt.Errorf("carrier %q: %w", c.ID, ErrExists)
	}
	s.carriers[c.ID] = c
	s.recordCounts()
	return nil
}

// GetCarrier fetches a carrier visible to requester.
func (s *Store) GetCarrier(id, requester string) (Carrier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carriers[id]
	if !ok || !c.visibleTo(requester) {
		return Carrier{}, fmt.Errorf("%w: %q", ErrCarrierNotFound, id)
	}
	return c, nil
}

// PutGroundStation stores a ground station.
func (s *Store) PutGroundStation(gs GroundStation) error {
	if err := stampMetadata(&gs.Metadata); err != nil {
		return fmt.Errorf("ground station: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stations[gs.ID]; ok {
		return fmt.Errorf("ground station %q: %w", gs.ID, ErrExists)
	}
	s.stations[gs.ID] = gs
	s.recordCounts()
	return nil
}

// GetGroundStation fetches a ground station visible to requester.
func (s *Store) GetGroundStation(id, requester string) (GroundStation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gs, ok := s.stations[id]
	if !ok || !gs.visibleTo(requester) {
		return GroundStation{}, fmt.Errorf("%w: %q", ErrGroundStationNotFound, id)
	}
	return gs, nil
}

// ListGroundStations returns every station visible to requester.
func (s *Store) ListGroundStations(requester string) []GroundStation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]GroundStation, 0, len(s.stations))
	for _, gs := range s.stations {
		if gs.visibleTo(requester) {
			out = append(out, gs)
		}
	}
	return out
}

// PutDetailedReceiver stores a hardware receiver description.
func (s *Store) PutDetailedReceiver(r DetailedReceiver) error {
	if err := stampMetadata(&r.Metadata); err != nil {
		return fmt.Errorf("receiver: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.detailed[r.ID]; ok {
		return fmt.Errorf("receiver %q: %w", r.ID, ErrExists)
	}
	s.detailed[r.ID] = r
	s.recordCounts()
	return nil
}

// GetDetailedReceiver fetches a hardware receiver visible to requester.
func (s *Store) GetDetailedReceiver(id, requester string) (DetailedReceiver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.detailed[id]
	if !ok || !r.visibleTo(requester) {
		return DetailedReceiver{}, fmt.Errorf("%w: %q", ErrReceiverNotFound, id)
	}
	return r, nil
}

// PutSimpleReceiver stores a figure-of-merit receiver description.
func (s *Store) PutSimpleReceiver(r SimpleReceiver) error {
	if err := stampMetadata(&r.Metadata); err != nil {
		return fmt.Errorf("receiver: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.simple[r.ID]; ok {
		return fmt.Errorf("receiver %q: %w", r.ID, ErrExists)
	}
	s.simple[r.ID] = r
	s.recordCounts()
	return nil
}

// GetSimpleReceiver fetches a figure-of-merit receiver visible to
// requester.
func (s *Store) GetSimpleReceiver(id, requester string) (SimpleReceiver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.simple[id]
	if !ok || !r.visibleTo(requester) {
		return SimpleReceiver{}, fmt.Errorf("%w: %q", ErrReceiverNotFound, id)
	}
	return r, nil
}

// PutCalculation persists a finished link calculation, generating a
// record ID when the caller left it empty. The final ID is returned.
func (s *Store) PutCalculation(rec CalculationRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := stampMetadata(&rec.Metadata); err != nil {
		return "", fmt.Errorf("calculation: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.calculations[rec.ID]; ok {
		return "", fmt.Errorf("calculation %q: %w", rec.ID, ErrExists)
	}
	s.calculations[rec.ID] = rec
	s.recordCounts()
	return rec.ID, nil
}

// GetCalculation fetches a calculation record visible to requester.
func (s *Store) GetCalculation(id, requester string) (CalculationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.calculations[id]
	if !ok || !rec.visibleTo(requester) {
		return CalculationRecord{}, fmt.Errorf("%w: %q", ErrCalculationNotFound, id)
	}
	return rec, nil
}

// ListCalculations returns every calculation visible to requester.
func (s *Store) ListCalculations(requester string) []CalculationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CalculationRecord, 0, len(s.calculations))
	for _, rec := range s.calculations {
		if rec.visibleTo(requester) {
			out = append(out, rec)
		}
	}
	return out
}
