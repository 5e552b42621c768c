package calc

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shiyongxin/SatLink/atmosphere"
	"github.com/shiyongxin/SatLink/core"
	"github.com/shiyongxin/SatLink/internal/observability"
	"github.com/shiyongxin/SatLink/model"
	"github.com/shiyongxin/SatLink/store"
)

func testModcods() *core.ModcodTable {
	return core.NewModcodTable([]core.ModcodParams{
		{Modcod: "QPSK 135/180", Modulation: "QPSK", FEC: "135/180", RollOff: 0.35, SNRThresholdDB: 8.5, SpectralEfficiency: 1.8},
		{Modcod: "8PSK 120/180", Modulation: "8PSK", FEC: "120/180", RollOff: 0.20, SNRThresholdDB: 9.8, SpectralEfficiency: 2.4},
	})
}

// seedStore loads the reference scenario: a GEO satellite at -70° with
// a 14 GHz Ku transponder, a 9 MHz 8PSK carrier, a station in northern
// Brazil and a simplified 20 dB/K receiver.
func seedStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}
	must(st.PutSatellite(store.Satellite{
		Metadata: store.Metadata{ID: "sat-1", Public: true},
		Position: model.NewGEOPosition(-70),
	}))
	must(st.PutTransponder(store.Transponder{
		Metadata:    store.Metadata{ID: "tp-1", Public: true},
		Transponder: model.Transponder{FrequencyGHz: 14, MaxEIRPdBW: 54, BandwidthMHz: 36},
	}))
	must(st.PutCarrier(store.Carrier{
		Metadata: store.Metadata{ID: "car-1", Public: true},
		Carrier:  model.Carrier{Modulation: "8PSK", FEC: "120/180", RollOff: 0.2, BandwidthMHz: 9},
	}))
	must(st.PutGroundStation(store.GroundStation{
		Metadata: store.Metadata{ID: "gs-1", Public: true},
		Station:  model.GroundStation{LatitudeDeg: -3.7, LongitudeDeg: -45.9},
	}))
	must(st.PutSimpleReceiver(store.SimpleReceiver{
		Metadata: store.Metadata{ID: "rx-1", Public: true},
		Receiver: core.SimpleReceiver{GTdBK: 20, PointingLossDB: 0.5},
	}))
	return st
}

func referenceRequest() Request {
	return Request{
		SatelliteID:     "sat-1",
		TransponderID:   "tp-1",
		CarrierID:       "car-1",
		GroundStationID: "gs-1",
		Receiver:        ReceiverRef{Kind: ReceiverSimple, ID: "rx-1"},
	}
}

func TestComputeLinkReferenceScenario(t *testing.T) {
	st := seedStore(t)
	svc := NewService(st, atmosphere.NewModel(atmosphere.Config{}), testModcods(), nil, nil)

	res, err := svc.ComputeLink(context.Background(), referenceRequest())
	if err != nil {
		t.Fatalf("ComputeLink: %v", err)
	}

	if res.ElevationDeg < 60 || res.ElevationDeg > 65 {
		t.Errorf("elevation = %.2f, want within [60, 65]", res.ElevationDeg)
	}
	if res.DistanceKm < 36000 || res.DistanceKm > 37000 {
		t.Errorf("distance = %.0f km, want within [36000, 37000]", res.DistanceKm)
	}
	if res.SNRThresholdDB != 9.8 {
		t.Errorf("threshold = %v, want 9.8", res.SNRThresholdDB)
	}
	if res.LinkMarginDB != res.SNRdB-res.SNRThresholdDB {
		t.Errorf("margin = %v, want SNR-threshold = %v", res.LinkMarginDB, res.SNRdB-res.SNRThresholdDB)
	}
	if res.Availability <= 99 || res.Availability > 100 {
		t.Errorf("availability = %v, want in (99, 100]", res.Availability)
	}
	if res.WorstMonthAvail > res.Availability {
		t.Errorf("worst-month availability %v exceeds annual %v", res.WorstMonthAvail, res.Availability)
	}
	if res.RecordID == "" {
		t.Error("no calculation record persisted")
	}

	rec, err := svc.GetCalculation(res.RecordID, "")
	if err != nil {
		t.Fatalf("GetCalculation(%q): %v", res.RecordID, err)
	}
	if rec.SNRdB != res.SNRdB || rec.Availability != res.Availability {
		t.Errorf("persisted record %+v does not match result", rec)
	}
}

func TestComputeLinkValidation(t *testing.T) {
	svc := NewService(seedStore(t), atmosphere.NewModel(atmosphere.Config{}), testModcods(), nil, nil)

	for name, mutate := range map[string]func(*Request){
		"missing satellite":    func(r *Request) { r.SatelliteID = "" },
		"missing receiver id":  func(r *Request) { r.Receiver.ID = "" },
		"bad receiver kind":    func(r *Request) { r.Receiver.Kind = "antenna" },
		"probability too high": func(r *Request) { r.P = 100 },
		"negative relaxation":  func(r *Request) { r.RelaxationDB = -1 },
	} {
		req := referenceRequest()
		mutate(&req)
		if _, err := svc.ComputeLink(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%s: err = %v, want ErrInvalidRequest", name, err)
		}
	}
}

func TestComputeLinkUnknownComponent(t *testing.T) {
	svc := NewService(seedStore(t), atmosphere.NewModel(atmosphere.Config{}), testModcods(), nil, nil)

	req := referenceRequest()
	req.GroundStationID = "gs-missing"
	_, err := svc.ComputeLink(context.Background(), req)
	if !errors.Is(err, store.ErrGroundStationNotFound) {
		t.Fatalf("err = %v, want ErrGroundStationNotFound", err)
	}
	if got := Classify(err); got != OutcomeNotFound {
		t.Errorf("Classify = %q, want %q", got, OutcomeNotFound)
	}
}

func TestComputeLinkVisibility(t *testing.T) {
	st := seedStore(t)
	if err := st.PutGroundStation(store.GroundStation{
		Metadata: store.Metadata{ID: "gs-private", Owner: "alice"},
		Station:  model.GroundStation{LatitudeDeg: -3.7, LongitudeDeg: -45.9},
	}); err != nil {
		t.Fatalf("PutGroundStation: %v", err)
	}
	svc := NewService(st, atmosphere.NewModel(atmosphere.Config{}), testModcods(), nil, nil)

	req := referenceRequest()
	req.GroundStationID = "gs-private"
	req.Requester = "bob"
	if _, err := svc.ComputeLink(context.Background(), req); !errors.Is(err, store.ErrGroundStationNotFound) {
		t.Fatalf("foreign requester: err = %v, want ErrGroundStationNotFound", err)
	}

	req.Requester = "alice"
	if _, err := svc.ComputeLink(context.Background(), req); err != nil {
		t.Fatalf("owner: ComputeLink: %v", err)
	}
}

func TestComputeLinkBelowHorizon(t *testing.T) {
	st := seedStore(t)
	// A station on the far side of the planet from the satellite.
	if err := st.PutGroundStation(store.GroundStation{
		Metadata: store.Metadata{ID: "gs-far", Public: true},
		Station:  model.GroundStation{LatitudeDeg: -3.7, LongitudeDeg: 134.1},
	}); err != nil {
		t.Fatalf("PutGroundStation: %v", err)
	}
	svc := NewService(st, atmosphere.NewModel(atmosphere.Config{}), testModcods(), nil, nil)

	req := referenceRequest()
	req.GroundStationID = "gs-far"
	if _, err := svc.ComputeLink(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest for below-horizon geometry", err)
	}
}

func TestComputeLinkRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := observability.NewLinkCollector(reg)
	if err != nil {
		t.Fatalf("NewLinkCollector: %v", err)
	}
	svc := NewService(seedStore(t), atmosphere.NewModel(atmosphere.Config{}), testModcods(), nil, collector)

	if _, err := svc.ComputeLink(context.Background(), referenceRequest()); err != nil {
		t.Fatalf("ComputeLink: %v", err)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}
	for _, name := range []string{
		"satlink_calculations_total",
		"satlink_calculation_duration_seconds",
		"satlink_atmosphere_calls_total",
	} {
		if !found[name] {
			t.Errorf("metric %s not exported after a calculation", name)
		}
	}
}

func TestClassifyUnreachableSNR(t *testing.T) {
	if got := Classify(core.ErrSNRUnreachable); got != OutcomeUnreachableSNR {
		t.Errorf("Classify = %q, want %q", got, OutcomeUnreachableSNR)
	}
	if got := Classify(nil); got != OutcomeOK {
		t.Errorf("Classify(nil) = %q, want %q", got, OutcomeOK)
	}
}
