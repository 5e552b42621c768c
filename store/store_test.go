package store

import (
	"errors"
	"testing"

	"github.com/shiyongxin/SatLink/core"
	"github.com/shiyongxin/SatLink/model"
)

func TestStorePutGetRoundTrip(t *testing.T) {
	st := New()

	err := st.PutSatellite(Satellite{
		Metadata: Metadata{ID: "sat-1", Name: "GEO 70W", Public: true},
		Position: model.NewGEOPosition(-70),
	})
	if err != nil {
		t.Fatalf("PutSatellite: %v", err)
	}

	sat, err := st.GetSatellite("sat-1", "")
	if err != nil {
		t.Fatalf("GetSatellite: %v", err)
	}
	if sat.Position.LongitudeDeg != -70 {
		t.Fatalf("round-tripped longitude = %v, want -70", sat.Position.LongitudeDeg)
	}
	if sat.CreatedAt.IsZero() {
		t.Fatal("CreatedAt was not stamped")
	}

	if err := st.PutSatellite(Satellite{Metadata: Metadata{ID: "sat-1"}}); !errors.Is(err, ErrExists) {
		t.Fatalf("duplicate put: err = %v, want ErrExists", err)
	}
	if _, err := st.GetSatellite("missing", ""); !errors.Is(err, ErrSatelliteNotFound) {
		t.Fatalf("missing get: err = %v, want ErrSatelliteNotFound", err)
	}
	if err := st.PutSatellite(Satellite{}); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("empty ID put: err = %v, want ErrEmptyID", err)
	}
}

// TestStoreVisibility checks private components are hidden from other
// requesters but public and unowned ones are not.
func TestStoreVisibility(t *testing.T) {
	st := New()

	stations := []GroundStation{
		{Metadata: Metadata{ID: "gs-private", Owner: "alice", Public: false}},
		{Metadata: Metadata{ID: "gs-public", Owner: "alice", Public: true}},
		{Metadata: Metadata{ID: "gs-unowned", Public: false}},
	}
	for _, gs := range stations {
		if err := st.PutGroundStation(gs); err != nil {
			t.Fatalf("PutGroundStation(%s): %v", gs.ID, err)
		}
	}

	if _, err := st.GetGroundStation("gs-private", "bob"); !errors.Is(err, ErrGroundStationNotFound) {
		t.Fatalf("bob reading alice's private station: err = %v, want not-found", err)
	}
	if _, err := st.GetGroundStation("gs-private", "alice"); err != nil {
		t.Fatalf("alice reading her own station: %v", err)
	}
	if _, err := st.GetGroundStation("gs-public", "bob"); err != nil {
		t.Fatalf("bob reading a public station: %v", err)
	}

	visible := st.ListGroundStations("bob")
	if len(visible) != 2 {
		t.Fatalf("bob sees %d stations, want 2 (public + unowned)", len(visible))
	}
}

func TestStoreReceiverKinds(t *testing.T) {
	st := New()

	if err := st.PutDetailedReceiver(DetailedReceiver{
		Metadata: Metadata{ID: "rx-hw", Public: true},
		Receiver: core.DetailedReceiver{AntennaDiameterM: 1.2, AntennaEfficiency: 0.6},
	}); err != nil {
		t.Fatalf("PutDetailedReceiver: %v", err)
	}
	if err := st.PutSimpleReceiver(SimpleReceiver{
		Metadata: Metadata{ID: "rx-gt", Public: true},
		Receiver: core.SimpleReceiver{GTdBK: 20, PointingLossDB: 0.5},
	}); err != nil {
		t.Fatalf("PutSimpleReceiver: %v", err)
	}

	// The two shapes live in separate collections: the same ID in the
	// other collection is not found.
	if _, err := st.GetSimpleReceiver("rx-hw", ""); !errors.Is(err, ErrReceiverNotFound) {
		t.Fatalf("detailed ID in simple collection: err = %v, want ErrReceiverNotFound", err)
	}
	r, err := st.GetSimpleReceiver("rx-gt", "")
	if err != nil {
		t.Fatalf("GetSimpleReceiver: %v", err)
	}
	if r.Receiver.GTdBK != 20 {
		t.Fatalf("round-tripped G/T = %v, want 20", r.Receiver.GTdBK)
	}
}

func TestStoreCalculationRecords(t *testing.T) {
	st := New()

	id, err := st.PutCalculation(CalculationRecord{
		Metadata:     Metadata{Owner: "alice"},
		SatelliteID:  "sat-1",
		SNRdB:        11.2,
		Availability: 99.95,
	})
	if err != nil {
		t.Fatalf("PutCalculation: %v", err)
	}
	if id == "" {
		t.Fatal("PutCalculation did not generate an ID")
	}

	rec, err := st.GetCalculation(id, "alice")
	if err != nil {
		t.Fatalf("GetCalculation: %v", err)
	}
	if rec.Availability != 99.95 {
		t.Fatalf("round-tripped availability = %v, want 99.95", rec.Availability)
	}

	// Private by default: another requester cannot read it.
	if _, err := st.GetCalculation(id, "bob"); !errors.Is(err, ErrCalculationNotFound) {
		t.Fatalf("bob reading alice's record: err = %v, want not-found", err)
	}
	if got := len(st.ListCalculations("alice")); got != 1 {
		t.Fatalf("alice sees %d records, want 1", got)
	}
}

type countsRecorder struct {
	satellites, transponders, carriers, stations, receivers, calculations int
}

func (c *countsRecorder) SetComponentCounts(satellites, transponders, carriers, stations, receivers, calculations int) {
	c.satellites = satellites
	c.transponders = transponders
	c.carriers = carriers
	c.stations = stations
	c.receivers = receivers
	c.calculations = calculations
}

func TestStoreMetricsRecorder(t *testing.T) {
	rec := &countsRecorder{}
	st := New(WithMetricsRecorder(rec))

	_ = st.PutSatellite(Satellite{Metadata: Metadata{ID: "sat-1"}})
	_ = st.PutGroundStation(GroundStation{Metadata: Metadata{ID: "gs-1"}})
	_ = st.PutSimpleReceiver(SimpleReceiver{Metadata: Metadata{ID: "rx-1"}})
	_ = st.PutDetailedReceiver(DetailedReceiver{Metadata: Metadata{ID: "rx-2"}})
	if _, err := st.PutCalculation(CalculationRecord{}); err != nil {
		t.Fatalf("PutCalculation: %v", err)
	}

	if rec.satellites != 1 || rec.stations != 1 || rec.receivers != 2 || rec.calculations != 1 {
		t.Fatalf("recorder counts = %+v, want 1 satellite, 1 station, 2 receivers, 1 calculation", rec)
	}
}
