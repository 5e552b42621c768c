package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shiyongxin/SatLink/core"
	"github.com/shiyongxin/SatLink/model"
	"github.com/shiyongxin/SatLink/orbit"
)

// Scenario summarizes what a scenario file contributed to the store,
// mainly for logging from main().
type Scenario struct {
	SatelliteIDs     []string
	TransponderIDs   []string
	CarrierIDs       []string
	GroundStationIDs []string
	ReceiverIDs      []string
}

// Wire shapes stay unexported so the file format can evolve without
// touching the store API.
type scenarioFile struct {
	Satellites     []satelliteJSON     `json:"satellites" yaml:"satellites"`
	Transponders   []transponderJSON   `json:"transponders" yaml:"transponders"`
	Carriers       []carrierJSON       `json:"carriers" yaml:"carriers"`
	GroundStations []groundStationJSON `json:"ground_stations" yaml:"ground_stations"`
	Receivers      []receiverJSON      `json:"receivers" yaml:"receivers"`
}

type componentMetaJSON struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Owner  string `json:"owner" yaml:"owner"`
	Public *bool  `json:"public" yaml:"public"` // optional; defaults to true
}

func (m componentMetaJSON) metadata() Metadata {
	public := true
	if m.Public != nil {
		public = *m.Public
	}
	return Metadata{ID: m.ID, Name: m.Name, Owner: m.Owner, Public: public}
}

type satelliteJSON struct {
	componentMetaJSON `json:",inline" yaml:",inline"`

	LongitudeDeg float64 `json:"longitude_deg" yaml:"longitude_deg"`
	LatitudeDeg  float64 `json:"latitude_deg" yaml:"latitude_deg"`
	AltitudeKm   float64 `json:"altitude_km" yaml:"altitude_km"`

	// Alternative to explicit coordinates: a TLE pair propagated to
	// the given epoch (RFC 3339; empty means now).
	TLELine1 string `json:"tle_line1" yaml:"tle_line1"`
	TLELine2 string `json:"tle_line2" yaml:"tle_line2"`
	Epoch    string `json:"epoch" yaml:"epoch"`
}

type transponderJSON struct {
	componentMetaJSON `json:",inline" yaml:",inline"`

	FrequencyGHz float64 `json:"frequency_ghz" yaml:"frequency_ghz"`
	MaxEIRPdBW   float64 `json:"max_eirp_dbw" yaml:"max_eirp_dbw"`
	BandwidthMHz float64 `json:"bandwidth_mhz" yaml:"bandwidth_mhz"`
	BackOffDB    float64 `json:"back_off_db" yaml:"back_off_db"`
	ContourDB    float64 `json:"contour_db" yaml:"contour_db"`
}

type carrierJSON struct {
	componentMetaJSON `json:",inline" yaml:",inline"`

	// Either a combined MODCOD label or an explicit modulation+FEC.
	Modcod     string `json:"modcod" yaml:"modcod"`
	Modulation string `json:"modulation" yaml:"modulation"`
	FEC        string `json:"fec" yaml:"fec"`

	RollOff      float64 `json:"roll_off" yaml:"roll_off"`
	BandwidthMHz float64 `json:"bandwidth_mhz" yaml:"bandwidth_mhz"`
}

type groundStationJSON struct {
	componentMetaJSON `json:",inline" yaml:",inline"`

	LatitudeDeg  float64 `json:"latitude_deg" yaml:"latitude_deg"`
	LongitudeDeg float64 `json:"longitude_deg" yaml:"longitude_deg"`
}

type receiverJSON struct {
	componentMetaJSON `json:",inline" yaml:",inline"`

	Kind string `json:"kind" yaml:"kind"` // "detailed" | "simple"

	// Detailed fields.
	AntennaDiameterM   float64 `json:"antenna_diameter_m" yaml:"antenna_diameter_m"`
	AntennaEfficiency  float64 `json:"antenna_efficiency" yaml:"antenna_efficiency"`
	LNBGainDB          float64 `json:"lnb_gain_db" yaml:"lnb_gain_db"`
	LNBNoiseTempK      float64 `json:"lnb_noise_temp_k" yaml:"lnb_noise_temp_k"`
	CouplingLossDB     float64 `json:"coupling_loss_db" yaml:"coupling_loss_db"`
	CableLossDB        float64 `json:"cable_loss_db" yaml:"cable_loss_db"`
	PolarizationLossDB float64 `json:"polarization_loss_db" yaml:"polarization_loss_db"`
	MaxPointingErrDeg  float64 `json:"max_pointing_err_deg" yaml:"max_pointing_err_deg"`

	// Simple fields.
	GTdBK           float64 `json:"gt_dbk" yaml:"gt_dbk"`
	PointingLossDB  float64 `json:"pointing_loss_db" yaml:"pointing_loss_db"`
	RefFreqGHz      float64 `json:"ref_freq_ghz" yaml:"ref_freq_ghz"`
	RefElevationDeg float64 `json:"ref_elevation_deg" yaml:"ref_elevation_deg"`
}

// LoadScenarioFile reads a scenario from disk, choosing YAML or JSON by
// file extension, and seeds the store. Carrier MODCOD labels resolve
// through the given table.
func LoadScenarioFile(st *Store, table *core.ModcodTable, path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadScenarioYAML(st, table, f)
	default:
		return LoadScenarioJSON(st, table, f)
	}
}

// LoadScenarioJSON decodes a JSON scenario from r into the store.
func LoadScenarioJSON(st *Store, table *core.ModcodTable, r io.Reader) (*Scenario, error) {
	var payload scenarioFile
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	return seed(st, table, payload)
}

// LoadScenarioYAML decodes a YAML scenario from r into the store.
func LoadScenarioYAML(st *Store, table *core.ModcodTable, r io.Reader) (*Scenario, error) {
	var payload scenarioFile
	if err := yaml.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	return seed(st, table, payload)
}

func seed(st *Store, table *core.ModcodTable, payload scenarioFile) (*Scenario, error) {
	if st == nil {
		return nil, fmt.Errorf("scenario: store is nil")
	}
	result := &Scenario{}

	for _, js := range payload.Satellites {
		if js.ID == "" {
			return nil, fmt.Errorf("scenario: satellite with empty id")
		}
		pos, err := satellitePosition(js)
		if err != nil {
			return nil, fmt.Errorf("satellite %q: %w", js.ID, err)
		}
		if err := st.PutSatellite(Satellite{Metadata: js.metadata(), Position: pos}); err != nil {
			return nil, err
		}
		result.SatelliteIDs = append(result.SatelliteIDs, js.ID)
	}

	for _, js := range payload.Transponders {
		if js.ID == "" {
			return nil, fmt.Errorf("scenario: transponder with empty id")
		}
		err := st.PutTransponder(Transponder{
			Metadata: js.metadata(),
			Transponder: model.Transponder{
				FrequencyGHz: js.FrequencyGHz,
				MaxEIRPdBW:   js.MaxEIRPdBW,
				BandwidthMHz: js.BandwidthMHz,
				BackOffDB:    js.BackOffDB,
				ContourDB:    js.ContourDB,
			},
		})
		if err != nil {
			return nil, err
		}
		result.TransponderIDs = append(result.TransponderIDs, js.ID)
	}

	for _, js := range payload.Carriers {
		if js.ID == "" {
			return nil, fmt.Errorf("scenario: carrier with empty id")
		}
		carrier, err := carrierFromJSON(table, js)
		if err != nil {
			return nil, fmt.Errorf("carrier %q: %w", js.ID, err)
		}
		if err := st.PutCarrier(Carrier{Metadata: js.metadata(), Carrier: carrier}); err != nil {
			return nil, err
		}
		result.CarrierIDs = append(result.CarrierIDs, js.ID)
	}

	for _, js := range payload.GroundStations {
		if js.ID == "" {
			return nil, fmt.Errorf("scenario: ground station with empty id")
		}
		err := st.PutGroundStation(GroundStation{
			Metadata: js.metadata(),
			Station:  model.GroundStation{LatitudeDeg: js.LatitudeDeg, LongitudeDeg: js.LongitudeDeg},
		})
		if err != nil {
			return nil, err
		}
		result.GroundStationIDs = append(result.GroundStationIDs, js.ID)
	}

	for _, js := range payload.Receivers {
		if js.ID == "" {
			return nil, fmt.Errorf("scenario: receiver with empty id")
		}
		if err := putReceiver(st, js); err != nil {
			return nil, err
		}
		result.ReceiverIDs = append(result.ReceiverIDs, js.ID)
	}

	return result, nil
}

func satellitePosition(js satelliteJSON) (model.SatellitePosition, error) {
	if js.TLELine1 != "" || js.TLELine2 != "" {
		at := time.Now().UTC()
		if js.Epoch != "" {
			parsed, err := time.Parse(time.RFC3339, js.Epoch)
			if err != nil {
				return model.SatellitePosition{}, fmt.Errorf("parsing epoch: %w", err)
			}
			at = parsed
		}
		return orbit.FromTLE(js.TLELine1, js.TLELine2, at)
	}
	return model.NewSatellitePosition(js.LongitudeDeg, js.LatitudeDeg, js.AltitudeKm), nil
}

func carrierFromJSON(table *core.ModcodTable, js carrierJSON) (model.Carrier, error) {
	if js.Modcod != "" {
		if table == nil {
			return model.Carrier{}, fmt.Errorf("modcod label %q needs a modcod table", js.Modcod)
		}
		return table.ResolveCarrier(js.Modcod, js.RollOff, js.BandwidthMHz)
	}
	if js.Modulation == "" || js.FEC == "" {
		return model.Carrier{}, fmt.Errorf("either modcod or modulation+fec is required")
	}
	return model.Carrier{
		Modulation:   js.Modulation,
		FEC:          js.FEC,
		RollOff:      js.RollOff,
		BandwidthMHz: js.BandwidthMHz,
	}, nil
}

func putReceiver(st *Store, js receiverJSON) error {
	switch strings.ToLower(js.Kind) {
	case "detailed":
		return st.PutDetailedReceiver(DetailedReceiver{
			Metadata: js.metadata(),
			Receiver: core.DetailedReceiver{
				AntennaDiameterM:   js.AntennaDiameterM,
				AntennaEfficiency:  js.AntennaEfficiency,
				LNBGainDB:          js.LNBGainDB,
				LNBNoiseTempK:      js.LNBNoiseTempK,
				CouplingLossDB:     js.CouplingLossDB,
				CableLossDB:        js.CableLossDB,
				PolarizationLossDB: js.PolarizationLossDB,
				MaxPointingErrDeg:  js.MaxPointingErrDeg,
			},
		})
	case "simple", "simplified":
		return st.PutSimpleReceiver(SimpleReceiver{
			Metadata: js.metadata(),
			Receiver: core.SimpleReceiver{
				GTdBK:           js.GTdBK,
				PointingLossDB:  js.PointingLossDB,
				RefFreqGHz:      js.RefFreqGHz,
				RefElevationDeg: js.RefElevationDeg,
			},
		})
	default:
		return fmt.Errorf("receiver %q: unknown kind %q", js.ID, js.Kind)
	}
}
