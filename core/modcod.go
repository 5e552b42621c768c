package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/shiyongxin/SatLink/model"
)

// ErrModcodNotFound reports a modulation scheme missing from the table.
var ErrModcodNotFound = errors.New("modcod not found")

// ModcodParams is one modulation-and-coding point of the catalog.
type ModcodParams struct {
	Modcod             string  `json:"Modcod"`     // combined label, e.g. "8PSK 120/180"
	Modulation         string  `json:"Modulation"` // e.g. "8PSK"
	FEC                string  `json:"FEC"`        // table-native form, e.g. "120/180"
	RollOff            float64 `json:"RollOff"`
	SNRThresholdDB     float64 `json:"SNRThresholdDB"`
	SpectralEfficiency float64 `json:"SpectralEfficiency"` // bit/s/Hz
	Standard           string  `json:"Standard,omitempty"`
}

// ModcodTable resolves MODCOD labels or modulation+FEC pairs to their
// RF parameters. Safe for concurrent readers once built.
type ModcodTable struct {
	rows []ModcodParams
}

// NewModcodTable builds a table from catalog rows.
func NewModcodTable(rows []ModcodParams) *ModcodTable {
	return &ModcodTable{rows: append([]ModcodParams(nil), rows...)}
}

// LoadModcodTable decodes a JSON catalog from r.
func LoadModcodTable(r io.Reader) (*ModcodTable, error) {
	var rows []ModcodParams
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding modcod catalog: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("modcod catalog is empty")
	}
	return &ModcodTable{rows: rows}, nil
}

// LoadModcodFile reads a JSON catalog from disk.
func LoadModcodFile(path string) (*ModcodTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening modcod catalog: %w", err)
	}
	defer f.Close()
	return LoadModcodTable(f)
}

// Lookup resolves a combined MODCOD label such as "8PSK 120/180".
// Short-form FEC rates ("8PSK 2/3") are rescaled to the table's /180
// representation when no exact entry matches.
func (t *ModcodTable) Lookup(label string) (ModcodParams, error) {
	for _, row := range t.rows {
		if row.Modcod == label {
			return row, nil
		}
	}
	if parts := strings.Fields(label); len(parts) >= 2 {
		return t.LookupModulation(parts[0], parts[1])
	}
	return ModcodParams{}, fmt.Errorf("%w: %q", ErrModcodNotFound, label)
}

// LookupModulation resolves a modulation and FEC pair, applying the
// short-form rescale when the exact pair is absent.
func (t *ModcodTable) LookupModulation(modulation, fec string) (ModcodParams, error) {
	if row, ok := t.find(modulation, fec); ok {
		return row, nil
	}
	if scaled, ok := rescaleFEC(fec); ok && scaled != fec {
		if row, ok := t.find(modulation, scaled); ok {
			return row, nil
		}
	}
	return ModcodParams{}, fmt.Errorf("%w: %q", ErrModcodNotFound, modulation+" "+fec)
}

func (t *ModcodTable) find(modulation, fec string) (ModcodParams, bool) {
	for _, row := range t.rows {
		if row.Modulation == modulation && row.FEC == fec {
			return row, true
		}
	}
	return ModcodParams{}, false
}

// rescaleFEC converts a short-form rate like "2/3" to the /180 form
// used by the catalog ("120/180").
func rescaleFEC(fec string) (string, bool) {
	num, den, ok := strings.Cut(fec, "/")
	if !ok {
		return "", false
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return "", false
	}
	d, err := strconv.Atoi(den)
	if err != nil || d == 0 {
		return "", false
	}
	return fmt.Sprintf("%d/180", int(math.Round(float64(n)/float64(d)*180))), true
}

// ResolveCarrier builds a carrier from a MODCOD label. A zero rollOff
// takes the catalog's roll-off for the resolved entry.
func (t *ModcodTable) ResolveCarrier(label string, rollOff, bandwidthMHz float64) (model.Carrier, error) {
	params, err := t.Lookup(label)
	if err != nil {
		return model.Carrier{}, err
	}
	if rollOff == 0 {
		rollOff = params.RollOff
	}
	return model.Carrier{
		Modulation:   params.Modulation,
		FEC:          params.FEC,
		RollOff:      rollOff,
		BandwidthMHz: bandwidthMHz,
	}, nil
}
