package core

import (
	"errors"
	"strings"
	"testing"
)

func testModcodTable() *ModcodTable {
	return NewModcodTable([]ModcodParams{
		{Modcod: "QPSK 135/180", Modulation: "QPSK", FEC: "135/180", RollOff: 0.35, SNRThresholdDB: 8.5, SpectralEfficiency: 1.8},
		{Modcod: "8PSK 120/180", Modulation: "8PSK", FEC: "120/180", RollOff: 0.20, SNRThresholdDB: 9.8, SpectralEfficiency: 2.4},
		{Modcod: "16APSK 120/180", Modulation: "16APSK", FEC: "120/180", RollOff: 0.10, SNRThresholdDB: 13.2, SpectralEfficiency: 3.2},
	})
}

func TestModcodLookupExactLabel(t *testing.T) {
	table := testModcodTable()

	row, err := table.Lookup("8PSK 120/180")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if row.SNRThresholdDB != 9.8 || row.SpectralEfficiency != 2.4 {
		t.Fatalf("unexpected row %+v", row)
	}
}

// TestModcodLookupShortFormRescale verifies that "2/3" resolves to the
// table-native "120/180" entry when no exact match exists.
func TestModcodLookupShortFormRescale(t *testing.T) {
	table := testModcodTable()

	for _, label := range []string{"8PSK 2/3", "16APSK 2/3"} {
		row, err := table.Lookup(label)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", label, err)
		}
		if row.FEC != "120/180" {
			t.Errorf("Lookup(%q) FEC = %q, want 120/180", label, row.FEC)
		}
	}

	if _, err := table.LookupModulation("QPSK", "3/4"); err != nil {
		t.Fatalf("LookupModulation short form: %v", err)
	}
}

func TestModcodLookupUnknown(t *testing.T) {
	table := testModcodTable()

	_, err := table.Lookup("64APSK 7/9")
	if !errors.Is(err, ErrModcodNotFound) {
		t.Fatalf("err = %v, want ErrModcodNotFound", err)
	}
	if !strings.Contains(err.Error(), "64APSK") {
		t.Fatalf("error %q does not carry the offending label", err)
	}
}

func TestLoadModcodTable(t *testing.T) {
	const catalog = `[
	  {"Modcod": "QPSK 90/180", "Modulation": "QPSK", "FEC": "90/180",
	   "RollOff": 0.35, "SNRThresholdDB": 6.5, "SpectralEfficiency": 1.2}
	]`

	table, err := LoadModcodTable(strings.NewReader(catalog))
	if err != nil {
		t.Fatalf("LoadModcodTable: %v", err)
	}
	if _, err := table.Lookup("QPSK 1/2"); err != nil {
		t.Fatalf("short-form lookup after load: %v", err)
	}

	if _, err := LoadModcodTable(strings.NewReader("[]")); err == nil {
		t.Fatal("empty catalog accepted")
	}
}

func TestResolveCarrier(t *testing.T) {
	table := testModcodTable()

	c, err := table.ResolveCarrier("8PSK 2/3", 0, 9)
	if err != nil {
		t.Fatalf("ResolveCarrier: %v", err)
	}
	if c.Modulation != "8PSK" || c.FEC != "120/180" {
		t.Fatalf("carrier = %+v, want table-native modulation and FEC", c)
	}
	if c.RollOff != 0.20 {
		t.Fatalf("roll-off = %v, want catalog default 0.20", c.RollOff)
	}

	c, err = table.ResolveCarrier("8PSK 2/3", 0.25, 9)
	if err != nil {
		t.Fatalf("ResolveCarrier: %v", err)
	}
	if c.RollOff != 0.25 {
		t.Fatalf("explicit roll-off = %v, want 0.25", c.RollOff)
	}
}
