package core

import (
	"math"
	"testing"
)

func TestDetailedReceiverAntennaGain(t *testing.T) {
	r := &DetailedReceiver{AntennaDiameterM: 1.2, AntennaEfficiency: 0.6}

	// G = 10*log10(eff * (pi*D*f/c)^2) at 14 GHz.
	d := math.Pi * 1.2 * 14e9 / speedOfLight
	want := 10 * math.Log10(0.6*d*d)
	if got := r.AntennaGain(14); math.Abs(got-want) > 1e-9 {
		t.Fatalf("AntennaGain = %v dBi, want %v", got, want)
	}
	// Sanity: a 1.2 m Ku dish is in the low forties.
	if got := r.AntennaGain(14); got < 40 || got > 46 {
		t.Fatalf("AntennaGain = %v dBi, want a plausible 40..46", got)
	}
}

func TestDetailedReceiverBeamwidthAndPointing(t *testing.T) {
	r := &DetailedReceiver{AntennaDiameterM: 1.2, AntennaEfficiency: 0.6, MaxPointingErrDeg: 0.1}

	bw := r.Beamwidth(14)
	want := 70 * speedOfLight / (14e9 * 1.2)
	if math.Abs(bw-want) > 1e-9 {
		t.Fatalf("Beamwidth = %v°, want %v", bw, want)
	}

	ratio := 0.1 / bw
	if got, want := r.PointingLoss(14), 12*ratio*ratio; math.Abs(got-want) > 1e-9 {
		t.Fatalf("PointingLoss = %v dB, want %v", got, want)
	}

	// Doubling the pointing error quadruples the loss.
	r2 := &DetailedReceiver{AntennaDiameterM: 1.2, AntennaEfficiency: 0.6, MaxPointingErrDeg: 0.2}
	if got, want := r2.PointingLoss(14), 4*r.PointingLoss(14); math.Abs(got-want) > 1e-9 {
		t.Fatalf("PointingLoss at 2x error = %v dB, want %v", got, want)
	}
}

func TestSimpleReceiverEstimates(t *testing.T) {
	r := &SimpleReceiver{GTdBK: 20, PointingLossDB: 0.5}

	gt, supplied := r.FigureOfMerit()
	if !supplied || gt != 20 {
		t.Fatalf("FigureOfMerit = %v/%v, want the supplied 20", gt, supplied)
	}
	if got := r.AntennaGain(14); got != 40 {
		t.Fatalf("estimated gain = %v dBi, want G/T + 20 = 40", got)
	}
	if got := r.PointingLoss(14); got != 0.5 {
		t.Fatalf("PointingLoss = %v dB, want the supplied 0.5", got)
	}
	if _, known := r.AntennaDiameter(); known {
		t.Fatal("simplified receiver must not report a physical dish size")
	}

	bw := r.Beamwidth(14)
	if bw <= 0 || bw > 10 {
		t.Fatalf("estimated beamwidth = %v°, want a small positive angle", bw)
	}
}

func TestGroundTemperatureBands(t *testing.T) {
	cases := []struct {
		elevation float64
		want      float64
	}{
		{-20, 290},
		{-5, 150},
		{5, 50},
		{45, 10},
		{90, 10},
	}
	for _, tc := range cases {
		if got := groundTemperatureForElevation(tc.elevation); got != tc.want {
			t.Errorf("ground temp at %v° = %v K, want %v", tc.elevation, got, tc.want)
		}
	}
}

func TestSkyTemperatureFrequencyKnee(t *testing.T) {
	if got, want := skyTemperatureApprox(4, 30), 10+0.5*30.0; got != want {
		t.Fatalf("sky temp below 10 GHz = %v K, want %v", got, want)
	}
	if got, want := skyTemperatureApprox(14, 30), 20+0.3*30.0; got != want {
		t.Fatalf("sky temp above 10 GHz = %v K, want %v", got, want)
	}
}

func TestSystemNoiseTempComposition(t *testing.T) {
	chain := ReceiveChain{CableLossDB: 4, LNBGainDB: 55, LNBNoiseTempK: 20}

	antenna := antennaNoiseUnderRain(20, 10, 3)
	system := systemNoiseTemp(antenna, chain)

	// Clear ordering: the system adds the LNB on top of the antenna.
	if system <= antenna {
		t.Fatalf("system noise %v K should exceed antenna noise %v K", system, antenna)
	}
	// The 55 dB LNB gain makes the referred feed-loss term negligible,
	// so the total is close to antenna + LNB.
	if math.Abs(system-(antenna+20)) > 0.1 {
		t.Fatalf("system noise = %v K, want ~%v", system, antenna+20)
	}
}

func TestAntennaNoiseUnderRainLimits(t *testing.T) {
	// No attenuation: the sky shows through, the medium adds nothing.
	clear := antennaNoiseUnderRain(25, 10, 0)
	if math.Abs(clear-35) > 1e-9 {
		t.Fatalf("clear-sky antenna noise = %v K, want 35", clear)
	}

	// Deep fade: the sky is masked and the medium radiates at ~275 K.
	deep := antennaNoiseUnderRain(25, 10, 40)
	if deep < 275 || deep > 290 {
		t.Fatalf("deep-fade antenna noise = %v K, want to approach 275 + ground", deep)
	}
}
