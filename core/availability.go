package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrSNRUnreachable reports that no exceedance probability in the
// modeled range brings the link SNR to the requested target.
var ErrSNRUnreachable = errors.New("target SNR unreachable: adjust the modulation settings or the SNR relaxation")

const (
	// Probability search bounds, as percentages of time. 0.001% is the
	// finest exceedance resolution the atmospheric statistics model;
	// past 50% the annual statistics stop being meaningful.
	minExceedance = 0.001
	maxExceedance = 50.0

	// Legacy solver tuning.
	legacyInitialP     = 0.0012
	legacyInitialSpeed = 0.000005
	legacyMaxIter      = 5000
)

// SolverConfig selects and tunes the availability search.
type SolverConfig struct {
	// MarginDB is added to the modulation's SNR threshold to form the
	// solve target.
	MarginDB float64
	// RelaxationDB is the convergence tolerance around the target, in
	// dB. Zero means 0.1.
	RelaxationDB float64
	// Legacy switches from the deterministic bisection to the
	// adaptive-step heuristic preserved from the original engine. Its
	// randomized boundary resets make the output non-reproducible
	// unless Rand is pinned.
	Legacy bool
	// Rand drives the legacy solver's boundary resets. Nil means an
	// unseeded source; tests inject a fixed seed.
	Rand *rand.Rand
}

// SolverResult reports the availability search outcome.
type SolverResult struct {
	// Availability is the percentage of time the link meets the
	// target, truncated to 3 decimals.
	Availability float64
	// ExceedanceP is the probability the search converged on.
	ExceedanceP float64
	// Iterations counts SNR evaluations spent converging.
	Iterations int
}

// Availability finds the smallest exceedance probability at which the
// link SNR still meets the modulation threshold plus margin, and
// reports 100 minus that probability. SNR grows with p (less
// attenuation is exceeded more of the time), so the search brackets the
// crossing from below.
func (l *Link) Availability(ctx context.Context, cfg SolverConfig) (SolverResult, error) {
	threshold, err := l.SNRThreshold()
	if err != nil {
		return SolverResult{}, err
	}
	target := threshold + cfg.MarginDB
	relaxation := cfg.RelaxationDB
	if relaxation == 0 {
		relaxation = 0.1
	}

	snrAt := func(p float64) (float64, error) {
		return l.SNR(ctx, p)
	}

	if cfg.Legacy {
		return legacySearch(snrAt, target, relaxation, cfg.Rand)
	}
	return bisectionSearch(snrAt, target, relaxation)
}

// bisectionSearch is the deterministic reference solver: a monotone
// bisection over the exceedance probability.
func bisectionSearch(snrAt func(float64) (float64, error), target, relaxation float64) (SolverResult, error) {
	iterations := 1
	snrLo, err := snrAt(minExceedance)
	if err != nil {
		return SolverResult{}, err
	}
	if snrLo >= target {
		// The link holds the target even at the finest probability
		// resolution modeled.
		return SolverResult{Availability: 99.999, ExceedanceP: minExceedance, Iterations: iterations}, nil
	}

	iterations++
	snrHi, err := snrAt(maxExceedance)
	if err != nil {
		return SolverResult{}, err
	}
	if snrHi < target {
		return SolverResult{}, fmt.Errorf("%w (SNR at p=%v%% is %.2f dB, target %.2f dB)",
			ErrSNRUnreachable, maxExceedance, snrHi, target)
	}

	// Invariant: SNR(hi) >= target > SNR(lo).
	lo, hi := minExceedance, maxExceedance
	for hi-lo > 1e-6 {
		mid := (lo + hi) / 2
		iterations++
		snr, err := snrAt(mid)
		if err != nil {
			return SolverResult{}, err
		}
		if math.Abs(snr-target) < relaxation {
			return SolverResult{Availability: truncate3(100 - mid), ExceedanceP: mid, Iterations: iterations}, nil
		}
		if snr >= target {
			hi = mid
		} else {
			lo = mid
		}
	}
	// Bracket collapsed before the tolerance triggered: hi is the
	// smallest probability known to meet the target.
	return SolverResult{Availability: truncate3(100 - hi), ExceedanceP: hi, Iterations: iterations}, nil
}

// legacySearch preserves the original adaptive-step heuristic: grow the
// step while the SNR error shrinks, halve and reverse it on overshoot,
// and restart from a randomized probability when the search runs out of
// the valid domain. Convergence is not guaranteed; the iteration cap
// turns divergence into ErrSNRUnreachable.
func legacySearch(snrAt func(float64) (float64, error), target, relaxation float64, rng *rand.Rand) (SolverResult, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	iterations := 1
	snr, err := snrAt(minExceedance)
	if err != nil {
		return SolverResult{}, err
	}
	if snr-target >= 0 {
		return SolverResult{Availability: 99.999, ExceedanceP: minExceedance, Iterations: iterations}, nil
	}

	p := legacyInitialP
	speed := legacyInitialSpeed
	speedOld := 0.0
	deltaOld := math.Inf(1)
	pOld := math.Inf(1)

	for i := 1; i < legacyMaxIter; i++ {
		iterations++
		snr, err = snrAt(p)
		if err != nil {
			return SolverResult{}, err
		}
		delta := math.Abs(snr - target)
		if delta < relaxation {
			return SolverResult{Availability: truncate3(100 - p), ExceedanceP: p, Iterations: iterations}, nil
		}

		if deltaOld < delta {
			// Getting worse. If the probability has stabilized and the
			// step direction already reversed, accept the oscillation
			// point rather than ping-ponging forever.
			if math.Abs(pOld-p) < 0.001 && speedOld*speed < 1 {
				return SolverResult{Availability: truncate3(100 - p), ExceedanceP: p, Iterations: iterations}, nil
			}
			speedOld = speed
			speed = -speed / 2
			pOld = p
			p += speed
		} else {
			speedOld = speed
			speed *= 1.5
			pOld = p
			p += speed
		}

		if p < minExceedance {
			pOld = 100
			p = minExceedance + rng.Float64()*0.001
			speedOld = 1
			speed = legacyInitialSpeed
			iterations++
			if snr, err = snrAt(p); err != nil {
				return SolverResult{}, err
			}
			delta = math.Abs(snr - target)
		}
		if p > maxExceedance {
			pOld = 100
			p = maxExceedance - 0.01 - rng.Float64()*1.99
			speedOld = 1
			speed = legacyInitialSpeed
		}

		deltaOld = delta
	}

	return SolverResult{}, fmt.Errorf("%w (no convergence after %d iterations)", ErrSNRUnreachable, legacyMaxIter)
}

// WorstMonthAvailability converts an annual availability percentage to
// the worst-month figure per ITU-R P.841-4, truncated to 3 decimals.
func WorstMonthAvailability(annual float64) float64 {
	return truncate3(100 - 2.84*math.Pow(100-annual, 0.87))
}

// truncate3 drops everything past the third decimal digit.
func truncate3(x float64) float64 {
	return math.Trunc(x*1000) / 1000
}
