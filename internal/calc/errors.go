package calc

import (
	"errors"

	"github.com/shiyongxin/SatLink/atmosphere"
	"github.com/shiyongxin/SatLink/core"
	"github.com/shiyongxin/SatLink/store"
)

// ErrInvalidRequest is the sentinel for structurally bad calculation
// requests.
var ErrInvalidRequest = errors.New("invalid calculation request")

// Outcome labels used for logging and the metrics outcome dimension.
const (
	OutcomeOK             = "ok"
	OutcomeInvalidRequest = "invalid_request"
	OutcomeNotFound       = "not_found"
	OutcomeUnreachableSNR = "unreachable_snr"
	OutcomeModelError     = "model_error"
	OutcomeInternal       = "internal"
)

// Classify maps any calculation error to a stable outcome label.
func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, core.ErrNoGroundStation),
		errors.Is(err, core.ErrNoReceiver),
		errors.Is(err, core.ErrModcodNotFound):
		return OutcomeInvalidRequest

	case errors.Is(err, store.ErrSatelliteNotFound),
		errors.Is(err, store.ErrTransponderNotFound),
		errors.Is(err, store.ErrCarrierNotFound),
		errors.Is(err, store.ErrGroundStationNotFound),
		errors.Is(err, store.ErrReceiverNotFound),
		errors.Is(err, store.ErrCalculationNotFound):
		return OutcomeNotFound

	case errors.Is(err, core.ErrSNRUnreachable):
		return OutcomeUnreachableSNR

	case errors.Is(err, atmosphere.ErrCoverage):
		return OutcomeModelError

	default:
		return OutcomeInternal
	}
}
