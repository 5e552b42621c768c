package calc

import (
	"fmt"
	"strings"
)

// Receiver reference kinds.
const (
	ReceiverDetailed = "detailed"
	ReceiverSimple   = "simple"
)

// ValidateRequest performs structural validation before any store or
// engine work happens.
func ValidateRequest(req Request) error {
	if strings.TrimSpace(req.SatelliteID) == "" {
		return fmt.Errorf("%w: satellite_id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.TransponderID) == "" {
		return fmt.Errorf("%w: transponder_id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.CarrierID) == "" {
		return fmt.Errorf("%w: carrier_id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.GroundStationID) == "" {
		return fmt.Errorf("%w: ground_station_id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Receiver.ID) == "" {
		return fmt.Errorf("%w: receiver id is required", ErrInvalidRequest)
	}
	switch req.Receiver.Kind {
	case ReceiverDetailed, ReceiverSimple:
	default:
		return fmt.Errorf("%w: receiver kind must be %q or %q, got %q",
			ErrInvalidRequest, ReceiverDetailed, ReceiverSimple, req.Receiver.Kind)
	}
	if req.P < 0 || req.P >= 100 {
		return fmt.Errorf("%w: exceedance probability must be in [0, 100), got %v", ErrInvalidRequest, req.P)
	}
	if req.RelaxationDB < 0 {
		return fmt.Errorf("%w: snr relaxation must be non-negative, got %v", ErrInvalidRequest, req.RelaxationDB)
	}
	return nil
}
