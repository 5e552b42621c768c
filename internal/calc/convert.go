package calc

import "github.com/shiyongxin/SatLink/store"

// buildRecord flattens a request and its results into the persisted
// calculation record. The record is owned by the requester so later
// reads go through the same visibility rules as components.
func buildRecord(req Request, receiver ReceiverRef, p float64, res Result) store.CalculationRecord {
	return store.CalculationRecord{
		Metadata: store.Metadata{Owner: req.Requester},

		SatelliteID:     req.SatelliteID,
		TransponderID:   req.TransponderID,
		CarrierID:       req.CarrierID,
		GroundStationID: req.GroundStationID,
		ReceiverKind:    receiver.Kind,
		ReceiverID:      receiver.ID,
		MarginDB:        req.MarginDB,
		RelaxationDB:    req.RelaxationDB,
		ExceedanceP:     p,

		ElevationDeg:    res.ElevationDeg,
		AzimuthDeg:      res.AzimuthDeg,
		DistanceKm:      res.DistanceKm,
		Attenuation:     res.Attenuation,
		XPD:             res.XPD,
		AntennaNoiseK:   res.AntennaNoiseK,
		SystemNoiseK:    res.SystemNoiseK,
		FigureOfMeritDB: res.FigureOfMeritDB,
		PFDdBWm2:        res.PFDdBWm2,
		CN0dBHz:         res.CN0dBHz,
		SNRdB:           res.SNRdB,
		SNRThresholdDB:  res.SNRThresholdDB,
		LinkMarginDB:    res.LinkMarginDB,
		Availability:    res.Availability,
		WorstMonthAvail: res.WorstMonthAvail,
		Warnings:        res.Warnings,
	}
}

// recordToResult rehydrates a stored calculation for read-back APIs.
func recordToResult(rec store.CalculationRecord) Result {
	return Result{
		RecordID: rec.ID,

		ElevationDeg: rec.ElevationDeg,
		AzimuthDeg:   rec.AzimuthDeg,
		DistanceKm:   rec.DistanceKm,

		Attenuation: rec.Attenuation,
		XPD:         rec.XPD,

		AntennaNoiseK:   rec.AntennaNoiseK,
		SystemNoiseK:    rec.SystemNoiseK,
		FigureOfMeritDB: rec.FigureOfMeritDB,
		PFDdBWm2:        rec.PFDdBWm2,

		CN0dBHz:        rec.CN0dBHz,
		SNRdB:          rec.SNRdB,
		SNRThresholdDB: rec.SNRThresholdDB,
		LinkMarginDB:   rec.LinkMarginDB,

		Availability:    rec.Availability,
		WorstMonthAvail: rec.WorstMonthAvail,

		Warnings: rec.Warnings,
	}
}
