package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shiyongxin/SatLink/atmosphere"
	"github.com/shiyongxin/SatLink/core"
	"github.com/shiyongxin/SatLink/internal/calc"
	"github.com/shiyongxin/SatLink/internal/logging"
	"github.com/shiyongxin/SatLink/store"
)

func main() {
	scenarioPath := flag.String("scenario", "configs/scenario.json", "Path to a JSON or YAML scenario file")
	modcodPath := flag.String("modcods", "configs/modcods.json", "Path to the MODCOD table")

	satelliteID := flag.String("satellite", "", "Satellite component ID")
	transponderID := flag.String("transponder", "", "Transponder component ID")
	carrierID := flag.String("carrier", "", "Carrier component ID")
	stationID := flag.String("ground-station", "", "Ground station component ID")
	receiverKind := flag.String("receiver-kind", calc.ReceiverSimple, "Receiver kind: detailed or simple")
	receiverID := flag.String("receiver", "", "Receiver component ID")

	margin := flag.Float64("margin", 0, "Extra SNR margin over the demodulation threshold, dB")
	relaxation := flag.Float64("relaxation", 0, "Availability solver convergence tolerance, dB (0 means 0.1)")
	p := flag.Float64("p", 0, "Exceedance probability the point results are reported at, % of time (0 means 0.001)")
	legacy := flag.Bool("legacy-solver", false, "Use the adaptive-step availability heuristic instead of bisection")
	rainRate := flag.Float64("rain-rate", 0, "Point rain rate exceeded 0.01% of the time, mm/h (0 means latitude default)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	table, err := core.LoadModcodFile(*modcodPath)
	if err != nil {
		log.Error(ctx, "failed to load modcod table", logging.String("path", *modcodPath), logging.Err(err))
		os.Exit(1)
	}

	st := store.New()
	scenario, err := store.LoadScenarioFile(st, table, *scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("path", *scenarioPath), logging.Err(err))
		os.Exit(1)
	}

	req := calc.Request{
		SatelliteID:     firstNonEmpty(*satelliteID, scenario.SatelliteIDs),
		TransponderID:   firstNonEmpty(*transponderID, scenario.TransponderIDs),
		CarrierID:       firstNonEmpty(*carrierID, scenario.CarrierIDs),
		GroundStationID: firstNonEmpty(*stationID, scenario.GroundStationIDs),
		Receiver: calc.ReceiverRef{
			Kind: *receiverKind,
			ID:   firstNonEmpty(*receiverID, scenario.ReceiverIDs),
		},
		MarginDB:     *margin,
		RelaxationDB: *relaxation,
		P:            *p,
		LegacySolver: *legacy,
	}

	svc := calc.NewService(st, atmosphere.NewModel(atmosphere.Config{RainRate001: *rainRate}), table, log, nil)
	res, err := svc.ComputeLink(ctx, req)
	if err != nil {
		log.Error(ctx, "link calculation failed",
			logging.String("outcome", calc.Classify(err)),
			logging.Err(err),
		)
		os.Exit(1)
	}

	printReport(req, res)
}

// firstNonEmpty keeps the flags optional for single-component
// scenarios: an unset flag falls back to the scenario's only entry.
func firstNonEmpty(flagValue string, ids []string) string {
	if flagValue != "" {
		return flagValue
	}
	if len(ids) == 1 {
		return ids[0]
	}
	return ""
}

func printReport(req calc.Request, res calc.Result) {
	fmt.Printf("Link %s → %s (carrier %s, receiver %s/%s)\n",
		req.SatelliteID, req.GroundStationID, req.CarrierID, req.Receiver.Kind, req.Receiver.ID)
	fmt.Println()

	fmt.Println("Geometry")
	fmt.Printf("  Elevation          %8.2f °\n", res.ElevationDeg)
	fmt.Printf("  Azimuth            %8.2f °\n", res.AzimuthDeg)
	fmt.Printf("  Slant range        %8.1f km\n", res.DistanceKm)
	fmt.Println()

	fmt.Println("Losses")
	fmt.Printf("  Free space         %8.2f dB\n", res.Attenuation.FreeSpaceDB)
	fmt.Printf("  Pointing           %8.2f dB\n", res.Attenuation.PointingDB)
	fmt.Printf("  Gaseous            %8.2f dB\n", res.Attenuation.GaseousDB)
	fmt.Printf("  Cloud              %8.2f dB\n", res.Attenuation.CloudDB)
	fmt.Printf("  Rain               %8.2f dB\n", res.Attenuation.RainDB)
	fmt.Printf("  Scintillation      %8.2f dB\n", res.Attenuation.ScintillationDB)
	fmt.Printf("  Total              %8.2f dB\n", res.Attenuation.TotalDB)
	fmt.Printf("  XPD                %8.2f dB\n", res.XPD.DiscriminationDB)
	fmt.Println()

	fmt.Println("Receive system")
	fmt.Printf("  Antenna noise      %8.1f K\n", res.AntennaNoiseK)
	fmt.Printf("  System noise       %8.1f K\n", res.SystemNoiseK)
	fmt.Printf("  G/T                %8.2f dB/K\n", res.FigureOfMeritDB)
	fmt.Printf("  Flux density       %8.2f dBW/m²\n", res.PFDdBWm2)
	fmt.Println()

	fmt.Println("Performance")
	fmt.Printf("  C/N0               %8.2f dB-Hz\n", res.CN0dBHz)
	fmt.Printf("  SNR                %8.2f dB\n", res.SNRdB)
	fmt.Printf("  Threshold          %8.2f dB\n", res.SNRThresholdDB)
	fmt.Printf("  Margin             %8.2f dB\n", res.LinkMarginDB)
	fmt.Printf("  Symbol rate        %8.3f MBd\n", res.SymbolRateBd/1e6)
	fmt.Printf("  Bitrate            %8.3f Mbps\n", res.BitrateBps/1e6)
	fmt.Println()

	fmt.Println("Availability")
	fmt.Printf("  Annual             %8.3f %%\n", res.Availability)
	fmt.Printf("  Worst month        %8.3f %%\n", res.WorstMonthAvail)
	fmt.Printf("  Solver iterations  %8d\n", res.SolverIterations)

	if len(res.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings")
		for _, w := range res.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
