// satlink-batch computes the link budget from one satellite carrier to
// every visible ground station in a scenario, over a small worker
// pool, and serves Prometheus metrics while it runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/shiyongxin/SatLink/atmosphere"
	"github.com/shiyongxin/SatLink/core"
	"github.com/shiyongxin/SatLink/internal/calc"
	"github.com/shiyongxin/SatLink/internal/logging"
	"github.com/shiyongxin/SatLink/internal/observability"
	"github.com/shiyongxin/SatLink/store"
)

type stationResult struct {
	stationID string
	res       calc.Result
	err       error
}

func main() {
	scenarioPath := flag.String("scenario", "configs/scenario.json", "Path to a JSON or YAML scenario file")
	modcodPath := flag.String("modcods", "configs/modcods.json", "Path to the MODCOD table")
	metricsAddr := flag.String("metrics-addr", ":9090", "HTTP address for Prometheus /metrics")

	satelliteID := flag.String("satellite", "", "Satellite component ID")
	transponderID := flag.String("transponder", "", "Transponder component ID")
	carrierID := flag.String("carrier", "", "Carrier component ID")
	receiverKind := flag.String("receiver-kind", calc.ReceiverSimple, "Receiver kind: detailed or simple")
	receiverID := flag.String("receiver", "", "Receiver component ID")
	requester := flag.String("requester", "", "Requester identity scoping component visibility")

	margin := flag.Float64("margin", 0, "Extra SNR margin over the demodulation threshold, dB")
	workers := flag.Int("workers", runtime.NumCPU(), "Concurrent calculation workers")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewLinkCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Err(err))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(*metricsAddr, collector, log)

	table, err := core.LoadModcodFile(*modcodPath)
	if err != nil {
		log.Error(ctx, "failed to load modcod table", logging.String("path", *modcodPath), logging.Err(err))
		os.Exit(1)
	}

	st := store.New(store.WithMetricsRecorder(collector))
	scenario, err := store.LoadScenarioFile(st, table, *scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("path", *scenarioPath), logging.Err(err))
		os.Exit(1)
	}

	base := calc.Request{
		SatelliteID:   pick(*satelliteID, scenario.SatelliteIDs),
		TransponderID: pick(*transponderID, scenario.TransponderIDs),
		CarrierID:     pick(*carrierID, scenario.CarrierIDs),
		Receiver: calc.ReceiverRef{
			Kind: *receiverKind,
			ID:   pick(*receiverID, scenario.ReceiverIDs),
		},
		Requester: *requester,
		MarginDB:  *margin,
	}

	svc := calc.NewService(st, atmosphere.NewModel(atmosphere.Config{}), table, log, collector)

	stations := st.ListGroundStations(*requester)
	log.Info(ctx, "starting batch calculation",
		logging.String("satellite_id", base.SatelliteID),
		logging.Int("ground_stations", len(stations)),
		logging.Int("workers", *workers),
	)

	results := runBatch(ctx, svc, base, stations, *workers)
	printSummary(results)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	for _, r := range results {
		if r.err != nil {
			os.Exit(1)
		}
	}
}

// runBatch fans the per-station requests out over a fixed worker pool
// and collects the results in station order.
func runBatch(ctx context.Context, svc *calc.Service, base calc.Request, stations []store.GroundStation, workers int) []stationResult {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan store.GroundStation)
	out := make(chan stationResult, len(stations))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for gs := range jobs {
				req := base
				req.GroundStationID = gs.ID
				res, err := svc.ComputeLink(ctx, req)
				out <- stationResult{stationID: gs.ID, res: res, err: err}
			}
		}()
	}

feed:
	for _, gs := range stations {
		select {
		case jobs <- gs:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]stationResult, 0, len(stations))
	for r := range out {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].stationID < results[j].stationID })
	return results
}

func printSummary(results []stationResult) {
	fmt.Printf("%-20s %10s %10s %10s %12s %12s\n",
		"GROUND STATION", "ELEV °", "SNR dB", "MARGIN dB", "AVAIL %", "WORST-MO %")
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("%-20s error: %v\n", r.stationID, r.err)
			continue
		}
		fmt.Printf("%-20s %10.2f %10.2f %10.2f %12.3f %12.3f\n",
			r.stationID,
			r.res.ElevationDeg,
			r.res.SNRdB,
			r.res.LinkMarginDB,
			r.res.Availability,
			r.res.WorstMonthAvail,
		)
	}
}

func pick(flagValue string, ids []string) string {
	if flagValue != "" {
		return flagValue
	}
	if len(ids) == 1 {
		return ids[0]
	}
	return ""
}

func serveMetrics(addr string, collector *observability.LinkCollector, log logging.Logger) *http.Server {
	if collector == nil || addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
