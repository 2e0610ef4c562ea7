package watch

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sectorscope/internal"
	"sectorscope/internal/config"
	"sectorscope/internal/pipeline"
	"sectorscope/internal/storage"
)

const lastCycleMetadataKey = "watch:last_cycle"

// Service refreshes the configured sectors on an interval and exposes
// Prometheus metrics about each cycle on /metrics.
type Service struct {
	store     storage.Store
	cfg       config.Config
	snapshots *pipeline.SnapshotService

	registry *prometheus.Registry
	server   *http.Server

	cycleDur      prometheus.Summary
	widgetRecords *prometheus.GaugeVec
	widgetErrors  *prometheus.CounterVec
	lastSuccessTS *prometheus.GaugeVec
}

func NewService(store storage.Store, api pipeline.Fetcher, cfg config.Config) *Service {
	s := &Service{
		store:     store,
		cfg:       cfg,
		snapshots: pipeline.NewSnapshotService(store, api, cfg),
		registry:  prometheus.NewRegistry(),
	}

	s.cycleDur = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "sectorscope",
		Name:      "watch_cycle_duration_seconds",
		Help:      "Time spent refreshing all watched sectors",
	})
	s.widgetRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sectorscope",
		Name:      "widget_records",
		Help:      "Normalized records in the latest snapshot per widget",
	}, []string{"sector", "widget"})
	s.widgetErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sectorscope",
		Name:      "widget_fetch_errors_total",
		Help:      "Widget fetches that failed and were skipped",
	}, []string{"sector", "widget"})
	s.lastSuccessTS = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sectorscope",
		Name:      "last_snapshot_timestamp_seconds",
		Help:      "Unix timestamp of the last persisted snapshot per sector",
	}, []string{"sector"})
	s.registry.MustRegister(s.cycleDur, s.widgetRecords, s.widgetErrors, s.lastSuccessTS)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.server = &http.Server{
		Addr:         cfg.MetricsListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Run serves metrics and loops refresh cycles until the context ends.
func (s *Service) Run(ctx context.Context) error {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("watch metrics server error: %v\n", err)
		}
	}()

	for {
		if err := s.RunCycle(ctx); err != nil {
			fmt.Printf("watch cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return s.server.Shutdown(shutdownCtx)
		case <-time.After(time.Duration(s.cfg.WatchIntervalSec) * time.Second):
		}
	}
}

// RunCycle snapshots every watched sector once. Sector failures do not
// abort the cycle; only storage errors do.
func (s *Service) RunCycle(ctx context.Context) error {
	start := time.Now()
	defer func() { s.cycleDur.Observe(time.Since(start).Seconds()) }()

	for _, sectorID := range s.cfg.WatchSectorIDs {
		snap, failures, err := s.snapshots.SnapshotSector(ctx, sectorID)
		sector := strconv.Itoa(sectorID)
		if err != nil {
			return fmt.Errorf("sector %d: %w", sectorID, err)
		}

		for _, failure := range failures {
			s.widgetErrors.WithLabelValues(sector, failure.Widget).Inc()
			fmt.Printf("watch widget failed sector=%d widget=%s err=%v\n", sectorID, failure.Widget, failure.Err)
		}
		s.observeRecords(sector, snap)
		s.lastSuccessTS.WithLabelValues(sector).Set(float64(time.Now().Unix()))

		if s.cfg.WatchAutoExport {
			out := filepath.Join(s.cfg.OutputDir, "watch", fmt.Sprintf("sector_%d_%d.xlsx", sectorID, snap.ID))
			if err := pipeline.ExportSectorSnapshotXLSX(snap, out); err != nil {
				return fmt.Errorf("sector %d export: %w", sectorID, err)
			}
		}

		fmt.Printf("watch cycle sector=%d snapshot=%d transactions=%d companies=%d failures=%d\n",
			sectorID, snap.ID, len(snap.Transactions), len(snap.Companies), len(failures))
	}

	return s.store.SetMetadata(lastCycleMetadataKey, time.Now().UTC().Format(time.RFC3339))
}

func (s *Service) observeRecords(sector string, snap *internal.SectorSnapshot) {
	marketMapCount := 0
	for _, bucket := range snap.MarketMap {
		marketMapCount += len(bucket)
	}
	s.widgetRecords.WithLabelValues(sector, "recent_transactions").Set(float64(len(snap.Transactions)))
	s.widgetRecords.WithLabelValues(sector, "strategic_acquirers").Set(float64(len(snap.Acquirers)))
	s.widgetRecords.WithLabelValues(sector, "active_investors").Set(float64(len(snap.Investors)))
	s.widgetRecords.WithLabelValues(sector, "market_map").Set(float64(marketMapCount))
	s.widgetRecords.WithLabelValues(sector, "new_companies").Set(float64(len(snap.Companies)))
	s.widgetRecords.WithLabelValues(sector, "insights").Set(float64(len(snap.Insights)))
}
