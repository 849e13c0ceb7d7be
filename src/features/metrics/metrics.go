// Package metrics exposes catalog and import counters on a dedicated
// Prometheus endpoint.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cancionero/src/features/catalog"
	"cancionero/src/songs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	songsTotalDesc = prometheus.NewDesc(
		"cancionero_songs_total",
		"Number of songs in the catalog.",
		nil, nil,
	)
	songsByStateDesc = prometheus.NewDesc(
		"cancionero_songs_by_state",
		"Number of songs per workflow state.",
		[]string{"state"}, nil,
	)
	songsByTypeDesc = prometheus.NewDesc(
		"cancionero_songs_by_type",
		"Number of songs per tempo type.",
		[]string{"type"}, nil,
	)
)

// Service owns the metric registry and the HTTP endpoint serving it. Catalog
// gauges are computed from the mirror at scrape time, so they track every
// mutation; import counters accumulate through the import observer hook.
type Service struct {
	catalog  *catalog.Service
	registry *prometheus.Registry
	server   *http.Server

	importInserted   prometheus.Counter
	importDuplicates prometheus.Counter
	importFailed     prometheus.Counter
}

func NewService(catalogService *catalog.Service) *Service {
	s := &Service{
		catalog:  catalogService,
		registry: prometheus.NewRegistry(),
		importInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cancionero_import_inserted_total",
			Help: "Songs inserted by CSV imports.",
		}),
		importDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cancionero_import_duplicates_total",
			Help: "CSV rows skipped as duplicates of existing songs.",
		}),
		importFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cancionero_import_failed_total",
			Help: "CSV rows that failed to persist.",
		}),
	}
	s.registry.MustRegister(s, s.importInserted, s.importDuplicates, s.importFailed)
	return s
}

// Describe implements prometheus.Collector.
func (s *Service) Describe(ch chan<- *prometheus.Desc) {
	ch <- songsTotalDesc
	ch <- songsByStateDesc
	ch <- songsByTypeDesc
}

// Collect implements prometheus.Collector. It reads the live catalog counts
// on every scrape.
func (s *Service) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(songsTotalDesc, prometheus.GaugeValue, float64(s.catalog.Count()))
	byState := s.catalog.CountsByState()
	for _, state := range songs.States() {
		ch <- prometheus.MustNewConstMetric(songsByStateDesc, prometheus.GaugeValue, float64(byState[state]), string(state))
	}
	byType := s.catalog.CountsByType()
	for _, typ := range songs.Types() {
		ch <- prometheus.MustNewConstMetric(songsByTypeDesc, prometheus.GaugeValue, float64(byType[typ]), string(typ))
	}
}

// ObserveImport records the outcome of one import batch.
func (s *Service) ObserveImport(inserted, duplicates, failed int) {
	s.importInserted.Add(float64(inserted))
	s.importDuplicates.Add(float64(duplicates))
	s.importFailed.Add(float64(failed))
}

// Start serves /metrics on its own port so scrapes never compete with the
// API server.
func (s *Service) Start(port uint32) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.server = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		slog.Info("Metrics endpoint listening", "port", port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics endpoint stopped", "error", err)
		}
	}()
}

// Stop shuts the metrics endpoint down.
func (s *Service) Stop() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Metrics endpoint shutdown failed", "error", err)
	}
}
