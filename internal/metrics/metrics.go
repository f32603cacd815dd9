// Package metrics exposes the engine's prometheus collectors. The
// middleware/handler shape follows the teacher's own metrics package;
// the collectors themselves are domain-specific to the simulation: tick
// duration, population, mission, and death counters/gauges, following
// the sibling repo's NewMetrics-style grouping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arakh_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"method", "path", "status"})

	tickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arakh_tick_duration_seconds",
		Help:    "Wall-clock time to process one engine tick",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	regionPopulation = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "arakh_region_population",
		Help: "Live character count per region and species",
	}, []string{"region_id", "species_id"})

	missionsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arakh_missions_started_total",
		Help: "Espionage missions started, by mission type",
	}, []string{"mission_type"})

	missionsResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arakh_missions_resolved_total",
		Help: "Espionage missions resolved, by outcome",
	}, []string{"outcome"})

	deaths = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arakh_character_deaths_total",
		Help: "Character deaths, by cause",
	}, []string{"cause"})

	checkpointsSaved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arakh_checkpoints_saved_total",
		Help: "World checkpoints written, by repository backend",
	}, []string{"backend"})
)

func init() {
	prometheus.MustRegister(
		httpRequestDuration,
		tickDuration,
		regionPopulation,
		missionsStarted,
		missionsResolved,
		deaths,
		checkpointsSaved,
	)
}

// Handler serves the registered collectors for Prometheus scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request latency for every HTTP request it wraps.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RecordTickDuration reports how long one engine tick took to process.
func RecordTickDuration(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// SetRegionPopulation reports the live character count for one
// region/species pair. The engine's tick does not call it; the gauge
// changes only when a caller sets it.
func SetRegionPopulation(regionID, speciesID string, count int) {
	regionPopulation.WithLabelValues(regionID, speciesID).Set(float64(count))
}

// RecordMissionStarted increments the started counter for a mission type.
func RecordMissionStarted(missionType string) {
	missionsStarted.WithLabelValues(missionType).Inc()
}

// RecordMissionResolved increments the resolved counter for an outcome.
func RecordMissionResolved(outcome string) {
	missionsResolved.WithLabelValues(outcome).Inc()
}

// RecordDeath increments the death counter for a cause of death.
func RecordDeath(cause string) {
	deaths.WithLabelValues(cause).Inc()
}

// RecordCheckpointSaved increments the checkpoint counter for a backend.
func RecordCheckpointSaved(backend string) {
	checkpointsSaved.WithLabelValues(backend).Inc()
}
