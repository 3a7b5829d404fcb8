package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load outcomes reported on storefront_catalog_loads_total.
const (
	outcomeReady     = "ready"
	outcomeError     = "error"
	outcomeCancelled = "cancelled"
)

// Metrics holds the storefront service collectors.
type Metrics struct {
	loads        *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	loadsRunning prometheus.Gauge
	selections   *prometheus.CounterVec
	mounts       prometheus.Counter
}

// NewMetrics creates the service collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_catalog_loads_total",
			Help: "Catalog loads by outcome",
		}, []string{"outcome"}),
		loadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_catalog_load_duration_seconds",
			Help:    "Catalog load duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		loadsRunning: f.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_catalog_loads_in_flight",
			Help: "Catalog loads currently running",
		}),
		selections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_color_selections_total",
			Help: "Applied color selections by color",
		}, []string{"color"}),
		mounts: f.NewCounter(prometheus.CounterOpts{
			Name: "storefront_sessions_mounted_total",
			Help: "View sessions mounted",
		}),
	}
}
