package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the set of nametag collectors. Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	Imports      *prometheus.CounterVec
	ImportedRows prometheus.Counter
	Exports      *prometheus.CounterVec
	PagesPrinted prometheus.Counter
	Events       prometheus.Gauge
	WorkingTags  prometheus.Gauge
	SelectedTags prometheus.Gauge
	StoreErrors  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.Imports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nametags",
		Name:      "imports_total",
		Help:      "Roster imports by merge mode",
	}, []string{"mode"})
	m.ImportedRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nametags",
		Name:      "imported_rows_total",
		Help:      "Roster rows turned into tags",
	})
	m.Exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nametags",
		Name:      "exports_total",
		Help:      "Exports by format",
	}, []string{"format"})
	m.PagesPrinted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nametags",
		Name:      "sheet_pages_total",
		Help:      "Sheet pages written to PDF",
	})
	m.Events = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nametags",
		Name:      "events",
		Help:      "Events in the collection",
	})
	m.WorkingTags = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nametags",
		Name:      "working_tags",
		Help:      "Tags in the working list",
	})
	m.SelectedTags = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nametags",
		Name:      "selected_tags",
		Help:      "Selected tags in the working list",
	})
	m.StoreErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nametags",
		Name:      "store_errors_total",
		Help:      "Failed reads and writes of the event collection",
	}, []string{"op"})

	m.registry.MustRegister(
		m.Imports, m.ImportedRows, m.Exports, m.PagesPrinted,
		m.Events, m.WorkingTags, m.SelectedTags, m.StoreErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
