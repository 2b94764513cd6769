package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/caixa/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsAdded *prometheus.CounterVec
	StoreSizeGauge    prometheus.Gauge
	Resets            prometheus.Counter

	// Persistence metrics
	StateSaves    *prometheus.CounterVec
	SaveDuration  prometheus.Histogram
	StateLoads    *prometheus.CounterVec
	ImportsTotal  *prometheus.CounterVec
	ImportedTotal prometheus.Counter
}

// New creates and registers all Prometheus metrics. A nil registerer selects
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Transaction metrics
		TransactionsAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixa_transactions_added_total",
				Help: "Total number of transactions added by type",
			},
			[]string{"type"},
		),
		StoreSizeGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "caixa_store_transactions",
			Help: "Current number of transactions in the store",
		}),
		Resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixa_resets_total",
			Help: "Total number of store resets",
		}),

		// Persistence metrics
		StateSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixa_state_saves_total",
				Help: "Total state saves by status",
			},
			[]string{"status"},
		),
		SaveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "caixa_state_save_duration_seconds",
			Help:    "Duration of state saves",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		StateLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixa_state_loads_total",
				Help: "Total state loads by result",
			},
			[]string{"result"},
		),
		ImportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caixa_imports_total",
				Help: "Total backup imports by status",
			},
			[]string{"status"},
		),
		ImportedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "caixa_imported_transactions_total",
			Help: "Total number of transactions received through imports",
		}),
	}
}

// TransactionAdded implements usecase.Recorder.
func (m *Metrics) TransactionAdded(t domain.TransactionType) {
	m.TransactionsAdded.WithLabelValues(string(t)).Inc()
}

// StateSaved implements usecase.Recorder.
func (m *Metrics) StateSaved(duration time.Duration, err error) {
	m.StateSaves.WithLabelValues(status(err)).Inc()
	m.SaveDuration.Observe(duration.Seconds())
}

// StateLoaded implements usecase.Recorder.
func (m *Metrics) StateLoaded(_ int, corrupt bool) {
	result := "ok"
	if corrupt {
		result = "corrupt"
	}
	m.StateLoads.WithLabelValues(result).Inc()
}

// Imported implements usecase.Recorder.
func (m *Metrics) Imported(count int, err error) {
	m.ImportsTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.ImportedTotal.Add(float64(count))
	}
}

// Reset implements usecase.Recorder.
func (m *Metrics) Reset() {
	m.Resets.Inc()
}

// StoreSize implements usecase.Recorder.
func (m *Metrics) StoreSize(count int) {
	m.StoreSizeGauge.Set(float64(count))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
