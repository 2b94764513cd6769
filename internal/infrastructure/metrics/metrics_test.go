package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/caixa/internal/domain"
	"github.com/iho/caixa/internal/usecase"
)

var _ usecase.Recorder = (*Metrics)(nil)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.TransactionsAdded == nil || m.StateSaves == nil || m.StoreSizeGauge == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.Reset()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestRecorderUpdatesMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TransactionAdded(domain.Income)
	m.TransactionAdded(domain.Income)
	m.TransactionAdded(domain.Expense)
	m.StateSaved(time.Millisecond, nil)
	m.StateSaved(time.Millisecond, errors.New("disk full"))
	m.StateLoaded(0, true)
	m.Imported(4, nil)
	m.Imported(0, domain.ErrInvalidFormat)
	m.StoreSize(7)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"income added", testutil.ToFloat64(m.TransactionsAdded.WithLabelValues("entrada")), 2},
		{"expense added", testutil.ToFloat64(m.TransactionsAdded.WithLabelValues("saida")), 1},
		{"saves ok", testutil.ToFloat64(m.StateSaves.WithLabelValues("ok")), 1},
		{"saves error", testutil.ToFloat64(m.StateSaves.WithLabelValues("error")), 1},
		{"corrupt loads", testutil.ToFloat64(m.StateLoads.WithLabelValues("corrupt")), 1},
		{"imports ok", testutil.ToFloat64(m.ImportsTotal.WithLabelValues("ok")), 1},
		{"imports error", testutil.ToFloat64(m.ImportsTotal.WithLabelValues("error")), 1},
		{"imported transactions", testutil.ToFloat64(m.ImportedTotal), 4},
		{"store size", testutil.ToFloat64(m.StoreSizeGauge), 7},
	}

	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}
