package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the execution and step collectors.
type Metrics struct {
	executions   *prometheus.CounterVec
	execDuration *prometheus.HistogramVec
	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	inFlight     prometheus.Gauge
	gatherer     prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// uses a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hodr_executions_total",
			Help: "Total number of terminated executions",
		}, []string{"origin", "input", "variant", "state"}),
		execDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "hodr_execution_duration_seconds",
			Help: "Duration of executions",
		}, []string{"origin", "input"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hodr_steps_total",
			Help: "Total number of executed steps",
		}, []string{"step", "code"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "hodr_step_duration_seconds",
			Help: "Duration of steps",
		}, []string{"step"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hodr_executions_in_flight",
			Help: "Executions started and not yet terminated",
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.executions, m.execDuration, m.steps, m.stepDuration, m.inFlight)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExecutionStart: func(_ context.Context, e *domain.ExecutionEvent) {
			m.inFlight.Inc()
		},
		OnExecutionFinish: func(_ context.Context, e *domain.ExecutionEvent) {
			m.inFlight.Dec()
			m.executions.WithLabelValues(e.Origin.Name, e.Origin.Input, e.Origin.Variant, string(e.State)).Inc()
			m.execDuration.WithLabelValues(e.Origin.Name, e.Origin.Input).Observe(e.Duration.Seconds())
		},
		OnStepFinish: func(_ context.Context, e *domain.StepEvent) {
			code := ""
			if e.IsError {
				code = e.Code
			}
			m.steps.WithLabelValues(e.Step, code).Inc()
			m.stepDuration.WithLabelValues(e.Step).Observe(e.Duration.Seconds())
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
