package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/regfsm/pkg/domain"
	"github.com/aretw0/regfsm/pkg/expr"
)

const namespace = "regfsm"

// Metrics holds the collectors fed by the evaluator hooks.
type Metrics struct {
	Registry *prometheus.Registry

	compilations *prometheus.CounterVec
	operators    *prometheus.CounterVec
	validations  *prometheus.CounterVec
	duration     prometheus.Histogram
	stepDuration *prometheus.HistogramVec
	states       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		compilations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compilations_total",
				Help:      "Total number of evaluated expressions by outcome.",
			},
			[]string{"outcome"},
		),
		operators: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operator_applications_total",
				Help:      "Total number of operator applications by operator.",
			},
			[]string{"operator"},
		),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Rejected expressions by syntax error kind.",
			},
			[]string{"kind"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Duration of complete evaluations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of one operator application including determinization and minimization.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"operator"},
		),
		states: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "automaton_states",
				Help:      "Number of states per pipeline stage.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
			},
			[]string{"stage"},
		),
	}

	m.Registry.MustRegister(
		m.compilations, m.operators, m.validations,
		m.duration, m.stepDuration, m.states,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			op := string(e.Operator)
			m.operators.WithLabelValues(op).Inc()
			m.stepDuration.WithLabelValues(op).Observe(e.Duration.Seconds())
			for _, stage := range domain.Stages {
				if a := e.Group.Stage(stage); a != nil {
					m.states.WithLabelValues(string(stage)).Observe(float64(a.Len()))
				}
			}
		},
		OnComplete: func(_ context.Context, e *domain.CompleteEvent) {
			if e.Err != nil {
				m.compilations.WithLabelValues("error").Inc()
				return
			}
			m.compilations.WithLabelValues("success").Inc()
			m.duration.Observe(e.Duration.Seconds())
		},
	}
}

// ObserveValidation counts every syntax error carried by err.
// Nil and non-syntax errors are ignored.
func (m *Metrics) ObserveValidation(err error) {
	for _, se := range expr.SyntaxErrors(err) {
		m.validations.WithLabelValues(string(se.Kind)).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
