package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/enersim/gridopt/core/metrics"
)

// PromSink records solve outcomes in Prometheus metrics.
type PromSink struct {
	solves    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	objective *prometheus.GaugeVec
	curtailed prometheus.Counter
}

// NewPromSink registers solver metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_solves_total",
		Help: "Total number of dispatch optimizations by objective and status",
	}, []string{"objective", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_solve_duration_seconds",
		Help:    "Wall-clock time spent in the solver",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"objective"})
	objective := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dispatch_objective_value",
		Help: "Objective value of the most recent solve",
	}, []string{"objective"})
	curtailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_curtailed_kwh_total",
		Help: "Cumulative curtailed energy across runs",
	})

	for _, c := range []prometheus.Collector{solves, duration, objective, curtailed} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return &PromSink{solves: solves, duration: duration, objective: objective, curtailed: curtailed}, nil
}

// RecordSolve increments the run counters and observes the solve duration.
func (s *PromSink) RecordSolve(rec coremetrics.SolveRecord) error {
	obj := string(rec.Objective)
	s.solves.WithLabelValues(obj, string(rec.Status)).Inc()
	s.duration.WithLabelValues(obj).Observe(rec.Duration.Seconds())
	s.objective.WithLabelValues(obj).Set(rec.ObjectiveValue)
	s.curtailed.Add(rec.CurtailedKWh)
	return nil
}
