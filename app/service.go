// Package app wires the optimizer to its observability and publishing
// collaborators.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/enersim/gridopt/config"
	"github.com/enersim/gridopt/core/events"
	coremetrics "github.com/enersim/gridopt/core/metrics"
	"github.com/enersim/gridopt/core/model"
	"github.com/enersim/gridopt/core/optimizer"
	"github.com/enersim/gridopt/infra/logger"
	"github.com/enersim/gridopt/infra/metrics"
	"github.com/enersim/gridopt/infra/mqtt"
	"github.com/enersim/gridopt/internal/eventbus"
)

// Service owns one Optimizer plus the sinks consuming its results. Runs are
// independent: concurrent Optimize calls share no per-run state.
type Service struct {
	Optimizer *optimizer.Optimizer

	bus       *eventbus.Bus[events.SolveCompleted]
	sink      coremetrics.MetricsSink
	publisher mqtt.ResultPublisher
	log       logger.Logger

	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var publisher mqtt.ResultPublisher
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		publisher = pub
	}

	svc := &Service{
		Optimizer:   optimizer.New(cfg.Solver.Options(), logger.New("optimizer")),
		bus:         eventbus.New[events.SolveCompleted](),
		sink:        sink,
		publisher:   publisher,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}
	return svc, nil
}

// Run starts the background consumers and blocks until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	sub := s.bus.Subscribe()
	go s.consume(sub)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Optimize executes one run and publishes its completion on the bus.
func (s *Service) Optimize(ctx context.Context, req model.OptimizationRequest) (*model.OptimizationResult, error) {
	res, err := s.Optimizer.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.SolveCompleted{Result: res, Finished: time.Now()})
	return res, nil
}

func (s *Service) consume(sub <-chan events.SolveCompleted) {
	for ev := range sub {
		res := ev.Result
		rec := coremetrics.SolveRecord{
			RunID:            res.RunID,
			Objective:        res.Objective,
			Status:           res.Status,
			Intervals:        len(res.Records),
			ObjectiveValue:   res.ObjectiveValue,
			TotalCostEur:     res.Summary.TotalCostEur,
			TotalEmissionsKg: res.Summary.TotalEmissionsKg,
			CurtailedKWh:     res.Summary.CurtailedKWh,
			Duration:         res.SolveDuration,
			Time:             ev.Finished,
		}
		if err := s.sink.RecordSolve(rec); err != nil {
			s.log.Errorf("record solve: %v", err)
		}
		if dr, ok := s.sink.(coremetrics.DispatchRecorder); ok {
			if err := dr.RecordDispatch(res.RunID, res.Records); err != nil {
				s.log.Errorf("record dispatch: %v", err)
			}
		}
		if s.publisher != nil {
			if err := s.publisher.PublishResult(res); err != nil {
				s.log.Errorf("publish result: %v", err)
			}
		}
	}
}

// Close releases the bus and the publisher connection.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
