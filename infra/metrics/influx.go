package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/enersim/gridopt/core/metrics"
	"github.com/enersim/gridopt/core/model"
	"github.com/enersim/gridopt/infra/logger"
)

// InfluxSink writes solve summaries and per-interval dispatch points to an
// InfluxDB instance using the official client. The dispatch measurement is
// the data source for energy-mix-over-time dashboards.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSolve writes one summary point per optimization run.
func (s *InfluxSink) RecordSolve(rec coremetrics.SolveRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatch_solve").
		AddTag("run_id", rec.RunID).
		AddTag("objective", string(rec.Objective)).
		AddTag("status", string(rec.Status)).
		AddField("intervals", rec.Intervals).
		AddField("objective_value", round3(rec.ObjectiveValue)).
		AddField("total_cost_eur", round3(rec.TotalCostEur)).
		AddField("total_emissions_kg", round3(rec.TotalEmissionsKg)).
		AddField("curtailed_kwh", round3(rec.CurtailedKWh)).
		AddField("duration_ms", rec.Duration.Milliseconds()).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDispatch writes one point per solved interval.
func (s *InfluxSink) RecordDispatch(runID string, records []model.DispatchRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range records {
		p := write.NewPointWithMeasurement("dispatch_interval").
			AddTag("run_id", runID).
			AddField("load_kwh", round3(r.LoadKWh)).
			AddField("solar_kwh", round3(r.SolarKWh)).
			AddField("grid_import_kwh", round3(r.GridImportKWh)).
			AddField("grid_export_kwh", round3(r.GridExportKWh)).
			AddField("battery_charge_kwh", round3(r.BatteryChargeKWh)).
			AddField("battery_discharge_kwh", round3(r.BatteryDischargeKWh)).
			AddField("diesel_kwh", round3(r.DieselKWh)).
			AddField("fuel_cell_kwh", round3(r.FuelCellKWh)).
			AddField("electrolyzer_kwh", round3(r.ElectrolyzerKWh)).
			AddField("curtailed_kwh", round3(r.CurtailedKWh)).
			AddField("soc", round3(r.SoC)).
			AddField("tank_kg", round3(r.TankKg)).
			SetTime(r.Timestamp)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
