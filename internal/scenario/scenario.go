// Package scenario loads optimization requests from JSON or YAML files. It is
// the file-based front door used by the CLI; service callers construct
// model.OptimizationRequest values directly.
package scenario

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/enersim/gridopt/core/model"
)

// Scenario is the on-disk schema. It mirrors model.OptimizationRequest with
// file-friendly field types: the start time is an RFC3339 string and a
// negative grid limit means unbounded.
type Scenario struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	HorizonDays       int    `json:"horizon_days"`
	ResolutionMinutes int    `json:"resolution_minutes"`
	Start             string `json:"start"`
	Objective         string `json:"objective"`

	LoadKW            []float64 `json:"load_kw"`
	PriceEurKWh       []float64 `json:"price_eur_kwh"`
	ExportPriceEurKWh []float64 `json:"export_price_eur_kwh"`
	SolarKW           []float64 `json:"solar_kw"`
	Weather           string    `json:"weather"`
	SolarPeakHour     float64   `json:"solar_peak_hour"`

	Assets model.AssetParameters `json:"assets"`

	InitialSoC    float64 `json:"initial_soc"`
	InitialTankKg float64 `json:"initial_tank_kg"`

	EnableDiesel   bool `json:"enable_diesel"`
	EnableHydrogen bool `json:"enable_hydrogen"`
}

// Load reads a scenario file and converts it to an OptimizationRequest.
func Load(path string) (*Scenario, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported scenario format: %s", filepath.Ext(path))
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	var sc Scenario
	if err := k.UnmarshalWithConf("", &sc, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	return &sc, nil
}

// ToRequest converts the file schema into the optimizer request.
func (s *Scenario) ToRequest() (model.OptimizationRequest, error) {
	req := model.OptimizationRequest{
		HorizonDays:       s.HorizonDays,
		ResolutionMinutes: s.ResolutionMinutes,
		Objective:         model.Objective(s.Objective),
		LoadKW:            s.LoadKW,
		PriceEurKWh:       s.PriceEurKWh,
		ExportPriceEurKWh: s.ExportPriceEurKWh,
		SolarKW:           s.SolarKW,
		Weather:           model.WeatherLabel(s.Weather),
		SolarPeakHour:     s.SolarPeakHour,
		Assets:            s.Assets,
		InitialSoC:        s.InitialSoC,
		InitialTankKg:     s.InitialTankKg,
		EnableDiesel:      s.EnableDiesel,
		EnableHydrogen:    s.EnableHydrogen,
	}
	if s.Start != "" {
		start, err := time.Parse(time.RFC3339, s.Start)
		if err != nil {
			return model.OptimizationRequest{}, &model.ValidationError{
				Field:  "start",
				Reason: fmt.Sprintf("not an RFC3339 timestamp: %v", err),
			}
		}
		req.Start = start
	}
	if req.Assets.Grid.ImportLimitKW < 0 {
		req.Assets.Grid.ImportLimitKW = model.Unlimited
	}
	if req.Assets.Grid.ExportLimitKW < 0 {
		req.Assets.Grid.ExportLimitKW = model.Unlimited
	}
	return req, nil
}
