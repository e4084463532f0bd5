// Package export serializes dispatch schedules for downstream consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/enersim/gridopt/core/model"
)

// WriteJSON writes the full optimization result to w in JSON format.
func WriteJSON(w io.Writer, res *model.OptimizationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteCSV writes the per-interval dispatch array to w with one row per
// interval.
func WriteCSV(w io.Writer, records []model.DispatchRecord) error {
	cw := csv.NewWriter(w)
	header := []string{
		"timestamp", "load_kwh", "solar_kwh", "grid_import_kwh", "grid_export_kwh",
		"battery_charge_kwh", "battery_discharge_kwh", "diesel_kwh",
		"fuel_cell_kwh", "electrolyzer_kwh", "curtailed_kwh", "soc", "tank_kg",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		rec := []string{
			r.Timestamp.Format(time.RFC3339),
			f(r.LoadKWh), f(r.SolarKWh), f(r.GridImportKWh), f(r.GridExportKWh),
			f(r.BatteryChargeKWh), f(r.BatteryDischargeKWh), f(r.DieselKWh),
			f(r.FuelCellKWh), f(r.ElectrolyzerKWh), f(r.CurtailedKWh),
			f(r.SoC), f(r.TankKg),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
