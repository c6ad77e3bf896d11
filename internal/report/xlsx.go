package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"battery-savings/internal/metrics"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "summary"
	monthsSheet  = "months"
	ledgerSheet  = "ledger"
)

var ledgerHeader = []interface{}{
	"Timestamp", "Action",
	"Import (kWh)", "Export (kWh)",
	"New import (kWh)", "New export (kWh)",
	"Charge (kWh)", "Discharge (kWh)",
	"SoC start (kWh)", "SoC end (kWh)",
}

// BuildXLSX renders a completed report as a workbook with a summary sheet,
// the monthly capacity table and, when present, the quarter-hour ledger.
func BuildXLSX(r *Report) ([]byte, error) {
	b, err := buildXLSX(r)
	metrics.IncExport("xlsx", err)
	return b, err
}

func buildXLSX(r *Report) ([]byte, error) {
	if r == nil || r.Status != StatusCompleted || r.Summary == nil || r.Debug == nil {
		return nil, errors.New("report has no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(monthsSheet); err != nil {
		return nil, err
	}

	writeSummary(f, r)
	writeMonths(f, r)
	if len(r.Ledger) > 0 {
		if err := writeLedger(f, r); err != nil {
			return nil, fmt.Errorf("write ledger: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, r *Report) {
	s, d := r.Summary, r.Debug
	payback := interface{}(s.PaybackYears.Format(1))
	if s.PaybackYears.Valid {
		payback = s.PaybackYears.Float64
	}

	rows := [][]interface{}{
		{"Battery savings estimate"},
		{},
		{"Period from", r.Dataset.From.Format(time.DateTime)},
		{"Period to", r.Dataset.To.Format(time.DateTime)},
		{"Quarter-hours", r.Dataset.Quarters},
		{"Skipped rows", r.Dataset.Skipped},
		{"Months", s.Months},
		{},
		{"Capacity (kWh)", d.Battery.CapacityKWh},
		{"Reserve (%)", d.Battery.ReservePct},
		{"Reserve (kWh)", d.Battery.ReserveKWh},
		{"Charge power (kW)", d.Battery.ChargePowerKW},
		{"Discharge power (kW)", d.Battery.DischargePowerKW},
		{"Investment", d.Investment},
		{},
		{"Import price (per kWh)", d.Prices.ImportPerKWh},
		{"Export price (per kWh)", d.Prices.ExportPerKWh},
		{"Capacity rate (per kW per year)", d.Prices.CapacityRatePerKWYear},
		{},
		{"Import without battery (kWh)", d.Totals.ImportOriginal},
		{"Import with battery (kWh)", d.Totals.ImportNew},
		{"Export without battery (kWh)", d.Totals.ExportOriginal},
		{"Export with battery (kWh)", d.Totals.ExportNew},
		{"Highest monthly peak without battery (kW)", s.PeakBeforeKW},
		{"Highest monthly peak with battery (kW)", s.PeakAfterKW},
		{},
		{"Energy cost without battery", d.Money.EnergyCostOriginal},
		{"Energy cost with battery", d.Money.EnergyCostNew},
		{"Capacity cost without battery", d.Money.CapacityCostOriginal},
		{"Capacity cost with battery", d.Money.CapacityCostNew},
		{"Energy saving", s.EnergySaving},
		{"Capacity saving", s.CapacitySaving},
		{"Total saving", s.TotalSaving},
		{"Payback (years)", payback},
		{},
		{s.Note},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = f.SetSheetRow(summarySheet, cell, &row)
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 42)
	_ = f.SetColWidth(summarySheet, "B", "B", 20)
}

func writeMonths(f *excelize.File, r *Report) {
	_ = f.SetSheetRow(monthsSheet, "A1", &[]interface{}{
		"Month",
		"Peak without battery (kW)", "Rolling average without battery (kW)",
		"Peak with battery (kW)", "Rolling average with battery (kW)",
	})
	c := r.Capacity
	if c == nil {
		return
	}
	for i, m := range c.Months {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(monthsSheet, cell, &[]interface{}{
			m,
			c.Original.PeaksKW[i], c.Original.RollingAvgKW[i],
			c.New.PeaksKW[i], c.New.RollingAvgKW[i],
		})
	}
}

func writeLedger(f *excelize.File, r *Report) error {
	if _, err := f.NewSheet(ledgerSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(ledgerSheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", ledgerHeader); err != nil {
		return err
	}
	for i, row := range r.Ledger {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		err := sw.SetRow(cell, []interface{}{
			row.Timestamp.Format(time.DateTime), string(row.Action),
			row.ImportKWh, row.ExportKWh,
			row.NewImportKWh, row.NewExportKWh,
			row.ChargeKWh, row.DischargeKWh,
			row.SOCStartKWh, row.SOCEndKWh,
		})
		if err != nil {
			return err
		}
	}
	return sw.Flush()
}
