package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"battery-savings/internal/backtest"
	"battery-savings/internal/config"
	"battery-savings/internal/data"
	"battery-savings/internal/meter"
	"battery-savings/internal/model"
	"battery-savings/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "analyze":
		cmdAnalyze(os.Args[2:])
	case "inspect":
		cmdInspect(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli analyze --data export.csv --config examples/config.yaml [--out results/ledger.csv] [--xlsx results/report.xlsx] [--json]")
	fmt.Println("  cli inspect --data export.csv [--tz Europe/Brussels]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - --data takes a ';'-separated CSV or an XLSX quarter-hour export")
	fmt.Println("  - the ledger CSV has action=CHARGING/IDLE/DISCHARGING per quarter")
}

func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to the meter export (.csv or .xlsx)")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "", "Optional: write the quarter-hour ledger as CSV")
	xlsxPath := fs.String("xlsx", "", "Optional: write the report as an XLSX workbook")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	tz := fs.String("tz", "", "Time zone of the export, overrides the config")
	_ = fs.Parse(args)

	if *dataPath == "" || *cfgPath == "" {
		fmt.Println("--data and --config are required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	exitOnErr(err)
	if *tz != "" {
		cfg.Timezone = *tz
	}
	loc, err := cfg.Location()
	exitOnErr(err)

	series, skipped := loadSeries(*dataPath, loc)
	rep, err := report.Analyze(series, skipped, cfg.Inputs())
	exitOnErr(err)

	if rep.Status == report.StatusEmpty {
		fmt.Printf("No usable quarter-hours in %s (%d rows skipped)\n", *dataPath, skipped)
		os.Exit(1)
	}

	if *outPath != "" {
		exitOnErr(os.MkdirAll(filepath.Dir(*outPath), 0o755))
		exitOnErr(backtest.WriteLedgerCSV(*outPath, rep.Ledger))
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(rep.Ledger), *outPath)
	}
	if *xlsxPath != "" {
		b, err := report.BuildXLSX(rep)
		exitOnErr(err)
		exitOnErr(os.MkdirAll(filepath.Dir(*xlsxPath), 0o755))
		exitOnErr(os.WriteFile(*xlsxPath, b, 0o644))
		fmt.Fprintf(os.Stderr, "Wrote report to %s\n", *xlsxPath)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		exitOnErr(enc.Encode(rep))
		return
	}
	printReport(cfg, rep)
}

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	dataPath := fs.String("data", "", "Path to the meter export (.csv or .xlsx)")
	tz := fs.String("tz", "", "Time zone of the export (default: local)")
	_ = fs.Parse(args)

	if *dataPath == "" {
		fmt.Println("--data is required")
		os.Exit(2)
	}
	loc, err := (&config.Config{Timezone: *tz}).Location()
	exitOnErr(err)

	series, skipped := loadSeries(*dataPath, loc)
	ds := report.Describe(series, skipped)
	if ds.Quarters == 0 {
		fmt.Printf("No usable quarter-hours (%d rows skipped)\n", ds.Skipped)
		return
	}

	var importKWh, exportKWh float64
	for _, q := range series {
		importKWh += q.ImportKWh
		exportKWh += q.ExportKWh
	}
	fmt.Printf("Quarters:   %d (%d rows skipped)\n", ds.Quarters, ds.Skipped)
	fmt.Printf("Period:     %s .. %s (%.1f days)\n", ds.From.Format(time.DateTime), ds.To.Format(time.DateTime), ds.Days)
	fmt.Printf("Months:     %d\n", countMonths(series))
	fmt.Printf("Import:     %.2f kWh\n", importKWh)
	fmt.Printf("Export:     %.2f kWh\n", exportKWh)
}

func loadSeries(path string, loc *time.Location) ([]model.QuarterRecord, int) {
	rows, err := data.LoadMeterFile(path)
	exitOnErr(err)
	return meter.Aggregator{Location: loc}.Aggregate(rows)
}

func printReport(cfg *config.Config, rep *report.Report) {
	s, d := rep.Summary, rep.Debug
	name := cfg.Battery.Name
	if name == "" {
		name = "battery"
	}

	fmt.Printf("%s: %.1f kWh, reserve %.0f%% (%.2f kWh), %.1f/%.1f kW\n",
		name, d.Battery.CapacityKWh, d.Battery.ReservePct, d.Battery.ReserveKWh,
		d.Battery.ChargePowerKW, d.Battery.DischargePowerKW)
	fmt.Printf("Data: %d quarters, %s .. %s, %d months (%d rows skipped)\n",
		rep.Dataset.Quarters, rep.Dataset.From.Format(time.DateOnly), rep.Dataset.To.Format(time.DateOnly),
		s.Months, rep.Dataset.Skipped)
	fmt.Println()
	fmt.Printf("%-28s %12s %12s\n", "", "without", "with battery")
	fmt.Printf("%-28s %12.2f %12.2f\n", "Import (kWh)", d.Totals.ImportOriginal, d.Totals.ImportNew)
	fmt.Printf("%-28s %12.2f %12.2f\n", "Export (kWh)", d.Totals.ExportOriginal, d.Totals.ExportNew)
	fmt.Printf("%-28s %12.2f %12.2f\n", "Highest monthly peak (kW)", s.PeakBeforeKW, s.PeakAfterKW)
	fmt.Printf("%-28s %12.2f %12.2f\n", "Energy cost", d.Money.EnergyCostOriginal, d.Money.EnergyCostNew)
	fmt.Printf("%-28s %12.2f %12.2f\n", "Capacity cost", d.Money.CapacityCostOriginal, d.Money.CapacityCostNew)
	fmt.Println()
	fmt.Printf("Energy saving=%.2f Capacity saving=%.2f Total saving=%.2f\n", s.EnergySaving, s.CapacitySaving, s.TotalSaving)
	fmt.Printf("Payback: %s years\n", s.PaybackYears.Format(1))
	fmt.Println(s.Note)
}

func countMonths(series []model.QuarterRecord) int {
	months := map[string]struct{}{}
	for _, q := range series {
		months[q.Timestamp.Format("2006-01")] = struct{}{}
	}
	return len(months)
}

func exitOnErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
