package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return EncodeLedgerCSV(f, ledger)
}

func EncodeLedgerCSV(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"index",
		"timestamp",
		"action",
		"import_kwh",
		"export_kwh",
		"new_import_kwh",
		"new_export_kwh",
		"charge_kwh",
		"discharge_kwh",
		"soc_start_kwh",
		"soc_end_kwh",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Timestamp),
			string(r.Action),
			fmtFloat(r.ImportKWh),
			fmtFloat(r.ExportKWh),
			fmtFloat(r.NewImportKWh),
			fmtFloat(r.NewExportKWh),
			fmtFloat(r.ChargeKWh),
			fmtFloat(r.DischargeKWh),
			fmtFloat(r.SOCStartKWh),
			fmtFloat(r.SOCEndKWh),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
