package model

import "time"

// QuarterHours is the fixed length of one metering interval, in hours.
const QuarterHours = 0.25

// RawRow is one row of a meter export before any interpretation.
// Fields are kept as the provider wrote them.
type RawRow struct {
	Date     string // dd-mm-yyyy
	Time     string // HH:MM[:SS]
	Register string // e.g. "Afname Dag", "Injectie Nacht"
	Volume   string // kWh, possibly with a decimal comma; may be blank
}

// QuarterRecord is the energy exchanged with the grid during one quarter-hour.
type QuarterRecord struct {
	Timestamp time.Time `json:"timestamp"`
	ImportKWh float64   `json:"import_kwh"`
	ExportKWh float64   `json:"export_kwh"`
}

// QuarterImport pairs the imported energy of one quarter before and after
// adding the battery. It is the input of the capacity tariff calculation.
type QuarterImport struct {
	Timestamp         time.Time
	OriginalImportKWh float64
	NewImportKWh      float64
}
