// Package meter turns raw meter-export rows into a canonical quarter-hour series.
package meter

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"battery-savings/internal/model"

	"github.com/shopspring/decimal"
)

// Decimal magnitudes beyond which a volume overflows float64 (and counts as
// non-finite) or underflows to 0.
const (
	maxVolumeMagnitude = 310
	minVolumeMagnitude = -330
)

// Register prefixes, matched case-insensitively.
const (
	importPrefix = "afname"
	exportPrefix = "injectie"
)

// Aggregator builds QuarterRecords in a fixed calendar location.
// The zero value uses time.Local.
type Aggregator struct {
	Location *time.Location
}

// Aggregate uses time.Local; see Aggregator.Aggregate.
func Aggregate(rows []model.RawRow) ([]model.QuarterRecord, int) {
	return Aggregator{}.Aggregate(rows)
}

// Aggregate merges rows into one record per timestamp, sorted ascending.
// Rows whose date cannot be read are skipped and counted. Rows with a
// register that is neither import nor export are not counted: they still
// reserve their timestamp but add no energy.
func (a Aggregator) Aggregate(rows []model.RawRow) ([]model.QuarterRecord, int) {
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}

	byTS := make(map[int64]*model.QuarterRecord, len(rows)/2+1)
	skipped := 0

	for _, r := range rows {
		ts, ok := ParseTimestamp(r.Date, r.Time, loc)
		if !ok {
			skipped++
			continue
		}
		kwh := ParseVolume(r.Volume)

		key := ts.UnixNano()
		rec, ok := byTS[key]
		if !ok {
			rec = &model.QuarterRecord{Timestamp: ts}
			byTS[key] = rec
		}

		switch Classify(r.Register) {
		case RegisterImport:
			rec.ImportKWh += kwh
		case RegisterExport:
			rec.ExportKWh += kwh
		}
	}

	out := make([]model.QuarterRecord, 0, len(byTS))
	for _, rec := range byTS {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, skipped
}

// Register is the channel a row reports on.
type Register int

const (
	RegisterOther Register = iota
	RegisterImport
	RegisterExport
)

// Classify maps a provider register label ("Afname Dag", "Injectie Nacht", ...)
// to a channel.
func Classify(label string) Register {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.HasPrefix(l, importPrefix):
		return RegisterImport
	case strings.HasPrefix(l, exportPrefix):
		return RegisterExport
	default:
		return RegisterOther
	}
}

// ParseTimestamp reads a dd-mm-yyyy date and HH:MM[:SS] time in loc.
// Day, month and year must be positive integers. Time parts that are
// missing or unreadable count as zero. Out-of-range values roll over the
// way time.Date normalises them.
func ParseTimestamp(date, clock string, loc *time.Location) (time.Time, bool) {
	dp := strings.Split(strings.TrimSpace(date), "-")
	day, mon, year := field(dp, 0), field(dp, 1), field(dp, 2)
	if day <= 0 || mon <= 0 || year <= 0 {
		return time.Time{}, false
	}

	tp := strings.Split(strings.TrimSpace(clock), ":")
	hh, mm, ss := field(tp, 0), field(tp, 1), field(tp, 2)
	return time.Date(year, time.Month(mon), day, max(hh, 0), max(mm, 0), max(ss, 0), 0, loc), true
}

// field returns parts[i] as an integer, or -1 when absent or not a number.
func field(parts []string, i int) int {
	if i >= len(parts) {
		return -1
	}
	s := strings.TrimSpace(parts[i])
	if s == "" {
		return -1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// ParseVolume reads a kWh value that may use a decimal comma.
// Blank, unreadable and non-finite values are 0. Negative values are kept.
func ParseVolume(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	// Float64 expands the exponent into a big.Int, so decide values far
	// outside float64 range from the magnitude alone.
	mag := int64(d.Exponent()) + int64(d.NumDigits())
	if mag > maxVolumeMagnitude || mag < minVolumeMagnitude {
		return 0
	}
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
