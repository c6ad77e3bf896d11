// Package analysis turns simulated quarter-hour series into money: the
// capacity tariff on monthly peaks and the resulting savings.
package analysis

import (
	"math"
	"sort"

	"battery-savings/internal/model"

	"gonum.org/v1/gonum/floats"
)

const (
	// MinBillablePeakKW is the lowest monthly peak the grid operator bills,
	// whatever was measured.
	MinBillablePeakKW = 2.5

	// RollingMonths is the length of the trailing peak average window.
	RollingMonths = 12

	monthKeyLayout = "2006-01"
)

// ImportField selects which import series of a QuarterImport to bill.
type ImportField int

const (
	OriginalImport ImportField = iota
	NewImport
)

func (f ImportField) value(q model.QuarterImport) float64 {
	if f == NewImport {
		return q.NewImportKWh
	}
	return q.OriginalImportKWh
}

// CapacityTariff is the capacity cost of one scenario.
// Months, PeaksKW and RollingAvgKW are parallel.
type CapacityTariff struct {
	Months         []string  `json:"months"`
	PeaksKW        []float64 `json:"peaks_kw"`
	RollingAvgKW   []float64 `json:"rolling_avg_kw"`
	AnnualCost     float64   `json:"annual_cost"`
	MaxMonthPeakKW float64   `json:"max_month_peak_kw"`
}

// CapacityComparison bills both scenarios on the same month axis.
type CapacityComparison struct {
	Months      []string       `json:"months"`
	Original    CapacityTariff `json:"original"`
	New         CapacityTariff `json:"new"`
	PartialYear bool           `json:"partial_year"`
}

// MonthsCount is the number of calendar months in the data.
func (c CapacityComparison) MonthsCount() int { return len(c.Months) }

// Saving is the yearly capacity cost avoided by the battery.
func (c CapacityComparison) Saving() float64 {
	return c.Original.AnnualCost - c.New.AnnualCost
}

// QuarterPowerKW converts the energy of one quarter-hour to average power.
func QuarterPowerKW(energyKWh float64) float64 {
	return energyKWh / model.QuarterHours
}

// MonthKey is the calendar month of the quarter in its timestamp's location, e.g. "2024-03".
func MonthKey(q model.QuarterImport) string {
	return q.Timestamp.Format(monthKeyLayout)
}

// MonthlyPeaks returns the highest quarter-hour power per month, unfloored.
func MonthlyPeaks(quarters []model.QuarterImport, field ImportField) map[string]float64 {
	peaks := make(map[string]float64)
	for _, q := range quarters {
		mk := MonthKey(q)
		p := QuarterPowerKW(field.value(q))
		if cur, ok := peaks[mk]; !ok || p > cur {
			peaks[mk] = math.Max(0, p)
		}
	}
	return peaks
}

// ComputeCapacityTariff bills one scenario over the months it covers.
func ComputeCapacityTariff(quarters []model.QuarterImport, yearlyRate float64, field ImportField) CapacityTariff {
	peaks := MonthlyPeaks(quarters, field)
	return billMonths(sortedKeys(peaks), peaks, yearlyRate)
}

// CompareCapacity bills the original and the with-battery import on the
// union of their months.
func CompareCapacity(quarters []model.QuarterImport, yearlyRate float64) CapacityComparison {
	orig := MonthlyPeaks(quarters, OriginalImport)
	next := MonthlyPeaks(quarters, NewImport)

	months := sortedKeys(orig, next)
	return CapacityComparison{
		Months:      months,
		Original:    billMonths(months, orig, yearlyRate),
		New:         billMonths(months, next, yearlyRate),
		PartialYear: len(months) < RollingMonths,
	}
}

func billMonths(months []string, measured map[string]float64, yearlyRate float64) CapacityTariff {
	peaks := make([]float64, len(months))
	for i, m := range months {
		peaks[i] = math.Max(MinBillablePeakKW, measured[m])
	}
	rolling := RollingAverage(peaks, RollingMonths)

	monthlyRate := yearlyRate / 12
	cost := 0.0
	for _, avg := range rolling {
		cost += avg * monthlyRate
	}

	maxPeak := 0.0
	if len(peaks) > 0 {
		maxPeak = math.Max(0, floats.Max(peaks))
	}

	return CapacityTariff{
		Months:         months,
		PeaksKW:        peaks,
		RollingAvgKW:   rolling,
		AnnualCost:     cost,
		MaxMonthPeakKW: maxPeak,
	}
}

// RollingAverage averages each value with up to window-1 predecessors.
// The first entries use the shorter history that exists; nothing is
// back-filled.
func RollingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		start := max(0, i-window+1)
		span := values[start : i+1]
		out[i] = floats.Sum(span) / float64(len(span))
	}
	return out
}

func sortedKeys(sets ...map[string]float64) []string {
	seen := make(map[string]struct{})
	for _, s := range sets {
		for k := range s {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
