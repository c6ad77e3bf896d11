package meter

import (
	"math/rand"
	"testing"
	"time"
	_ "time/tzdata"

	"battery-savings/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_MergesRegistersAtSameTimestamp(t *testing.T) {
	rows := []model.RawRow{
		{Date: "01-03-2024", Time: "00:00", Register: "Afname", Volume: "1,0"},
		{Date: "01-03-2024", Time: "00:00", Register: "Injectie", Volume: "0"},
	}
	series, skipped := Aggregator{Location: time.UTC}.Aggregate(rows)

	require.Len(t, series, 1)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), series[0].Timestamp)
	assert.Equal(t, 1.0, series[0].ImportKWh)
	assert.Equal(t, 0.0, series[0].ExportKWh)
}

func TestAggregate_SumsDuplicateRows(t *testing.T) {
	rows := []model.RawRow{
		{Date: "01-03-2024", Time: "00:15:00", Register: "Afname Dag", Volume: "0,25"},
		{Date: "01-03-2024", Time: "00:15:00", Register: "Afname Nacht", Volume: "0,5"},
		{Date: "01-03-2024", Time: "00:15:00", Register: "INJECTIE Dag", Volume: "0.125"},
	}
	series, _ := Aggregator{Location: time.UTC}.Aggregate(rows)

	require.Len(t, series, 1)
	assert.InDelta(t, 0.75, series[0].ImportKWh, 1e-12)
	assert.InDelta(t, 0.125, series[0].ExportKWh, 1e-12)
}

func TestAggregate_SkipsBadDatesOnly(t *testing.T) {
	rows := []model.RawRow{
		{Date: "", Time: "00:00", Register: "Afname", Volume: "1"},
		{Date: "aa-bb-cccc", Time: "00:00", Register: "Afname", Volume: "1"},
		{Date: "00-03-2024", Time: "00:00", Register: "Afname", Volume: "1"},
		{Date: "01-03", Time: "00:00", Register: "Afname", Volume: "1"},
		// unknown register: kept as a zero record, not counted as skipped
		{Date: "01-03-2024", Time: "00:30", Register: "Reactief", Volume: "7"},
		{Date: "01-03-2024", Time: "00:45", Register: "Afname", Volume: "0,1"},
	}
	series, skipped := Aggregator{Location: time.UTC}.Aggregate(rows)

	assert.Equal(t, 4, skipped)
	require.Len(t, series, 2)
	assert.Equal(t, 0.0, series[0].ImportKWh)
	assert.Equal(t, 0.0, series[0].ExportKWh)
	assert.InDelta(t, 0.1, series[1].ImportKWh, 1e-12)
}

func TestAggregate_SortsAscending(t *testing.T) {
	rows := []model.RawRow{
		{Date: "02-03-2024", Time: "00:00", Register: "Afname", Volume: "3"},
		{Date: "01-03-2024", Time: "23:45", Register: "Afname", Volume: "2"},
		{Date: "01-03-2024", Time: "00:00", Register: "Afname", Volume: "1"},
	}
	series, _ := Aggregator{Location: time.UTC}.Aggregate(rows)

	require.Len(t, series, 3)
	assert.Equal(t, 1.0, series[0].ImportKWh)
	assert.Equal(t, 2.0, series[1].ImportKWh)
	assert.Equal(t, 3.0, series[2].ImportKWh)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	var rows []model.RawRow
	for d := 1; d <= 3; d++ {
		for _, tm := range []string{"00:00", "00:15", "12:00"} {
			date := time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC).Format("02-01-2006")
			rows = append(rows,
				model.RawRow{Date: date, Time: tm, Register: "Afname", Volume: "0,5"},
				model.RawRow{Date: date, Time: tm, Register: "Injectie", Volume: "0,25"},
				model.RawRow{Date: date, Time: tm, Register: "Afname", Volume: "1"},
			)
		}
	}
	want, wantSkipped := Aggregator{Location: time.UTC}.Aggregate(rows)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		shuffled := append([]model.RawRow(nil), rows...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, skipped := Aggregator{Location: time.UTC}.Aggregate(shuffled)
		assert.Equal(t, want, got)
		assert.Equal(t, wantSkipped, skipped)
	}
}

func TestAggregate_Empty(t *testing.T) {
	series, skipped := Aggregate(nil)
	assert.Empty(t, series)
	assert.Equal(t, 0, skipped)

	series, skipped = Aggregate([]model.RawRow{{Date: "x"}})
	assert.Empty(t, series)
	assert.Equal(t, 1, skipped)
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp(" 15-07-2024 ", "13:45:30", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 7, 15, 13, 45, 30, 0, time.UTC), ts)

	// missing or unreadable time parts count as zero
	ts, ok = ParseTimestamp("15-07-2024", "", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), ts)

	ts, ok = ParseTimestamp("15-07-2024", "08:xx", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 7, 15, 8, 0, 0, 0, time.UTC), ts)

	// calendar roll-over
	ts, ok = ParseTimestamp("31-02-2023", "00:00", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC), ts)

	_, ok = ParseTimestamp("15/07/2024", "00:00", time.UTC)
	assert.False(t, ok)
}

func TestParseTimestamp_UsesLocation(t *testing.T) {
	brussels, err := time.LoadLocation("Europe/Brussels")
	require.NoError(t, err)

	ts, ok := ParseTimestamp("01-01-2024", "00:00", brussels)
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC), ts.UTC())
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"1,5", 1.5},
		{"1.5", 1.5},
		{" 0,025 ", 0.025},
		{"-0,3", -0.3},
		{"abc", 0},
		{"1,000,5", 0},
		{"NaN", 0},
		{"Infinity", 0},
		{"2e-3", 0.002},
		{"1e308", 1e308},
		{"1e309", 0},
		{"1e-320", 1e-320},
		{"1e30000000", 0},
		{"1e-30000000", 0},
		{"0e2000000000", 0},
		{"-5e2147483647", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseVolume(tt.in), 1e-12)
		})
	}
}

func TestParseVolume_HugeExponentsAreFast(t *testing.T) {
	start := time.Now()
	for _, in := range []string{"1e30000000", "1e-30000000", "9e2147483647", "1e-2147483648"} {
		assert.Equal(t, 0.0, ParseVolume(in), in)
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, RegisterImport, Classify("Afname Dag"))
	assert.Equal(t, RegisterImport, Classify("  afname nacht"))
	assert.Equal(t, RegisterExport, Classify("Injectie Nacht"))
	assert.Equal(t, RegisterExport, Classify("INJECTIE"))
	assert.Equal(t, RegisterOther, Classify("Verbruik"))
	assert.Equal(t, RegisterOther, Classify(""))
}
