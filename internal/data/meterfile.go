package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"battery-savings/internal/model"

	"github.com/xuri/excelize/v2"
)

// ErrMissingColumn is returned when a meter file has no date column.
var ErrMissingColumn = errors.New("missing required column")

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported meter file format")

// Header names as written by the grid operator's export, in order of
// preference.
var (
	dateColumns     = []string{"Van (datum)", "Van(datum)", "Van datum", "Van"}
	timeColumns     = []string{"Van (tijdstip)", "Van(tijdstip)", "Van tijdstip", "Van tijd"}
	registerColumns = []string{"Register"}
	volumeColumns   = []string{"Volume"}
)

const utf8BOM = "\uFEFF"

// Format is a supported meter file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the format from a file name's extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// LoadMeterFile reads a meter export from disk.
func LoadMeterFile(path string) ([]model.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMeter(f, filepath.Base(path))
}

// ReadMeter reads a meter export in the format implied by filename.
func ReadMeter(r io.Reader, filename string) ([]model.RawRow, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	if format == FormatXLSX {
		return ReadMeterXLSX(r)
	}
	return ReadMeterCSV(r)
}

// ReadMeterCSV reads a semicolon-delimited export with a header row.
// Blank lines are skipped; short rows yield empty fields.
func ReadMeterCSV(r io.Reader) ([]model.RawRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []model.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, cols.row(record))
	}
	return rows, nil
}

// ReadMeterXLSX reads the first sheet of a workbook; its first row is the
// header. Cells are read unformatted, so date and time cells holding Excel
// serials are rendered as dd-mm-yyyy and HH:MM:SS instead of in the
// workbook's display format.
func ReadMeterXLSX(r io.Reader) ([]model.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	rows := make([]model.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		row := cols.row(record)
		if serial, ok := parseSerial(row.Date); ok {
			if t, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
				row.Date = t.Format(serialDateLayout)
				if cols.time < 0 {
					row.Time = t.Format(serialTimeLayout)
				}
			}
		}
		if serial, ok := parseSerial(row.Time); ok {
			row.Time = dayFraction(serial)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

const (
	serialDateLayout = "02-01-2006"
	serialTimeLayout = "15:04:05"
)

func parseSerial(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// dayFraction renders the time-of-day part of an Excel serial.
func dayFraction(serial float64) string {
	secs := int64(math.Round((serial-math.Floor(serial))*86400)) % 86400
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(secs) * time.Second).Format(serialTimeLayout)
}

type columns struct {
	date, time, register, volume int
}

func mapColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	cols := columns{
		date:     firstPresent(idx, dateColumns),
		time:     firstPresent(idx, timeColumns),
		register: firstPresent(idx, registerColumns),
		volume:   firstPresent(idx, volumeColumns),
	}
	if cols.date < 0 {
		return cols, fmt.Errorf("%w: one of %q", ErrMissingColumn, dateColumns)
	}
	return cols, nil
}

func firstPresent(idx map[string]int, names []string) int {
	for _, n := range names {
		if i, ok := idx[n]; ok {
			return i
		}
	}
	return -1
}

func (c columns) row(record []string) model.RawRow {
	return model.RawRow{
		Date:     cell(record, c.date),
		Time:     cell(record, c.time),
		Register: cell(record, c.register),
		Volume:   cell(record, c.volume),
	}
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
