package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// HomeMoney CSV export columns.
const (
	hmColumnAccount     = "account"
	hmColumnCategory    = "category"
	hmColumnCurrency    = "currency"
	hmColumnDate        = "date"
	hmColumnDescription = "description"
	hmColumnTotal       = "total"
	hmColumnTransfer    = "transfer"
)

var hmRequiredColumns = []string{hmColumnAccount, hmColumnCurrency, hmColumnDate, hmColumnTotal}

// HomeMoneyCsvReader reads SourceRecord-s from HomeMoney CSV export.
// Export is ';' separated, doesn't use quotes and binds columns by header names.
// Blank cells are treated as absent values.
type HomeMoneyCsvReader struct {
	reader   *csv.Reader
	columns  map[string]int
	location *time.Location
}

// NewHomeMoneyCsvReader reads and validates header. Dates are parsed in the given location.
func NewHomeMoneyCsvReader(r io.Reader, location *time.Location) (*HomeMoneyCsvReader, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Rows may end with separator or miss trailing empty cells.

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("failed to read headers: file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}
	// Remove BOM if present
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(cleanCell(name))
		if name == "" {
			continue
		}
		if _, ok := columns[name]; ok {
			return nil, fmt.Errorf("duplicated column '%s' at position %d", name, i+1)
		}
		columns[name] = i
	}
	for _, required := range hmRequiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column '%s' in header %v", required, header)
		}
	}

	if location == nil {
		location = time.UTC
	}
	return &HomeMoneyCsvReader{
		reader:   reader,
		columns:  columns,
		location: location,
	}, nil
}

// Read returns next record or io.EOF. Rows with only blank cells are skipped.
// Returns error with line number if some present value can't be parsed.
func (r *HomeMoneyCsvReader) Read() (*SourceRecord, error) {
	for {
		row, err := r.reader.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		line, _ := r.reader.FieldPos(0)
		if isBlankRow(row) {
			continue
		}
		return r.parseRow(line, row)
	}
}

func (r *HomeMoneyCsvReader) parseRow(line int, row []string) (*SourceRecord, error) {
	cell := func(column string) string {
		index, ok := r.columns[column]
		if !ok || index >= len(row) {
			return ""
		}
		return cleanCell(row[index])
	}

	record := &SourceRecord{
		Account:     cell(hmColumnAccount),
		Category:    cell(hmColumnCategory),
		Description: cell(hmColumnDescription),
		Transfer:    cell(hmColumnTransfer),
	}

	if value := cell(hmColumnCurrency); value != "" {
		currency, err := parseCurrencyCode(value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid currency: %w", line, err)
		}
		record.Currency = currency
	}

	if value := cell(hmColumnDate); value != "" {
		date, err := time.ParseInLocation(HomeMoneyDateFormat, value, r.location)
		if err != nil {
			return nil, fmt.Errorf(
				"line %d: invalid date format '%s', expected DD.MM.YYYY: %w", line, value, err,
			)
		}
		record.Date = date
	}

	if value := cell(hmColumnTotal); value != "" {
		total, err := parseLocalizedAmount(value)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid total: %w", line, err)
		}
		record.Total = &total
	}

	return record, nil
}

// cleanCell trims spaces and quotes HomeMoney may put around values.
func cleanCell(value string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(value), `"`))
}

func isBlankRow(row []string) bool {
	for _, value := range row {
		if cleanCell(value) != "" {
			return false
		}
	}
	return true
}
