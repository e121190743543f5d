package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// zmHeaders are ZenMoney import columns in the order they are written.
var zmHeaders = []string{
	"categoryName",
	"comment",
	"date",
	"income",
	"incomeAccountName",
	"incomeCurrencyShortTitle",
	"outcome",
	"outcomeAccountName",
	"outcomeCurrencyShortTitle",
}

// zenMoneyRow converts record into cells in zmHeaders order. Absent values become empty strings.
func zenMoneyRow(record *OutputRecord) []string {
	row := []string{
		record.CategoryName,
		record.Comment,
		formatZenMoneyDate(record.Date),
		"",
		record.IncomeAccountName,
		record.IncomeCurrencyShortTitle,
		"",
		record.OutcomeAccountName,
		record.OutcomeCurrencyShortTitle,
	}
	if income := record.Income(); income != nil {
		row[3] = formatAmount(*income)
	}
	if outcome := record.Outcome(); outcome != nil {
		row[6] = formatAmount(*outcome)
	}
	return row
}

func formatZenMoneyDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(ZenMoneyDateFormat)
}

var errWriterClosed = errors.New("writer is closed")

// recordSink writes records into one output file.
type recordSink interface {
	WriteRecord(record *OutputRecord) error
	Close() error
}

// sinkOpener creates a sink for the file path.
type sinkOpener func(path string) (recordSink, error)

// SplitFileWriter writes records into one file or, if splitBy is positive,
// into a sequence of files with at most splitBy records each.
// Split files are named like "out-1.csv", "out-2.csv" for "out.csv" path.
type SplitFileWriter struct {
	path      string
	splitBy   int
	open      sinkOpener
	current   recordSink
	inCurrent int
	files     []string
	closed    bool
}

func newSplitFileWriter(path string, splitBy int, open sinkOpener) (*SplitFileWriter, error) {
	if splitBy < 0 {
		return nil, fmt.Errorf("invalid split size %d: value is not a natural number", splitBy)
	}
	return &SplitFileWriter{path: path, splitBy: splitBy, open: open}, nil
}

// Write implements OutputRecordWriter.
func (w *SplitFileWriter) Write(record *OutputRecord) error {
	if w.closed {
		return errWriterClosed
	}
	if w.current == nil || (w.splitBy > 0 && w.inCurrent >= w.splitBy) {
		if err := w.rotate(); err != nil {
			return err
		}
	}
	if err := w.current.WriteRecord(record); err != nil {
		return fmt.Errorf("can't write into '%s': %w", w.files[len(w.files)-1], err)
	}
	w.inCurrent++
	return nil
}

// Close closes the last file. If nothing was written creates a file with headers only.
func (w *SplitFileWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.current == nil {
		if err := w.rotate(); err != nil {
			return err
		}
	}
	err := w.current.Close()
	w.current = nil
	if err != nil {
		return fmt.Errorf("can't close '%s': %w", w.files[len(w.files)-1], err)
	}
	return nil
}

// Files returns paths of all created files.
func (w *SplitFileWriter) Files() []string {
	return w.files
}

func (w *SplitFileWriter) rotate() error {
	if w.current != nil {
		if err := w.current.Close(); err != nil {
			return fmt.Errorf("can't close '%s': %w", w.files[len(w.files)-1], err)
		}
		w.current = nil
	}
	path := w.path
	if w.splitBy > 0 {
		path = splitFilePath(w.path, len(w.files)+1)
	}
	sink, err := w.open(path)
	if err != nil {
		return fmt.Errorf("can't create output file '%s': %w", path, err)
	}
	w.current = sink
	w.inCurrent = 0
	w.files = append(w.files, path)
	return nil
}

// splitFilePath inserts "-<number>" before extension of the path.
func splitFilePath(path string, number int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), number, ext)
}
