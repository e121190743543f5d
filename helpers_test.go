package main

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

// outputRecordOptions allows cmp.Diff to compare OutputRecord amounts.
var outputRecordOptions = cmp.Options{decimalComparer, cmp.AllowUnexported(OutputRecord{})}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newOutput(income *decimal.Decimal, outcome *decimal.Decimal) *OutputRecord {
	r := &OutputRecord{}
	r.SetIncome(income)
	r.SetOutcome(outcome)
	return r
}

// sliceReader is a SourceRecordReader over a slice.
type sliceReader struct {
	records []*SourceRecord
	err     error
}

func (r *sliceReader) Read() (*SourceRecord, error) {
	if len(r.records) == 0 {
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}
	record := r.records[0]
	r.records = r.records[1:]
	return record, nil
}

// collectingWriter is an OutputRecordWriter keeping records in memory.
type collectingWriter struct {
	records []*OutputRecord
	err     error
}

func (w *collectingWriter) Write(record *OutputRecord) error {
	if w.err != nil {
		return w.err
	}
	w.records = append(w.records, record)
	return nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func createTempFileWithContent(content string) *os.File {
	tempFile, err := os.CreateTemp("", "test_*")
	if err != nil {
		panic(err)
	}
	if _, err := tempFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tempFile.Close(); err != nil {
		panic(err)
	}
	return tempFile
}

func assertStringEqual(t *testing.T, actual, expected string) {
	// Compare actual vs expected strings line by line
	actualLines := strings.Split(actual, "\n")
	expectedLines := strings.Split(expected, "\n")

	if len(actualLines) != len(expectedLines) {
		t.Errorf("Output has different number of lines - got %d, expected %d\n",
			len(actualLines), len(expectedLines))
	}
	linesCount := len(actualLines)
	if len(expectedLines) < linesCount {
		linesCount = len(expectedLines)
	}

	for i := 0; i < linesCount; i++ {
		if actualLines[i] != expectedLines[i] {
			// Find first differing character
			minLen := len(actualLines[i])
			if len(expectedLines[i]) < minLen {
				minLen = len(expectedLines[i])
			}

			diffPos := 0
			for diffPos < minLen && actualLines[i][diffPos] == expectedLines[i][diffPos] {
				diffPos++
			}

			t.Errorf("Line %d differs at position %d:\nExpected: %s\n  Actual: %s\n",
				i+1, diffPos,
				expectedLines[i],
				actualLines[i])
		}
	}
}

func checkErrorContainsSubstring(t *testing.T, err error, substring string) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error containing '%s', got nil", substring)
		return
	}
	if !strings.Contains(err.Error(), substring) {
		t.Errorf(
			"Expected error message to contain '%s', got '%s'",
			substring,
			err.Error(),
		)
	}
}
