package main

import (
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

const zmXlsxSheetName = "Transactions"

// zenMoneyXlsxSink collects records in memory and saves XLSX file on Close.
// Amounts which don't survive float64 round trip are written as text.
type zenMoneyXlsxSink struct {
	path  string
	file  *xlsx.File
	sheet *xlsx.Sheet
}

func openZenMoneyXlsxSink(path string) (recordSink, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(zmXlsxSheetName)
	if err != nil {
		return nil, err
	}
	row := sheet.AddRow()
	for _, header := range zmHeaders {
		row.AddCell().SetString(header)
	}
	return &zenMoneyXlsxSink{path: path, file: file, sheet: sheet}, nil
}

func (s *zenMoneyXlsxSink) WriteRecord(record *OutputRecord) error {
	row := s.sheet.AddRow()
	for i, value := range zenMoneyRow(record) {
		cell := row.AddCell()
		isAmount := zmHeaders[i] == "income" || zmHeaders[i] == "outcome"
		if !isAmount || value == "" {
			cell.SetString(value)
			continue
		}
		amount := record.Income()
		if zmHeaders[i] == "outcome" {
			amount = record.Outcome()
		}
		number := amount.InexactFloat64()
		if !decimal.NewFromFloat(number).Equal(*amount) {
			cell.SetString(value)
			continue
		}
		cell.SetFloat(number)
	}
	return nil
}

func (s *zenMoneyXlsxSink) Close() error {
	return s.file.Save(s.path)
}

// NewZenMoneyXlsxWriter creates writer of ZenMoney XLSX files, see SplitFileWriter for splitBy.
func NewZenMoneyXlsxWriter(path string, splitBy int) (*SplitFileWriter, error) {
	return newSplitFileWriter(path, splitBy, openZenMoneyXlsxSink)
}
