package main

import (
	"encoding/csv"
	"os"
)

// zenMoneyCsvSink writes ZenMoney CSV with headers into one file.
type zenMoneyCsvSink struct {
	file   *os.File
	writer *csv.Writer
}

func openZenMoneyCsvSink(path string) (recordSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(zmHeaders); err != nil {
		file.Close()
		return nil, err
	}
	return &zenMoneyCsvSink{file: file, writer: writer}, nil
}

func (s *zenMoneyCsvSink) WriteRecord(record *OutputRecord) error {
	return s.writer.Write(zenMoneyRow(record))
}

func (s *zenMoneyCsvSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// NewZenMoneyCsvWriter creates writer of ZenMoney CSV files, see SplitFileWriter for splitBy.
func NewZenMoneyCsvWriter(path string, splitBy int) (*SplitFileWriter, error) {
	return newSplitFileWriter(path, splitBy, openZenMoneyCsvSink)
}
