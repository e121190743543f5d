package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

var (
	// ErrInvalidOutputRecord is reported when conversion produced a record ZenMoney can't accept.
	ErrInvalidOutputRecord = errors.New("invalid converted record")
	// ErrConversionFault is reported when conversion of a record failed unexpectedly.
	ErrConversionFault = errors.New("conversion fault")
)

// SourceRecordReader provides HomeMoney records one by one. Returns io.EOF after the last record.
type SourceRecordReader interface {
	Read() (*SourceRecord, error)
}

// OutputRecordWriter consumes converted ZenMoney records.
type OutputRecordWriter interface {
	Write(record *OutputRecord) error
}

// RecordOutcomeTag describes what happened with one source record.
type RecordOutcomeTag int

const (
	Emitted RecordOutcomeTag = iota
	SkippedInvalidSource
	SkippedDeferredTransfer
	SkippedInvalidConverted
	ConversionError
)

func (t RecordOutcomeTag) String() string {
	switch t {
	case Emitted:
		return "Emitted"
	case SkippedInvalidSource:
		return "SkippedInvalidSource"
	case SkippedDeferredTransfer:
		return "SkippedDeferredTransfer"
	case SkippedInvalidConverted:
		return "SkippedInvalidConverted"
	case ConversionError:
		return "ConversionError"
	}
	return fmt.Sprintf("RecordOutcomeTag(%d)", int(t))
}

// IsError is true for outcomes which are counted as errors.
func (t RecordOutcomeTag) IsError() bool {
	return t == SkippedInvalidSource || t == SkippedInvalidConverted || t == ConversionError
}

// RecordOutcome is a result of processing one source record.
type RecordOutcome struct {
	// Index is 1-based number of the record in the input sequence.
	Index int
	Tag   RecordOutcomeTag
	// Source is the processed record.
	Source *SourceRecord
	// Output contains records to write. Two records if transfer was split.
	Output []*OutputRecord
	// Err explains why record was skipped, nil for emitted and deferred records.
	Err error
}

// ConversionOptions configures Conversion.
type ConversionOptions struct {
	// MultiCurrencyAccounts are HomeMoney accounts to split into one ZenMoney account per currency.
	MultiCurrencyAccounts []string
	// TransferCategory, if set, makes conversion split transfers into two records with this category.
	TransferCategory string
	// OnOutcome is called after each processed record.
	OnOutcome func(RecordOutcome)
	Logger    zerolog.Logger
}

// Summary is a result of the whole conversion run.
type Summary struct {
	// Read is a number of records read from the source.
	Read int
	// Emitted is a number of source records (or pairs of them) successfully converted.
	Emitted int
	// Written is a number of records passed to the writer.
	Written int
	// Errors is a number of skipped records.
	Errors int
	// DroppedPending is an outgoing transfer leg left without incoming leg at the end of input.
	DroppedPending *SourceRecord
	// Accounts maps ZenMoney account names to currencies used with them.
	Accounts map[string][]string
}

// AccountsToCreate returns accounts from the summary sorted by name.
func (s Summary) AccountsToCreate() []RegisteredAccount {
	return registryToAccounts(s.Accounts)
}

// Conversion converts a sequence of HomeMoney records into ZenMoney records.
// Keeps state of one run: pending transfer leg, accounts registry and counters.
// Not safe for concurrent use.
type Conversion struct {
	matcher          TransferMatcher
	accounts         *AccountNormalizer
	converter        *RecordConverter
	transferCategory string
	onOutcome        func(RecordOutcome)
	logger           zerolog.Logger
	summary          Summary
}

func NewConversion(options ConversionOptions) *Conversion {
	accounts := NewAccountNormalizer(options.MultiCurrencyAccounts)
	return &Conversion{
		accounts:         accounts,
		converter:        NewRecordConverter(accounts),
		transferCategory: options.TransferCategory,
		onOutcome:        options.OnOutcome,
		logger:           options.Logger,
	}
}

// Run reads all records from the reader, converts them and writes into the writer.
// Bad records are counted in Summary.Errors and skipped. Returns error only if reading,
// writing failed or context was cancelled.
func (c *Conversion) Run(ctx context.Context, reader SourceRecordReader, writer OutputRecordWriter) (Summary, error) {
	for index := c.summary.Read + 1; ; index++ {
		if err := ctx.Err(); err != nil {
			return c.Summary(), fmt.Errorf("conversion interrupted before record %d: %w", index, err)
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return c.Summary(), fmt.Errorf("can't read record %d: %w", index, err)
		}
		c.summary.Read++

		outcome := c.Process(index, record)
		for _, output := range outcome.Output {
			if err := writer.Write(output); err != nil {
				return c.Summary(), fmt.Errorf("can't write record converted from record %d: %w", index, err)
			}
			c.summary.Written++
		}
		if c.onOutcome != nil {
			c.onOutcome(outcome)
		}
	}

	summary := c.Summary()
	if summary.DroppedPending != nil {
		c.logger.Warn().
			Str("record", summary.DroppedPending.DisplayString()).
			Msg("Transfer record without pair at the end of input is dropped")
	}
	c.logger.Info().
		Int("read", summary.Read).
		Int("written", summary.Written).
		Int("errors", summary.Errors).
		Msg("Conversion complete.")
	return summary, nil
}

// Process handles one source record and returns records to write.
// Never panics: any fault is reported as ConversionError and resets the pending transfer.
func (c *Conversion) Process(index int, record *SourceRecord) (outcome RecordOutcome) {
	outcome = RecordOutcome{Index: index, Source: record}
	defer func() {
		if r := recover(); r != nil {
			c.matcher.Reset()
			outcome.Tag = ConversionError
			outcome.Output = nil
			outcome.Err = fmt.Errorf("%w: %v", ErrConversionFault, r)
		}
		c.account(outcome)
	}()

	if record == nil || !record.IsValid() {
		c.matcher.Reset()
		outcome.Tag = SkippedInvalidSource
		outcome.Err = fmt.Errorf("%w: %v", ErrInvalidSourceRecord, record)
		return outcome
	}
	c.logger.Debug().Int("index", index).Str("record", record.DisplayString()).Msg("Processing record")

	match, err := c.matcher.Match(record)
	if err != nil {
		outcome.Tag = ConversionError
		outcome.Err = err
		return outcome
	}
	if match.Deferred {
		outcome.Tag = SkippedDeferredTransfer
		return outcome
	}

	var converted *OutputRecord
	if match.IsPair() {
		converted, err = c.converter.ConvertPair(match.Outgoing, match.Incoming)
	} else {
		converted, err = c.converter.ConvertSingle(match.Single)
	}
	if err != nil {
		c.matcher.Reset()
		outcome.Tag = ConversionError
		outcome.Err = err
		return outcome
	}
	if !converted.IsValid() {
		c.matcher.Reset()
		outcome.Tag = SkippedInvalidConverted
		outcome.Err = fmt.Errorf("%w: %v", ErrInvalidOutputRecord, converted)
		return outcome
	}
	c.logger.Debug().Int("index", index).Str("record", converted.DisplayString()).Msg("Converted record")

	outcome.Output = []*OutputRecord{converted}
	if c.transferCategory != "" && converted.IsTransfer() {
		outgoing, incoming, err := SplitTransfer(converted, c.transferCategory)
		if err != nil {
			c.matcher.Reset()
			outcome.Tag = ConversionError
			outcome.Output = nil
			outcome.Err = err
			return outcome
		}
		outcome.Output = []*OutputRecord{outgoing, incoming}
	}
	c.accounts.Register(converted)
	outcome.Tag = Emitted
	return outcome
}

// account updates counters by the outcome and logs skipped records.
func (c *Conversion) account(outcome RecordOutcome) {
	switch {
	case outcome.Tag == Emitted:
		c.summary.Emitted++
	case outcome.Tag.IsError():
		c.summary.Errors++
		c.logger.Warn().
			Int("index", outcome.Index).
			Stringer("outcome", outcome.Tag).
			Err(outcome.Err).
			Msg("Record skipped")
	}
}

// Summary returns counters and accounts registry collected so far.
func (c *Conversion) Summary() Summary {
	summary := c.summary
	summary.DroppedPending = c.matcher.Pending()
	summary.Accounts = c.accounts.Registry()
	return summary
}
