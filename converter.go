package main

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSourceRecord is returned when a record misses required fields.
	ErrInvalidSourceRecord = errors.New("invalid source record")
	// ErrUnexpectedTransfer is returned when a transfer record is converted as a standalone one.
	ErrUnexpectedTransfer = errors.New("unexpected transfer record")
	// ErrNotTransfer is returned when a standalone record is used as a transfer.
	ErrNotTransfer = errors.New("record is not a transfer")
)

// RecordConverter maps HomeMoney records into ZenMoney records.
// Uses AccountNormalizer for account names only, registration is up to the caller.
type RecordConverter struct {
	accounts *AccountNormalizer
}

func NewRecordConverter(accounts *AccountNormalizer) *RecordConverter {
	return &RecordConverter{accounts: accounts}
}

// ConvertSingle converts a non-transfer record.
// Non-negative total becomes income, negative total becomes outcome.
func (c *RecordConverter) ConvertSingle(record *SourceRecord) (*OutputRecord, error) {
	if !record.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSourceRecord, record)
	}
	if record.IsTransfer() {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedTransfer, record)
	}

	converted := &OutputRecord{
		CategoryName: record.Category,
		Comment:      record.Description,
		Date:         record.Date,
	}
	accountName := c.accounts.EffectiveName(record.Account, record.Currency)
	if !record.Total.IsNegative() {
		income := *record.Total
		converted.SetIncome(&income)
		converted.IncomeAccountName = accountName
		converted.IncomeCurrencyShortTitle = record.Currency
	} else {
		outcome := record.Total.Neg()
		converted.SetOutcome(&outcome)
		converted.OutcomeAccountName = accountName
		converted.OutcomeCurrencyShortTitle = record.Currency
	}
	return converted, nil
}

// ConvertPair converts two legs of a transfer into one record with both legs.
// Category, comment and date are taken from the outgoing leg.
func (c *RecordConverter) ConvertPair(outgoing, incoming *SourceRecord) (*OutputRecord, error) {
	if !outgoing.IsValid() || !outgoing.IsTransfer() || !outgoing.Total.IsNegative() {
		return nil, fmt.Errorf("%w: outgoing leg %v", ErrTransferMismatch, outgoing)
	}
	if !incoming.IsValid() || !incoming.IsTransfer() || !incoming.Total.IsPositive() {
		return nil, fmt.Errorf("%w: incoming leg %v", ErrTransferMismatch, incoming)
	}
	if incoming.Account != outgoing.Transfer {
		return nil, fmt.Errorf("%w: outgoing leg %v, incoming leg %v", ErrTransferMismatch, outgoing, incoming)
	}

	converted := &OutputRecord{
		CategoryName: outgoing.Category,
		Comment:      outgoing.Description,
		Date:         outgoing.Date,
	}

	income := *incoming.Total
	converted.SetIncome(&income)
	converted.IncomeAccountName = c.accounts.EffectiveName(incoming.Account, incoming.Currency)
	converted.IncomeCurrencyShortTitle = incoming.Currency

	outcome := outgoing.Total.Neg()
	converted.SetOutcome(&outcome)
	converted.OutcomeAccountName = c.accounts.EffectiveName(outgoing.Account, outgoing.Currency)
	converted.OutcomeCurrencyShortTitle = outgoing.Currency

	return converted, nil
}

// SplitTransfer splits a transfer record into outcome-only and income-only records
// with the same category. Is needed when target can't import transfers as one line.
func SplitTransfer(record *OutputRecord, commonCategoryName string) (*OutputRecord, *OutputRecord, error) {
	if !record.IsTransfer() {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotTransfer, record)
	}

	outgoing := NewOutputRecordFrom(record)
	outgoing.CategoryName = commonCategoryName
	outgoing.clearIncome()

	incoming := NewOutputRecordFrom(record)
	incoming.CategoryName = commonCategoryName
	incoming.clearOutcome()

	return outgoing, incoming, nil
}
