package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HomeMoneyDateFormat is a format of dates in HomeMoney CSV export.
const HomeMoneyDateFormat = "02.01.2006"

// ZenMoneyDateFormat is a format of dates in ZenMoney CSV import.
const ZenMoneyDateFormat = "2006-01-02"

// CsvRecord is implemented by both source and output records.
type CsvRecord interface {
	// IsValid checks that all fields required by the record type are present.
	IsValid() bool
	// IsTransfer is true if the record describes one or both sides of a transfer between accounts.
	IsTransfer() bool
	// DisplayString returns a human readable representation for logs.
	DisplayString() string
}

// SourceRecord represents a single line of HomeMoney CSV export.
// It is not changed after parsing.
type SourceRecord struct {
	// Account the transaction belongs to.
	Account string `validate:"required"`
	// Category is a user category, may be empty.
	Category string
	// Currency is an ISO 4217 code of the account currency.
	Currency string `validate:"required,currency"`
	// Date of the transaction.
	Date time.Time `validate:"required"`
	// Description is a free text, may be empty.
	Description string
	// Total is a signed amount: negative for debit, positive for credit.
	Total *decimal.Decimal `validate:"required"`
	// Transfer names the counterpart account if the record is one leg of a transfer.
	Transfer string
}

func (r *SourceRecord) IsValid() bool {
	return r != nil && validate.Struct(r) == nil
}

func (r *SourceRecord) IsTransfer() bool {
	return r.Transfer != ""
}

func (r *SourceRecord) DisplayString() string {
	var b displayBuilder
	b.appendDate("date", r.Date)
	b.append("account", r.Account)
	b.append("category", r.Category)
	b.appendDecimal("total", r.Total)
	b.append("currency", r.Currency)
	b.append("description", r.Description)
	b.append("transfer", r.Transfer)
	return b.String()
}

func (r *SourceRecord) String() string {
	return fmt.Sprintf("SourceRecord%s", r.DisplayString())
}

// OutputRecord represents a single line of ZenMoney CSV import.
// Has two legs: income and outcome. Transfer between accounts has both legs filled.
// Amounts are never negative, use SetIncome and SetOutcome to fill them.
type OutputRecord struct {
	CategoryName string
	Comment      string
	Date         time.Time `validate:"required"`

	income                   *decimal.Decimal
	IncomeAccountName        string
	IncomeCurrencyShortTitle string

	outcome                   *decimal.Decimal
	OutcomeAccountName        string
	OutcomeCurrencyShortTitle string
}

// NewOutputRecordFrom returns a copy of the other record.
func NewOutputRecordFrom(other *OutputRecord) *OutputRecord {
	copied := *other
	return &copied
}

// Income returns the income amount or nil if the income leg is empty.
func (r *OutputRecord) Income() *decimal.Decimal {
	return r.income
}

// SetIncome sets the income amount. Panics on negative amount.
func (r *OutputRecord) SetIncome(income *decimal.Decimal) {
	if income != nil && income.IsNegative() {
		panic(fmt.Sprintf("income == %s", income))
	}
	r.income = income
}

// Outcome returns the outcome amount or nil if the outcome leg is empty.
func (r *OutputRecord) Outcome() *decimal.Decimal {
	return r.outcome
}

// SetOutcome sets the outcome amount. Panics on negative amount.
func (r *OutputRecord) SetOutcome(outcome *decimal.Decimal) {
	if outcome != nil && outcome.IsNegative() {
		panic(fmt.Sprintf("outcome == %s", outcome))
	}
	r.outcome = outcome
}

// clearIncome empties all fields of the income leg.
func (r *OutputRecord) clearIncome() {
	r.income = nil
	r.IncomeAccountName = ""
	r.IncomeCurrencyShortTitle = ""
}

// clearOutcome empties all fields of the outcome leg.
func (r *OutputRecord) clearOutcome() {
	r.outcome = nil
	r.OutcomeAccountName = ""
	r.OutcomeCurrencyShortTitle = ""
}

func (r *OutputRecord) hasIncomeLeg() bool {
	return r.income != nil && r.IncomeAccountName != "" && r.IncomeCurrencyShortTitle != ""
}

func (r *OutputRecord) hasOutcomeLeg() bool {
	return r.outcome != nil && r.OutcomeAccountName != "" && r.OutcomeCurrencyShortTitle != ""
}

func (r *OutputRecord) IsValid() bool {
	return r != nil && validate.Struct(r) == nil
}

func (r *OutputRecord) IsTransfer() bool {
	return r.IncomeAccountName != "" && r.OutcomeAccountName != ""
}

func (r *OutputRecord) DisplayString() string {
	var b displayBuilder
	b.appendDate("date", r.Date)
	b.append("categoryName", r.CategoryName)
	b.append("comment", r.Comment)
	b.append("outcomeAccountName", r.OutcomeAccountName)
	b.appendDecimal("outcome", r.outcome)
	b.append("outcomeCurrencyShortTitle", r.OutcomeCurrencyShortTitle)
	b.append("incomeAccountName", r.IncomeAccountName)
	b.appendDecimal("income", r.income)
	b.append("incomeCurrencyShortTitle", r.IncomeCurrencyShortTitle)
	return b.String()
}

func (r *OutputRecord) String() string {
	return fmt.Sprintf("OutputRecord%s", r.DisplayString())
}

// displayBuilder builds "{name: value, ...}" strings skipping empty values.
type displayBuilder struct {
	parts []string
}

func (b *displayBuilder) append(name, value string) {
	if value == "" {
		return
	}
	b.parts = append(b.parts, name+": "+value)
}

func (b *displayBuilder) appendDate(name string, value time.Time) {
	if value.IsZero() {
		return
	}
	b.append(name, value.Format(HomeMoneyDateFormat))
}

func (b *displayBuilder) appendDecimal(name string, value *decimal.Decimal) {
	if value == nil {
		return
	}
	b.append(name, formatAmount(*value))
}

func (b *displayBuilder) String() string {
	return "{" + strings.Join(b.parts, ", ") + "}"
}
