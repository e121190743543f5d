package main

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("timezone", validateTimezone)
	_ = v.RegisterValidation("currency", validateCurrency)
	v.RegisterStructValidation(validateOutputRecord, OutputRecord{})
	return v
}

func validateTimezone(fl validator.FieldLevel) bool {
	timezone := fl.Field().String()
	if timezone == "" {
		return true // Empty timezone is allowed, will be replaced with system default
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

func validateCurrency(fl validator.FieldLevel) bool {
	return lookupCurrency(fl.Field().String()) != nil
}

// validateOutputRecord checks that at least one leg is complete and that record doesn't move money
// from an account into the same account.
func validateOutputRecord(sl validator.StructLevel) {
	record := sl.Current().Interface().(OutputRecord)
	if !record.hasIncomeLeg() && !record.hasOutcomeLeg() {
		sl.ReportError(record.income, "income", "income", "leg_required", "")
		sl.ReportError(record.outcome, "outcome", "outcome", "leg_required", "")
	}
	if record.IncomeAccountName == record.OutcomeAccountName {
		sl.ReportError(
			record.IncomeAccountName, "incomeAccountName", "IncomeAccountName",
			"nefield", "OutcomeAccountName",
		)
	}
}
