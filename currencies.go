package main

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// lookupCurrency returns ISO 4217 currency by code in any case or nil if code is unknown.
func lookupCurrency(code string) *money.Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	return money.GetCurrency(code)
}

// parseCurrencyCode returns normalized (uppercased) ISO 4217 code.
func parseCurrencyCode(s string) (string, error) {
	currency := lookupCurrency(s)
	if currency == nil {
		return "", fmt.Errorf("unknown currency code '%s'", s)
	}
	return currency.Code, nil
}

// parseLocalizedAmount parses amounts written in "ru-RU" style like "-1 234,56"
// or with regular spaces/non-breaking spaces as thousands separators.
// Dot as a decimal separator is accepted as well.
func parseLocalizedAmount(s string) (decimal.Decimal, error) {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			return -1
		case ',':
			return '.'
		case '\u2212':
			return '-'
		}
		return r
	}, s)
	if strings.Count(sanitized, ".") > 1 {
		return decimal.Zero, fmt.Errorf("ambiguous decimal separators in '%s'", s)
	}
	amount, err := decimal.NewFromString(sanitized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("can't parse amount '%s': %w", s, err)
	}
	return amount, nil
}

// formatAmount prints decimal in plain notation keeping its scale, i.e. "12.50" stays "12.50".
func formatAmount(amount decimal.Decimal) string {
	if exp := amount.Exponent(); exp < 0 {
		return amount.StringFixed(-exp)
	}
	return amount.String()
}
