package main

import (
	"fmt"
	"slices"
)

// RegisteredAccount is a target account which should exist in ZenMoney before import.
type RegisteredAccount struct {
	Name       string
	Currencies []string
}

func (a RegisteredAccount) String() string {
	return fmt.Sprintf("%s %v", a.Name, a.Currencies)
}

// AccountNormalizer converts HomeMoney account names into ZenMoney account names
// and remembers every account and currency it produced.
// HomeMoney supports accounts with few currencies while ZenMoney doesn't,
// so such accounts are split into one account per currency, like "Wallet (USD)".
type AccountNormalizer struct {
	multiCurrencyAccounts map[string]struct{}
	registry              map[string]map[string]struct{}
}

func NewAccountNormalizer(multiCurrencyAccounts []string) *AccountNormalizer {
	accounts := make(map[string]struct{}, len(multiCurrencyAccounts))
	for _, account := range multiCurrencyAccounts {
		accounts[account] = struct{}{}
	}
	return &AccountNormalizer{
		multiCurrencyAccounts: accounts,
		registry:              make(map[string]map[string]struct{}),
	}
}

// EffectiveName returns ZenMoney account name for the given HomeMoney account and currency.
// Doesn't register anything.
func (n *AccountNormalizer) EffectiveName(accountName, currencyCode string) string {
	if _, ok := n.multiCurrencyAccounts[accountName]; ok {
		return fmt.Sprintf("%s (%s)", accountName, currencyCode)
	}
	return accountName
}

// Normalize returns effective account name for the given account and currency
// and registers this pair.
func (n *AccountNormalizer) Normalize(accountName, currencyCode string) string {
	effectiveName := n.EffectiveName(accountName, currencyCode)
	n.register(effectiveName, currencyCode)
	return effectiveName
}

// Register remembers accounts of both legs of the converted record.
// Should be called only for records which passed validation.
func (n *AccountNormalizer) Register(record *OutputRecord) {
	if record.hasIncomeLeg() {
		n.register(record.IncomeAccountName, record.IncomeCurrencyShortTitle)
	}
	if record.hasOutcomeLeg() {
		n.register(record.OutcomeAccountName, record.OutcomeCurrencyShortTitle)
	}
}

func (n *AccountNormalizer) register(effectiveName, currencyCode string) {
	currencies, ok := n.registry[effectiveName]
	if !ok {
		currencies = make(map[string]struct{})
		n.registry[effectiveName] = currencies
	}
	currencies[currencyCode] = struct{}{}
}

// Registry returns a copy of registered effective account names mapped to sorted currency codes.
func (n *AccountNormalizer) Registry() map[string][]string {
	result := make(map[string][]string, len(n.registry))
	for name, currencies := range n.registry {
		codes := make([]string, 0, len(currencies))
		for code := range currencies {
			codes = append(codes, code)
		}
		slices.Sort(codes)
		result[name] = codes
	}
	return result
}

// Accounts returns registered accounts sorted by name.
func (n *AccountNormalizer) Accounts() []RegisteredAccount {
	return registryToAccounts(n.Registry())
}

func registryToAccounts(registry map[string][]string) []RegisteredAccount {
	accounts := make([]RegisteredAccount, 0, len(registry))
	for name, currencies := range registry {
		accounts = append(accounts, RegisteredAccount{Name: name, Currencies: currencies})
	}
	slices.SortFunc(accounts, func(a, b RegisteredAccount) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return accounts
}
