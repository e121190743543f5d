package main

import (
	"errors"
	"fmt"
)

// ErrTransferMismatch is returned when a transfer record can't be paired with the pending one.
var ErrTransferMismatch = errors.New("transfer legs don't match")

// TransferMatcherState is a state of TransferMatcher.
type TransferMatcherState int

const (
	// Idle means that there is no pending transfer record.
	Idle TransferMatcherState = iota
	// AwaitingPartner means that outgoing leg of a transfer is stored and matcher waits for incoming leg.
	AwaitingPartner
)

func (s TransferMatcherState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case AwaitingPartner:
		return "AwaitingPartner"
	}
	return fmt.Sprintf("TransferMatcherState(%d)", int(s))
}

// MatchResult is an outcome of one TransferMatcher step.
// Deferred is set when record was stored as a pending one and nothing should be converted yet.
// Otherwise either Single is set for direct conversion or Outgoing with Incoming for pair conversion.
type MatchResult struct {
	Deferred bool
	Single   *SourceRecord
	Outgoing *SourceRecord
	Incoming *SourceRecord
}

// IsPair is true if result contains both legs of a transfer.
func (m MatchResult) IsPair() bool {
	return m.Outgoing != nil && m.Incoming != nil
}

// TransferMatcher reconstructs transfers from two consequent HomeMoney records:
// first one with negative total (outgoing), second one with positive total (incoming)
// which account is the first's transfer account.
// Holds at most one pending record, pairing is strictly sequential.
type TransferMatcher struct {
	pending *SourceRecord
}

// State returns current matcher state.
func (m *TransferMatcher) State() TransferMatcherState {
	if m.pending == nil {
		return Idle
	}
	return AwaitingPartner
}

// Pending returns stored outgoing leg or nil.
func (m *TransferMatcher) Pending() *SourceRecord {
	return m.pending
}

// Reset drops the pending record.
func (m *TransferMatcher) Reset() {
	m.pending = nil
}

// Match feeds next valid record into the matcher.
// On mismatch returns error wrapping ErrTransferMismatch and resets to Idle.
func (m *TransferMatcher) Match(record *SourceRecord) (MatchResult, error) {
	if !record.IsTransfer() {
		return MatchResult{Single: record}, nil
	}

	if m.pending == nil {
		if !record.Total.IsNegative() {
			return MatchResult{}, fmt.Errorf(
				"%w: first leg should have negative total: %s", ErrTransferMismatch, record.DisplayString(),
			)
		}
		m.pending = record
		return MatchResult{Deferred: true}, nil
	}

	outgoing := m.pending
	m.pending = nil
	if !record.Total.IsPositive() || record.Account != outgoing.Transfer {
		return MatchResult{}, fmt.Errorf(
			"%w: pending %s, got %s", ErrTransferMismatch, outgoing.DisplayString(), record.DisplayString(),
		)
	}
	return MatchResult{Outgoing: outgoing, Incoming: record}, nil
}
