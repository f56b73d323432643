package brokerage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/brokerage/date"
)

// at parses a test timestamp, with or without a time of day.
func at(t *testing.T, s string) time.Time {
	t.Helper()
	if ts, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return ts
	}
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", s, err)
	}
	return ts
}

// tx creates a trade of the default test security.
func tx(t *testing.T, id string, count int64, when string) Transaction {
	t.Helper()
	return Transaction{ID: id, Portfolio: "broker-1", Security: "SEC", Count: count, Timestamp: at(t, when)}
}

// deposit creates a synthetic securities move (no ID, no cash flows).
func deposit(t *testing.T, count int64, when string) Transaction {
	t.Helper()
	return Transaction{Portfolio: "broker-1", Security: "SEC", Count: count, Timestamp: at(t, when)}
}

// flow creates one cash-flow component of a trade, cash-signed.
func flow(txID string, typ TradeFlowType, amount float64, currency string) TransactionCashFlow {
	return TransactionCashFlow{TransactionID: txID, Type: typ, Value: M(amount, currency)}
}

// event creates a security cash-flow event.
func event(t *testing.T, typ EventType, amount float64, currency, when string, count int64) CashFlowEvent {
	t.Helper()
	return CashFlowEvent{
		Portfolio: "broker-1",
		Security:  "SEC",
		Type:      typ,
		Value:     M(amount, currency),
		Timestamp: at(t, when),
		Count:     count,
	}
}

// bond creates the default test bond security.
func bond() Security {
	return NewSecurity("SEC", "BND1", Bond, "Test Bond", "RUB")
}

// stock creates the default test stock security.
func stock() Security {
	return NewSecurity("SEC", "STK1", Stock, "Test Stock", "USD")
}

// rates creates a rate table with a fixed USD to RUB rate over 2025.
func rates(usdRub float64) *RateTable {
	table := NewRateTable()
	table.Add("USD", "RUB", date.New(2025, time.January, 1), decimal.NewFromFloat(usdRub))
	return table
}

// moneyEq fails the test when got differs from want.
func moneyEq(t *testing.T, name string, got Money, want float64) {
	t.Helper()
	if !got.Value().Equal(decimal.NewFromFloat(want)) {
		t.Errorf("%s = %s, want %v %s", name, got.Value(), want, got.Currency())
	}
}
