package brokerage

import (
	"slices"
	"time"
)

// Filter restricts a computation to a set of portfolios and a half-open time
// window [From, To). It is a pure value passed explicitly to every call:
// there is no ambient filter state.
type Filter struct {
	Portfolios []string  // empty means all portfolios
	From       time.Time // zero means unbounded
	To         time.Time // zero means unbounded, exclusive otherwise
}

// String formats the filter window, "-" standing for an unbounded side.
func (f Filter) String() string {
	from, to := "-", "-"
	if !f.From.IsZero() {
		from = f.From.Format("2006-01-02")
	}
	if !f.To.IsZero() {
		to = f.To.Format("2006-01-02")
	}
	return from + ".." + to
}

// MatchPortfolio reports whether a portfolio passes the filter.
func (f Filter) MatchPortfolio(portfolio string) bool {
	return len(f.Portfolios) == 0 || slices.Contains(f.Portfolios, portfolio)
}

// Contains reports whether an instant falls inside the filter window.
func (f Filter) Contains(t time.Time) bool {
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.Before(f.To) {
		return false
	}
	return true
}

// Transactions returns the transactions passing the filter, preserving order.
func (f Filter) Transactions(txs []Transaction) []Transaction {
	var out []Transaction
	for _, tx := range txs {
		if f.MatchPortfolio(tx.Portfolio) && f.Contains(tx.Timestamp) {
			out = append(out, tx)
		}
	}
	return out
}

// Events returns the events passing the filter, preserving order. When types
// are given, only events of those types are kept.
func (f Filter) Events(events []CashFlowEvent, types ...EventType) []CashFlowEvent {
	var out []CashFlowEvent
	for _, e := range events {
		if !f.MatchPortfolio(e.Portfolio) || !f.Contains(e.Timestamp) {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, e.Type) {
			continue
		}
		out = append(out, e)
	}
	return out
}
