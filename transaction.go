package brokerage

import (
	"fmt"
	"time"
)

// Transaction is a single trade of a security: a positive count is a buy,
// a negative count is a sell. Transactions are immutable once created.
//
// A transaction with an empty ID is a synthetic record for a deposit or
// withdrawal of securities: it moves units in or out of the portfolio but
// carries no cash flows of its own.
type Transaction struct {
	ID        string    // broker identifier, empty for deposits/withdrawals
	Portfolio string    // owning portfolio identifier
	Security  string    // security id (ISIN or contract code)
	Count     int64     // signed unit count, positive = buy
	Timestamp time.Time
}

// IsSynthetic reports whether the transaction is a deposit/withdrawal of
// securities with no associated cash flows.
func (t Transaction) IsSynthetic() bool { return t.ID == "" }

// Sign returns -1, 0 or +1 depending on the sign of the transaction count.
func (t Transaction) Sign() int64 {
	switch {
	case t.Count > 0:
		return 1
	case t.Count < 0:
		return -1
	default:
		return 0
	}
}

// Equal reports whether two transactions are the same record.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID && t.Portfolio == o.Portfolio && t.Security == o.Security &&
		t.Count == o.Count && t.Timestamp.Equal(o.Timestamp)
}

// MarshalJSON implements the json.Marshaler interface.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", t.ID)
	w.Append("portfolio", t.Portfolio)
	w.Append("security", t.Security)
	w.Append("count", t.Count)
	w.Append("timestamp", t.Timestamp.Format(time.RFC3339))
	return w.MarshalJSON()
}

// TradeFlowType identifies one cash-flow component of a trade.
type TradeFlowType string

const (
	Price           TradeFlowType = "price"            // clean price paid or received
	AccruedInterest TradeFlowType = "accrued-interest" // bond interest accrued since last coupon
	Commission      TradeFlowType = "commission"       // broker fee
	DerivativePrice TradeFlowType = "derivative-price" // derivative price in money
	DerivativeQuote TradeFlowType = "derivative-quote" // derivative quote in points
)

// ParseTradeFlowType parses a string into a TradeFlowType.
func ParseTradeFlowType(s string) (TradeFlowType, error) {
	switch TradeFlowType(s) {
	case Price, AccruedInterest, Commission, DerivativePrice, DerivativeQuote:
		return TradeFlowType(s), nil
	default:
		return "", fmt.Errorf("unknown trade flow type: %q", s)
	}
}

// TransactionCashFlow is one cash-flow component associated with a
// transaction. The value carries the cash sign: money leaving the account
// is negative. One transaction may have several components of distinct types.
type TransactionCashFlow struct {
	TransactionID string
	Type          TradeFlowType
	Value         Money
}

// MarshalJSON implements the json.Marshaler interface.
func (f TransactionCashFlow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("transaction", f.TransactionID)
	w.Append("type", f.Type)
	w.EmbedFrom(f.Value)
	return w.MarshalJSON()
}

// TradeFlows indexes transaction cash flows by transaction id and type for
// constant-time lookup during profit calculation.
type TradeFlows map[string]map[TradeFlowType]Money

// NewTradeFlows builds the index from a flat list of flows. Several flows of
// the same type on the same transaction are summed.
func NewTradeFlows(flows []TransactionCashFlow) TradeFlows {
	index := make(TradeFlows)
	for _, f := range flows {
		byType, ok := index[f.TransactionID]
		if !ok {
			byType = make(map[TradeFlowType]Money)
			index[f.TransactionID] = byType
		}
		byType[f.Type] = byType[f.Type].Add(f.Value)
	}
	return index
}

// Of returns the cash-flow value of the given type for a transaction.
func (f TradeFlows) Of(txID string, typ TradeFlowType) (Money, bool) {
	m, ok := f[txID][typ]
	return m, ok
}
