package brokerage

import (
	"fmt"
	"time"
)

// EventType identifies a security cash-flow event that is not a trade.
type EventType string

const (
	Coupon           EventType = "coupon"
	Amortization     EventType = "amortization"
	Dividend         EventType = "dividend"
	Redemption       EventType = "redemption"
	Tax              EventType = "tax"
	DerivativeProfit EventType = "derivative-profit" // daily variation margin
)

// ParseEventType parses a string into an EventType.
func ParseEventType(s string) (EventType, error) {
	switch EventType(s) {
	case Coupon, Amortization, Dividend, Redemption, Tax, DerivativeProfit:
		return EventType(s), nil
	default:
		return "", fmt.Errorf("unknown event type: %q", s)
	}
}

// incomeTypes are the event types attributed to position lots.
var incomeTypes = []EventType{Coupon, Amortization, Dividend, Tax}

// CashFlowEvent is a cash flow paid by a security outside of a trade: a bond
// coupon, an amortization, a dividend, a redemption at maturity, a tax
// withholding or a derivative's daily settlement.
type CashFlowEvent struct {
	Portfolio string
	Security  string
	Type      EventType
	Value     Money     // signed: taxes are negative, income positive
	Timestamp time.Time
	Count     int64     // units concerned, used by redemption events
}

// MarshalJSON implements the json.Marshaler interface.
func (e CashFlowEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("portfolio", e.Portfolio)
	w.Append("security", e.Security)
	w.Append("type", e.Type)
	w.EmbedFrom(e.Value)
	w.Append("timestamp", e.Timestamp.Format(time.RFC3339))
	w.Optional("count", e.Count)
	return w.MarshalJSON()
}
