package brokerage

import "fmt"

// SecurityType classifies a security and determines which cash-flow types
// are economically meaningful for it: only bonds pay coupons and amortize,
// only derivatives settle variation margin.
type SecurityType string

const (
	Stock        SecurityType = "stock"
	Bond         SecurityType = "bond"
	Derivative   SecurityType = "derivative"
	CurrencyPair SecurityType = "currency-pair"
)

// ParseSecurityType parses a string into a SecurityType.
func ParseSecurityType(s string) (SecurityType, error) {
	switch SecurityType(s) {
	case Stock, Bond, Derivative, CurrencyPair:
		return SecurityType(s), nil
	default:
		return "", fmt.Errorf("unknown security type: %q", s)
	}
}

// Security represents a tradeable asset: a stock, a bond, a derivative
// contract or a currency pair.
type Security struct {
	id       string // ISIN for stocks and bonds, contract code otherwise.
	ticker   string
	typ      SecurityType
	name     string // human friendly display name
	currency string // the currency the security trades in
}

// NewSecurity creates a new Security.
func NewSecurity(id, ticker string, typ SecurityType, name, currency string) Security {
	return Security{id: id, ticker: ticker, typ: typ, name: name, currency: currency}
}

// ID returns the unique identifier of the security (ISIN or contract code).
func (s Security) ID() string { return s.id }

// Ticker returns the human-friendly ticker symbol of the security.
func (s Security) Ticker() string { return s.ticker }

// Type returns the security classification.
func (s Security) Type() SecurityType { return s.typ }

// Name returns the display name of the security.
func (s Security) Name() string {
	if s.name == "" {
		return s.ticker
	}
	return s.name
}

// Currency returns the currency the security trades in.
func (s Security) Currency() string { return s.currency }

// MarshalJSON implements the json.Marshaler interface.
func (s Security) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", s.id)
	w.Append("ticker", s.ticker)
	w.Append("type", s.typ)
	w.Optional("name", s.name)
	w.Append("currency", s.currency)
	return w.MarshalJSON()
}
