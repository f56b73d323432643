package brokerage

import (
	"log"
	"sort"
	"sync"

	"github.com/etnz/brokerage/date"
	"github.com/shopspring/decimal"
)

// pair identifies a conversion direction.
type pair struct{ from, to string }

// RateTable holds daily exchange rates and converts monetary amounts at the
// rate in effect on a given day. It is read-only once built and therefore
// safe to share across concurrent per-security computations.
type RateTable struct {
	rates  map[pair]*date.History[decimal.Decimal]
	warned sync.Map // pair+day already reported missing
}

// NewRateTable returns an empty rate table.
func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[pair]*date.History[decimal.Decimal])}
}

// Add records the rate of one unit of 'from' expressed in 'to' on a day.
// Adding the same key twice overwrites, and identical inputs always produce
// the same table.
func (t *RateTable) Add(from, to string, on date.Date, rate decimal.Decimal) *RateTable {
	p := pair{from, to}
	h, ok := t.rates[p]
	if !ok {
		h = &date.History[decimal.Decimal]{}
		t.rates[p] = h
	}
	h.Append(on, rate)
	return t
}

// Rate returns the last known rate on or before the given day for converting
// 'from' into 'to'. The inverse pair is used when the direct pair is
// unknown.
func (t *RateTable) Rate(from, to string, on date.Date) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if h, ok := t.rates[pair{from, to}]; ok {
		if rate, ok := h.AsOf(on); ok {
			return rate, true
		}
	}
	if h, ok := t.rates[pair{to, from}]; ok {
		if inverse, ok := h.AsOf(on); ok && !inverse.IsZero() {
			return decimal.NewFromInt(1).Div(inverse), true
		}
	}
	return decimal.Decimal{}, false
}

// Each calls f for every known rate, pairs in lexical order and days in
// chronological order, so iteration is deterministic.
func (t *RateTable) Each(f func(from, to string, on date.Date, rate decimal.Decimal)) {
	pairs := make([]pair, 0, len(t.rates))
	for p := range t.rates {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].from != pairs[j].from {
			return pairs[i].from < pairs[j].from
		}
		return pairs[i].to < pairs[j].to
	})
	for _, p := range pairs {
		t.rates[p].Each(func(on date.Date, rate decimal.Decimal) {
			f(p.from, p.to, on, rate)
		})
	}
}

// Convert expresses an amount in the target currency at the rate of the
// given day. Converting an amount to its own currency returns it unchanged,
// exactly. A missing rate falls back to identity conversion and is reported
// once in the log.
func (t *RateTable) Convert(m Money, to string, on date.Date) Money {
	if m.Currency() == to || m.Currency() == "" {
		return M(m.value, to)
	}
	rate, ok := t.Rate(m.Currency(), to, on)
	if !ok {
		key := m.Currency() + "/" + to + "@" + on.String()
		if _, dup := t.warned.LoadOrStore(key, struct{}{}); !dup {
			log.Printf("no exchange rate %s->%s as of %s, keeping amount unconverted", m.Currency(), to, on)
		}
		return M(m.value, to)
	}
	return M(m.value.Mul(rate), to)
}
