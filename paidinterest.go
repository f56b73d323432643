package brokerage

import (
	"slices"
)

// PositionKey identifies a lot for income attribution. Two lots matched from
// the same transaction are told apart by their count.
type PositionKey struct {
	TransactionID string
	OpenedAt      int64 // unix nanoseconds of the opening instant
	Count         int64
}

// keyOf builds the attribution key of a lot.
func keyOf(p OpenedPosition) PositionKey {
	return PositionKey{TransactionID: p.Open.ID, OpenedAt: p.Open.Timestamp.UnixNano(), Count: p.Count}
}

// PaidInterest maps income events (coupons, amortizations, dividends, taxes)
// to the lots that held the security when the event was paid. An event held
// by several lots is split pro-rata by lot count, the last share absorbing
// the rounding remainder so that shares always sum back to the original
// value. Events that no lot can anchor are attached to synthesized
// zero-cost fictitious lots so that no payment is ever dropped.
type PaidInterest struct {
	events     map[EventType]map[PositionKey][]CashFlowEvent
	flows      map[EventType][]CashFlowEvent
	currencies map[string]struct{}
	Fictitious []OpenedPosition
}

// EventsOf returns the income events of one type attributed to a lot.
func (pi *PaidInterest) EventsOf(typ EventType, p OpenedPosition) []CashFlowEvent {
	return pi.events[typ][keyOf(p)]
}

// Flows returns every attributed share of one event type, fictitious lots
// included, in attribution order. Shares of one event sum to its value, so
// summing Flows never double counts.
func (pi *PaidInterest) Flows(typ EventType) []CashFlowEvent {
	return pi.flows[typ]
}

// Currencies returns the sorted set of distinct currencies observed across
// all attributed events.
func (pi *PaidInterest) Currencies() []string {
	out := make([]string, 0, len(pi.currencies))
	for c := range pi.currencies {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// AttributeInterest assigns each income event (coupon, amortization,
// dividend, tax) to the lot(s) whose holding interval [open, close) contains
// the event timestamp. Opened lots hold until now. Attribution is additive:
// a lot may accumulate several events of the same type; summing is left to
// the profit calculator.
func AttributeInterest(events []CashFlowEvent, pos *Positions) *PaidInterest {
	pi := &PaidInterest{
		events:     make(map[EventType]map[PositionKey][]CashFlowEvent),
		flows:      make(map[EventType][]CashFlowEvent),
		currencies: make(map[string]struct{}),
	}

	for _, e := range events {
		if !slices.Contains(incomeTypes, e.Type) {
			continue
		}
		holders := holdersOf(pos, e)
		if len(holders) == 0 {
			fict := pi.fictitiousFor(e)
			pi.add(e.Type, fict, e)
			continue
		}
		var totalHeld int64
		for _, h := range holders {
			totalHeld += abs(h.Count)
		}
		remainder := e.Value
		for i, h := range holders {
			share := e
			if i == len(holders)-1 {
				share.Value = remainder
			} else {
				share.Value = e.Value.Mul(Q(abs(h.Count))).Div(Q(totalHeld))
				remainder = remainder.Sub(share.Value)
			}
			pi.add(e.Type, h, share)
		}
	}
	return pi
}

// holdersOf returns the lots holding the event's security when it was paid.
func holdersOf(pos *Positions, e CashFlowEvent) []OpenedPosition {
	var holders []OpenedPosition
	for _, c := range pos.Closed {
		if c.Open.Security == e.Security &&
			!e.Timestamp.Before(c.OpenedAt()) && e.Timestamp.Before(c.ClosedAt()) {
			holders = append(holders, c.OpenedPosition)
		}
	}
	for _, o := range pos.Opened {
		if o.Open.Security == e.Security && !e.Timestamp.Before(o.OpenedAt()) {
			holders = append(holders, o)
		}
	}
	return holders
}

// fictitiousFor returns the fictitious lot anchored at the event's own
// timestamp, creating it on first use. The lot has no opening trade and
// therefore zero cost.
func (pi *PaidInterest) fictitiousFor(e CashFlowEvent) OpenedPosition {
	for _, f := range pi.Fictitious {
		if f.Open.Security == e.Security && f.Open.Timestamp.Equal(e.Timestamp) && f.Count == e.Count {
			return f
		}
	}
	fict := OpenedPosition{
		Open: Transaction{
			Portfolio: e.Portfolio,
			Security:  e.Security,
			Count:     e.Count,
			Timestamp: e.Timestamp,
		},
		Count: e.Count,
	}
	pi.Fictitious = append(pi.Fictitious, fict)
	return fict
}

func (pi *PaidInterest) add(typ EventType, p OpenedPosition, e CashFlowEvent) {
	byKey, ok := pi.events[typ]
	if !ok {
		byKey = make(map[PositionKey][]CashFlowEvent)
		pi.events[typ] = byKey
	}
	key := keyOf(p)
	byKey[key] = append(byKey[key], e)
	pi.flows[typ] = append(pi.flows[typ], e)
	if c := e.Value.Currency(); c != "" {
		pi.currencies[c] = struct{}{}
	}
}
