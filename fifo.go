package brokerage

import (
	"errors"
	"fmt"
	"time"
)

// ClosingEvent identifies how a position was closed: by an opposite trade at
// a market price, or by the security's redemption at maturity.
type ClosingEvent string

const (
	ClosedByPrice      ClosingEvent = "price"
	ClosedByRedemption ClosingEvent = "redemption"
)

// ErrUnknownClosingEvent reports a closed lot carrying a closing event kind
// the profit calculation does not know about.
var ErrUnknownClosingEvent = errors.New("unknown closing event")

// ErrDuplicateRedemption reports a second redemption event for the same
// security inside one window. A bond redeems exactly once; a second event is
// a data consistency failure, not a recoverable condition.
var ErrDuplicateRedemption = errors.New("security redeemed more than once")

// OpenedPosition is a lot of a security still held: a matched part of one
// opening transaction. Count carries the sign of the opening transaction and
// never exceeds the transaction's unmatched remainder at creation time.
type OpenedPosition struct {
	Open  Transaction
	Count int64
}

// OpenedAt returns the instant the lot was opened.
func (p OpenedPosition) OpenedAt() time.Time { return p.Open.Timestamp }

// ClosedPosition is a lot whose opening transaction has been paired with a
// closing transaction (or a redemption event, in which case the close
// transaction has an empty ID). The matched count is identical on both legs.
type ClosedPosition struct {
	OpenedPosition
	Close Transaction
	Event ClosingEvent
}

// ClosedAt returns the instant the lot was closed.
func (p ClosedPosition) ClosedAt() time.Time { return p.Close.Timestamp }

// Positions holds the outcome of FIFO lot matching for one security:
// the lots still open and the lots closed, both in chronological order.
type Positions struct {
	Opened []OpenedPosition
	Closed []ClosedPosition
}

// OpenCount returns the total signed count of units still held.
func (p *Positions) OpenCount() int64 {
	var n int64
	for _, o := range p.Opened {
		n += o.Count
	}
	return n
}

// shard is the unmatched remainder of one opening transaction.
type shard struct {
	tx        Transaction
	remaining int64 // absolute units not matched yet, always > 0
}

// MatchLots pairs one security's transactions into opened and closed lots
// using first-in-first-out order.
//
// Transactions must be supplied ordered by timestamp ascending, ties broken
// by a stable secondary key; MatchLots does not re-sort. A transaction with
// the same sign as the outstanding lots (or with no outstanding lots) opens
// a new lot. A transaction of the opposite sign consumes outstanding lots
// oldest first, producing one closed lot per consumed shard; a remainder
// that overshoots the outstanding quantity flips into a new lot of the
// opposite sign.
//
// Redemption events are not trades: a redemption force-closes every
// remaining lot as of its timestamp. At most one redemption event per
// security is permitted; a second one returns ErrDuplicateRedemption.
func MatchLots(transactions []Transaction, redemptions []CashFlowEvent) (*Positions, error) {
	var redemption *CashFlowEvent
	for _, e := range redemptions {
		if e.Type != Redemption {
			continue
		}
		if redemption != nil {
			return nil, fmt.Errorf("security %s: %w", e.Security, ErrDuplicateRedemption)
		}
		e := e
		redemption = &e
	}

	pos := &Positions{}
	var queue []shard // all shards share the sign of their transactions

	for _, tx := range transactions {
		if redemption != nil && !tx.Timestamp.Before(redemption.Timestamp) {
			if err := redeem(pos, &queue, *redemption); err != nil {
				return nil, err
			}
			redemption = nil
		}
		if tx.Count == 0 {
			continue
		}
		if err := match(pos, &queue, tx); err != nil {
			return nil, err
		}
	}
	if redemption != nil {
		if err := redeem(pos, &queue, *redemption); err != nil {
			return nil, err
		}
	}

	for _, s := range queue {
		pos.Opened = append(pos.Opened, OpenedPosition{Open: s.tx, Count: s.remaining * s.tx.Sign()})
	}
	return pos, nil
}

// match applies one transaction to the shard queue.
func match(pos *Positions, queue *[]shard, tx Transaction) error {
	remaining := abs(tx.Count)
	for remaining > 0 {
		if len(*queue) == 0 || (*queue)[0].tx.Sign() == tx.Sign() {
			*queue = append(*queue, shard{tx: tx, remaining: remaining})
			return nil
		}
		// Consume the oldest shard of the opposite sign.
		oldest := &(*queue)[0]
		matched := min(oldest.remaining, remaining)
		closed, err := closePosition(oldest.tx, matched, tx, ClosedByPrice)
		if err != nil {
			return err
		}
		pos.Closed = append(pos.Closed, closed)
		oldest.remaining -= matched
		remaining -= matched
		if oldest.remaining == 0 {
			*queue = (*queue)[1:]
		}
	}
	return nil
}

// redeem force-closes every remaining shard as of the redemption timestamp.
func redeem(pos *Positions, queue *[]shard, event CashFlowEvent) error {
	for _, s := range *queue {
		closing := Transaction{
			Portfolio: s.tx.Portfolio,
			Security:  s.tx.Security,
			Count:     -s.remaining * s.tx.Sign(),
			Timestamp: event.Timestamp,
		}
		closed, err := closePosition(s.tx, s.remaining, closing, ClosedByRedemption)
		if err != nil {
			return err
		}
		pos.Closed = append(pos.Closed, closed)
	}
	*queue = (*queue)[:0]
	return nil
}

// closePosition builds one closed lot. The matched count is reported as
// abs(units) times the sign of the opening transaction.
func closePosition(open Transaction, matched int64, closing Transaction, event ClosingEvent) (ClosedPosition, error) {
	switch event {
	case ClosedByPrice, ClosedByRedemption:
	default:
		// Unreachable by construction, but a corrupted event kind must not
		// silently produce lots.
		return ClosedPosition{}, fmt.Errorf("unsupported closing event %q for security %s", event, open.Security)
	}
	return ClosedPosition{
		OpenedPosition: OpenedPosition{Open: open, Count: matched * open.Sign()},
		Close:          closing,
		Event:          event,
	}, nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
