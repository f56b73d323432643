package brokerage

import (
	"slices"

	"github.com/etnz/brokerage/date"
)

// DailyEvents is one calendar day in a derivative contract's ledger: the
// day's transactions with their cash-flow breakdown, the day's variation
// margin settlement when there was one, the cumulative profit carried
// forward, and the end-of-day position.
type DailyEvents struct {
	Day              date.Date
	Transactions     []Transaction
	Flows            TradeFlows     // per-transaction breakdown (quote, price, commission)
	Settlement       *CashFlowEvent // nil on days without settlement
	CumulativeProfit Money
	Position         int64 // signed end-of-day position
}

// MarkToMarket builds a derivative contract's daily ledger from its
// transactions and its daily settlement events. Both inputs must be ordered
// by timestamp ascending. One record is emitted per calendar day that has
// either transactions or a settlement; cumulative profit is the running
// total of settlement values and carries across silent days.
func MarkToMarket(transactions []Transaction, settlements []CashFlowEvent, flows TradeFlows) []DailyEvents {
	txByDay := make(map[date.Date][]Transaction)
	var days []date.Date
	for _, tx := range transactions {
		day := date.Of(tx.Timestamp)
		if _, ok := txByDay[day]; !ok {
			days = append(days, day)
		}
		txByDay[day] = append(txByDay[day], tx)
	}

	settleByDay := make(map[date.Date]CashFlowEvent)
	for _, e := range settlements {
		if e.Type != DerivativeProfit {
			continue
		}
		day := date.Of(e.Timestamp)
		if prev, ok := settleByDay[day]; ok {
			// several settlements on one day collapse into one
			prev.Value = prev.Value.Add(e.Value)
			settleByDay[day] = prev
			continue
		}
		settleByDay[day] = e
		if _, ok := txByDay[day]; !ok {
			days = append(days, day)
		}
	}

	slices.SortFunc(days, func(a, b date.Date) int {
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		default:
			return 0
		}
	})

	var ledger []DailyEvents
	var cumulative Money
	var position int64
	for _, day := range days {
		entry := DailyEvents{Day: day, Transactions: txByDay[day]}
		entry.Flows = make(TradeFlows, len(entry.Transactions))
		for _, tx := range entry.Transactions {
			position += tx.Count
			if byType, ok := flows[tx.ID]; ok {
				entry.Flows[tx.ID] = byType
			}
		}
		if settle, ok := settleByDay[day]; ok {
			cumulative = cumulative.Add(settle.Value)
			entry.Settlement = &settle
		}
		entry.CumulativeProfit = cumulative
		entry.Position = position
		ledger = append(ledger, entry)
	}
	return ledger
}
