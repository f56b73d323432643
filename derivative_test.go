package brokerage

import (
	"testing"
	"time"

	"github.com/etnz/brokerage/date"
)

func TestMarkToMarket(t *testing.T) {
	txs := []Transaction{
		tx(t, "t1", 2, "2025-03-03T10:00"),
		tx(t, "t2", 1, "2025-03-03T15:00"),
		tx(t, "t3", -1, "2025-03-05T11:00"),
	}
	settlements := []CashFlowEvent{
		event(t, DerivativeProfit, 120, "RUB", "2025-03-03", 0),
		event(t, DerivativeProfit, -50, "RUB", "2025-03-04", 0),
		event(t, DerivativeProfit, 80, "RUB", "2025-03-05", 0),
	}
	flows := NewTradeFlows([]TransactionCashFlow{
		flow("t1", DerivativeQuote, -2000, ""),
		flow("t1", Commission, -3, "RUB"),
		flow("t3", Commission, -1, "RUB"),
	})

	ledger := MarkToMarket(txs, settlements, flows)
	if len(ledger) != 3 {
		t.Fatalf("len(ledger) = %d, want 3", len(ledger))
	}

	testCases := []struct {
		day        date.Date
		txCount    int
		settled    bool
		cumulative float64
		position   int64
	}{
		{date.New(2025, time.March, 3), 2, true, 120, 3},
		{date.New(2025, time.March, 4), 0, true, 70, 3},
		{date.New(2025, time.March, 5), 1, true, 150, 2},
	}
	for i, want := range testCases {
		got := ledger[i]
		if got.Day != want.day {
			t.Errorf("ledger[%d].Day = %s, want %s", i, got.Day, want.day)
		}
		if len(got.Transactions) != want.txCount {
			t.Errorf("ledger[%d] has %d transactions, want %d", i, len(got.Transactions), want.txCount)
		}
		if (got.Settlement != nil) != want.settled {
			t.Errorf("ledger[%d].Settlement = %v, want settled=%v", i, got.Settlement, want.settled)
		}
		moneyEq(t, "CumulativeProfit", got.CumulativeProfit, want.cumulative)
		if got.Position != want.position {
			t.Errorf("ledger[%d].Position = %d, want %d", i, got.Position, want.position)
		}
	}

	// The day's flows carry the commission breakdown of the day's trades.
	if fee, ok := ledger[0].Flows.Of("t1", Commission); !ok || !fee.Equal(M(-3, "RUB")) {
		t.Errorf("day 1 commission of t1 = %v, want -3 RUB", fee)
	}
	if _, ok := ledger[0].Flows.Of("t3", Commission); ok {
		t.Errorf("day 1 must not carry t3's flows")
	}
}

func TestMarkToMarket_SameDaySettlementsCollapse(t *testing.T) {
	settlements := []CashFlowEvent{
		event(t, DerivativeProfit, 40, "RUB", "2025-03-03", 0),
		event(t, DerivativeProfit, -10, "RUB", "2025-03-03", 0),
	}

	ledger := MarkToMarket(nil, settlements, nil)
	if len(ledger) != 1 {
		t.Fatalf("len(ledger) = %d, want 1", len(ledger))
	}
	moneyEq(t, "CumulativeProfit", ledger[0].CumulativeProfit, 30)
	if ledger[0].Settlement == nil {
		t.Fatal("Settlement is nil")
	}
	moneyEq(t, "Settlement", ledger[0].Settlement.Value, 30)
}

func TestMarkToMarket_Empty(t *testing.T) {
	if ledger := MarkToMarket(nil, nil, nil); len(ledger) != 0 {
		t.Fatalf("ledger = %+v, want empty", ledger)
	}
}
