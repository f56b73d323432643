package brokerage

import (
	"errors"
	"testing"
)

func TestMatchLots_FIFOOrder(t *testing.T) {
	// +10, -4, -4, +6, -8: sells consume the oldest lots first.
	txs := []Transaction{
		tx(t, "t1", 10, "2025-01-10"),
		tx(t, "t2", -4, "2025-02-10"),
		tx(t, "t3", -4, "2025-03-10"),
		tx(t, "t4", 6, "2025-04-10"),
		tx(t, "t5", -8, "2025-05-10"),
	}

	pos, err := MatchLots(txs, nil)
	if err != nil {
		t.Fatalf("MatchLots() failed: %v", err)
	}

	wantClosed := []struct {
		openID  string
		closeID string
		count   int64
	}{
		{"t1", "t2", 4},
		{"t1", "t3", 4},
		{"t1", "t5", 2}, // remainder of t1
		{"t4", "t5", 6},
	}
	if got, want := len(pos.Closed), len(wantClosed); got != want {
		t.Fatalf("len(Closed) = %d, want %d", got, want)
	}
	for i, want := range wantClosed {
		got := pos.Closed[i]
		if got.Open.ID != want.openID || got.Close.ID != want.closeID || got.Count != want.count {
			t.Errorf("Closed[%d] = open %s close %s count %d, want open %s close %s count %d",
				i, got.Open.ID, got.Close.ID, got.Count, want.openID, want.closeID, want.count)
		}
		if got.Event != ClosedByPrice {
			t.Errorf("Closed[%d].Event = %s, want %s", i, got.Event, ClosedByPrice)
		}
	}
	if len(pos.Opened) != 0 {
		t.Errorf("len(Opened) = %d, want 0", len(pos.Opened))
	}
	if pos.OpenCount() != 0 {
		t.Errorf("OpenCount() = %d, want 0", pos.OpenCount())
	}
}

func TestMatchLots_QuantityConservation(t *testing.T) {
	txs := []Transaction{
		tx(t, "t1", 7, "2025-01-10"),
		tx(t, "t2", 5, "2025-01-20"),
		tx(t, "t3", -9, "2025-02-10"),
		tx(t, "t4", 4, "2025-03-10"),
	}

	pos, err := MatchLots(txs, nil)
	if err != nil {
		t.Fatalf("MatchLots() failed: %v", err)
	}

	// Every transaction's count is fully accounted for across lots: open lot
	// counts plus both legs of closed lots sum back to the net position, and
	// per-transaction matched counts sum to the transaction count.
	matched := make(map[string]int64)
	for _, lot := range pos.Opened {
		matched[lot.Open.ID] += lot.Count
	}
	for _, lot := range pos.Closed {
		matched[lot.Open.ID] += lot.Count
		matched[lot.Close.ID] -= lot.Count
	}
	for _, tr := range txs {
		if matched[tr.ID] != tr.Count {
			t.Errorf("transaction %s matched %d units, want %d", tr.ID, matched[tr.ID], tr.Count)
		}
	}
	if pos.OpenCount() != 7 {
		t.Errorf("OpenCount() = %d, want 7", pos.OpenCount())
	}
}

func TestMatchLots_OvershootFlipsSign(t *testing.T) {
	// Selling more than held closes everything and opens a short lot.
	txs := []Transaction{
		tx(t, "t1", 5, "2025-01-10"),
		tx(t, "t2", -8, "2025-02-10"),
	}

	pos, err := MatchLots(txs, nil)
	if err != nil {
		t.Fatalf("MatchLots() failed: %v", err)
	}
	if len(pos.Closed) != 1 || pos.Closed[0].Count != 5 {
		t.Fatalf("Closed = %+v, want one lot of 5", pos.Closed)
	}
	if len(pos.Opened) != 1 || pos.Opened[0].Count != -3 || pos.Opened[0].Open.ID != "t2" {
		t.Fatalf("Opened = %+v, want one short lot of -3 from t2", pos.Opened)
	}
	if pos.OpenCount() != -3 {
		t.Errorf("OpenCount() = %d, want -3", pos.OpenCount())
	}
}

func TestMatchLots_ShortFirst(t *testing.T) {
	// A position can start short, buys then close the short lots.
	txs := []Transaction{
		tx(t, "t1", -6, "2025-01-10"),
		tx(t, "t2", 4, "2025-02-10"),
	}

	pos, err := MatchLots(txs, nil)
	if err != nil {
		t.Fatalf("MatchLots() failed: %v", err)
	}
	if len(pos.Closed) != 1 || pos.Closed[0].Count != -4 {
		t.Fatalf("Closed = %+v, want one lot of -4", pos.Closed)
	}
	if pos.OpenCount() != -2 {
		t.Errorf("OpenCount() = %d, want -2", pos.OpenCount())
	}
}

func TestMatchLots_SyntheticMoves(t *testing.T) {
	// Deposits and withdrawals have no ID and still open and close lots.
	txs := []Transaction{
		deposit(t, 10, "2025-01-10"),
		tx(t, "t1", -10, "2025-02-10"),
	}

	pos, err := MatchLots(txs, nil)
	if err != nil {
		t.Fatalf("MatchLots() failed: %v", err)
	}
	if len(pos.Closed) != 1 {
		t.Fatalf("len(Closed) = %d, want 1", len(pos.Closed))
	}
	if !pos.Closed[0].Open.IsSynthetic() {
		t.Errorf("open leg should be synthetic")
	}
	if pos.Closed[0].Close.ID != "t1" {
		t.Errorf("close leg = %q, want t1", pos.Closed[0].Close.ID)
	}
}

func TestMatchLots_Redemption(t *testing.T) {
	txs := []Transaction{
		tx(t, "t1", 10, "2025-01-10"),
		tx(t, "t2", -4, "2025-02-10"),
	}
	redemption := event(t, Redemption, 600, "RUB", "2025-06-10", 6)

	pos, err := MatchLots(txs, []CashFlowEvent{redemption})
	if err != nil {
		t.Fatalf("MatchLots() failed: %v", err)
	}
	if len(pos.Opened) != 0 {
		t.Fatalf("Opened = %+v, want none after redemption", pos.Opened)
	}
	if len(pos.Closed) != 2 {
		t.Fatalf("len(Closed) = %d, want 2", len(pos.Closed))
	}
	last := pos.Closed[1]
	if last.Event != ClosedByRedemption {
		t.Errorf("Event = %s, want %s", last.Event, ClosedByRedemption)
	}
	if last.Count != 6 {
		t.Errorf("Count = %d, want 6", last.Count)
	}
	if !last.Close.IsSynthetic() {
		t.Errorf("redemption close leg should be synthetic")
	}
	if !last.ClosedAt().Equal(redemption.Timestamp) {
		t.Errorf("ClosedAt = %s, want %s", last.ClosedAt(), redemption.Timestamp)
	}
}

func TestMatchLots_RedemptionBeforeLaterTrades(t *testing.T) {
	// Trades after the redemption date open fresh lots, they are not
	// force-closed retroactively.
	txs := []Transaction{
		tx(t, "t1", 10, "2025-01-10"),
		tx(t, "t2", 3, "2025-08-10"),
	}
	redemption := event(t, Redemption, 1000, "RUB", "2025-06-10", 10)

	pos, err := MatchLots(txs, []CashFlowEvent{redemption})
	if err != nil {
		t.Fatalf("MatchLots() failed: %v", err)
	}
	if len(pos.Closed) != 1 || pos.Closed[0].Count != 10 {
		t.Fatalf("Closed = %+v, want the first lot of 10", pos.Closed)
	}
	if len(pos.Opened) != 1 || pos.Opened[0].Open.ID != "t2" {
		t.Fatalf("Opened = %+v, want the later lot from t2", pos.Opened)
	}
}

func TestMatchLots_DuplicateRedemption(t *testing.T) {
	txs := []Transaction{tx(t, "t1", 10, "2025-01-10")}
	redemptions := []CashFlowEvent{
		event(t, Redemption, 500, "RUB", "2025-06-10", 5),
		event(t, Redemption, 500, "RUB", "2025-07-10", 5),
	}

	_, err := MatchLots(txs, redemptions)
	if !errors.Is(err, ErrDuplicateRedemption) {
		t.Fatalf("MatchLots() error = %v, want ErrDuplicateRedemption", err)
	}
}
