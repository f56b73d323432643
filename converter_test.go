package brokerage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/brokerage/date"
)

func TestRateTable_Convert(t *testing.T) {
	table := NewRateTable()
	table.Add("USD", "RUB", date.New(2025, time.January, 10), decimal.NewFromInt(90))
	table.Add("USD", "RUB", date.New(2025, time.March, 10), decimal.NewFromInt(95))

	testCases := []struct {
		name string
		in   Money
		on   date.Date
		want float64
	}{
		{"exact day", M(10, "USD"), date.New(2025, time.January, 10), 900},
		{"as-of lookup between days", M(10, "USD"), date.New(2025, time.February, 1), 900},
		{"later rate wins", M(10, "USD"), date.New(2025, time.April, 1), 950},
		{"identity is exact", M(10.33, "RUB"), date.New(2025, time.January, 10), 10.33},
		{"weak currency converts as identity", M(7, ""), date.New(2025, time.January, 10), 7},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := table.Convert(tc.in, "RUB", tc.on)
			if got.Currency() != "RUB" {
				t.Fatalf("Currency() = %q, want RUB", got.Currency())
			}
			moneyEq(t, "Convert()", got, tc.want)
		})
	}
}

func TestRateTable_InverseFallback(t *testing.T) {
	table := NewRateTable()
	table.Add("USD", "RUB", date.New(2025, time.January, 10), decimal.NewFromInt(80))

	got := table.Convert(M(800, "RUB"), "USD", date.New(2025, time.February, 1))
	moneyEq(t, "Convert()", got, 10)
}

func TestRateTable_MissingRateFallsBackToIdentity(t *testing.T) {
	table := NewRateTable()

	// No rate known at all: the amount is kept, expressed in the target
	// currency, instead of failing the whole report.
	got := table.Convert(M(123, "GBP"), "RUB", date.New(2025, time.January, 10))
	if got.Currency() != "RUB" {
		t.Fatalf("Currency() = %q, want RUB", got.Currency())
	}
	moneyEq(t, "Convert()", got, 123)

	// Before the first known day the rate is also missing.
	table.Add("GBP", "RUB", date.New(2025, time.June, 1), decimal.NewFromInt(110))
	got = table.Convert(M(2, "GBP"), "RUB", date.New(2025, time.January, 10))
	moneyEq(t, "Convert()", got, 2)
}

func TestRateTable_IdentityPreservesValue(t *testing.T) {
	table := NewRateTable()
	// An identity conversion must not go through any rate arithmetic.
	in := M(decimal.RequireFromString("0.1"), "RUB").Add(M(decimal.RequireFromString("0.2"), "RUB"))
	got := table.Convert(in, "RUB", date.New(2025, time.January, 10))
	if !got.Value().Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("Convert() = %s, want exactly 0.3", got.Value())
	}
}

func TestRateTable_Each(t *testing.T) {
	table := NewRateTable()
	table.Add("USD", "RUB", date.New(2025, time.March, 1), decimal.NewFromInt(95))
	table.Add("EUR", "RUB", date.New(2025, time.January, 1), decimal.NewFromInt(100))
	table.Add("USD", "RUB", date.New(2025, time.January, 1), decimal.NewFromInt(90))

	var got []string
	table.Each(func(from, to string, on date.Date, rate decimal.Decimal) {
		got = append(got, from+to+on.String()+rate.String())
	})
	want := []string{
		"EURRUB2025-01-01100",
		"USDRUB2025-01-0190",
		"USDRUB2025-03-0195",
	}
	if len(got) != len(want) {
		t.Fatalf("Each() visited %d rates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Each()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
