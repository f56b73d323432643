package brokerage

import (
	"math"
	"testing"
	"time"

	"github.com/etnz/brokerage/date"
)

func day(y int, m time.Month, d int) date.Date { return date.New(y, m, d) }

func TestXIRR(t *testing.T) {
	testCases := []struct {
		name      string
		flows     []CashFlow
		want      Percent
		tolerance float64
		ok        bool
	}{
		{
			name: "ten percent over one year",
			flows: []CashFlow{
				{day(2023, time.January, 1), -1000},
				{day(2024, time.January, 1), 1100},
			},
			want: 10, tolerance: 0.01, ok: true,
		},
		{
			name: "loss",
			flows: []CashFlow{
				{day(2023, time.January, 1), -1000},
				{day(2024, time.January, 1), 900},
			},
			want: -10, tolerance: 0.01, ok: true,
		},
		{
			name: "intermediate dividend",
			flows: []CashFlow{
				{day(2023, time.January, 1), -1000},
				{day(2023, time.July, 1), 50},
				{day(2024, time.January, 1), 1000},
			},
			// about 5.1% annualized with a mid-year coupon
			want: 5.13, tolerance: 0.1, ok: true,
		},
		{
			name:  "single flow is undefined",
			flows: []CashFlow{{day(2023, time.January, 1), -1000}},
			ok:    false,
		},
		{
			name: "same sign is undefined",
			flows: []CashFlow{
				{day(2023, time.January, 1), -1000},
				{day(2024, time.January, 1), -100},
			},
			ok: false,
		},
		{
			name: "same day flows merge to one and become undefined",
			flows: []CashFlow{
				{day(2023, time.January, 1), -1000},
				{day(2023, time.January, 1), 400},
			},
			ok: false,
		},
		{
			name: "cancelling same-day flows drop out",
			flows: []CashFlow{
				{day(2023, time.January, 1), -1000},
				{day(2023, time.June, 1), -70},
				{day(2023, time.June, 1), 70},
				{day(2024, time.January, 1), 1100},
			},
			want: 10, tolerance: 0.01, ok: true,
		},
		{
			name:  "empty",
			flows: nil,
			ok:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := XIRR(tc.flows)
			if ok != tc.ok {
				t.Fatalf("XIRR() ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if math.Abs(float64(got-tc.want)) > tc.tolerance {
				t.Errorf("XIRR() = %s, want about %s", got, tc.want)
			}
		})
	}
}

func TestXIRR_NPVIsZeroAtSolution(t *testing.T) {
	flows := []CashFlow{
		{day(2023, time.January, 1), -5000},
		{day(2023, time.April, 10), -2500},
		{day(2023, time.October, 2), 1000},
		{day(2024, time.March, 15), 7500},
	}
	got, ok := XIRR(flows)
	if !ok {
		t.Fatal("XIRR() undefined, want a solution")
	}

	rate := float64(got) / 100
	t0 := flows[0].On
	var npv float64
	for _, f := range flows {
		years := float64(f.On.Sub(t0)) / 365.0
		npv += f.Amount / math.Pow(1+rate, years)
	}
	if math.Abs(npv) > 1e-3 {
		t.Errorf("net present value at solution = %v, want about 0", npv)
	}
}
