package brokerage

import (
	"math"
	"slices"

	"github.com/etnz/brokerage/date"
)

// CashFlow is one dated flow of a money-weighted return series: negative for
// money invested, positive for money withdrawn or received.
type CashFlow struct {
	On     date.Date
	Amount float64
}

const (
	xirrTolerance  = 1e-9
	xirrIterations = 100
	daysPerYear    = 365.0
)

// XIRR solves for the annualized discount rate that zeroes the net present
// value of the series and reports it as a percentage. Same-day flows are
// summed before solving so the day-count denominator never degenerates.
//
// The solver is Newton-Raphson with a bisection fallback. A degenerate
// series (fewer than two dated flows, or all flows of the same sign) or a
// non-converging one yields ok=false instead of an error: an undefined
// return is an answer, not a failure.
func XIRR(flows []CashFlow) (p Percent, ok bool) {
	merged := mergeByDay(flows)
	if len(merged) < 2 || !mixedSigns(merged) {
		return 0, false
	}

	t0 := merged[0].On
	npv := func(rate float64) float64 {
		var sum float64
		for _, f := range merged {
			years := float64(f.On.Sub(t0)) / daysPerYear
			sum += f.Amount / math.Pow(1+rate, years)
		}
		return sum
	}
	derivative := func(rate float64) float64 {
		var sum float64
		for _, f := range merged {
			years := float64(f.On.Sub(t0)) / daysPerYear
			sum -= years * f.Amount / math.Pow(1+rate, years+1)
		}
		return sum
	}

	// Newton-Raphson from a conventional starting guess.
	rate := 0.1
	for i := 0; i < xirrIterations; i++ {
		value := npv(rate)
		if math.Abs(value) < xirrTolerance {
			return Percent(100 * rate), true
		}
		slope := derivative(rate)
		if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
			break
		}
		next := rate - value/slope
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		if math.Abs(next-rate) < xirrTolerance {
			return Percent(100 * next), true
		}
		rate = next
	}

	return bisect(npv)
}

// bisect looks for a sign change of npv on a wide bracket and narrows it.
func bisect(npv func(float64) float64) (Percent, bool) {
	lo, hi := -0.9999, 10.0
	flo := npv(lo)
	for npv(hi)*flo > 0 {
		hi *= 2
		if hi > 1e6 {
			return 0, false
		}
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fmid := npv(mid)
		if math.Abs(fmid) < xirrTolerance || (hi-lo) < xirrTolerance {
			return Percent(100 * mid), true
		}
		if fmid*flo > 0 {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return 0, false
}

// mergeByDay sums same-day amounts and returns the series in chronological
// order, zero days dropped.
func mergeByDay(flows []CashFlow) []CashFlow {
	byDay := make(map[date.Date]float64, len(flows))
	var days []date.Date
	for _, f := range flows {
		if _, ok := byDay[f.On]; !ok {
			days = append(days, f.On)
		}
		byDay[f.On] += f.Amount
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
	merged := make([]CashFlow, 0, len(days))
	for _, d := range days {
		if byDay[d] != 0 {
			merged = append(merged, CashFlow{On: d, Amount: byDay[d]})
		}
	}
	return merged
}

// mixedSigns reports whether the series has at least one inflow and one
// outflow.
func mixedSigns(flows []CashFlow) bool {
	var pos, neg bool
	for _, f := range flows {
		pos = pos || f.Amount > 0
		neg = neg || f.Amount < 0
	}
	return pos && neg
}
