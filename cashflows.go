package brokerage

import (
	"gonum.org/v1/gonum/stat"

	"github.com/etnz/brokerage/date"
)

// SecurityCashFlows derives the signed money-weighted return series of one
// security: trade cash (price, accrued interest, fees) at each transaction
// date, attributed income events, redemption and variation-margin payments,
// and a terminal valuation at the current quote when the position is still
// open. Amounts are in the target currency, converted at their own dates.
func SecurityCashFlows(in ProfitInput) []CashFlow {
	var flows []CashFlow
	add := func(on date.Date, m Money) {
		flows = append(flows, CashFlow{On: on, Amount: m.AsFloat()})
	}

	seen := make(map[string]bool)
	addTrade := func(tx Transaction) {
		if tx.IsSynthetic() || seen[tx.ID] {
			return
		}
		seen[tx.ID] = true
		on := date.Of(tx.Timestamp)
		total := M(0, in.Currency)
		found := false
		for _, typ := range []TradeFlowType{Price, AccruedInterest, Commission, DerivativePrice} {
			if v, ok := in.Flows.Of(tx.ID, typ); ok {
				total = total.Add(in.Rates.Convert(v, in.Currency, on))
				found = true
			}
		}
		if found {
			add(on, total)
		}
	}
	for _, lot := range in.Positions.Closed {
		addTrade(lot.Open)
		addTrade(lot.Close)
	}
	for _, lot := range in.Positions.Opened {
		addTrade(lot.Open)
	}

	for _, typ := range incomeTypes {
		for _, e := range in.Interest.Flows(typ) {
			on := date.Of(e.Timestamp)
			add(on, in.Rates.Convert(e.Value, in.Currency, on))
		}
	}
	for _, e := range in.Redemptions {
		if e.Type != Redemption {
			continue
		}
		on := date.Of(e.Timestamp)
		add(on, in.Rates.Convert(e.Value, in.Currency, on))
	}
	for _, day := range in.Ledger {
		if day.Settlement != nil {
			add(day.Day, in.Rates.Convert(day.Settlement.Value, in.Currency, day.Day))
		}
	}

	// Terminal valuation: a still-open position counts as withdrawn at the
	// current mark.
	if open := in.Positions.OpenCount(); open != 0 && in.Quote != nil && in.Security.Type() != Derivative {
		mark := in.Rates.Convert(in.Quote.Price.Add(in.Quote.AccruedInterest), in.Currency, date.Today())
		add(date.Today(), mark.Mul(Q(open)))
	}
	return flows
}

// FlowStats summarizes a cash-flow series.
type FlowStats struct {
	Count      int
	Mean       float64
	Volatility float64 // standard deviation of the flow amounts
}

// StatsOf computes descriptive statistics over a series' amounts.
func StatsOf(flows []CashFlow) FlowStats {
	if len(flows) == 0 {
		return FlowStats{}
	}
	amounts := make([]float64, len(flows))
	for i, f := range flows {
		amounts[i] = f.Amount
	}
	return FlowStats{
		Count:      len(amounts),
		Mean:       stat.Mean(amounts, nil),
		Volatility: stat.StdDev(amounts, nil),
	}
}
