package brokerage

import (
	"fmt"

	"github.com/etnz/brokerage/date"
	"github.com/shopspring/decimal"
)

// ProfitConfig holds the jurisdiction business rules of the profit
// calculation. Rates are fractions, e.g. 0.13 for 13%.
type ProfitConfig struct {
	TaxRate          decimal.Decimal // capital gains rate on realized profit
	ForeignTaxCredit decimal.Decimal // dividend rate owed when foreign withholding falls short
}

// DefaultProfitConfig returns the default 13% rates.
func DefaultProfitConfig() ProfitConfig {
	rate := decimal.NewFromFloat(0.13)
	return ProfitConfig{TaxRate: rate, ForeignTaxCredit: rate}
}

// Quote is a security's current price: clean price and accrued interest per
// unit, both in the security's currency.
type Quote struct {
	Price           Money
	AccruedInterest Money
}

// ProfitInput gathers everything the profit calculation needs for one
// security. Quote may be nil (price-dependent fields are then omitted), and
// Ledger is only set for derivatives.
type ProfitInput struct {
	Security    Security
	Positions   *Positions
	Interest    *PaidInterest
	Redemptions []CashFlowEvent // the security's redemption event, if any
	Ledger      []DailyEvents   // derivative mark-to-market, nil otherwise
	Flows       TradeFlows
	Quote       *Quote
	Currency    string // target reporting currency
	Rates       *RateTable
	Config      ProfitConfig
}

// SecurityProfit is the per-security profit and tax summary, every monetary
// field expressed in the report's target currency. Components are converted
// at the rate of the day they were realized, not at report time.
type SecurityProfit struct {
	Security       Security
	Currency       string
	OpenCount      int64
	AveragePrice   Money // per priced open unit
	AverageAccrued Money // per priced open unit
	GrossProfit    Money
	Commission     Money
	Coupon         Money
	Dividend       Money
	Amortization   Money
	TaxWithheld    Money
	ForecastTax    Money
	NetProfit      Money
	Yield          Percent // money-weighted annualized return
	YieldDefined   bool
}

// CalculateProfit computes the profit and tax summary of one security from
// its matched lots, attributed income and (for derivatives) mark-to-market
// ledger.
func CalculateProfit(in ProfitInput) (SecurityProfit, error) {
	p := SecurityProfit{
		Security:  in.Security,
		Currency:  in.Currency,
		OpenCount: in.Positions.OpenCount(),
	}
	zero := M(0, in.Currency)
	p.AveragePrice, p.AverageAccrued = zero, zero
	p.GrossProfit, p.Commission = zero, zero
	p.Coupon, p.Dividend, p.Amortization = zero, zero, zero
	p.TaxWithheld, p.ForecastTax, p.NetProfit = zero, zero, zero

	switch in.Security.Type() {
	case Stock, Bond, CurrencyPair:
	case Derivative:
		return calculateDerivativeProfit(in, p)
	default:
		return p, fmt.Errorf("security %s: unsupported type %q", in.Security.ID(), in.Security.Type())
	}

	redeemed := redemptionValues(in)

	// Realized result across closed lots: the signed cash of both legs,
	// each converted at its own date.
	realized := zero
	for _, lot := range in.Positions.Closed {
		if lot.Event != ClosedByPrice && lot.Event != ClosedByRedemption {
			return p, fmt.Errorf("security %s lot %s: %w: %q", in.Security.ID(), lot.Open.ID, ErrUnknownClosingEvent, lot.Event)
		}
		openLeg, closeLeg := lotCash(in, lot, redeemed)
		realized = realized.Add(openLeg).Add(closeLeg)
		p.Commission = p.Commission.Add(commissionShare(in, lot.Open, lot.Count))
		p.Commission = p.Commission.Add(commissionShare(in, lot.Close, lot.Count))
	}

	// Open lots: cost basis of what is still held. Lots opened by a
	// securities deposit carry no price and stay out of the averages.
	var pricedUnits int64
	openCost, openAccrued := zero, zero
	for _, lot := range in.Positions.Opened {
		price, accrued, ok := openLotCost(in, lot)
		if !ok {
			continue
		}
		pricedUnits += abs(lot.Count)
		openCost = openCost.Add(price)
		openAccrued = openAccrued.Add(accrued)
		p.Commission = p.Commission.Add(commissionShare(in, lot.Open, lot.Count))
	}
	if pricedUnits > 0 {
		p.AveragePrice = openCost.Div(Q(pricedUnits))
		p.AverageAccrued = openAccrued.Div(Q(pricedUnits))
	}

	// Income attributed to the security's lots.
	p.Coupon = sumFlows(in, Coupon)
	p.Amortization = sumFlows(in, Amortization)
	p.Dividend = sumFlows(in, Dividend)
	p.TaxWithheld = sumFlows(in, Tax).Neg() // withholdings are negative events

	// Gross profit: open positions are marked against the current quote
	// (the per-lot form of lastPrice+lastAccrued-averageCost times count),
	// fully closed securities show their matched realized result.
	if p.OpenCount != 0 {
		if in.Quote != nil {
			mark := in.Rates.Convert(in.Quote.Price.Add(in.Quote.AccruedInterest), in.Currency, date.Today())
			unrealized := zero
			for _, lot := range in.Positions.Opened {
				hypothetical := mark.Mul(Q(lot.Count)) // cash of closing the lot at the mark
				openCash, ok := legCash(in, lot.Open, lot.Count)
				if !ok {
					openCash = hypothetical.Neg() // deposited lot, neutral by contract
				}
				unrealized = unrealized.Add(openCash).Add(hypothetical)
			}
			p.GrossProfit = unrealized.Add(p.Amortization)
		}
		// No quote: gross-profit-dependent fields stay zero rather than failing.
	} else {
		p.GrossProfit = realized
	}

	// Forecast tax on the realized result, never negative.
	p.ForecastTax = forecastTax(in.Config.TaxRate, realized.Sub(p.Commission), in.Currency)
	p.ForecastTax = p.ForecastTax.Add(foreignTaxLiability(in, p.Dividend, p.TaxWithheld))

	p.NetProfit = p.Coupon.Add(p.Dividend).Add(p.Amortization).
		Add(p.GrossProfit).
		Sub(p.TaxWithheld).Sub(p.ForecastTax).Sub(p.Commission)
	return p, nil
}

// calculateDerivativeProfit derives the summary from the contract's daily
// mark-to-market ledger: gross profit is the sum of the daily variation
// margins, each settlement converted at its own day's rate.
func calculateDerivativeProfit(in ProfitInput, p SecurityProfit) (SecurityProfit, error) {
	if len(in.Ledger) == 0 {
		return p, nil
	}
	p.OpenCount = in.Ledger[len(in.Ledger)-1].Position

	for _, day := range in.Ledger {
		if day.Settlement != nil {
			p.GrossProfit = p.GrossProfit.Add(in.Rates.Convert(day.Settlement.Value, in.Currency, day.Day))
		}
		for _, tx := range day.Transactions {
			if fee, ok := day.Flows.Of(tx.ID, Commission); ok {
				p.Commission = p.Commission.Add(in.Rates.Convert(fee.Abs(), in.Currency, day.Day))
			}
		}
	}

	p.ForecastTax = forecastTax(in.Config.TaxRate, p.GrossProfit.Sub(p.Commission), in.Currency)
	p.NetProfit = p.GrossProfit.Sub(p.ForecastTax).Sub(p.Commission)
	return p, nil
}

// redemptionCash maps a redemption's cash to the redeemed unit count so
// each redeemed lot receives its share.
type redemptionCash struct {
	value Money
	units int64
	on    date.Date
}

func redemptionValues(in ProfitInput) *redemptionCash {
	var event *CashFlowEvent
	for i := range in.Redemptions {
		if in.Redemptions[i].Type == Redemption {
			event = &in.Redemptions[i]
			break
		}
	}
	if event == nil {
		return nil
	}
	var units int64
	for _, lot := range in.Positions.Closed {
		if lot.Event == ClosedByRedemption {
			units += abs(lot.Count)
		}
	}
	if units == 0 {
		return nil
	}
	return &redemptionCash{value: event.Value, units: units, on: date.Of(event.Timestamp)}
}

// lotCash returns the signed cash of a closed lot's two legs, converted to
// the target currency at each leg's own date.
//
// A leg with no price (a securities deposit or withdrawal) inherits the
// opposite leg's cash negated, so its contribution to profit is exactly
// zero.
func lotCash(in ProfitInput, lot ClosedPosition, redeemed *redemptionCash) (openLeg, closeLeg Money) {
	openCash, openOK := legCash(in, lot.Open, lot.Count)
	var closeCash Money
	closeOK := false
	if lot.Event == ClosedByRedemption {
		closeCash, closeOK = redemptionShare(in, lot, redeemed)
	} else {
		closeCash, closeOK = legCash(in, lot.Close, lot.Count)
	}

	switch {
	case openOK && closeOK:
	case !openOK && closeOK:
		openCash = closeCash.Neg()
	case openOK && !closeOK:
		closeCash = openCash.Neg()
	default:
		zero := M(0, in.Currency)
		return zero, zero
	}
	return openCash, closeCash
}

// legCash is the matched share of a transaction's price and accrued interest
// cash flows, converted at the transaction date.
func legCash(in ProfitInput, tx Transaction, matched int64) (Money, bool) {
	if tx.IsSynthetic() {
		return Money{}, false
	}
	price, ok := in.Flows.Of(tx.ID, Price)
	if !ok {
		return Money{}, false
	}
	cash := share(price, matched, tx.Count)
	if accrued, ok := in.Flows.Of(tx.ID, AccruedInterest); ok {
		cash = cash.Add(share(accrued, matched, tx.Count))
	}
	return in.Rates.Convert(cash, in.Currency, date.Of(tx.Timestamp)), true
}

// redemptionShare is the lot's share of the redemption payment, converted at
// the redemption date.
func redemptionShare(in ProfitInput, lot ClosedPosition, redeemed *redemptionCash) (Money, bool) {
	if redeemed == nil || redeemed.units == 0 {
		return Money{}, false
	}
	cash := redeemed.value.Mul(Q(abs(lot.Count))).Div(Q(redeemed.units))
	return in.Rates.Convert(cash, in.Currency, redeemed.on), true
}

// openLotCost is the cost and accrued interest of an open lot at its opening
// date, as positive amounts in the target currency.
func openLotCost(in ProfitInput, lot OpenedPosition) (price, accrued Money, ok bool) {
	if lot.Open.IsSynthetic() {
		return Money{}, Money{}, false
	}
	priceFlow, found := in.Flows.Of(lot.Open.ID, Price)
	if !found {
		return Money{}, Money{}, false
	}
	on := date.Of(lot.Open.Timestamp)
	price = in.Rates.Convert(share(priceFlow, lot.Count, lot.Open.Count).Abs(), in.Currency, on)
	accrued = M(0, in.Currency)
	if accruedFlow, found := in.Flows.Of(lot.Open.ID, AccruedInterest); found {
		accrued = in.Rates.Convert(share(accruedFlow, lot.Count, lot.Open.Count).Abs(), in.Currency, on)
	}
	return price, accrued, true
}

// commissionShare is the lot's pro-rata share of a transaction's fee, as a
// positive amount in the target currency. The share is proportional to
// matched count over transaction count, so splitting a transaction across
// lots sums back to the original fee exactly.
func commissionShare(in ProfitInput, tx Transaction, matched int64) Money {
	fee, ok := in.Flows.Of(tx.ID, Commission)
	if !ok || tx.IsSynthetic() {
		return M(0, in.Currency)
	}
	return in.Rates.Convert(share(fee.Abs(), matched, tx.Count), in.Currency, date.Of(tx.Timestamp))
}

// share scales a transaction-level amount down to a lot's matched count.
func share(total Money, matched, txCount int64) Money {
	return total.Mul(Q(abs(matched))).Div(Q(abs(txCount)))
}

// sumFlows totals the attributed income of one event type, each event
// converted at its own timestamp.
func sumFlows(in ProfitInput, typ EventType) Money {
	total := M(0, in.Currency)
	for _, e := range in.Interest.Flows(typ) {
		total = total.Add(in.Rates.Convert(e.Value, in.Currency, date.Of(e.Timestamp)))
	}
	return total
}

// forecastTax is rate x base when the base is positive, zero otherwise.
func forecastTax(rate decimal.Decimal, base Money, currency string) Money {
	if !base.IsPositive() {
		return M(0, currency)
	}
	return M(base.value.Mul(rate), currency)
}

// foreignTaxLiability estimates the tax still owed on dividends whose
// withholding happened in a foreign currency and fell short of the domestic
// rate.
func foreignTaxLiability(in ProfitInput, dividend, withheld Money) Money {
	foreign := false
	for _, c := range in.Interest.Currencies() {
		if c != in.Currency {
			foreign = true
			break
		}
	}
	if !foreign || !dividend.IsPositive() {
		return M(0, in.Currency)
	}
	owed := M(dividend.value.Mul(in.Config.ForeignTaxCredit), in.Currency).Sub(withheld)
	if !owed.IsPositive() {
		return M(0, in.Currency)
	}
	return owed
}
