package brokerage

import (
	"log"
	"sync"
)

// ProfitReport is the per-security profit summary of a book over a filter
// window, in row order of the book's security definitions, plus the
// portfolio-level money-weighted return over all rows.
type ProfitReport struct {
	Currency      string
	Filter        Filter
	Rows          []SecurityProfit
	Flows         []CashFlow // the portfolio cash-flow series, all rows combined
	Return        Percent    // portfolio money-weighted annualized return
	ReturnDefined bool
}

// NewProfitReport computes the profit report of a book. Securities are
// independent and computed concurrently; a security whose computation fails
// or panics is logged and keeps a zeroed row, it never takes the report down.
func NewProfitReport(b *Book, f Filter, currency string, cfg ProfitConfig) *ProfitReport {
	report := &ProfitReport{
		Currency: currency,
		Filter:   f,
		Rows:     make([]SecurityProfit, len(b.Securities)),
	}
	flows := NewTradeFlows(b.Flows)
	series := make([][]CashFlow, len(b.Securities))

	// A transaction on a security the book does not define has no row to
	// land in: it is reported and left out of every computation.
	unknown := map[string]bool{}
	for _, tx := range b.Transactions {
		if _, ok := b.Security(tx.Security); !ok && !unknown[tx.Security] {
			unknown[tx.Security] = true
			log.Printf("transaction %s references undefined security %s, skipping", tx.ID, tx.Security)
		}
	}

	var wg sync.WaitGroup
	for i, sec := range b.Securities {
		wg.Add(1)
		go func(i int, sec Security) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("profit of security %s portfolios=%v window=%s: %v", sec.ID(), f.Portfolios, f, r)
					report.Rows[i] = zeroRow(sec, currency)
				}
			}()
			row, cash, err := securityProfit(b, f, flows, sec, currency, cfg)
			if err != nil {
				log.Printf("profit of security %s portfolios=%v window=%s: %v", sec.ID(), f.Portfolios, f, err)
				report.Rows[i] = zeroRow(sec, currency)
				return
			}
			report.Rows[i] = row
			series[i] = cash
		}(i, sec)
	}
	wg.Wait()

	for _, s := range series {
		report.Flows = append(report.Flows, s...)
	}
	report.Return, report.ReturnDefined = XIRR(report.Flows)
	return report
}

// securityProfit assembles one security's input and runs the full chain:
// lot matching, mark-to-market for derivatives, income attribution, profit
// calculation and money-weighted return.
func securityProfit(b *Book, f Filter, flows TradeFlows, sec Security, currency string, cfg ProfitConfig) (SecurityProfit, []CashFlow, error) {
	var txs []Transaction
	for _, tx := range f.Transactions(b.Transactions) {
		if tx.Security == sec.ID() {
			txs = append(txs, tx)
		}
	}
	var events []CashFlowEvent
	for _, e := range f.Events(b.Events) {
		if e.Security == sec.ID() {
			events = append(events, e)
		}
	}
	var redemptions, settlements []CashFlowEvent
	for _, e := range events {
		switch e.Type {
		case Redemption:
			redemptions = append(redemptions, e)
		case DerivativeProfit:
			settlements = append(settlements, e)
		}
	}

	pos, err := MatchLots(txs, redemptions)
	if err != nil {
		return SecurityProfit{}, nil, err
	}

	in := ProfitInput{
		Security:    sec,
		Positions:   pos,
		Interest:    AttributeInterest(events, pos),
		Redemptions: redemptions,
		Flows:       flows,
		Quote:       b.Quote(sec.ID()),
		Currency:    currency,
		Rates:       b.Rates,
		Config:      cfg,
	}
	if sec.Type() == Derivative {
		in.Ledger = MarkToMarket(txs, settlements, flows)
	}

	row, err := CalculateProfit(in)
	if err != nil {
		return SecurityProfit{}, nil, err
	}
	cash := SecurityCashFlows(in)
	row.Yield, row.YieldDefined = XIRR(cash)
	return row, cash, nil
}

// zeroRow is the placeholder row of a failed security computation: the
// security is still listed, every monetary field at zero.
func zeroRow(sec Security, currency string) SecurityProfit {
	zero := M(0, currency)
	return SecurityProfit{
		Security: sec, Currency: currency,
		AveragePrice: zero, AverageAccrued: zero,
		GrossProfit: zero, Commission: zero,
		Coupon: zero, Dividend: zero, Amortization: zero,
		TaxWithheld: zero, ForecastTax: zero, NetProfit: zero,
	}
}
