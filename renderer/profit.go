// Package renderer turns reports into markdown, one function per report.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/brokerage"
)

// ProfitMarkdown renders the profit report to a markdown string.
func ProfitMarkdown(r *brokerage.ProfitReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Profit Report (%s)\n\n", r.Currency)
	fmt.Fprintf(&b, "Window: %s\n\n", r.Filter)

	fmt.Fprint(&b, "## Profit per Security\n\n")
	fmt.Fprintln(&b, "| Security | Open | Gross Profit | Commission | Forecast Tax | Net Profit | Yield |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, row := range r.Rows {
		yield := "-"
		if row.YieldDefined {
			yield = row.Yield.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			row.Security.Name(),
			row.OpenCount,
			row.GrossProfit.SignedString(),
			row.Commission.String(),
			row.ForecastTax.String(),
			row.NetProfit.SignedString(),
			yield,
		)
	}
	fmt.Fprintln(&b)

	// The income section only shows when some security paid anything.
	ConditionalBlock(&b, func(w io.Writer) bool {
		any := false
		fmt.Fprint(w, "## Income per Security\n\n")
		fmt.Fprintln(w, "| Security | Coupon | Dividend | Amortization | Tax Withheld |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|---:|")
		for _, row := range r.Rows {
			if row.Coupon.IsZero() && row.Dividend.IsZero() && row.Amortization.IsZero() && row.TaxWithheld.IsZero() {
				continue
			}
			any = true
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
				row.Security.Name(),
				row.Coupon.SignedString(),
				row.Dividend.SignedString(),
				row.Amortization.SignedString(),
				row.TaxWithheld.String(),
			)
		}
		fmt.Fprintln(w)
		return any
	})

	if r.ReturnDefined {
		fmt.Fprintf(&b, "Portfolio money-weighted return: %s\n", r.Return.SignedString())
	} else {
		fmt.Fprintln(&b, "Portfolio money-weighted return: not defined for this window.")
	}
	return b.String()
}

// ReturnsMarkdown renders the per-security annualized returns and the
// cash-flow statistics of a portfolio.
func ReturnsMarkdown(r *brokerage.ProfitReport, stats brokerage.FlowStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Returns Report (%s)\n\n", r.Currency)
	fmt.Fprintln(&b, "| Security | Yield |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, row := range r.Rows {
		yield := "-"
		if row.YieldDefined {
			yield = row.Yield.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s |\n", row.Security.Name(), yield)
	}
	fmt.Fprintln(&b)

	if r.ReturnDefined {
		fmt.Fprintf(&b, "Portfolio: %s\n\n", r.Return.SignedString())
	}
	if stats.Count > 0 {
		fmt.Fprintf(&b, "Cash flows: %d, mean %.2f, volatility %.2f\n", stats.Count, stats.Mean, stats.Volatility)
	}
	return b.String()
}
