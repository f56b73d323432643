package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/brokerage"
)

// DerivativeMarkdown renders the daily mark-to-market ledger of a contract.
func DerivativeMarkdown(sec brokerage.Security, ledger []brokerage.DailyEvents) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Mark-to-Market of %s\n\n", sec.Name())
	fmt.Fprintln(&b, "| Day | Trades | Settlement | Cumulative Profit | Position |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, day := range ledger {
		settlement := "-"
		if day.Settlement != nil {
			settlement = day.Settlement.Value.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %d |\n",
			day.Day, len(day.Transactions), settlement,
			day.CumulativeProfit.SignedString(), day.Position)
	}
	fmt.Fprintln(&b)

	if len(ledger) > 0 {
		last := ledger[len(ledger)-1]
		fmt.Fprintf(&b, "Cumulative profit: %s, end position: %d\n", last.CumulativeProfit.SignedString(), last.Position)
	}
	return b.String()
}
