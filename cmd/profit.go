package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/etnz/brokerage"
	"github.com/etnz/brokerage/renderer"
)

// profitCmd holds the flags for the 'profit' subcommand.
type profitCmd struct {
	windowFlags
	taxRate float64
}

func (*profitCmd) Name() string     { return "profit" }
func (*profitCmd) Synopsis() string { return "profit and forecast tax per security" }
func (*profitCmd) Usage() string {
	return `pme profit [-p <portfolio>] [-s <date>] [-d <date>] [-c <currency>] [-tax-rate <rate>]

  Matches lots, attributes income and computes the profit, forecast tax and
  money-weighted return of every security over the reporting period.
`
}

func (c *profitCmd) SetFlags(f *flag.FlagSet) {
	c.windowFlags.SetFlags(f)
	f.Float64Var(&c.taxRate, "tax-rate", 0.13, "Capital gains tax rate, as a fraction.")
}

func (c *profitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.Filter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing reporting period: %v\n", err)
		return subcommands.ExitUsageError
	}
	book, err := DecodeBookFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	cfg := brokerage.DefaultProfitConfig()
	cfg.TaxRate = decimal.NewFromFloat(c.taxRate)

	report := brokerage.NewProfitReport(book, filter, c.currency, cfg)
	printMarkdown(renderer.ProfitMarkdown(report))
	return subcommands.ExitSuccess
}
