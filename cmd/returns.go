package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/brokerage"
	"github.com/etnz/brokerage/renderer"
)

// returnsCmd holds the flags for the 'returns' subcommand.
type returnsCmd struct {
	windowFlags
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "money-weighted annualized returns" }
func (*returnsCmd) Usage() string {
	return `pme returns [-p <portfolio>] [-s <date>] [-d <date>] [-c <currency>]

  Computes the annualized money-weighted return of each security and of the
  whole portfolio, with the statistics of the underlying cash-flow series.
`
}

func (c *returnsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report := brokerage.NewProfitReport(book, filter, c.currency, brokerage.DefaultProfitConfig())
	printMarkdown(renderer.ReturnsMarkdown(report, brokerage.StatsOf(report.Flows)))
	return subcommands.ExitSuccess
}
