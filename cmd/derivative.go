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

// derivativeCmd holds the flags for the 'derivative' subcommand.
type derivativeCmd struct {
	windowFlags
	security string
}

func (*derivativeCmd) Name() string     { return "derivative" }
func (*derivativeCmd) Synopsis() string { return "daily mark-to-market ledger of one contract" }
func (*derivativeCmd) Usage() string {
	return `pme derivative -sec <id|ticker> [-p <portfolio>] [-s <date>] [-d <date>]

  Shows the day-by-day variation margin ledger of one derivative contract:
  trades, settlements, cumulative profit and end-of-day position.
`
}

func (c *derivativeCmd) SetFlags(f *flag.FlagSet) {
	c.windowFlags.SetFlags(f)
	f.StringVar(&c.security, "sec", "", "Contract to inspect, by id or ticker.")
}

func (c *derivativeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.security == "" {
		fmt.Fprintln(os.Stderr, "-sec is required")
		return subcommands.ExitUsageError
	}
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
	sec, err := securityOf(book, c.security)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if sec.Type() != brokerage.Derivative {
		fmt.Fprintf(os.Stderr, "Security %q is a %s, not a derivative\n", sec.ID(), sec.Type())
		return subcommands.ExitUsageError
	}

	txs, events, err := securityInputs(book, filter, sec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	settlements := filter.Events(events, brokerage.DerivativeProfit)
	ledger := brokerage.MarkToMarket(txs, settlements, brokerage.NewTradeFlows(book.Flows))

	printMarkdown(renderer.DerivativeMarkdown(sec, ledger))
	return subcommands.ExitSuccess
}
