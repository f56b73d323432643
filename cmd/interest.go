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

// interestCmd holds the flags for the 'interest' subcommand.
type interestCmd struct {
	windowFlags
	security string
}

func (*interestCmd) Name() string     { return "interest" }
func (*interestCmd) Synopsis() string { return "income attributed to one security's lots" }
func (*interestCmd) Usage() string {
	return `pme interest -sec <id|ticker> [-p <portfolio>] [-s <date>] [-d <date>]

  Shows the coupons, dividends, amortizations and tax withholdings of one
  security, attributed to the lots that held it when each payment was made.
`
}

func (c *interestCmd) SetFlags(f *flag.FlagSet) {
	c.windowFlags.SetFlags(f)
	f.StringVar(&c.security, "sec", "", "Security to inspect, by id or ticker.")
}

func (c *interestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	txs, events, err := securityInputs(book, filter, sec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	pos, err := brokerage.MatchLots(txs, filter.Events(events, brokerage.Redemption))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching lots of %q: %v\n", sec.ID(), err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.InterestMarkdown(sec, brokerage.AttributeInterest(events, pos)))
	return subcommands.ExitSuccess
}
