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

// lotsCmd holds the flags for the 'lots' subcommand.
type lotsCmd struct {
	windowFlags
	security string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "first-in-first-out lot matching of one security" }
func (*lotsCmd) Usage() string {
	return `pme lots -sec <id|ticker> [-p <portfolio>] [-s <date>] [-d <date>]

  Shows how one security's trades pair into open and closed lots, oldest
  first, including lots force-closed by a redemption.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	c.windowFlags.SetFlags(f)
	f.StringVar(&c.security, "sec", "", "Security to inspect, by id or ticker.")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	printMarkdown(renderer.LotsMarkdown(sec, pos))
	return subcommands.ExitSuccess
}
