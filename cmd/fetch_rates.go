package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/brokerage"
	"github.com/etnz/brokerage/cbr"
	"github.com/etnz/brokerage/date"
)

// fetchRatesCmd holds the flags for the 'fetch-rates' subcommand.
type fetchRatesCmd struct {
	start string
	end   string
	codes string
}

func (*fetchRatesCmd) Name() string     { return "fetch-rates" }
func (*fetchRatesCmd) Synopsis() string { return "fetch daily reference exchange rates" }
func (*fetchRatesCmd) Usage() string {
	return `pme fetch-rates [-s <date>] [-d <date>] [-codes USD,EUR]

  Fetches the published daily reference rates for the period and appends them
  to the book file as rate records.
`
}

func (c *fetchRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", date.Today().Add(-30).String(), "First day to fetch.")
	f.StringVar(&c.end, "d", date.Today().String(), "Last day to fetch.")
	f.StringVar(&c.codes, "codes", "USD,EUR", "Comma separated currency codes to keep.")
}

func (c *fetchRatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := date.Parse(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := date.Parse(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if to.Before(from) {
		fmt.Fprintf(os.Stderr, "End date %s is before start date %s\n", to, from)
		return subcommands.ExitUsageError
	}

	book, err := DecodeBookFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	codes := strings.Split(c.codes, ",")
	for i := range codes {
		codes[i] = strings.TrimSpace(codes[i])
	}
	client := cbr.NewClient()
	if err := client.Fetch(book.Rates, date.NewRange(from, to), codes...); err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching rates: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(*bookFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book %q: %v\n", *bookFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := brokerage.EncodeBook(out, book); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing book %q: %v\n", *bookFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Fetched rates %s..%s into %s.\n", from, to, *bookFile)
	return subcommands.ExitSuccess
}
