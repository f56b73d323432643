// Package cmd implements the CLI application to analyze a brokerage book.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/brokerage"
	"github.com/etnz/brokerage/date"
)

// Commands lists every subcommand of the application, registration order is
// display order.
var Commands = []subcommands.Command{
	&profitCmd{},
	&returnsCmd{},
	&lotsCmd{},
	&interestCmd{},
	&derivativeCmd{},
	&fmtCmd{},
	&fetchRatesCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var bookFile = flag.String("book-file", "book.jsonl", "Path to the book file (JSONL format)")

// DecodeBookFile loads the app's book file.
func DecodeBookFile() (*brokerage.Book, error) {
	f, err := os.Open(*bookFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open book %q: %w", *bookFile, err)
	}
	defer f.Close()
	return brokerage.DecodeBook(f)
}

// windowFlags holds the flags shared by every reporting subcommand.
type windowFlags struct {
	portfolio string
	start     string
	end       string
	currency  string
}

func (c *windowFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to report on. Defaults to all portfolios.")
	f.StringVar(&c.start, "s", "", "Start date of the reporting period (inclusive).")
	f.StringVar(&c.end, "d", "", "End date of the reporting period (exclusive).")
	f.StringVar(&c.currency, "c", "RUB", "Reporting currency.")
}

// Filter builds the filter from the window flags.
func (c *windowFlags) Filter() (brokerage.Filter, error) {
	var filter brokerage.Filter
	if c.portfolio != "" {
		filter.Portfolios = []string{c.portfolio}
	}
	if c.start != "" {
		on, err := date.Parse(c.start)
		if err != nil {
			return filter, err
		}
		filter.From = on.Time()
	}
	if c.end != "" {
		on, err := date.Parse(c.end)
		if err != nil {
			return filter, err
		}
		filter.To = on.Time()
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return filter, fmt.Errorf("end date %s is before start date %s", c.end, c.start)
	}
	return filter, nil
}

// securityOf resolves a security by id or ticker.
func securityOf(b *brokerage.Book, key string) (brokerage.Security, error) {
	if sec, ok := b.Security(key); ok {
		return sec, nil
	}
	for _, sec := range b.Securities {
		if sec.Ticker() == key {
			return sec, nil
		}
	}
	return brokerage.Security{}, fmt.Errorf("unknown security %q", key)
}

// securityInputs assembles the per-security matching inputs used by the
// drill-down commands.
func securityInputs(b *brokerage.Book, f brokerage.Filter, sec brokerage.Security) (txs []brokerage.Transaction, events []brokerage.CashFlowEvent, err error) {
	for _, tx := range f.Transactions(b.Transactions) {
		if tx.Security == sec.ID() {
			txs = append(txs, tx)
		}
	}
	for _, e := range f.Events(b.Events) {
		if e.Security == sec.ID() {
			events = append(events, e)
		}
	}
	return txs, events, nil
}
