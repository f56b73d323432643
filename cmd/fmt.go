package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/google/subcommands"

	"github.com/etnz/brokerage"
)

// fmtCmd holds the flags for the 'fmt' subcommand.
type fmtCmd struct {
	write bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the book file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `pme fmt [-w]

  Validates and formats the book file. This command reads all records, sorts
  transactions and events by timestamp, and writes the book back in a
  canonical JSONL format: to stdout by default, in place with -w.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.write, "w", false, "Rewrite the book file in place instead of printing to stdout.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBookFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading book: %v\n", err)
		return subcommands.ExitFailure
	}

	sort.SliceStable(book.Transactions, func(i, j int) bool {
		return book.Transactions[i].Timestamp.Before(book.Transactions[j].Timestamp)
	})
	sort.SliceStable(book.Events, func(i, j int) bool {
		return book.Events[i].Timestamp.Before(book.Events[j].Timestamp)
	})

	if !c.write {
		if err := brokerage.EncodeBook(os.Stdout, book); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting book: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
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
	fmt.Fprintf(os.Stderr, "Formatted %s.\n", *bookFile)
	return subcommands.ExitSuccess
}
