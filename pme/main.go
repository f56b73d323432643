// Command pme analyzes a brokerage book: lot matching, income attribution,
// profit, forecast tax and money-weighted returns.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/brokerage/cmd"
)

func main() {
	// Shell completion handles the invocation and exits when the shell asks
	// for it, it is a no-op otherwise.
	completion().Complete("pme")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the CLI for shell completion.
func completion() *complete.Command {
	window := map[string]complete.Predictor{
		"p": predict.Nothing,
		"s": predict.Nothing,
		"d": predict.Nothing,
		"c": predict.Set{"RUB", "USD", "EUR"},
	}
	security := map[string]complete.Predictor{"sec": predict.Nothing}
	for k, v := range window {
		security[k] = v
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"book-file": predict.Files("*.jsonl"),
		},
		Sub: map[string]*complete.Command{
			"profit":      {Flags: window},
			"returns":     {Flags: window},
			"lots":        {Flags: security},
			"interest":    {Flags: security},
			"derivative":  {Flags: security},
			"fmt":         {Flags: map[string]complete.Predictor{"w": predict.Nothing}},
			"fetch-rates": {Flags: map[string]complete.Predictor{"s": predict.Nothing, "d": predict.Nothing, "codes": predict.Nothing}},
		},
	}
}
