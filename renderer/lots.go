package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/brokerage"
	"github.com/etnz/brokerage/date"
)

// LotsMarkdown renders the matched lots of one security: open lots first,
// then closed lots with their closing reason.
func LotsMarkdown(sec brokerage.Security, pos *brokerage.Positions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Lots of %s\n\n", sec.Name())

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Open\n\n")
		fmt.Fprintln(w, "| Opened | Transaction | Count |")
		fmt.Fprintln(w, "|:---|:---|---:|")
		for _, lot := range pos.Opened {
			fmt.Fprintf(w, "| %s | %s | %d |\n", date.Of(lot.OpenedAt()), txLabel(lot.Open), lot.Count)
		}
		fmt.Fprintln(w)
		return len(pos.Opened) > 0
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Closed\n\n")
		fmt.Fprintln(w, "| Opened | Closed | Open Tx | Close Tx | Count | Reason |")
		fmt.Fprintln(w, "|:---|:---|:---|:---|---:|:---|")
		for _, lot := range pos.Closed {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %d | %s |\n",
				date.Of(lot.OpenedAt()), date.Of(lot.ClosedAt()),
				txLabel(lot.Open), txLabel(lot.Close),
				lot.Count, lot.Event)
		}
		fmt.Fprintln(w)
		return len(pos.Closed) > 0
	})

	fmt.Fprintf(&b, "Open position: %d\n", pos.OpenCount())
	return b.String()
}

// txLabel names a transaction in a table cell, synthetic moves included.
func txLabel(tx brokerage.Transaction) string {
	if tx.IsSynthetic() {
		if tx.Count >= 0 {
			return "deposit"
		}
		return "withdrawal"
	}
	return tx.ID
}
