package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/brokerage"
	"github.com/etnz/brokerage/date"
)

// interestSections lists the rendered event types with their headings.
var interestSections = []struct {
	typ   brokerage.EventType
	title string
}{
	{brokerage.Coupon, "Coupons"},
	{brokerage.Dividend, "Dividends"},
	{brokerage.Amortization, "Amortizations"},
	{brokerage.Tax, "Taxes Withheld"},
}

// InterestMarkdown renders the income attributed to one security's lots,
// one section per event type, empty sections skipped.
func InterestMarkdown(sec brokerage.Security, pi *brokerage.PaidInterest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Income of %s\n\n", sec.Name())

	for _, section := range interestSections {
		flows := pi.Flows(section.typ)
		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintf(w, "## %s\n\n", section.title)
			fmt.Fprintln(w, "| Paid | Amount |")
			fmt.Fprintln(w, "|:---|---:|")
			for _, e := range flows {
				fmt.Fprintf(w, "| %s | %s |\n", date.Of(e.Timestamp), e.Value.SignedString())
			}
			fmt.Fprintln(w)
			return len(flows) > 0
		})
	}

	if len(pi.Fictitious) > 0 {
		fmt.Fprintf(&b, "%d payment(s) had no holding lot and were attached to zero-cost lots.\n", len(pi.Fictitious))
	}
	return b.String()
}
