package date

import "fmt"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the range [from, to]. It panics if from is after to.
func NewRange(from, to Date) Range {
	if from.After(to) {
		panic(fmt.Sprintf("invalid range: %s is after %s", from, to))
	}
	return Range{From: from, To: to}
}

// Contains reports whether the date is included in the range (boundaries included).
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Days returns the number of days in the range.
func (r Range) Days() int { return r.To.Sub(r.From) + 1 }

// String formats the range in its standard form.
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }

// Dates returns the dates in the range in chronological order.
func (r Range) Dates() []Date {
	days := make([]Date, 0, r.Days())
	for d := r.From; !d.After(r.To); d = d.Add(1) {
		days = append(days, d)
	}
	return days
}
