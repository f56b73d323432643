package date

import (
	"slices"
	"sort"
)

// History stores a chronological series of values, each associated with a
// specific date. Dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero values.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T)
	}
	return h.days[last], h.values[last]
}

// Append adds a point to the history. An existing value at that date is
// overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	if i := slices.Index(h.days, on); i >= 0 {
		h.values[i] = v
		return h
	}
	// Insert keeping chronological order.
	i := sort.Search(len(h.days), func(i int) bool { return h.days[i].After(on) })
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Get returns the value at exactly the given date.
func (h *History[T]) Get(on Date) (v T, ok bool) {
	if i := slices.Index(h.days, on); i >= 0 {
		return h.values[i], true
	}
	return *new(T), false
}

// Each calls f for every point of the history in chronological order.
func (h *History[T]) Each(f func(on Date, v T)) {
	for i, d := range h.days {
		f(d, h.values[i])
	}
}

// AsOf returns the last known value on or before the given date.
func (h *History[T]) AsOf(on Date) (v T, ok bool) {
	// First index strictly after 'on'.
	i := sort.Search(len(h.days), func(i int) bool { return h.days[i].After(on) })
	if i == 0 {
		return *new(T), false
	}
	return h.values[i-1], true
}
