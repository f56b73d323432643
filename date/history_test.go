package date

import (
	"testing"
	"time"
)

func TestHistory_AppendKeepsOrder(t *testing.T) {
	var h History[float64]
	h.Append(New(2023, time.March, 1), 3.0)
	h.Append(New(2023, time.January, 1), 1.0)
	h.Append(New(2023, time.February, 1), 2.0)

	day, value := h.Latest()
	if day != New(2023, time.March, 1) || value != 3.0 {
		t.Errorf("Latest() = %v %v, want 2023-03-01 3.0", day, value)
	}
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}

	// Appending on an existing day overwrites.
	h.Append(New(2023, time.February, 1), 2.5)
	if v, _ := h.Get(New(2023, time.February, 1)); v != 2.5 {
		t.Errorf("Get() after overwrite = %v, want 2.5", v)
	}
	if h.Len() != 3 {
		t.Errorf("Len() after overwrite = %d, want 3", h.Len())
	}
}

func TestHistory_AsOf(t *testing.T) {
	var h History[string]
	h.Append(New(2023, time.January, 10), "a")
	h.Append(New(2023, time.January, 20), "b")

	if _, ok := h.AsOf(New(2023, time.January, 9)); ok {
		t.Error("AsOf() before first point should not be ok")
	}
	if v, ok := h.AsOf(New(2023, time.January, 10)); !ok || v != "a" {
		t.Errorf("AsOf(jan 10) = %v %v, want a true", v, ok)
	}
	if v, ok := h.AsOf(New(2023, time.January, 15)); !ok || v != "a" {
		t.Errorf("AsOf(jan 15) = %v %v, want a true", v, ok)
	}
	if v, ok := h.AsOf(New(2023, time.December, 31)); !ok || v != "b" {
		t.Errorf("AsOf(dec 31) = %v %v, want b true", v, ok)
	}
}
