package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[0], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[1], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[0], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[1], v2)
	}

}

func TestAppendOverwrites(t *testing.T) {
	h := new(History[float64])
	on := New(2025, 1, 2)
	h.Append(on, 100).Append(on, 101)
	if h.Len() != 1 {
		t.Fatalf("Len() = %v want 1 (same day must overwrite)", h.Len())
	}
	if v, _ := h.Get(on); v != 101 {
		t.Errorf("Get() = %v want 101 (last write wins)", v)
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 6), 100)
	h.Append(New(2025, 1, 8), 110)

	tests := []struct {
		name   string
		on     Date
		want   float64
		wantOk bool
	}{
		{name: "before first", on: New(2025, 1, 5), want: 0, wantOk: false},
		{name: "exact", on: New(2025, 1, 6), want: 100, wantOk: true},
		{name: "gap carries previous", on: New(2025, 1, 7), want: 100, wantOk: true},
		{name: "after last", on: New(2025, 1, 9), want: 110, wantOk: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tt.on)
			if ok != tt.wantOk {
				t.Fatalf("ValueAsOf(%v) ok = %v want %v", tt.on, ok, tt.wantOk)
			}
			if got != tt.want {
				t.Errorf("ValueAsOf(%v) = %v want %v", tt.on, got, tt.want)
			}
		})
	}
}

func TestIterate(t *testing.T) {
	a := new(History[float64])
	a.Append(New(2025, 1, 6), 1)
	a.Append(New(2025, 1, 8), 2)
	b := new(History[float64])
	b.Append(New(2025, 1, 7), 3)
	b.Append(New(2025, 1, 8), 4)

	var got []Date
	for d := range Iterate(a, b) {
		got = append(got, d)
	}
	want := []Date{New(2025, 1, 6), New(2025, 1, 7), New(2025, 1, 8)}
	if len(got) != len(want) {
		t.Fatalf("Iterate() yielded %d dates want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Iterate()[%d] = %v want %v", i, got[i], want[i])
		}
	}
}

func TestFirstLatest(t *testing.T) {
	h := new(History[float64])
	if day, _ := h.First(); !day.IsZero() {
		t.Errorf("First() on empty = %v want zero date", day)
	}
	h.Append(New(2025, 1, 8), 110)
	h.Append(New(2025, 1, 6), 100)

	if day, v := h.First(); day != New(2025, 1, 6) || v != 100 {
		t.Errorf("First() = %v, %v want 2025-01-06, 100", day, v)
	}
	if day, v := h.Latest(); day != New(2025, 1, 8) || v != 110 {
		t.Errorf("Latest() = %v, %v want 2025-01-08, 110", day, v)
	}
}
