package date

import "testing"

func TestNewRangeSwaps(t *testing.T) {
	r := NewRange(New(2025, 3, 1), New(2025, 1, 1))
	if r.From != New(2025, 1, 1) || r.To != New(2025, 3, 1) {
		t.Errorf("NewRange() = %v want inverted bounds swapped", r)
	}
}

func TestContains(t *testing.T) {
	r := NewRange(New(2025, 1, 6), New(2025, 1, 8))
	tests := []struct {
		name string
		on   Date
		want bool
	}{
		{name: "before", on: New(2025, 1, 5), want: false},
		{name: "from bound", on: New(2025, 1, 6), want: true},
		{name: "inside", on: New(2025, 1, 7), want: true},
		{name: "to bound", on: New(2025, 1, 8), want: true},
		{name: "after", on: New(2025, 1, 9), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.on); got != tt.want {
				t.Errorf("Contains(%v) = %v want %v", tt.on, got, tt.want)
			}
		})
	}
}

func TestDays(t *testing.T) {
	r := NewRange(New(2024, 12, 30), New(2025, 1, 2))
	var got []Date
	for d := range r.Days() {
		got = append(got, d)
	}
	want := []Date{New(2024, 12, 30), New(2024, 12, 31), New(2025, 1, 1), New(2025, 1, 2)}
	if len(got) != len(want) {
		t.Fatalf("Days() yielded %d dates want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Days()[%d] = %v want %v", i, got[i], want[i])
		}
	}
}

func TestMonths(t *testing.T) {
	r := NewRange(New(2024, 11, 15), New(2025, 2, 10))
	var got []Range
	for m := range r.Months() {
		got = append(got, m)
	}
	want := []Range{
		{From: New(2024, 11, 1), To: New(2024, 11, 30)},
		{From: New(2024, 12, 1), To: New(2024, 12, 31)},
		{From: New(2025, 1, 1), To: New(2025, 1, 31)},
		{From: New(2025, 2, 1), To: New(2025, 2, 28)},
	}
	if len(got) != len(want) {
		t.Fatalf("Months() yielded %d ranges want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Months()[%d] = %v want %v", i, got[i], want[i])
		}
	}
}

func TestYears(t *testing.T) {
	r := NewRange(New(2020, 1, 1), New(2025, 1, 1))
	got := r.Years()
	// 1827 days / 365.25
	if got < 5.0 || got > 5.003 {
		t.Errorf("Years() = %v want about 5.0", got)
	}
}
