package date

import "iter"

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// Days returns an iterator that yields each date within the range, inclusive.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Months returns an iterator that yields each calendar month overlapping the
// range, as a full month range (first day to last day of the month).
func (r Range) Months() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for first := New(r.From.Year(), r.From.Month(), 1); !first.After(r.To); first = first.AddMonth(1) {
			last := first.AddMonth(1).Add(-1)
			if !yield(Range{From: first, To: last}) {
				return
			}
		}
	}
}

// Years returns the length of the range as a fraction of calendar years.
func (r Range) Years() float64 { return float64(r.To.Sub(r.From)) / 365.25 }
