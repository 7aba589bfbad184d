package backtest

import (
	"errors"
	"testing"

	"github.com/tzuchia/backtest/date"
)

func TestAlignForwardFills(t *testing.T) {
	// 2330 trades every day, 0050 misses the 7th: the gap inherits the prior
	// close instead of dropping the day.
	a := NewPriceSeries("2330")
	a.Append(date.New(2025, 1, 6), 600)
	a.Append(date.New(2025, 1, 7), 605)
	a.Append(date.New(2025, 1, 8), 610)
	b := NewPriceSeries("0050")
	b.Append(date.New(2025, 1, 6), 140)
	b.Append(date.New(2025, 1, 8), 142)

	table, err := Align(a, b)
	if err != nil {
		t.Fatalf("Align() err = %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Len() = %d want 3", table.Len())
	}
	col, _ := table.Column("0050")
	if col[1] != 140 {
		t.Errorf("0050 on the gap day = %v want 140 (forward filled)", col[1])
	}
}

func TestAlignDropsLeadingDays(t *testing.T) {
	// 2317 starts two days later: the leading days are dropped, never filled
	// backward.
	a := NewPriceSeries("2330")
	a.Append(date.New(2025, 1, 6), 600)
	a.Append(date.New(2025, 1, 7), 605)
	a.Append(date.New(2025, 1, 8), 610)
	b := NewPriceSeries("2317")
	b.Append(date.New(2025, 1, 8), 180)

	table, err := Align(a, b)
	if err != nil {
		t.Fatalf("Align() err = %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("Len() = %d want 1", table.Len())
	}
	if table.Days()[0] != date.New(2025, 1, 8) {
		t.Errorf("Days()[0] = %v want 2025-01-08", table.Days()[0])
	}
}

func TestAlignErrors(t *testing.T) {
	full := NewPriceSeries("2330")
	full.Append(date.New(2025, 1, 6), 600)

	t.Run("no series", func(t *testing.T) {
		_, err := Align()
		if !errors.Is(err, ErrDataUnavailable) {
			t.Errorf("Align() err = %v want ErrDataUnavailable", err)
		}
	})
	t.Run("empty series", func(t *testing.T) {
		_, err := Align(full, NewPriceSeries("0050"))
		if !errors.Is(err, ErrDataUnavailable) {
			t.Errorf("Align() err = %v want ErrDataUnavailable", err)
		}
	})
	t.Run("duplicate symbol", func(t *testing.T) {
		other := NewPriceSeries("2330")
		other.Append(date.New(2025, 1, 6), 601)
		if _, err := Align(full, other); err == nil {
			t.Errorf("Align() expected an error for duplicate symbols")
		}
	})
}

func TestTableRange(t *testing.T) {
	table := tableOf(t, date.New(2025, 1, 6), map[Symbol][]float64{"2330": {600, 605, 610}})
	r := table.Range()
	if r.From != date.New(2025, 1, 6) || r.To != date.New(2025, 1, 8) {
		t.Errorf("Range() = %v want 2025-01-06..2025-01-08", r)
	}
}

func TestTableRows(t *testing.T) {
	a := NewPriceSeries("2330")
	a.Append(date.New(2025, 1, 6), 600)
	a.Append(date.New(2025, 1, 7), 605)
	b := NewPriceSeries("0050")
	b.Append(date.New(2025, 1, 6), 140)
	b.Append(date.New(2025, 1, 7), 141)

	table, err := Align(a, b)
	if err != nil {
		t.Fatalf("Align() err = %v", err)
	}

	n := 0
	for day, prices := range table.Rows() {
		if len(prices) != 2 {
			t.Fatalf("row %s has %d prices want 2", day, len(prices))
		}
		n++
	}
	if n != 2 {
		t.Errorf("Rows() yielded %d rows want 2", n)
	}
}
