package backtest

import (
	"math"
	"testing"

	"github.com/tzuchia/backtest/date"
)

func TestPriceSeriesAppendRejectsBadPrices(t *testing.T) {
	s := NewPriceSeries("2330")
	on := date.New(2025, 1, 6)

	testCases := []struct {
		name  string
		close float64
	}{
		{name: "zero", close: 0},
		{name: "negative", close: -1},
		{name: "nan", close: math.NaN()},
		{name: "inf", close: math.Inf(1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.Append(on, tc.close); err == nil {
				t.Errorf("Append(%v) expected an error", tc.close)
			}
		})
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d want 0 after rejected appends", s.Len())
	}
}

func TestPriceSeriesOrder(t *testing.T) {
	s := NewPriceSeries("2330")
	// Out of order appends end up sorted.
	s.Append(date.New(2025, 1, 8), 610)
	s.Append(date.New(2025, 1, 6), 600)
	s.Append(date.New(2025, 1, 7), 605)

	first, v := s.First()
	if first != date.New(2025, 1, 6) || v != 600 {
		t.Errorf("First() = %v, %v want 2025-01-06, 600", first, v)
	}
	last, v := s.Latest()
	if last != date.New(2025, 1, 8) || v != 610 {
		t.Errorf("Latest() = %v, %v want 2025-01-08, 610", last, v)
	}
}

func TestPriceSeriesClip(t *testing.T) {
	s := NewPriceSeries("0050")
	for i := 0; i < 10; i++ {
		s.Append(date.New(2025, 1, 1).Add(i), 100+float64(i))
	}
	clipped := s.Clip(date.NewRange(date.New(2025, 1, 3), date.New(2025, 1, 5)))
	if clipped.Len() != 3 {
		t.Fatalf("Clip().Len() = %d want 3", clipped.Len())
	}
	if _, ok := clipped.Get(date.New(2025, 1, 1)); ok {
		t.Errorf("Clip() kept a day outside the range")
	}
	if clipped.Symbol() != "0050" {
		t.Errorf("Clip().Symbol() = %v want 0050", clipped.Symbol())
	}
}

func TestSeriesFromQuotes(t *testing.T) {
	quotes := []Quote{
		{Symbol: "2330", Day: date.New(2025, 1, 7), Close: 605},
		{Symbol: "2330", Day: date.New(2025, 1, 6), Close: 600},
		{Symbol: "2330", Day: date.New(2025, 1, 8), Close: 0},    // dropped
		{Symbol: "9999", Day: date.New(2025, 1, 6), Close: 1},    // wrong symbol, dropped
		{Symbol: "2330", Day: date.New(2025, 1, 9), Close: -2.5}, // dropped
	}
	s := seriesFromQuotes("2330", quotes)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d want 2", s.Len())
	}
	if v, ok := s.Get(date.New(2025, 1, 6)); !ok || v != 600 {
		t.Errorf("Get(2025-01-06) = %v, %v want 600, true", v, ok)
	}
}
