package backtest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tzuchia/backtest/date"
)

func TestMarketDataAppend(t *testing.T) {
	m := NewMarketData()
	if m.Has("2330") {
		t.Errorf("Has() = true on an empty database")
	}

	m.Append("2330", date.New(2025, 1, 7), 605)
	m.Append("2330", date.New(2025, 1, 6), 600)

	if !m.Has("2330") {
		t.Fatalf("Has() = false after Append")
	}
	if got := m.Len("2330"); got != 2 {
		t.Errorf("Len() = %d want 2", got)
	}
	day, price := m.Latest("2330")
	if day != date.New(2025, 1, 7) || price != 605 {
		t.Errorf("Latest() = %v, %v want 2025-01-07, 605", day, price)
	}
}

func TestMarketDataSymbolsSorted(t *testing.T) {
	m := NewMarketData()
	m.Add("2330")
	m.Add("0050")
	m.Add("2317")

	got := m.Symbols()
	want := []Symbol{"0050", "2317", "2330"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Symbols()[%d] = %v want %v", i, got[i], want[i])
		}
	}
}

func TestMarketDataAsSource(t *testing.T) {
	m := NewMarketData()
	m.Append("2330", date.New(2025, 1, 6), 600)
	m.Append("2330", date.New(2025, 1, 7), 605)
	m.Append("2330", date.New(2025, 2, 3), 640)

	quotes, err := m.DailyClose(context.Background(), "2330", date.NewRange(date.New(2025, 1, 1), date.New(2025, 1, 31)))
	if err != nil {
		t.Fatalf("DailyClose() err = %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("DailyClose() returned %d quotes want 2 (February is out of range)", len(quotes))
	}
	if quotes[0].Day != date.New(2025, 1, 6) || quotes[0].Close != 600 {
		t.Errorf("quotes[0] = %+v want 2025-01-06 at 600", quotes[0])
	}

	_, err = m.DailyClose(context.Background(), "9999", date.NewRange(date.New(2025, 1, 1), date.New(2025, 1, 31)))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("DailyClose(unknown) err = %v want ErrDataUnavailable", err)
	}
}

func TestMarketDataUpdate(t *testing.T) {
	m := NewMarketData()
	m.Append("2330", date.New(2025, 1, 6), 600)

	var fetched []date.Range
	src := sourceFunc(func(_ context.Context, symbol Symbol, r date.Range) ([]Quote, error) {
		fetched = append(fetched, r)
		return []Quote{{Symbol: symbol, Day: r.From, Close: 610}}, nil
	})

	r := date.NewRange(date.New(2025, 1, 1), date.New(2025, 1, 10))
	if err := m.Update(context.Background(), src, []Symbol{"2330"}, r); err != nil {
		t.Fatalf("Update() err = %v", err)
	}

	// The fetch resumes the day after the latest known price.
	if len(fetched) != 1 {
		t.Fatalf("source called %d times want 1", len(fetched))
	}
	if fetched[0].From != date.New(2025, 1, 7) || fetched[0].To != date.New(2025, 1, 10) {
		t.Errorf("fetched range = %v want 2025-01-07..2025-01-10", fetched[0])
	}
	if got := m.Len("2330"); got != 2 {
		t.Errorf("Len() = %d want 2 after update", got)
	}
}

func TestMarketDataUpdateSkipsCurrent(t *testing.T) {
	m := NewMarketData()
	m.Append("2330", date.New(2025, 1, 10), 600)

	src := sourceFunc(func(_ context.Context, _ Symbol, _ date.Range) ([]Quote, error) {
		t.Fatalf("source must not be called when the database is current")
		return nil, nil
	})

	r := date.NewRange(date.New(2025, 1, 1), date.New(2025, 1, 10))
	if err := m.Update(context.Background(), src, []Symbol{"2330"}, r); err != nil {
		t.Fatalf("Update() err = %v", err)
	}
}

func TestMarketDataUpdateJoinsErrors(t *testing.T) {
	m := NewMarketData()
	src := sourceFunc(func(_ context.Context, symbol Symbol, r date.Range) ([]Quote, error) {
		if symbol == "9999" {
			return nil, fmt.Errorf("no such symbol")
		}
		return []Quote{{Symbol: symbol, Day: r.From, Close: 600}}, nil
	})

	r := date.NewRange(date.New(2025, 1, 6), date.New(2025, 1, 10))
	err := m.Update(context.Background(), src, []Symbol{"9999", "2330"}, r)
	if err == nil {
		t.Fatalf("Update() expected a joined error")
	}
	// The healthy symbol is still updated.
	if got := m.Len("2330"); got != 1 {
		t.Errorf("Len(2330) = %d want 1, other symbols must still update", got)
	}
}

func TestMarketDataSeriesClipped(t *testing.T) {
	m := NewMarketData()
	m.Append("0050", date.New(2025, 1, 6), 140)
	m.Append("0050", date.New(2025, 1, 7), 141)
	m.Append("0050", date.New(2025, 3, 3), 150)

	s := m.Series("0050", date.NewRange(date.New(2025, 1, 1), date.New(2025, 1, 31)))
	if s.Len() != 2 {
		t.Errorf("Series().Len() = %d want 2", s.Len())
	}
}

func TestMarketDataCoverage(t *testing.T) {
	m := NewMarketData()
	m.Append("2330", date.New(2025, 1, 7), 605)
	m.Append("2330", date.New(2025, 1, 6), 600)
	m.Append("2330", date.New(2025, 3, 3), 640)

	r, ok := m.Coverage("2330")
	if !ok {
		t.Fatalf("Coverage() = false for a stored symbol")
	}
	if r.From != date.New(2025, 1, 6) || r.To != date.New(2025, 3, 3) {
		t.Errorf("Coverage() = %v want 2025-01-06..2025-03-03", r)
	}

	if _, ok := m.Coverage("9999"); ok {
		t.Errorf("Coverage() = true for an unknown symbol")
	}
	m.Add("0050")
	if _, ok := m.Coverage("0050"); ok {
		t.Errorf("Coverage() = true for a symbol without prices")
	}
}

func TestMarketDataMerge(t *testing.T) {
	m := NewMarketData()
	m.Append("2330", date.New(2025, 1, 6), 600)
	m.Append("2330", date.New(2025, 1, 7), 605)

	other := NewMarketData()
	other.Append("2330", date.New(2025, 1, 7), 610) // conflicting day
	other.Append("0050", date.New(2025, 1, 6), 140)

	m.Merge(other)

	if got := m.Len("2330"); got != 2 {
		t.Errorf("Len(2330) = %d want 2 after merge", got)
	}
	if price, _ := m.read("2330", date.New(2025, 1, 7)); price != 610 {
		t.Errorf("merged price = %v want 610, the imported value wins", price)
	}
	if !m.Has("0050") {
		t.Errorf("Has(0050) = false, merge must add new symbols")
	}
}
