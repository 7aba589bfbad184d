package backtest

import (
	"context"
	"errors"
	"testing"

	"github.com/tzuchia/backtest/date"
)

// seededStore builds a MarketData with three consecutive days of prices so
// reports can run offline through the Source interface.
func seededStore() *MarketData {
	m := NewMarketData()
	days := []date.Date{date.New(2025, 1, 6), date.New(2025, 1, 7), date.New(2025, 1, 8)}
	for i, p := range []float64{100, 110, 121} {
		m.Append("2330", days[i], p)
	}
	for i, p := range []float64{50, 50, 50} {
		m.Append("2317", days[i], p)
	}
	for i, p := range []float64{10, 11, 12} {
		m.Append("0050", days[i], p)
	}
	return m
}

func TestNewCompareReport(t *testing.T) {
	loader := quietLoader(seededStore())
	r := date.NewRange(date.New(2025, 1, 6), date.New(2025, 1, 8))

	report, err := NewCompareReport(context.Background(), loader, []Symbol{"2330", "2317"}, "0050", r)
	if err != nil {
		t.Fatalf("NewCompareReport() err = %v", err)
	}

	if len(report.Entries) != 3 {
		t.Fatalf("Entries = %d want 3", len(report.Entries))
	}
	if report.Entries[0].Strategy != 0 || report.Entries[0].Benchmark != 0 {
		t.Errorf("first entry = %+v want both returns at zero", report.Entries[0])
	}

	// Basket prices average to [75 80 85.5], so the strategy ends at +14%.
	if !report.StrategyTotal.Equal(Percent(14)) {
		t.Errorf("StrategyTotal = %v want 14%%", report.StrategyTotal)
	}
	// The benchmark moves 10 -> 12, +20%.
	if !report.BenchmarkTotal.Equal(Percent(20)) {
		t.Errorf("BenchmarkTotal = %v want 20%%", report.BenchmarkTotal)
	}
	if !report.Entries[1].Strategy.Equal(AsPercent(80.0/75.0 - 1)) {
		t.Errorf("Entries[1].Strategy = %v want %v", report.Entries[1].Strategy, AsPercent(80.0/75.0-1))
	}

	// Two days of span still annualizes.
	if !report.Annualized {
		t.Errorf("Annualized = false want true over a non-empty span")
	}

	// Member totals over the same window.
	if len(report.Members) != 2 {
		t.Fatalf("Members = %v want 2 entries", report.Members)
	}
	if report.Members[0].Symbol != "2330" || !report.Members[0].Total.Equal(Percent(21)) {
		t.Errorf("Members[0] = %+v want 2330 at 21%%", report.Members[0])
	}
	if report.Members[1].Symbol != "2317" || !report.Members[1].Total.Equal(Percent(0)) {
		t.Errorf("Members[1] = %+v want 2317 at 0%%", report.Members[1])
	}
}

func TestNewCompareReportDropsFailingMember(t *testing.T) {
	loader := quietLoader(seededStore())
	r := date.NewRange(date.New(2025, 1, 6), date.New(2025, 1, 8))

	report, err := NewCompareReport(context.Background(), loader, []Symbol{"2330", "9999"}, "0050", r)
	if err != nil {
		t.Fatalf("NewCompareReport() err = %v, one bad member must not abort", err)
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Symbol != "9999" {
		t.Errorf("Warnings = %v want one for 9999", report.Warnings)
	}
	if len(report.Basket) != 1 || report.Basket[0] != "2330" {
		t.Errorf("Basket = %v want [2330]", report.Basket)
	}
}

func TestNewCompareReportRequiresBenchmark(t *testing.T) {
	loader := quietLoader(seededStore())
	r := date.NewRange(date.New(2025, 1, 6), date.New(2025, 1, 8))

	_, err := NewCompareReport(context.Background(), loader, []Symbol{"2330"}, "9999", r)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("NewCompareReport() err = %v want ErrDataUnavailable for a missing benchmark", err)
	}
}

func TestNewCompareReportEmptyBasket(t *testing.T) {
	loader := quietLoader(seededStore())
	r := date.NewRange(date.New(2025, 1, 6), date.New(2025, 1, 8))

	_, err := NewCompareReport(context.Background(), loader, []Symbol{"9998", "9999"}, "0050", r)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("NewCompareReport() err = %v want ErrDataUnavailable when every member fails", err)
	}
}
