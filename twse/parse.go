package twse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tzuchia/backtest/date"
)

// parseROCDate parses an exchange report date like "113/01/04", whose year
// counts from 1911 (the Republic of China calendar).
func parseROCDate(s string) (date.Date, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return date.Date{}, fmt.Errorf("invalid ROC date %q want yyy/mm/dd", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid ROC date %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid ROC date %q: %w", s, err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid ROC date %q: %w", s, err)
	}
	if year <= 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return date.Date{}, fmt.Errorf("invalid ROC date %q", s)
	}
	return date.New(year+1911, time.Month(month), day), nil
}

// parsePrice parses a report price cell like "1,070.00". Cells showing "--"
// mark days without a trade and report not ok.
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "--" {
		return 0, false
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || p <= 0 {
		return 0, false
	}
	return p, true
}
