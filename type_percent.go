package backtest

import "fmt"

// Percent is a percentage value in percent points (5.0 means "5.00%").
type Percent float64

// AsPercent converts a plain ratio (0.05) into a Percent (5.0).
func AsPercent(ratio float64) Percent { return Percent(100 * ratio) }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
