// Package renderer turns backtest reports into presentable artifacts:
// markdown documents for the terminal and PNG charts for files.
package renderer

import (
	"strings"

	"github.com/tzuchia/backtest"
)

// symbolList joins basket symbols for titles, "2330+2317".
func symbolList(symbols []backtest.Symbol) string {
	strs := make([]string, len(symbols))
	for i, s := range symbols {
		strs[i] = s.String()
	}
	return strings.Join(strs, "+")
}
