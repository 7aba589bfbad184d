package backtest

import (
	"fmt"
	"strings"
)

// Symbol identifies a listed instrument by the code users type, like "2330"
// or "0050" for Taiwan listings, or an index code like "^TWII".
type Symbol string

// ParseSymbol normalizes and validates a user-provided symbol.
func ParseSymbol(s string) (Symbol, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("empty symbol")
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
		case r == '.' || r == '^' || r == '-':
		default:
			return "", fmt.Errorf("invalid symbol %q: unexpected character %q", s, r)
		}
	}
	return Symbol(s), nil
}

// ParseSymbols parses a comma-separated list of symbols, like "2330,2317".
func ParseSymbols(list string) ([]Symbol, error) {
	var symbols []Symbol
	for _, s := range strings.Split(list, ",") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		sym, err := ParseSymbol(s)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("empty symbol list %q", list)
	}
	return symbols, nil
}

// IsIndex reports whether the symbol names an index rather than a tradeable
// instrument, like "^TWII".
func (s Symbol) IsIndex() bool { return strings.HasPrefix(string(s), "^") }

func (s Symbol) String() string { return string(s) }
