package backtest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tzuchia/backtest/date"
)

func TestImportExportSeries(t *testing.T) {
	in := `{"symbol":"2330","history":{"2025-01-06":600,"2025-01-07":605}}
{"symbol":"0050","history":{"2025-01-06":140.5}}
`
	m, err := ImportSeries(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ImportSeries() err = %v", err)
	}
	if v, ok := m.read("2330", date.New(2025, 1, 7)); !ok || v != 605 {
		t.Errorf("read(2330, 2025-01-07) = %v, %v want 605, true", v, ok)
	}

	var out bytes.Buffer
	if err := ExportSeries(&out, m); err != nil {
		t.Fatalf("ExportSeries() err = %v", err)
	}
	// Symbols come out in alphabetical order, one line each.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("ExportSeries() wrote %d lines want 2", len(lines))
	}
	if !strings.Contains(lines[0], `"symbol":"0050"`) {
		t.Errorf("first line = %s want symbol 0050", lines[0])
	}

	back, err := ImportSeries(strings.NewReader(out.String()))
	if err != nil {
		t.Fatalf("ImportSeries(exported) err = %v", err)
	}
	if v, ok := back.read("2330", date.New(2025, 1, 6)); !ok || v != 600 {
		t.Errorf("round trip lost 2330@2025-01-06: %v, %v", v, ok)
	}
}

func TestImportSeriesRejects(t *testing.T) {
	testCases := []struct {
		name string
		in   string
	}{
		{name: "not json", in: "hello"},
		{name: "bad symbol", in: `{"symbol":"","history":{}}`},
		{name: "bad date", in: `{"symbol":"2330","history":{"someday":600}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportSeries(strings.NewReader(tc.in)); err == nil {
				t.Errorf("ImportSeries(%q) expected an error", tc.in)
			}
		})
	}
}

func TestImportCSV(t *testing.T) {
	in := `Date,Open,High,Low,Close,Volume
2025-01-06,595,602,594,600,31250000
2025-01-07,601,606,600,605,28730000
2025-01-08,605,611,604,610,30120000
`
	s, err := ImportCSV(strings.NewReader(in), "2330")
	if err != nil {
		t.Fatalf("ImportCSV() err = %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d want 3", s.Len())
	}
	if v, ok := s.Get(date.New(2025, 1, 7)); !ok || v != 605 {
		t.Errorf("Get(2025-01-07) = %v, %v want 605, true", v, ok)
	}
}

func TestImportCSVSkipsBlankCloses(t *testing.T) {
	in := `Date,Close
2025-01-06,600
2025-01-07,
2025-01-08,610
`
	s, err := ImportCSV(strings.NewReader(in), "2330")
	if err != nil {
		t.Fatalf("ImportCSV() err = %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d want 2, the blank close is a gap", s.Len())
	}
}

func TestImportCSVErrors(t *testing.T) {
	testCases := []struct {
		name string
		in   string
	}{
		{name: "no close column", in: "Date,Open\n2025-01-06,595\n"},
		{name: "no date column", in: "Day,Close\n2025-01-06,600\n"},
		{name: "bad date", in: "Date,Close\nsoon,600\n"},
		{name: "bad close", in: "Date,Close\n2025-01-06,abc\n"},
		{name: "negative close", in: "Date,Close\n2025-01-06,-5\n"},
		{name: "empty input", in: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportCSV(strings.NewReader(tc.in), "2330"); err == nil {
				t.Errorf("ImportCSV(%q) expected an error", tc.in)
			}
		})
	}
}

func TestExportCSV(t *testing.T) {
	table := tableOf(t, date.New(2025, 1, 6), map[Symbol][]float64{"2330": {600, 605}})

	var out bytes.Buffer
	if err := ExportCSV(&out, table); err != nil {
		t.Fatalf("ExportCSV() err = %v", err)
	}
	want := "Date,2330\n2025-01-06,600\n2025-01-07,605\n"
	if out.String() != want {
		t.Errorf("ExportCSV() = %q want %q", out.String(), want)
	}
}

func TestExportSymbolCSVRoundTrip(t *testing.T) {
	s := NewPriceSeries("2330")
	s.Append(date.New(2025, 1, 6), 600)
	s.Append(date.New(2025, 1, 7), 605.5)

	var out bytes.Buffer
	if err := ExportSymbolCSV(&out, s); err != nil {
		t.Fatalf("ExportSymbolCSV() err = %v", err)
	}
	want := "Date,Close\n2025-01-06,600\n2025-01-07,605.5\n"
	if out.String() != want {
		t.Errorf("ExportSymbolCSV() = %q want %q", out.String(), want)
	}

	back, err := ImportCSV(&out, "2330")
	if err != nil {
		t.Fatalf("ImportCSV(exported) err = %v", err)
	}
	if v, ok := back.Get(date.New(2025, 1, 7)); !ok || v != 605.5 {
		t.Errorf("round trip lost 2025-01-07: %v, %v", v, ok)
	}
}

func TestExportReturnsCSV(t *testing.T) {
	table := tableOf(t, date.New(2025, 1, 6), map[Symbol][]float64{"2330": {600, 630}})

	var out bytes.Buffer
	if err := ExportReturnsCSV(&out, table); err != nil {
		t.Fatalf("ExportReturnsCSV() err = %v", err)
	}
	want := "Date,2330\n2025-01-06,0\n2025-01-07,0.05\n"
	if out.String() != want {
		t.Errorf("ExportReturnsCSV() = %q want %q", out.String(), want)
	}
}

func TestExportRecords(t *testing.T) {
	etf := NewPriceSeries("0050")
	etf.Append(date.New(2025, 1, 6), 140)
	etf.Append(date.New(2025, 1, 7), 141)
	tsmc := NewPriceSeries("2330")
	tsmc.Append(date.New(2025, 1, 6), 600)
	tsmc.Append(date.New(2025, 1, 7), 605)
	table, err := Align(etf, tsmc)
	if err != nil {
		t.Fatalf("Align() err = %v", err)
	}

	var out bytes.Buffer
	if err := ExportRecords(&out, table, false); err != nil {
		t.Fatalf("ExportRecords() err = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("ExportRecords() wrote %d lines want 2", len(lines))
	}
	// The date attribute leads, symbols follow in table order.
	want := `{"on":"2025-01-06","0050":140,"2330":600}`
	if lines[0] != want {
		t.Errorf("lines[0] = %s want %s", lines[0], want)
	}

	out.Reset()
	if err := ExportRecords(&out, table, true); err != nil {
		t.Fatalf("ExportRecords(returns) err = %v", err)
	}
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.Contains(lines[0], `"2330":0}`) {
		t.Errorf("first returns record = %s want 2330 at 0", lines[0])
	}
}
