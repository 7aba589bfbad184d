package backtest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tzuchia/backtest/date"
)

// this file contains functions to handle the import/export format.
// It should remain human readable, single file and be easy to merge into a database.

// ImportSeries imports price series from 'r' in the import/export format.
//
// The import format is a JSONL file, where each line is a JSON object
// representing one symbol: the property 'symbol' contains the symbol, and the
// property 'history' contains a single json object whose properties are dates
// parseable by the [date] package, and values the closing price as a number.
func ImportSeries(r io.Reader) (*MarketData, error) {

	// the readable version of the format can be summarized by a single type.
	type jseries struct {
		Symbol  string             `json:"symbol"`
		History map[string]float64 `json:"history"`
	}

	m := NewMarketData()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var js jseries
		if err := json.Unmarshal(line, &js); err != nil {
			return nil, fmt.Errorf("cannot parse line for series import format: %q: %w", string(line), err)
		}

		symbol, err := ParseSymbol(js.Symbol)
		if err != nil {
			return nil, fmt.Errorf("cannot parse line for series import format: %q: %w", string(line), err)
		}
		m.Add(symbol)
		for day, value := range js.History {
			d, err := date.Parse(day)
			if err != nil {
				return nil, fmt.Errorf("invalid date in history of %s: %w", symbol, err)
			}
			m.Append(symbol, d, value)
		}
	}
	return m, scanner.Err()
}

// ExportSeries exports the market data to 'w' in the import/export format,
// one symbol per line, symbols in alphabetical order.
func ExportSeries(w io.Writer, m *MarketData) error {

	type jseries struct {
		Symbol  string             `json:"symbol"`
		History map[string]float64 `json:"history"`
	}

	for _, symbol := range m.Symbols() {
		js := jseries{
			Symbol:  string(symbol),
			History: make(map[string]float64),
		}
		for day, value := range m.prices[symbol].Values() {
			js.History[day.String()] = value
		}

		data, err := json.Marshal(js)
		if err != nil {
			return fmt.Errorf("cannot marshal series %q: %w", symbol, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write series format: %w", err)
		}
	}
	return nil
}

// ImportCSV reads one symbol's daily closes from a CSV file with a header
// row naming a date column and a close column (matched case-insensitively,
// other columns are ignored). This is the layout of the usual one-file-per-
// stock 'data/<symbol>.csv' exports.
func ImportCSV(r io.Reader, symbol Symbol) (*PriceSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header for %s: %w", symbol, err)
	}
	dateCol, closeCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "close", "adj close":
			if closeCol < 0 { // prefer the plain close column
				closeCol = i
			}
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("CSV for %s must have 'Date' and 'Close' columns, got %v", symbol, header)
	}

	series := NewPriceSeries(symbol)
	for i := 2; ; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV for %s line %d: %w", symbol, i, err)
		}
		day, err := date.Parse(record[dateCol])
		if err != nil {
			return nil, fmt.Errorf("CSV for %s line %d: %w", symbol, i, err)
		}
		cell := strings.TrimSpace(record[closeCol])
		if cell == "" {
			continue // gap, forward-filled at alignment
		}
		close, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("CSV for %s line %d: close %q is not a number: %w", symbol, i, cell, err)
		}
		if err := series.Append(day, close); err != nil {
			return nil, fmt.Errorf("CSV for %s line %d: %w", symbol, i, err)
		}
	}
	return series, nil
}

// ExportSymbolCSV writes one symbol's closes as 'Date,Close' CSV rows, the
// format ImportCSV reads back.
func ExportSymbolCSV(w io.Writer, s *PriceSeries) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Date", "Close"}); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}
	for day, price := range s.Values() {
		record := []string{day.String(), strconv.FormatFloat(price, 'f', -1, 64)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV row for %s: %w", day, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportCSV writes the aligned table to 'w' as CSV, a Date column followed by
// one column per symbol in the table's order.
func ExportCSV(w io.Writer, t *PriceTable) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(t.Symbols())+1)
	header = append(header, "Date")
	for _, symbol := range t.Symbols() {
		header = append(header, string(symbol))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	record := make([]string, len(header))
	for day, prices := range t.Rows() {
		record[0] = day.String()
		for i, p := range prices {
			record[i+1] = strconv.FormatFloat(p, 'f', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV row for %s: %w", day, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportReturnsCSV writes the cumulative return of every table column since
// the first common day as CSV fractions, the same shape as ExportCSV.
func ExportReturnsCSV(w io.Writer, t *PriceTable) error {
	columns, err := tableColumns(t, true)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(t.Symbols())+1)
	header = append(header, "Date")
	for _, symbol := range t.Symbols() {
		header = append(header, string(symbol))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	record := make([]string, len(header))
	for i, day := range t.Days() {
		record[0] = day.String()
		for j := range columns {
			record[j+1] = strconv.FormatFloat(columns[j][i], 'f', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV row for %s: %w", day, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportRecords writes the table as JSON records, one line per day: the
// property "on" holds the date, then one property per symbol. With returns
// set, values are cumulative return fractions since the first day instead of
// closes.
func ExportRecords(w io.Writer, t *PriceTable, returns bool) error {
	columns, err := tableColumns(t, returns)
	if err != nil {
		return err
	}
	for i, day := range t.Days() {
		var jw jsonObjectWriter
		jw.Append(attrOn, day.String())
		for j, symbol := range t.Symbols() {
			jw.Append(string(symbol), columns[j][i])
		}
		b, err := jw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("cannot marshal record for %s: %w", day, err)
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("cannot write record for %s: %w", day, err)
		}
	}
	return nil
}

// tableColumns reads every column of the table, closes or cumulative returns.
func tableColumns(t *PriceTable, returns bool) ([][]float64, error) {
	columns := make([][]float64, 0, len(t.Symbols()))
	for _, symbol := range t.Symbols() {
		col, _ := t.Column(symbol)
		if returns {
			var err error
			col, err = t.Returns(symbol)
			if err != nil {
				return nil, err
			}
		}
		columns = append(columns, col)
	}
	return columns, nil
}
