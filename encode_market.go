package backtest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tzuchia/backtest/date"
)

const attrOn = "on"
const marketDataFilesGlob = "[0-9][0-9][0-9][0-9].jsonl"

// This file contains code to persist market data in a folder, in a way that is still human-readable and git-friendly.
//
// The overall strategy to Encode/Decode market data is as follows:
//   Decode: read all files with a glob into a list of lines (with metadata like filename and line number)
//         Then parse each json line and append it to the database.
//
//   Encode: scan all days across symbols, and append them to a list of structured lines, one file per year.
//            Then generate each file.
//            Then using the same glob, list all existing files on the disk, and delete the stale ones.

// fileLine structures a line from a collection of files as the persistence layer represent them.
type fileLine struct {
	filename string
	i        int
	txt      string
}

// loadLines read all lines from a set of files and return them in list of structured lines.
func loadLines(filenames ...string) (list []fileLine, err error) {
	list = make([]fileLine, 0, 100000)
	for _, filename := range filenames {
		i := 0
		r, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
		}
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			i++
			txt := scanner.Text()
			list = append(list, fileLine{filename, i, txt})
		}
		r.Close()
	}
	return list, nil
}

// decodeDailyPrices decodes a single line from the database persisted files.
func decodeDailyPrices(m *MarketData, l fileLine) error {

	// Start simply ignoring empty lines.
	if strings.TrimSpace(l.txt) == "" {
		return nil
	}

	// Parse the line as json
	jobj := make(map[string]any)
	if err := json.Unmarshal([]byte(l.txt), &jobj); err != nil {
		return fmt.Errorf("parse error %s:%v: not a correct json: %w", l.filename, l.i, err)
	}

	// Read the timestamp
	jvalue, ok := jobj[attrOn]
	if !ok {
		return fmt.Errorf("parse error %s:%v: missing the property %q with a date", l.filename, l.i, attrOn)
	}
	jstring, ok := jvalue.(string)
	if !ok {
		return fmt.Errorf("parse error %s:%v: property %q must be of type 'string'", l.filename, l.i, attrOn)
	}

	on, err := date.Parse(jstring)
	if err != nil {
		return fmt.Errorf("parse error %s:%v: property %q must be a valid date: %w", l.filename, l.i, attrOn, err)
	}

	// Read all other attributes as (symbol, price) pairs.
	for key, price := range jobj {
		if key == attrOn { // reserved word for timestamp
			continue
		}

		p, ok := price.(float64)
		if !ok {
			return fmt.Errorf("parse error %s:%v: property %q must be of type 'number'", l.filename, l.i, key)
		}

		symbol, err := ParseSymbol(key)
		if err != nil {
			return fmt.Errorf("parse error %s:%v: property %q must be a valid symbol: %w", l.filename, l.i, key, err)
		}

		// Entry is valid add it to the database.
		m.Append(symbol, on, p)
	}
	return nil
}

// DecodeMarketData reads a folder containing daily price files and returns a
// MarketData object. A missing folder is an empty database.
func DecodeMarketData(folder string) (*MarketData, error) {
	// Creates an empty database.
	m := NewMarketData()

	// Use glob to find all the files that are part of the db.
	filenames, err := filepath.Glob(filepath.Join(folder, marketDataFilesGlob))
	if err != nil {
		return nil, fmt.Errorf("load error: cannot scan folder %q for market data files: %w", folder, err)
	}

	lines, err := loadLines(filenames...)
	if err != nil {
		return nil, err // err is already a package error
	}

	for _, line := range lines {
		if err := decodeDailyPrices(m, line); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// encodeDailyPrices persists a single line in a yearly jsonl file.
// Returns bare io errors.
func encodeDailyPrices(w io.Writer, day date.Date, symbols []Symbol, values []float64) error {
	var jw jsonObjectWriter
	jw.Append(attrOn, day.String())

	// Write all (symbol,price) pairs
	for i, symbol := range symbols {
		price := values[i]

		// Skip nans. json does not support NaN.
		if math.IsNaN(price) {
			continue
		}
		jw.Append(string(symbol), price)
	}

	b, err := jw.MarshalJSON()
	if err != nil {
		return err
	}

	if _, err := w.Write(append(b, '\n')); err != nil {
		return err
	}

	return nil
}

// EncodeMarketData encodes the market data into a folder, one JSONL file per
// year, one line per day, and deletes the yearly files that no longer hold
// any data.
func EncodeMarketData(folder string, m *MarketData) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("persist error: cannot create folder %q: %w", folder, err)
	}

	// we first generate the price values into this list of structured items.
	type line struct {
		filename string
		day      date.Date
		symbols  []Symbol
		prices   []float64
	}
	lines := make([]line, 0, 365*100) // hundred years should be enough

	// Symbols in alphabetical order for stable output.
	sortedSymbols := m.Symbols()
	histories := make([]*date.History[float64], 0, len(sortedSymbols))
	for _, symbol := range sortedSymbols {
		histories = append(histories, m.prices[symbol])
	}

	// Scan the database and fill the 'lines' list of structured lines.
	for day := range date.Iterate(histories...) {
		// Init the line with current day, and a file name based on the year.
		l := line{
			day:      day,
			filename: filepath.Join(folder, fmt.Sprintf("%d.jsonl", day.Year())),
		}
		// Append symbols that have values.
		for _, symbol := range sortedSymbols {
			if val, ok := m.read(symbol, day); ok {
				l.symbols = append(l.symbols, symbol)
				l.prices = append(l.prices, val)
			}
		}
		lines = append(lines, l)
	}

	// Persist all lines into their corresponding files.

	var currentFile *os.File
	var currentFilename string
	var createdFiles = make(map[string]struct{})
	for _, l := range lines {
		// Check whether we should switch to a new file
		if currentFilename != l.filename {
			currentFilename = l.filename
			var err error
			currentFile, err = os.Create(currentFilename)
			if err != nil {
				return fmt.Errorf("persist error: cannot create file %q: %w", currentFilename, err)
			}
			createdFiles[currentFilename] = struct{}{}
			defer currentFile.Close()
			log.Printf("create-market-data-file name=%q", currentFilename)
		}

		// Write line to currentFile.
		if err := encodeDailyPrices(currentFile, l.day, l.symbols, l.prices); err != nil {
			return fmt.Errorf("persist error: write error on file %q: %w", currentFilename, err)
		}
	}

	// Delete extraneous files.

	filenames, err := filepath.Glob(filepath.Join(folder, marketDataFilesGlob))
	if err != nil {
		return fmt.Errorf("persist error: cannot scan folder %q for market data files to be deleted: %w", folder, err)
	}
	for _, filename := range filenames {
		if _, ok := createdFiles[filename]; ok {
			continue // skip created ones
		}
		if err := os.Remove(filename); err != nil {
			return fmt.Errorf("persist error: cannot delete file %q: %w", filename, err)
		}
		log.Printf("delete-market-data-file name=%q", filename)
	}
	return nil
}
