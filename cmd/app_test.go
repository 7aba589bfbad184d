package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tzuchia/backtest"
	"github.com/tzuchia/backtest/date"
)

func TestRangeOf(t *testing.T) {
	r, err := rangeOf("2024-01-15", "2024-06-30", 12)
	if err != nil {
		t.Fatalf("rangeOf() = %v", err)
	}
	if got, want := r.From.String(), "2024-01-15"; got != want {
		t.Errorf("From = %s, want %s", got, want)
	}
	if got, want := r.To.String(), "2024-06-30"; got != want {
		t.Errorf("To = %s, want %s", got, want)
	}

	// Only -to given: -from defaults to twelve months earlier.
	r, err = rangeOf("", "2024-06-30", 12)
	if err != nil {
		t.Fatalf("rangeOf() = %v", err)
	}
	if got, want := r.From.String(), "2023-06-30"; got != want {
		t.Errorf("defaulted From = %s, want %s", got, want)
	}

	// Only -from given: -to defaults to today.
	r, err = rangeOf("2024-01-15", "", 12)
	if err != nil {
		t.Fatalf("rangeOf() = %v", err)
	}
	if r.To != date.Today() {
		t.Errorf("defaulted To = %s, want today", r.To)
	}

	if _, err := rangeOf("junk", "", 12); err == nil {
		t.Error("rangeOf() accepted a junk -from")
	}
	if _, err := rangeOf("", "junk", 12); err == nil {
		t.Error("rangeOf() accepted a junk -to")
	}
}

func TestSourceFor(t *testing.T) {
	old := *storePath
	*storePath = t.TempDir()
	defer func() { *storePath = old }()

	for _, name := range []string{"store", "twse", "yahoo"} {
		src, err := sourceFor(name)
		if err != nil {
			t.Errorf("sourceFor(%q) = %v", name, err)
		}
		if src == nil {
			t.Errorf("sourceFor(%q) = nil", name)
		}
	}

	_, err := sourceFor("nasdaq")
	if err == nil {
		t.Fatal("sourceFor() accepted an unknown source")
	}
	if !strings.Contains(err.Error(), "nasdaq") {
		t.Errorf("error %q does not name the source", err)
	}
}

func TestDefaultStorePath(t *testing.T) {
	t.Setenv(EnvData, "")
	if got := defaultStorePath(); got != ".twbdata" {
		t.Errorf("defaultStorePath() = %q, want .twbdata", got)
	}
	t.Setenv(EnvData, "/var/lib/twb")
	if got := defaultStorePath(); got != "/var/lib/twb" {
		t.Errorf("defaultStorePath() = %q, want the env override", got)
	}
}

func TestCsvSymbol(t *testing.T) {
	if got := csvSymbol("data/2330.csv"); got != "2330" {
		t.Errorf("csvSymbol() = %q, want 2330", got)
	}
	if got := csvSymbol("0050.csv"); got != "0050" {
		t.Errorf("csvSymbol() = %q, want 0050", got)
	}
}

func TestImportCSVFolder(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"2330.csv": "Date,Close\n2025-01-06,600\n",
		"0050.csv": "Date,Close\n2025-01-06,140\n2025-01-07,141\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	store := backtest.NewMarketData()
	c := &importCmd{csv: dir}
	n, err := c.importCSV(store)
	if err != nil {
		t.Fatalf("importCSV() = %v", err)
	}
	if n != 3 {
		t.Errorf("imported %d prices, want 3", n)
	}
	for _, symbol := range []backtest.Symbol{"2330", "0050"} {
		if !store.Has(symbol) {
			t.Errorf("store is missing %s", symbol)
		}
	}

	// An empty folder is an error, not a silent no-op.
	if _, err := (&importCmd{csv: t.TempDir()}).importCSV(store); err == nil {
		t.Error("importCSV() accepted a folder with no csv files")
	}
}
