package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/tzuchia/backtest"
)

// CompareMarkdown renders a comparison report as a markdown document: the
// headline totals, the per-member returns, and one row per trading day.
func CompareMarkdown(r *backtest.CompareReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Backtest %s vs %s", symbolList(r.Basket), r.Benchmark))
	doc.PlainText(fmt.Sprintf("Equal-weight basket over %d trading days, %s to %s.",
		len(r.Entries), r.Range.From, r.Range.To))

	summary := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"", md.Bold("Strategy"), md.Bold(r.Benchmark.String())},
		Rows: [][]string{
			{"Total return", r.StrategyTotal.SignedString(), r.BenchmarkTotal.SignedString()},
		},
	}
	if r.Annualized {
		summary.Rows = append(summary.Rows, []string{
			"Annualized", r.StrategyAnnual.SignedString(), r.BenchmarkAnnual.SignedString(),
		})
	}
	doc.Table(summary)

	if len(r.Members) > 0 {
		doc.H2("Basket Members")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
			},
			Header: []string{"Symbol", "Total Return"},
		}
		for _, m := range r.Members {
			table.Rows = append(table.Rows, []string{m.Symbol.String(), m.Total.SignedString()})
		}
		doc.Table(table)
	}

	doc.H2("Cumulative Returns")
	series := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Strategy", "Benchmark"},
	}
	for _, e := range r.Entries {
		series.Rows = append(series.Rows, []string{
			e.Date.String(),
			e.Strategy.SignedString(),
			e.Benchmark.SignedString(),
		})
	}
	doc.Table(series)

	if len(r.Warnings) > 0 {
		doc.H2("Warnings")
		var lines []string
		for _, w := range r.Warnings {
			lines = append(lines, w.String())
		}
		doc.BulletList(lines...)
	}

	return doc.String()
}
