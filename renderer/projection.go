package renderer

import (
	"fmt"
	"strings"

	"github.com/tzuchia/backtest"
)

// ProjectionMarkdown renders a savings plan projection as a markdown
// document, headline first, then the period-by-period schedule.
func ProjectionMarkdown(r *backtest.ProjectionReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Savings Plan Projection\n\n")
	fmt.Fprintf(&b, "%s up front, then %s every period (%d per year) growing at %s a year over %d periods.\n\n",
		r.Initial, r.Contribution, r.PeriodsPerYear, r.AnnualRate, r.Periods)

	fmt.Fprintf(&b, "| **Projected Value** | **%s** |\n", r.Total)
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Total Paid In | %s |\n", r.Principal)
	fmt.Fprintf(&b, "| Projected Gain | %s |\n", r.Gain.SignedString())
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Schedule\n\n")
	fmt.Fprintln(&b, "| Period | Date | Paid In | Projected Value |")
	fmt.Fprintln(&b, "|---:|:---|---:|---:|")
	for i, p := range r.Points {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			i,
			p.Day,
			backtest.M(p.Principal, r.Currency),
			backtest.M(p.Value, r.Currency),
		)
	}

	return b.String()
}
