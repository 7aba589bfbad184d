package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tzuchia/backtest"
	"github.com/tzuchia/backtest/date"
	"github.com/tzuchia/backtest/docs"
	"github.com/tzuchia/backtest/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skills from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to reason about Taiwan listed stocks: how a basket of them
			would have performed against a benchmark, and where a savings plan could land.
			Prefer the Analyst's computed figures over anything from memory, and turn to
			the Researcher when the request needs recent news or facts about a company or fund.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher creates the expert grounding market questions with search.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert researcher of markets,
		very well aware of financial products and institutions,
		and of the latest news about the different funds or companies.
		Ask the Researcher whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in market research, you can search and find about anything
			related to financial institutions, companies, markets, funds etc. You leverage
			Google Search to ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAnalyst creates the expert that runs the numbers against the local
// market database in the given folder.
func NewAnalyst(folder string) *Expert {

	lib := []Function{newBacktestFunc(folder), newProjectFunc(folder), newCoverageFunc(folder)}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He runs the numbers on the local market database:
		backtests of equal-weight baskets against a benchmark, savings plan projections,
		and what daily prices are stored for which symbol.
		Every figure he quotes comes from a real computation, never from memory.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a quantitative analyst for Taiwan listed stocks.
				You know how to use the Tools to compute real figures from the local market database:
				  - Backtest compares an equal-weight basket against a benchmark
				  - Project computes where a savings plan lands
				  - Coverage tells what daily prices are stored for which symbol

				Figures come from the tools, never invent one. When a tool reports missing
				data, say so and suggest running 'twb fetch' for the symbols involved.
				You are part of a team of experts, they might ask you questions with
				approximative wording, pardon it and figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func newBacktestFunc(folder string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Backtest",
			Description: `Backtest compares an equal-weight basket of symbols against a benchmark
			over a date range, from the daily closes stored in the local market database.
			It reports the cumulative and annualized return of both, and each member's own total.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"basket": {
						Type: genai.TypeString,
						Description: `Comma separated list of the symbols forming the basket, like "2330,2317".

						` + must(docs.GetTopic("symbols")),
					},
					"benchmark": {
						Type:        genai.TypeString,
						Description: `The benchmark symbol to compare the basket against. "0050" is the usual choice.`,
					},
					"from": {
						Type:        genai.TypeString,
						Description: "Start date as YYYY-MM-DD. Defaults to one year before the end date.",
					},
					"to": {
						Type:        genai.TypeString,
						Description: "End date as YYYY-MM-DD. Defaults to today.",
					},
				},
				Required: []string{"basket", "benchmark"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report: total and annualized returns of basket and benchmark, per-member totals, and the day-by-day cumulative return table.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			out, err := runBacktest(ctx, folder, args)
			if err != nil {
				return errorResponse(id, "Backtest", err)
			}
			return textResponse(id, "Backtest", out)
		},
	}
}

func newProjectFunc(folder string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Project",
			Description: `Project computes the future value of a savings plan: an initial lump sum
			plus a fixed contribution every period, compounded at a constant annual rate.
			The rate is either given directly or derived from a symbol's observed history.

			` + must(docs.GetTopic("project")),
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"initial": {
						Type:        genai.TypeNumber,
						Description: "The lump sum invested up front, in TWD.",
					},
					"contribution": {
						Type:        genai.TypeNumber,
						Description: "The amount paid in every period, in TWD. Defaults to 0.",
					},
					"rate": {
						Type:        genai.TypeNumber,
						Description: "Annual growth rate in percent points, 7 means 7% a year. Defaults to 7. Ignored when 'like' is given.",
					},
					"like": {
						Type:        genai.TypeString,
						Description: "Derive the rate from this symbol's annualized return over the observed range instead of 'rate'.",
					},
					"from": {
						Type:        genai.TypeString,
						Description: "Start of the observed range for 'like', as YYYY-MM-DD. Defaults to ten years before the end.",
					},
					"to": {
						Type:        genai.TypeString,
						Description: "End of the observed range for 'like', as YYYY-MM-DD. Defaults to today.",
					},
					"periods_per_year": {
						Type:        genai.TypeInteger,
						Description: "How many contributions per year. Defaults to 12, monthly.",
					},
					"periods": {
						Type:        genai.TypeInteger,
						Description: "How many periods to project. Defaults to 120, ten years of monthly contributions.",
					},
				},
				Required: []string{"initial"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report: projected value, total paid in, projected gain, and the period-by-period schedule.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			out, err := runProjection(ctx, folder, args)
			if err != nil {
				return errorResponse(id, "Project", err)
			}
			return textResponse(id, "Project", out)
		},
	}
}

func newCoverageFunc(folder string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Coverage",
			Description: `Coverage lists what the local market database holds: each stored symbol
			with its first and last priced day and the number of prices. Use it before a
			backtest to check the data is there.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol": {
						Type:        genai.TypeString,
						Description: "Restrict the answer to this symbol. All stored symbols by default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of symbols with first day, last day, and price count.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			out, err := runCoverage(folder, args)
			if err != nil {
				return errorResponse(id, "Coverage", err)
			}
			return textResponse(id, "Coverage", out)
		},
	}
}

func runBacktest(ctx context.Context, folder string, args map[string]any) (string, error) {
	basketArg, err := parseString(args, "basket", "")
	if err != nil {
		return "", err
	}
	basket, err := backtest.ParseSymbols(basketArg)
	if err != nil {
		return "", fmt.Errorf("argument 'basket': %w", err)
	}
	benchArg, err := parseString(args, "benchmark", "0050")
	if err != nil {
		return "", err
	}
	benchmark, err := backtest.ParseSymbol(benchArg)
	if err != nil {
		return "", fmt.Errorf("argument 'benchmark': %w", err)
	}
	to, err := parseDate(args, "to", date.Today())
	if err != nil {
		return "", err
	}
	from, err := parseDate(args, "from", to.AddMonth(-12))
	if err != nil {
		return "", err
	}

	store, err := decodeStore(folder)
	if err != nil {
		return "", err
	}
	loader := backtest.NewLoader(store)
	report, err := backtest.NewCompareReport(ctx, loader, basket, benchmark, date.Range{From: from, To: to})
	if err != nil {
		return "", err
	}
	return renderer.CompareMarkdown(report), nil
}

func runProjection(ctx context.Context, folder string, args map[string]any) (string, error) {
	initial, err := parseNumber(args, "initial", 0)
	if err != nil {
		return "", err
	}
	contribution, err := parseNumber(args, "contribution", 0)
	if err != nil {
		return "", err
	}
	periodsPerYear, err := parseInt(args, "periods_per_year", 12)
	if err != nil {
		return "", err
	}
	periods, err := parseInt(args, "periods", 120)
	if err != nil {
		return "", err
	}
	like, err := parseString(args, "like", "")
	if err != nil {
		return "", err
	}

	var report *backtest.ProjectionReport
	if like != "" {
		symbol, err := backtest.ParseSymbol(like)
		if err != nil {
			return "", fmt.Errorf("argument 'like': %w", err)
		}
		to, err := parseDate(args, "to", date.Today())
		if err != nil {
			return "", err
		}
		from, err := parseDate(args, "from", to.AddMonth(-120))
		if err != nil {
			return "", err
		}
		store, err := decodeStore(folder)
		if err != nil {
			return "", err
		}
		loader := backtest.NewLoader(store)
		report, err = backtest.NewProjectionFromHistory(ctx, loader, symbol, date.Range{From: from, To: to},
			date.Today(), initial, contribution, periodsPerYear, periods, backtest.DefaultCurrency)
		if err != nil {
			return "", err
		}
	} else {
		rate, err := parseNumber(args, "rate", 7)
		if err != nil {
			return "", err
		}
		report, err = backtest.NewProjectionReport(date.Today(), initial, contribution, rate/100,
			periodsPerYear, periods, backtest.DefaultCurrency)
		if err != nil {
			return "", err
		}
	}
	return renderer.ProjectionMarkdown(report), nil
}

func runCoverage(folder string, args map[string]any) (string, error) {
	store, err := decodeStore(folder)
	if err != nil {
		return "", err
	}

	symbols := store.Symbols()
	if arg, err := parseString(args, "symbol", ""); err != nil {
		return "", err
	} else if arg != "" {
		symbol, err := backtest.ParseSymbol(arg)
		if err != nil {
			return "", fmt.Errorf("argument 'symbol': %w", err)
		}
		if !store.Has(symbol) {
			return "", fmt.Errorf("no stored prices for %s, run 'twb fetch -s %s' first", symbol, symbol)
		}
		symbols = []backtest.Symbol{symbol}
	}
	if len(symbols) == 0 {
		return fmt.Sprintf("The market database at %q is empty. Run 'twb fetch' to fill it.", folder), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Market Database Coverage\n\n")
	fmt.Fprintf(&b, "| Symbol | First | Last | Days |\n")
	fmt.Fprintf(&b, "|---|---|---|---:|\n")
	for _, symbol := range symbols {
		r, ok := store.Coverage(symbol)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d |\n", symbol, r.From, r.To, store.Len(symbol))
	}
	return b.String(), nil
}

// decodeStore opens the market database the analyst computes from. A missing
// folder is an empty database, the tools report it as such.
func decodeStore(folder string) (*backtest.MarketData, error) {
	m, err := backtest.DecodeMarketData(folder)
	if err != nil {
		return nil, fmt.Errorf("could not load market database %q: %w", folder, err)
	}
	return m, nil
}

func parseString(args map[string]any, key, fallback string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return fallback, fmt.Errorf("argument %q is not a string as expected but %T", key, raw)
	}
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return s, nil
}

func parseNumber(args map[string]any, key string, fallback float64) (float64, error) {
	raw, ok := args[key]
	if !ok {
		return fallback, nil
	}
	v, ok := raw.(float64)
	if !ok {
		return fallback, fmt.Errorf("argument %q is not a number as expected but %T", key, raw)
	}
	return v, nil
}

func parseInt(args map[string]any, key string, fallback int) (int, error) {
	v, err := parseNumber(args, key, float64(fallback))
	if err != nil {
		return fallback, err
	}
	return int(v), nil
}

func parseDate(args map[string]any, key string, fallback date.Date) (date.Date, error) {
	s, err := parseString(args, key, "")
	if err != nil {
		return fallback, err
	}
	if s == "" {
		return fallback, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return fallback, fmt.Errorf("argument %q must be a date like 2024-01-31, got %q", key, s)
	}
	return d, nil
}
