// Package backtest provides the computation pipeline behind a Taiwan stock
// backtesting tool: it loads daily closing prices, turns them into cumulative
// return comparisons, and projects recurring-contribution savings plans.
//
// The core functionalities include:
//   - Price Loading: Fetching daily closes per symbol from a market data
//     source, concurrently and independently, with per-symbol failures
//     reported as warnings instead of aborting the batch.
//   - Return Engine: Aligning series on common trading days, combining a
//     basket into an equal-weight synthetic instrument, and computing
//     cumulative returns against the first common day.
//   - Projection Engine: Computing the future value of an initial lump sum
//     plus fixed periodic contributions compounded at a constant rate.
//   - Data Persistence: Storing fetched prices in human-readable,
//     version-controllable JSONL files, with CSV and JSONL import/export.
//
// This package serves as the foundational logic for the `twb` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package backtest
