package backtest

import (
	"fmt"
	"math"

	"github.com/tzuchia/backtest/date"
)

// ProjectionPoint is the projected state of a savings plan at one period:
// how much was paid in so far, and what it is worth.
type ProjectionPoint struct {
	Day       date.Date
	Principal float64
	Value     float64
}

// ProjectionSeries is the period-by-period projection of a savings plan,
// starting at period 0 with the initial lump sum.
type ProjectionSeries []ProjectionPoint

// Total returns the projected value at the last period.
func (s ProjectionSeries) Total() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Value
}

// Project computes the future value of an initial lump sum plus a fixed
// contribution paid every period, compounded at a constant annual rate.
//
// The per-period rate is annualRate/periodsPerYear. For period i:
//
//	value(i)     = initial*(1+r)^i + contribution*((1+r)^i - 1)/r
//	principal(i) = initial + contribution*i
//
// with the linear branch value(i) = initial + contribution*i when r is zero.
// Period 0 is the starting point, value and principal both equal to initial.
//
// Points are dated from start: stepping whole months when periodsPerYear
// divides 12 evenly, otherwise stepping 365/periodsPerYear days.
func Project(start date.Date, initial, contribution, annualRate float64, periodsPerYear, periods int) (ProjectionSeries, error) {
	if initial < 0 || math.IsNaN(initial) {
		return nil, fmt.Errorf("initial amount %v must not be negative", initial)
	}
	if contribution < 0 || math.IsNaN(contribution) {
		return nil, fmt.Errorf("contribution %v must not be negative", contribution)
	}
	if math.IsNaN(annualRate) || annualRate <= -1 {
		return nil, fmt.Errorf("annual rate %v must be above -100%%", annualRate)
	}
	if periodsPerYear <= 0 {
		return nil, fmt.Errorf("periods per year %d must be positive", periodsPerYear)
	}
	if periods < 0 {
		return nil, fmt.Errorf("number of periods %d must not be negative", periods)
	}

	r := annualRate / float64(periodsPerYear)
	at := func(i int) date.Date {
		if 12%periodsPerYear == 0 {
			return start.AddMonth(i * (12 / periodsPerYear))
		}
		return start.Add(i * (365 / periodsPerYear))
	}

	series := make(ProjectionSeries, 0, periods+1)
	for i := 0; i <= periods; i++ {
		growth := math.Pow(1+r, float64(i))
		value := initial + contribution*float64(i) // linear when r == 0
		if r != 0 {
			value = initial*growth + contribution*(growth-1)/r
		}
		series = append(series, ProjectionPoint{
			Day:       at(i),
			Principal: initial + contribution*float64(i),
			Value:     value,
		})
	}
	return series, nil
}
