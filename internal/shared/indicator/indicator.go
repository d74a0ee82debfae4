// Package indicator implements the technical indicator engine.
//
// Every function is pure: it reads a normalized price series and returns
// freshly allocated results aligned one-to-one with the input timestamps.
// Positions where an indicator is not yet defined (warm-up) hold NaN.
package indicator

import (
	"math"
	"time"
)

// Indicator names used in results and API payloads.
const (
	NameRSI               = "RSI"
	NameMACD              = "MACD"
	NameMACDSignal        = "MACD_SIGNAL"
	NameMACDHistogram     = "MACD_HIST"
	NameBBUpper           = "BB_UPPER"
	NameBBMiddle          = "BB_MIDDLE"
	NameBBLower           = "BB_LOWER"
	NameSMA               = "SMA"
	NameEMA               = "EMA"
	NameReturns           = "RETURNS"
	NameRollingStd        = "ROLLING_STD"
	NameRollingCorr       = "ROLLING_CORR"
	NameRollingVolatility = "ROLLING_VOLATILITY"
)

// Point is one (timestamp, value) pair of an indicator line.
type Point struct {
	Time  time.Time
	Value float64 // NaN when undefined
}

// Result is a named indicator line. It is never mutated after creation.
type Result struct {
	Name   string
	Points []Point
}

func newResult(name string, times []time.Time, values []float64) Result {
	pts := make([]Point, len(values))
	for i, v := range values {
		pts[i] = Point{Time: times[i], Value: v}
	}
	return Result{Name: name, Points: pts}
}

// Len returns the number of aligned points, defined or not.
func (r Result) Len() int { return len(r.Points) }

// Values returns the value column, NaN included.
func (r Result) Values() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Value
	}
	return out
}

// Defined returns only the points that carry a value.
func (r Result) Defined() []Point {
	out := make([]Point, 0, len(r.Points))
	for _, p := range r.Points {
		if IsDefined(p.Value) {
			out = append(out, p)
		}
	}
	return out
}

// Last returns the most recent defined point.
func (r Result) Last() (Point, bool) {
	for i := len(r.Points) - 1; i >= 0; i-- {
		if IsDefined(r.Points[i].Value) {
			return r.Points[i], true
		}
	}
	return Point{}, false
}

// IsDefined reports whether v is a real indicator value.
func IsDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
