package indicator

import (
	"fmt"
	"math"

	"mining_analytics/internal/shared/market"
)

// RollingCorrelation returns the Pearson correlation of a and b over a trailing
// window. Both series must have identical timestamps; the result is aligned
// with them and undefined for the first window-1 points and for windows in
// which either side is constant.
func RollingCorrelation(a, b []market.PricePoint, window int) (Result, error) {
	if err := market.CheckAligned(a, b); err != nil {
		return Result{}, fmt.Errorf("rolling correlation: %w", err)
	}
	if window < 2 {
		return Result{}, fmt.Errorf("correlation window %d: %w", window, market.ErrInvalidInput)
	}
	if len(a) < window {
		return Result{}, fmt.Errorf("correlation window %d exceeds %d points: %w", window, len(a), market.ErrInvalidInput)
	}

	x := market.Prices(a)
	y := market.Prices(b)
	out := nanSlice(len(x))
	for i := window - 1; i < len(x); i++ {
		out[i] = Pearson(x[i-window+1:i+1], y[i-window+1:i+1])
	}
	return newResult(NameRollingCorr, market.Times(a), out), nil
}

// Pearson returns the correlation coefficient of two equally long samples.
// It is NaN when the lengths differ, fewer than two pairs are given, any value
// is undefined or either sample has zero variance.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 || math.IsNaN(sxy) {
		return math.NaN()
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

// Matrix is a symmetric correlation matrix.
type Matrix struct {
	Labels []string
	Values [][]float64
}

// Get returns the coefficient for a pair of labels.
func (m Matrix) Get(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, l := range m.Labels {
		if l == a {
			i = k
		}
		if l == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// CorrelationMatrix computes pairwise Pearson coefficients between equally
// long columns, in the order given by labels. The diagonal is 1, or NaN for a
// column whose correlation is undefined (constant, too short or with NaNs).
func CorrelationMatrix(labels []string, columns map[string][]float64) (Matrix, error) {
	if len(labels) == 0 {
		return Matrix{}, fmt.Errorf("correlation matrix without columns: %w", market.ErrInvalidInput)
	}
	n := -1
	for _, l := range labels {
		col, ok := columns[l]
		if !ok {
			return Matrix{}, fmt.Errorf("correlation matrix column %q missing: %w", l, market.ErrInvalidInput)
		}
		if n >= 0 && len(col) != n {
			return Matrix{}, fmt.Errorf("column %q has %d values, want %d: %w", l, len(col), n, market.ErrAlignment)
		}
		n = len(col)
	}

	values := make([][]float64, len(labels))
	for i := range values {
		values[i] = make([]float64, len(labels))
	}
	for i, a := range labels {
		values[i][i] = 1
		if math.IsNaN(Pearson(columns[a], columns[a])) {
			values[i][i] = math.NaN()
		}
		for j := i + 1; j < len(labels); j++ {
			r := Pearson(columns[a], columns[labels[j]])
			values[i][j] = r
			values[j][i] = r
		}
	}
	return Matrix{Labels: append([]string(nil), labels...), Values: values}, nil
}
