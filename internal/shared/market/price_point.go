// Package market defines the normalized time-series model shared by the
// data providers, the price store and the indicator engine.
package market

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PricePoint is a single normalized observation of an asset price.
// Values are immutable once produced by a provider adapter.
type PricePoint struct {
	Asset  string    // Asset code from the registry (e.g. "BTC", "SPX")
	Time   time.Time // Observation timestamp (UTC)
	Price  float64   // Price in USD
	Volume *float64  // Traded volume, nil when the upstream does not report it
}

// VolumeOf returns a pointer to v for use as PricePoint.Volume.
func VolumeOf(v float64) *float64 {
	return &v
}

// Normalize validates and orders points coming from an upstream response.
// The result is sorted ascending by time with duplicate timestamps collapsed
// to the last reported value. Non-finite or negative prices are rejected.
func Normalize(points []PricePoint) ([]PricePoint, error) {
	out := make([]PricePoint, len(points))
	copy(out, points)

	for i, p := range out {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0 {
			return nil, fmt.Errorf("point %d (%s): price %v: %w", i, p.Time.Format(time.RFC3339), p.Price, ErrInvalidInput)
		}
		if p.Time.IsZero() {
			return nil, fmt.Errorf("point %d: missing timestamp: %w", i, ErrInvalidInput)
		}
		out[i].Time = p.Time.UTC()
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})

	dedup := out[:0]
	for _, p := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Time.Equal(p.Time) {
			dedup[n-1] = p
			continue
		}
		dedup = append(dedup, p)
	}
	return dedup, nil
}

// Prices extracts the price column.
func Prices(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}

// Times extracts the timestamp column.
func Times(points []PricePoint) []time.Time {
	out := make([]time.Time, len(points))
	for i, p := range points {
		out[i] = p.Time
	}
	return out
}

// Since returns the suffix of an ascending series starting at or after t.
func Since(points []PricePoint, t time.Time) []PricePoint {
	i := sort.Search(len(points), func(i int) bool {
		return !points[i].Time.Before(t)
	})
	return points[i:]
}

// Last returns the most recent point of an ascending series.
func Last(points []PricePoint) (PricePoint, bool) {
	if len(points) == 0 {
		return PricePoint{}, false
	}
	return points[len(points)-1], true
}
