package market

import (
	"fmt"
	"sort"
	"time"
)

// CheckAligned verifies that a and b have the same length and identical timestamps.
func CheckAligned(a, b []PricePoint) error {
	if len(a) != len(b) {
		return fmt.Errorf("length %d vs %d: %w", len(a), len(b), ErrAlignment)
	}
	for i := range a {
		if !a[i].Time.Equal(b[i].Time) {
			return fmt.Errorf("index %d: %s vs %s: %w", i,
				a[i].Time.Format(time.RFC3339), b[i].Time.Format(time.RFC3339), ErrAlignment)
		}
	}
	return nil
}

// Day truncates t to the start of its UTC calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// AlignDaily puts several series on a common UTC-day grid.
//
// Each series is bucketed by day keeping the last price of the day. The grid is
// the union of all days; gaps (weekends and holidays for exchange traded
// assets) are forward filled from the previous day. Leading days on which any
// series has no value yet are dropped, so every returned series has the same
// length and timestamps. Empty input series are ignored.
func AlignDaily(series map[string][]PricePoint) map[string][]PricePoint {
	byDay := make(map[string]map[time.Time]PricePoint, len(series))
	daySet := make(map[time.Time]struct{})
	for code, points := range series {
		if len(points) == 0 {
			continue
		}
		m := make(map[time.Time]PricePoint, len(points))
		for _, p := range points {
			d := Day(p.Time)
			if prev, ok := m[d]; ok && prev.Time.After(p.Time) {
				continue
			}
			m[d] = p
			daySet[d] = struct{}{}
		}
		byDay[code] = m
	}
	if len(byDay) == 0 {
		return map[string][]PricePoint{}
	}

	days := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	filled := make(map[string][]PricePoint, len(byDay))
	start := 0
	for code, m := range byDay {
		out := make([]PricePoint, len(days))
		var prev float64
		first := len(days)
		for i, d := range days {
			if p, ok := m[d]; ok {
				out[i] = PricePoint{Asset: code, Time: d, Price: p.Price, Volume: p.Volume}
				prev = p.Price
				if first == len(days) {
					first = i
				}
				continue
			}
			// forward fill carries the price only
			if first < len(days) {
				out[i] = PricePoint{Asset: code, Time: d, Price: prev}
			}
		}
		if first > start {
			start = first
		}
		filled[code] = out
	}

	for code, out := range filled {
		filled[code] = out[start:]
	}
	return filled
}
