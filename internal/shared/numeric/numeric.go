// Package numeric rounds values for JSON responses.
//
// encoding/json rejects NaN and ±Inf, so undefined indicator positions are
// turned into nil pointers here and rendered as null.
package numeric

import (
	"math"

	"github.com/shopspring/decimal"
)

// Decimal places used by the response DTOs.
const (
	PlacesUSD     int32 = 2
	PlacesBTC     int32 = 8
	PlacesPercent int32 = 2
	PlacesRatio   int32 = 4
)

// Round rounds v half away from zero to places decimals. Non-finite values
// are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Nullable is Round for values that may be undefined: NaN and ±Inf give nil.
func Nullable(v float64, places int32) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := Round(v, places)
	return &r
}

// RoundPtr rounds *v, keeping nil as nil.
func RoundPtr(v *float64, places int32) *float64 {
	if v == nil {
		return nil
	}
	return Nullable(*v, places)
}
