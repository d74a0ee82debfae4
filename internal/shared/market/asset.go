package market

import (
	"fmt"
	"strings"
	"time"
)

// Upstream sources an asset can be fetched from.
const (
	SourceCoinGecko  = "coingecko"
	SourceTwelveData = "twelvedata"
)

// BaseAsset is the asset every correlation and mining computation is anchored on.
const BaseAsset = "BTC"

// Asset describes an instrument tracked by the dashboard.
type Asset struct {
	Code         string // Registry code used in URLs (e.g. "BTC")
	Name         string // Display name (e.g. "Bitcoin")
	Source       string // Upstream source, one of the Source* constants
	SourceSymbol string // Identifier understood by the upstream (e.g. "bitcoin", "SPX")
}

// DefaultAssets is Bitcoin plus the traditional assets it is compared against.
var DefaultAssets = []Asset{
	{Code: "BTC", Name: "Bitcoin", Source: SourceCoinGecko, SourceSymbol: "bitcoin"},
	{Code: "SPX", Name: "S&P 500", Source: SourceTwelveData, SourceSymbol: "SPX"},
	{Code: "GLD", Name: "Gold", Source: SourceTwelveData, SourceSymbol: "GLD"},
	{Code: "QQQ", Name: "NASDAQ", Source: SourceTwelveData, SourceSymbol: "QQQ"},
	{Code: "TLT", Name: "Treasury Bonds", Source: SourceTwelveData, SourceSymbol: "TLT"},
}

// Registry resolves asset codes. The zero value is empty; use NewRegistry.
type Registry struct {
	ordered []Asset
	byCode  map[string]Asset
}

// NewRegistry builds a registry keeping the given order for listings.
func NewRegistry(assets []Asset) *Registry {
	r := &Registry{byCode: make(map[string]Asset, len(assets))}
	for _, a := range assets {
		code := strings.ToUpper(a.Code)
		if _, dup := r.byCode[code]; dup {
			continue
		}
		a.Code = code
		r.ordered = append(r.ordered, a)
		r.byCode[code] = a
	}
	return r
}

// Lookup returns the asset for code (case-insensitive).
func (r *Registry) Lookup(code string) (Asset, error) {
	a, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Asset{}, fmt.Errorf("%q: %w", code, ErrUnknownAsset)
	}
	return a, nil
}

// All returns the registered assets in registration order.
func (r *Registry) All() []Asset {
	out := make([]Asset, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Codes returns the registered asset codes in registration order.
func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.ordered))
	for _, a := range r.ordered {
		out = append(out, a.Code)
	}
	return out
}

// Snapshot is the live market state of an asset as reported upstream.
type Snapshot struct {
	Asset             string
	PriceUSD          float64
	MarketCapUSD      float64
	TotalVolumeUSD    float64
	PriceChange24hPct float64
	LastUpdated       time.Time
}
