package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	miningusecase "mining_analytics/internal/feature/mining/usecase"
	pricesusecase "mining_analytics/internal/feature/prices/usecase"
	"mining_analytics/internal/shared/market"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

type report struct {
	Overview    pricesusecase.Overview
	Mining      miningusecase.Output
	GeneratedAt time.Time
}

type row struct {
	metric string
	value  string
}

func render(w io.Writer, r report) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("=== Bitcoin Mining Data Analysis ===") + "\n")
	b.WriteString(mutedStyle.Render("Analysis generated at: "+r.GeneratedAt.Format(timeLayout)) + "\n")

	ov := r.Overview
	if first, ok := firstPoint(ov.Prices); ok {
		last, _ := market.Last(ov.Prices)
		b.WriteString(section("Timestamp Range", []row{
			{"From", first.Time.UTC().Format(timeLayout)},
			{"To", last.Time.UTC().Format(timeLayout)},
		}))
	}

	stats := []row{
		{"Current Price", usd(ov.CurrentPrice)},
		{"Average Price", usd(ov.Summary.Mean)},
		{"Highest Price", usd(ov.Summary.High)},
		{"Lowest Price", usd(ov.Summary.Low)},
		{"Price Volatility", usd(ov.Summary.StdDev)},
		{"7-Day Rolling Volatility", pctPtr(ov.LatestVol)},
	}
	if ov.Change24hPct != nil {
		stats = append(stats, row{"24h Change", pct(*ov.Change24hPct)})
	}
	b.WriteString(section("Price Statistics", stats))

	if ov.Risk != nil {
		b.WriteString(section("Risk Metrics", []row{
			{"Value at Risk (95%)", pct(ov.Risk.ValueAtRisk95)},
			{"Maximum Drawdown", pct(ov.Risk.MaxDrawdown)},
			{"Annualized Return", pct(ov.Risk.AnnualizedReturn)},
			{"Annualized Volatility", pct(ov.Risk.AnnualizedVolatility)},
			{"Sharpe Ratio", fmt.Sprintf("%.2f", ov.Risk.SharpeRatio)},
		}))
	}

	if s := ov.Snapshot; s != nil {
		b.WriteString(section("Market Data", []row{
			{"Market Cap", usd(s.MarketCapUSD)},
			{"24h Volume", usd(s.TotalVolumeUSD)},
			{"Last Updated", s.LastUpdated.UTC().Format(timeLayout)},
		}))
	}

	p, res := r.Mining.Params, r.Mining.Result
	b.WriteString(section("Mining Metrics", []row{
		{"Network Difficulty", fmt.Sprintf("%.2fT", p.NetworkDifficulty/1e12)},
		{"Hashrate", fmt.Sprintf("%.2f TH/s", p.HashrateTHs)},
		{"Daily BTC", fmt.Sprintf("%.8f", res.DailyBTC)},
		{"Daily Revenue", usd(res.DailyRevenue)},
		{"Daily Power Cost", usd(res.DailyCost)},
		{"Daily Profit", usd(res.DailyProfit)},
		{"Break-even Price", usdPtr(res.BreakevenPrice)},
		{"ROI", days(res.ROIDays)},
	}))

	_, err := io.WriteString(w, b.String())
	return err
}

func section(title string, rows []row) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 1 {
				return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range rows {
		t.Row(r.metric, r.value)
	}
	return sectionStyle.Render(title+":") + "\n" + t.String() + "\n"
}

func firstPoint(points []market.PricePoint) (market.PricePoint, bool) {
	if len(points) == 0 {
		return market.PricePoint{}, false
	}
	return points[0], true
}

func usd(v float64) string { return fmt.Sprintf("$%.2f", v) }

func pct(v float64) string { return fmt.Sprintf("%.2f%%", v) }

func usdPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return usd(*v)
}

func pctPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return pct(*v)
}

func days(v *float64) string {
	if v == nil {
		return "no break-even"
	}
	return fmt.Sprintf("%.1f days", *v)
}
