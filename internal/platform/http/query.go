package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mining_analytics/internal/shared/market"
)

// QueryInt reads an integer query parameter, returning def when it is absent.
// A malformed value is market.ErrInvalidInput.
func QueryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("query %s=%q is not an integer: %w", key, raw, market.ErrInvalidInput)
	}
	return v, nil
}

// QueryFloat reads a float query parameter, returning def when it is absent.
func QueryFloat(c *gin.Context, key string, def float64) (float64, error) {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("query %s=%q is not a number: %w", key, raw, market.ErrInvalidInput)
	}
	return v, nil
}

// QueryList splits a comma separated query parameter, upper-casing and
// dropping empty items. def is returned when the parameter is absent.
func QueryList(c *gin.Context, key string, def []string) []string {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
