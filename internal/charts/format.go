package charts

import (
	"strconv"

	"insightdash/internal/models"
)

// NotAvailable stands in for missing numbers
const NotAvailable = "N/A"

// Fixed formats v with a fixed number of decimals
func Fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FixedOrNA formats *p with decimals, or "N/A" when p is nil
func FixedOrNA(p *float64, decimals int) string {
	if p == nil {
		return NotAvailable
	}
	return Fixed(*p, decimals)
}

// Plain formats v without trailing zeros
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OrNA returns s, or "N/A" when s is empty
func OrNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// trendArrow compares record i with its predecessor (0 before the first)
func trendArrow(series models.Series, i int) string {
	prev := 0.0
	if i > 0 {
		prev = models.ValueOr(series[i-1].Value, 0)
	}
	if models.ValueOr(series[i].Value, 0) > prev {
		return models.TrendUp
	}
	return models.TrendDown
}
