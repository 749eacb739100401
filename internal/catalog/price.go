package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price tiers by title age. Values are fixed storefront price points.
var (
	priceNew     = decimal.RequireFromString("59.99")
	priceRecent  = decimal.RequireFromString("29.99")
	priceOlder   = decimal.RequireFromString("19.99")
	priceClassic = decimal.RequireFromString("9.99")
)

// PriceFor maps a release date to a storefront price. Age is computed at
// whole-year granularity from the current year. Absent and unparseable dates
// both fall back to the mid tier.
func PriceFor(released string) decimal.Decimal {
	return PriceAt(released, time.Now())
}

// PriceAt is PriceFor evaluated at an explicit point in time.
func PriceAt(released string, now time.Time) decimal.Decimal {
	if released == "" {
		return priceOlder
	}
	t, err := time.Parse("2006-01-02", released)
	if err != nil {
		// Malformed dates get the same fallback as missing ones rather
		// than silently landing in the cheapest tier.
		return priceOlder
	}

	age := now.Year() - t.Year()
	switch {
	case age <= 1:
		return priceNew
	case age <= 5:
		return priceRecent
	case age <= 10:
		return priceOlder
	default:
		return priceClassic
	}
}
