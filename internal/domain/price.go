package domain

import "strconv"

// PricePlaceholder is shown for products without a usable price.
const PricePlaceholder = "N/A"

// FormatPrice renders a price with two decimals. A missing or zero price
// renders as PricePlaceholder, matching the catalog's convention that zero
// means "not priced".
func FormatPrice(price *float64) string {
	if price == nil || *price == 0 {
		return PricePlaceholder
	}
	return strconv.FormatFloat(*price, 'f', 2, 64)
}

// FormatScore renders a popularity score the way the catalog sends it:
// shortest representation, so 4.5 stays "4.5" and 4 stays "4".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
