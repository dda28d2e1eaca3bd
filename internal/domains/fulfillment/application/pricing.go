package application

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	unitPrices = map[string]decimal.Decimal{
		"laptop":   decimal.RequireFromString("999.99"),
		"mouse":    decimal.RequireFromString("29.99"),
		"keyboard": decimal.RequireFromString("79.99"),
		"monitor":  decimal.RequireFromString("299.99"),
	}
	defaultUnitPrice = decimal.RequireFromString("50.00")

	shippingBaseCost   = decimal.RequireFromString("9.99")
	itemWeightFactor   = decimal.RequireFromString("2.5")
	shippingWeightRate = decimal.RequireFromString("0.5")
)

// UnitPrice looks up an item case-insensitively, falling back to the default price.
func UnitPrice(item string) decimal.Decimal {
	if price, ok := unitPrices[strings.ToLower(strings.TrimSpace(item))]; ok {
		return price
	}
	return defaultUnitPrice
}

// OrderTotal prices every occurrence of every item.
func OrderTotal(items []string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(UnitPrice(item))
	}
	return total
}

// ShippingCost is base + len(items) * weight factor * rate, rounded to cents.
func ShippingCost(items []string) decimal.Decimal {
	weight := decimal.NewFromInt(int64(len(items))).Mul(itemWeightFactor)
	return shippingBaseCost.Add(weight.Mul(shippingWeightRate)).Round(2)
}
