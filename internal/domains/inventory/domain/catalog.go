package domain

import "github.com/shopspring/decimal"

// DefaultCatalog returns the starter stock used to seed empty stores.
func DefaultCatalog() []Item {
	return []Item{
		{Name: "laptop", Stock: 50, Price: decimal.RequireFromString("999.99"), Description: "High-performance laptop"},
		{Name: "mouse", Stock: 100, Price: decimal.RequireFromString("29.99"), Description: "Wireless optical mouse"},
		{Name: "keyboard", Stock: 75, Price: decimal.RequireFromString("79.99"), Description: "Mechanical keyboard"},
		{Name: "monitor", Stock: 30, Price: decimal.RequireFromString("299.99"), Description: "24-inch LED monitor"},
		{Name: "headphones", Stock: 60, Price: decimal.RequireFromString("149.99"), Description: "Noise-canceling headphones"},
		{Name: "webcam", Stock: 40, Price: decimal.RequireFromString("89.99"), Description: "HD webcam"},
		{Name: "speaker", Stock: 25, Price: decimal.RequireFromString("199.99"), Description: "Bluetooth speaker"},
		{Name: "tablet", Stock: 20, Price: decimal.RequireFromString("399.99"), Description: "10-inch tablet"},
	}
}
