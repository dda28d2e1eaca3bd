package domain

// ItemQuantity is one distinct item and how many units an order asks for.
type ItemQuantity struct {
	Name     string
	Quantity int64
}

// ItemCount aggregates an order's item list into distinct names, keeping the
// order in which each name first appeared.
type ItemCount []ItemQuantity

// CountItems folds duplicate entries into quantities.
func CountItems(items []string) ItemCount {
	index := make(map[string]int, len(items))
	counts := make(ItemCount, 0, len(items))
	for _, name := range items {
		if pos, ok := index[name]; ok {
			counts[pos].Quantity++
			continue
		}
		index[name] = len(counts)
		counts = append(counts, ItemQuantity{Name: name, Quantity: 1})
	}
	return counts
}

// Total returns the number of units across all entries.
func (c ItemCount) Total() int64 {
	var total int64
	for _, entry := range c {
		total += entry.Quantity
	}
	return total
}

// AsMap renders the counts for wire formats keyed by item name.
func (c ItemCount) AsMap() map[string]int64 {
	out := make(map[string]int64, len(c))
	for _, entry := range c {
		out[entry.Name] = entry.Quantity
	}
	return out
}
