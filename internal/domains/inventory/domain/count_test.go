package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCountItems_AggregatesDuplicatesInFirstSeenOrder(t *testing.T) {
	counts := CountItems([]string{"mouse", "keyboard", "mouse", "laptop", "mouse"})

	require.Equal(t, ItemCount{
		{Name: "mouse", Quantity: 3},
		{Name: "keyboard", Quantity: 1},
		{Name: "laptop", Quantity: 1},
	}, counts)
	require.Equal(t, int64(5), counts.Total())
	require.Equal(t, map[string]int64{"mouse": 3, "keyboard": 1, "laptop": 1}, counts.AsMap())
}

func TestCountItems_Empty(t *testing.T) {
	require.Empty(t, CountItems(nil))
}

func TestNewItem_Validation(t *testing.T) {
	_, err := NewItem("  ", 1, decimal.Zero, "")
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewItem("mouse", -1, decimal.Zero, "")
	require.ErrorIs(t, err, ErrNegativeStock)

	_, err = NewItem("mouse", 1, decimal.NewFromInt(-1), "")
	require.ErrorIs(t, err, ErrNegativePrice)

	item, err := NewItem(" mouse ", 3, decimal.RequireFromString("29.99"), "Wireless optical mouse")
	require.NoError(t, err)
	require.Equal(t, "mouse", item.Name)
	require.True(t, item.Covers(3))
	require.False(t, item.Covers(4))
}

func TestDefaultCatalog_IsValid(t *testing.T) {
	for _, item := range DefaultCatalog() {
		item := item
		require.NoError(t, item.Validate(), item.Name)
	}
}
