package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewOrder_Validates(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	order, err := NewOrder("o-1", " Ada ", []string{"laptop", "mouse"}, now)
	require.NoError(t, err)
	require.Equal(t, "Ada", order.CustomerName)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, now, order.OrderDate)

	_, err = NewOrder("o-1", "Ada", nil, now)
	require.ErrorIs(t, err, ErrEmptyItems)

	_, err = NewOrder("o-1", "", []string{"laptop"}, now)
	require.ErrorIs(t, err, ErrMissingCustomer)

	_, err = NewOrder("o-1", "Ada", []string{"laptop", " "}, now)
	require.ErrorIs(t, err, ErrBlankItem)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	order := &Order{ID: "o-1", Items: []string{"mouse"}, Status: StatusPending}
	require.ErrorIs(t, order.UpdateStatus("Shipped", "", time.Now()), ErrInvalidStatus)
	require.NoError(t, order.UpdateStatus(StatusFailed, "nope", time.Now()))
	require.Equal(t, "nope", order.StatusReason)
}

func TestClone_CopiesItems(t *testing.T) {
	order := &Order{ID: "o-1", Items: []string{"mouse"}}
	clone := order.Clone()
	clone.Items[0] = "laptop"
	require.Equal(t, "mouse", order.Items[0])
}

func TestChangeEvent_RoundTripsItems(t *testing.T) {
	order := &Order{ID: "o-1", CustomerName: "Ada", Items: []string{"mouse", "mouse", "keyboard"}}
	event, err := NewInsertEvent(order)
	require.NoError(t, err)
	require.True(t, event.IsInsert())
	require.JSONEq(t, `["mouse","mouse","keyboard"]`, event.Items)

	items, err := event.DecodeItems()
	require.NoError(t, err)
	require.Equal(t, order.Items, items)
}

func TestChangeEvent_Defaults(t *testing.T) {
	event := ChangeEvent{EventName: "MODIFY", OrderID: "o-1", Items: "not json"}
	require.False(t, event.IsInsert())
	require.Equal(t, UnknownCustomer, event.Customer())
	_, err := event.DecodeItems()
	require.Error(t, err)
}

func TestReasons(t *testing.T) {
	reason := UnavailableReason([]UnavailableItem{{Name: "mouse", Requested: 2, Available: 1}})
	require.Equal(t, "Items unavailable: mouse (need 2)", reason)

	require.Equal(t, ReasonReservationFailed, CompensationReason(ReasonReservationFailed, nil))
	require.Equal(t,
		"Inventory reservation failed; compensation incomplete: laptop (1), mouse (2)",
		CompensationReason(ReasonReservationFailed, []CompensationFailure{
			{Name: "laptop", Quantity: 1, Err: errors.New("down")},
			{Name: "mouse", Quantity: 2, Err: errors.New("down")},
		}))
}
