package domain

import (
	"fmt"
	"strings"
)

const (
	// ReasonReservationFailed is recorded when a reservation fails mid-sequence.
	ReasonReservationFailed = "Inventory reservation failed"
	// ReasonDispatchFailed is recorded when the fulfillment hand-off fails after reservation.
	ReasonDispatchFailed = "Fulfillment dispatch failed"
	// ReasonStatusNotRecorded is reported when the Processing status could not be persisted.
	ReasonStatusNotRecorded = "Order status could not be recorded"
)

// UnavailableItem is an item the pre-check found short.
type UnavailableItem struct {
	Name      string
	Requested int64
	Available int64
}

// CompensationFailure is a release that failed during rollback. The
// quantity it names is leaked from stock.
type CompensationFailure struct {
	Name     string
	Quantity int64
	Err      error
}

// ReservationOutcome is the result of one reservation attempt.
type ReservationOutcome struct {
	OrderID              string
	Success              bool
	ReservedItems        []string
	UnavailableItems     []UnavailableItem
	CompensationFailures []CompensationFailure
	FailureReason        string
}

// CompensationIncomplete reports whether at least one release failed.
func (o *ReservationOutcome) CompensationIncomplete() bool {
	return o != nil && len(o.CompensationFailures) > 0
}

// UnavailableReason renders the pre-check failure reason, e.g.
// "Items unavailable: mouse (need 2), keyboard (need 1)".
func UnavailableReason(items []UnavailableItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s (need %d)", item.Name, item.Requested))
	}
	return "Items unavailable: " + strings.Join(parts, ", ")
}

// CompensationReason appends the leaked items to base when any release failed.
func CompensationReason(base string, failures []CompensationFailure) string {
	if len(failures) == 0 {
		return base
	}
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, fmt.Sprintf("%s (%d)", f.Name, f.Quantity))
	}
	return base + "; compensation incomplete: " + strings.Join(parts, ", ")
}
