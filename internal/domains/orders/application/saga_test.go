package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaga_CompensatesNewestFirstAndContinuesOnFailure(t *testing.T) {
	saga := newSaga("o-1", slog.New(slog.DiscardHandler))
	var calls []string
	step := func(name string, err error) Compensation {
		return func(context.Context) error {
			calls = append(calls, name)
			return err
		}
	}
	saga.Completed("a", 1, step("a", nil))
	saga.Completed("b", 2, step("b", errors.New("boom")))
	saga.Completed("c", 3, step("c", nil))

	failures := saga.Compensate(context.Background())
	require.Equal(t, []string{"c", "b", "a"}, calls)
	require.Len(t, failures, 1)
	require.Equal(t, "b", failures[0].Name)
	require.EqualValues(t, 2, failures[0].Quantity)
	require.Zero(t, saga.Len())
}

func TestSaga_CompensationIgnoresCancellation(t *testing.T) {
	saga := newSaga("o-1", slog.New(slog.DiscardHandler))
	saga.Completed("a", 1, func(ctx context.Context) error { return ctx.Err() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Empty(t, saga.Compensate(ctx))
}
