package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSimulatedSubmitterRateExtremes(t *testing.T) {
	ctx := context.Background()

	always := NewSimulatedSubmitter(1, 0)
	for i := 0; i < 20; i++ {
		res, err := always.Submit(ctx, Item{})
		require.NoError(t, err)
		require.True(t, res.OK)
		require.Empty(t, res.ErrorMessage)
	}

	never := NewSimulatedSubmitter(0, 0)
	for i := 0; i < 20; i++ {
		res, err := never.Submit(ctx, Item{})
		require.NoError(t, err)
		require.False(t, res.OK)
		require.Contains(t, submissionFailures, res.ErrorMessage)
	}
}

func TestSimulatedSubmitterClampsRate(t *testing.T) {
	ctx := context.Background()

	res, err := NewSimulatedSubmitter(7.5, 0).Submit(ctx, Item{})
	require.NoError(t, err)
	require.True(t, res.OK)

	res, err = NewSimulatedSubmitter(-1, 0).Submit(ctx, Item{})
	require.NoError(t, err)
	require.False(t, res.OK)
}

func TestSimulatedSubmitterHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulatedSubmitter(1, time.Second).Submit(ctx, Item{})
	require.ErrorIs(t, err, context.Canceled)
}
