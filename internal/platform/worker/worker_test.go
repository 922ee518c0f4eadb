package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestLoop_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32

	err := Loop(ctx, Config{
		Name:     "test",
		Interval: time.Millisecond,
		Process: func(context.Context) error {
			if calls.Add(1) == 3 {
				cancel()
			}

			return nil
		},
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(3), calls.Load())
}

func TestLoop_KeepsRunningAfterFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32

	err := Loop(ctx, Config{
		Name:     "test",
		Interval: time.Millisecond,
		Process: func(context.Context) error {
			switch calls.Add(1) {
			case 1:
				return errBoom
			case 2:
				panic("second run")
			default:
				cancel()
				return nil
			}
		},
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRunOnce_PanicBecomesError(t *testing.T) {
	err := runOnce(context.Background(), func(context.Context) error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	assert.NoError(t, runOnce(context.Background(), nil))
	assert.ErrorIs(t, runOnce(context.Background(), func(context.Context) error { return errBoom }), errBoom)
}

func TestWait(t *testing.T) {
	require.NoError(t, Wait(context.Background(), 0))
	require.NoError(t, Wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, Wait(ctx, time.Hour), context.Canceled)
}

func TestWatch_FiresOnAdvance(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	base := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	versions := []time.Time{base, base, base.Add(time.Second), base.Add(time.Second), base.Add(time.Second)}

	var (
		poll    int
		changes int
		fail    = true
	)

	err := Watch(ctx, WatchConfig{
		Name:     "dataset",
		Interval: time.Millisecond,
		Version: func(context.Context) (time.Time, error) {
			v := versions[min(poll, len(versions)-1)]
			poll++

			if poll == len(versions)+1 {
				cancel()
			}

			return v, nil
		},
		OnChange: func(context.Context) error {
			if fail {
				fail = false
				return errBoom
			}

			changes++

			return nil
		},
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, changes)
}
