package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/trailfire/server/internal/lib/fire"
	"github.com/dpup/trailfire/server/internal/lib/report"
)

func TestPeriodicRefresh_RunOnce(t *testing.T) {
	tracker := testTracker(t)
	source := FireSourceFunc(func(context.Context) ([]fire.RawFireRecord, error) {
		return testFires(), nil
	})

	p := NewPeriodicRefreshService(tracker, source, testFiresConfig())
	require.NoError(t, p.RunOnce(context.Background()))
	assert.Equal(t, expectedReport, tracker.GetReport("CT"))
}

func TestPeriodicRefresh_FetchErrorKeepsCache(t *testing.T) {
	tracker := testTracker(t)
	ctx := context.Background()
	require.True(t, tracker.Refresh(ctx, "CT", testFires()))

	source := FireSourceFunc(func(context.Context) ([]fire.RawFireRecord, error) {
		return nil, errors.New("API error 503")
	})
	p := NewPeriodicRefreshService(tracker, source, testFiresConfig())

	err := p.RunOnce(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataFetch)
	assert.Contains(t, err.Error(), "API error 503")
	assert.Equal(t, expectedReport, tracker.GetReport("CT"))
}

func TestPeriodicRefresh_FetchErrorBeforeFirstReport(t *testing.T) {
	tracker := testTracker(t)
	source := FireSourceFunc(func(context.Context) ([]fire.RawFireRecord, error) {
		return nil, errors.New("timeout")
	})
	p := NewPeriodicRefreshService(tracker, source, testFiresConfig())

	assert.ErrorIs(t, p.RunOnce(context.Background()), ErrDataFetch)
	assert.Equal(t, report.ApologyText, tracker.GetReport("CT"))
}

func TestPeriodicRefresh_RecoversPanic(t *testing.T) {
	tracker := testTracker(t)
	source := FireSourceFunc(func(context.Context) ([]fire.RawFireRecord, error) {
		panic("boom")
	})
	p := NewPeriodicRefreshService(tracker, source, testFiresConfig())

	err := p.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, report.ApologyText, tracker.GetReport("CT"))
}

func TestPeriodicRefresh_FetchTimeout(t *testing.T) {
	tracker := testTracker(t)
	source := FireSourceFunc(func(ctx context.Context) ([]fire.RawFireRecord, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := testFiresConfig()
	cfg.Timeout = 10 * time.Millisecond
	p := NewPeriodicRefreshService(tracker, source, cfg)

	err := p.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrDataFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPeriodicRefresh_StartStop(t *testing.T) {
	tracker := testTracker(t)

	var calls atomic.Int32
	source := FireSourceFunc(func(context.Context) ([]fire.RawFireRecord, error) {
		// Fail first so the loop retries after the short delay
		if calls.Add(1) == 1 {
			return nil, errors.New("unavailable")
		}
		return testFires(), nil
	})

	p := NewPeriodicRefreshService(tracker, source, testFiresConfig())
	assert.False(t, p.IsRunning())

	require.NoError(t, p.Start(context.Background()))
	assert.True(t, p.IsRunning())
	require.NoError(t, p.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return tracker.GetReport("CT") == expectedReport
	}, 2*time.Second, 5*time.Millisecond)

	p.Stop()
	assert.False(t, p.IsRunning())
	assert.GreaterOrEqual(t, calls.Load(), int32(2))

	// Stopping twice is harmless
	p.Stop()
}

func TestPeriodicRefresh_StopsOnContextCancel(t *testing.T) {
	tracker := testTracker(t)
	source := FireSourceFunc(func(context.Context) ([]fire.RawFireRecord, error) {
		return nil, nil
	})
	p := NewPeriodicRefreshService(tracker, source, testFiresConfig())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx))
	cancel()

	select {
	case <-p.done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh loop did not exit after cancellation")
	}
}

func TestPeriodicRefresh_InvalidInterval(t *testing.T) {
	cfg := testFiresConfig()
	cfg.RefreshInterval = 0
	p := NewPeriodicRefreshService(testTracker(t), FireSourceFunc(func(context.Context) ([]fire.RawFireRecord, error) {
		return nil, nil
	}), cfg)

	assert.Error(t, p.Start(context.Background()))
	assert.False(t, p.IsRunning())
}

func TestPeriodicRefresh_StartWithoutLogger(t *testing.T) {
	tracker := testTracker(t)
	source := FireSourceFunc(func(context.Context) ([]fire.RawFireRecord, error) {
		return nil, errors.New("unavailable")
	})
	p := NewPeriodicRefreshService(tracker, source, testFiresConfig())

	assert.NotPanics(t, func() {
		require.NoError(t, p.Start(context.Background()))
		// The failed fetch is logged from the worker goroutine
		time.Sleep(20 * time.Millisecond)
		p.Stop()
	})
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, p.RunOnce(context.Background()), ErrDataFetch)
	})
}
