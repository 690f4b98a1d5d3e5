package cleaner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	expired int
	err     error
	at      time.Time
}

func (f *fakeCounter) CountExpired(ctx context.Context, now time.Time) (int, error) {
	f.at = now
	return f.expired, f.err
}

type fakeFeed struct {
	invalidations int
}

func (f *fakeFeed) Invalidate(ctx context.Context) error {
	f.invalidations++
	return nil
}

func TestSweepPublishesCountAndInvalidatesFeed(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	counter := &fakeCounter{expired: 3}
	feed := &fakeFeed{}
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "expired"})

	expired, err := NewSweep(counter, feed, gauge, func() time.Time { return now }).Run()
	require.NoError(t, err)
	assert.Equal(t, 3, expired)
	assert.Equal(t, now, counter.at)
	assert.Equal(t, 1, feed.invalidations)
	assert.Equal(t, 3.0, testutil.ToFloat64(gauge))
}

func TestSweepStopsOnStoreError(t *testing.T) {
	counter := &fakeCounter{err: errors.New("connection refused")}
	feed := &fakeFeed{}
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "expired"})

	_, err := NewSweep(counter, feed, gauge, time.Now).Run()
	assert.Error(t, err)
	assert.Equal(t, 0, feed.invalidations)
}

func TestSchedule(t *testing.T) {
	c, err := Schedule(NewSweep(&fakeCounter{}, &fakeFeed{}, prometheus.NewGauge(prometheus.GaugeOpts{Name: "expired"}), time.Now))
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 1)
}
