package cleaner

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

// ExpiredCounter counts active listings whose expiry has passed.
type ExpiredCounter interface {
	CountExpired(ctx context.Context, now time.Time) (int, error)
}

type FeedInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Sweep drops expired listings out of the cached feed and records how many there are.
// Expired listings stay in the store so their owners can still see them.
type Sweep struct {
	counter ExpiredCounter
	feed    FeedInvalidator
	gauge   prometheus.Gauge
	now     func() time.Time
}

func NewSweep(counter ExpiredCounter, feed FeedInvalidator, gauge prometheus.Gauge, now func() time.Time) *Sweep {
	return &Sweep{
		counter: counter,
		feed:    feed,
		gauge:   gauge,
		now:     now,
	}
}

func (sweep *Sweep) Run() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	expired, err := sweep.counter.CountExpired(ctx, sweep.now())
	if err != nil {
		log.Printf("ERROR|cleaner.Sweep:%s", err.Error())
		return 0, err
	}
	sweep.gauge.Set(float64(expired))
	if err := sweep.feed.Invalidate(ctx); err != nil {
		log.Printf("ERROR|cleaner.Sweep:%s", err.Error())
		return expired, err
	}
	log.Printf("cleaner.Sweep: %d expired listings", expired)
	return expired, nil
}

// Schedule runs the sweep every day at midnight. The returned cron must be stopped by the caller.
func Schedule(sweep *Sweep) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc("0 0 * * *", func() {
		sweep.Run()
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
