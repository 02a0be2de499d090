package study

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/studato/studato/core"
)

// countdown wraps a ticker in a cancellable delivery loop. Acquisition is
// scoped: every newCountdown must be paired with a cancel (or the onTick
// callback returning false) on every exit path.
type countdown struct {
	ticker   core.Ticker
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newCountdown(clock core.Clock, interval time.Duration) (*countdown, error) {
	ticker, err := clock.NewTicker(interval)
	if err != nil {
		return nil, errors.Wrap(err, "acquiring ticker")
	}
	return &countdown{
		ticker: ticker,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// run delivers ticks to onTick until cancelled or until onTick returns false.
func (cd *countdown) run(onTick func(now time.Time) bool) {
	go func() {
		defer close(cd.done)
		defer cd.ticker.Stop()
		for {
			select {
			case <-cd.stop:
				return
			case now := <-cd.ticker.C():
				select { // a cancel racing a pending tick wins
				case <-cd.stop:
					return
				default:
				}
				if !onTick(now) {
					return
				}
			}
		}
	}()
}

// cancel stops tick delivery. No onTick callback fires after it returns.
// Must not be called while holding a lock that onTick acquires.
func (cd *countdown) cancel() {
	cd.stopOnce.Do(func() { close(cd.stop) })
	<-cd.done
}
