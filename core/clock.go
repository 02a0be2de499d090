package core

import (
	"time"

	"github.com/pkg/errors"
)

// ErrTimerUnavailable is returned when the host cannot schedule ticks.
// It is fatal to whatever needed the ticks; there are no retries.
var ErrTimerUnavailable = errors.New("timer unavailable")

type (
	// Clock provides wall-clock time and tick scheduling. Production code
	// uses NewClock; tests inject fakes.
	Clock interface {
		Now() time.Time
		NewTicker(d time.Duration) (Ticker, error)
	}

	Ticker interface {
		C() <-chan time.Time
		Stop()
	}
)

type realClock struct{}

func NewClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now().UTC() }

func (realClock) NewTicker(d time.Duration) (Ticker, error) {
	if d <= 0 {
		return nil, errors.Wrapf(ErrTimerUnavailable, "non-positive interval %s", d)
	}
	return realTicker{time.NewTicker(d)}, nil
}

type realTicker struct {
	t *time.Ticker
}

func (rt realTicker) C() <-chan time.Time { return rt.t.C }
func (rt realTicker) Stop()               { rt.t.Stop() }
