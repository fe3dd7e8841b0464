package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/armsim/internal/arm"
)

// Live runs a driver against the wall clock. Each tick advances the
// trajectory time by the real time elapsed since the previous tick, so
// pausing freezes the wave where it is.
type Live struct {
	driver   *Driver
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	running bool
	paused  bool
	t       float64
	index   int
	last    time.Time

	samples chan Sample
	logs    chan string
}

func NewLive(d *Driver, interval time.Duration) *Live {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Live{
		driver:   d,
		interval: interval,
		now:      time.Now,
		samples:  make(chan Sample, 1),
		logs:     make(chan string, 10),
	}
}

// Samples delivers the most recent sample; stale samples are dropped.
func (l *Live) Samples() <-chan Sample { return l.samples }

func (l *Live) Logs() <-chan string { return l.logs }

func (l *Live) Interval() time.Duration { return l.interval }

func (l *Live) Driver() *Driver { return l.driver }

func (l *Live) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

func (l *Live) TogglePause() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = !l.paused
	l.last = l.now()
	if l.paused {
		l.log("paused at t=%.2fs", l.t)
	} else {
		l.log("resumed")
	}
	return l.paused
}

// Reset restarts the trajectory and refills the battery.
func (l *Live) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.t = 0
	l.index = 0
	l.last = l.now()
	l.driver.est.Reset()
	for _, m := range l.driver.metrics {
		m.Reset()
	}
	l.log("reset")
}

// SetParam changes an estimator parameter between ticks.
func (l *Live) SetParam(name string, value float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.driver.est.SetParam(name, value); err != nil {
		l.log("set %s: %v", name, err)
		return err
	}
	l.log("%s = %.2f", name, value)
	return nil
}

// Param reads an estimator parameter under the loop lock.
func (l *Live) Param(name string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.driver.est.GetParams()[name]
}

// State returns the estimator's latest state under the loop lock.
func (l *Live) State() arm.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.driver.est.State()
}

// Start blocks running the sample loop until ctx is done.
func (l *Live) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyLive
	}
	l.running = true
	l.last = l.now()
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	l.log("sampling every %v", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log("stopped")
			return ctx.Err()
		case <-ticker.C:
			if s, ok := l.Tick(); ok {
				l.send(s)
			}
		}
	}
}

// Tick advances the clock and evaluates one sample. It reports false while
// paused or when the sample was rejected.
func (l *Live) Tick() (Sample, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.paused {
		l.last = now
		return Sample{}, false
	}
	if !l.last.IsZero() {
		l.t += now.Sub(l.last).Seconds()
	}
	l.last = now

	s, err := l.driver.step(l.index, l.t)
	if err != nil {
		l.log("%v", err)
		return s, false
	}
	l.index++
	return s, true
}

func (l *Live) send(s Sample) {
	select {
	case l.samples <- s:
	default:
		select {
		case <-l.samples:
		default:
		}
		l.samples <- s
	}
}

func (l *Live) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", l.now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case l.logs <- msg:
	default:
	}
}
