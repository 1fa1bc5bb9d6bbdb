package circuit_breaker

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

type State uint8

const (
	Closed State = iota + 1
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

var ErrOpen = errors.New("circuit breaker is open")

type Settings struct {
	// Window is the number of most recent calls that are tracked.
	Window int `envconfig:"CB_WINDOW" default:"10"`
	// FailureRatio opens the breaker once reached within the window.
	FailureRatio float64 `envconfig:"CB_FAILURE_RATIO" default:"0.5"`
	// Cooldown is spent in Open before a trial call is let through.
	Cooldown time.Duration `envconfig:"CB_COOLDOWN" default:"30s"`
	// Recovery is the count of consecutive half-open successes needed to close.
	Recovery int `envconfig:"CB_RECOVERY" default:"3"`
}

type CircuitBreaker struct {
	mu       sync.Mutex
	settings Settings
	state    State
	openedAt time.Time
	window   []bool
	pos      int
	recovery int
	now      func() time.Time
}

func New(s Settings) *CircuitBreaker {
	if s.Window <= 0 {
		s.Window = 1
	}
	return &CircuitBreaker{
		settings: s,
		state:    Closed,
		window:   make([]bool, s.Window),
		now:      time.Now,
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Call runs fn unless the breaker is open, and records its outcome.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.now().Sub(cb.openedAt) < cb.settings.Cooldown {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.state = HalfOpen
		cb.recovery = 0
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.record(err != nil)
	return err
}

func (cb *CircuitBreaker) record(failed bool) {
	if cb.state == HalfOpen {
		if failed {
			cb.trip()
			return
		}
		cb.recovery++
		if cb.recovery >= cb.settings.Recovery {
			cb.reset()
		}
		return
	}

	cb.window[cb.pos] = failed
	cb.pos = (cb.pos + 1) % len(cb.window)

	fails := 0
	for _, f := range cb.window {
		if f {
			fails++
		}
	}
	if float64(fails)/float64(len(cb.window)) >= cb.settings.FailureRatio {
		cb.trip()
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = Open
	cb.recovery = 0
	cb.openedAt = cb.now()
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *CircuitBreaker) reset() {
	for i := range cb.window {
		cb.window[i] = false
	}
	cb.pos = 0
	cb.recovery = 0
	cb.state = Closed
}
