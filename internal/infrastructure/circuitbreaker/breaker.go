package circuitbreaker

import (
	"errors"
	"sync"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/pkg/config"
)

// IsOpen reports whether err was produced by a breaker refusing the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// Breaker guards calls to one upstream vendor. A disabled Breaker runs every
// call directly.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New creates a breaker that trips once at least MinRequests calls were seen
// in the current interval and the failure ratio reaches FailureThreshold.
func New(name string, cfg config.CircuitBreakerConfig, log *zap.Logger) *Breaker {
	b := &Breaker{name: name}
	if !cfg.Enabled {
		return b
	}

	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 3
	}
	threshold := cfg.FailureThreshold
	if threshold <= 0 {
		threshold = 0.6
	}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return b
}

func (b *Breaker) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Execute runs fn through the breaker.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// State returns "closed", "half-open", "open" or "disabled".
func (b *Breaker) State() string {
	if b == nil || b.cb == nil {
		return "disabled"
	}
	return b.cb.State().String()
}

// Manager keeps one breaker per upstream so health checks can report them.
type Manager struct {
	cfg      config.CircuitBreakerConfig
	breakers map[string]*Breaker
	mu       sync.RWMutex
	log      *zap.Logger
}

func NewManager(cfg config.CircuitBreakerConfig, log *zap.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		breakers: make(map[string]*Breaker),
		log:      log,
	}
}

// Get returns the breaker for name, creating it if it doesn't exist
func (m *Manager) Get(name string) *Breaker {
	m.mu.RLock()
	b, exists := m.breakers[name]
	m.mu.RUnlock()

	if exists {
		return b
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if b, exists = m.breakers[name]; exists {
		return b
	}

	b = New(name, m.cfg, m.log)
	m.breakers[name] = b
	return b
}

// Status returns the state of every registered breaker keyed by name.
func (m *Manager) Status() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := make(map[string]string, len(m.breakers))
	for name, b := range m.breakers {
		status[name] = b.State()
	}
	return status
}
