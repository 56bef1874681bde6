package health

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker defines a health check function
type Checker func(ctx context.Context) CheckResult

// BreakerReporter exposes circuit breaker states keyed by upstream name.
type BreakerReporter interface {
	Status() map[string]string
}

// Config holds health service configuration. Empty fields skip the
// matching check.
type Config struct {
	Version         string
	StaticDir       string
	AnthropicAPIKey string
	TTSAPIKey       string
	Breakers        BreakerReporter
}

// Service handles health checks
type Service struct {
	startTime time.Time
	version   string
	checkers  map[string]Checker
	log       *zap.Logger
	mu        sync.RWMutex
}

// NewService creates a health service with checks for audio storage, vendor
// credentials and circuit breakers.
func NewService(cfg *Config, log *zap.Logger) *Service {
	s := &Service{
		startTime: time.Now(),
		version:   cfg.Version,
		checkers:  make(map[string]Checker),
		log:       log,
	}

	if cfg.StaticDir != "" {
		s.RegisterChecker("static_storage", writableDirChecker(cfg.StaticDir))
	}
	s.RegisterChecker("anthropic", credentialChecker("anthropic", cfg.AnthropicAPIKey))
	s.RegisterChecker("tts", credentialChecker("tts", cfg.TTSAPIKey))
	if cfg.Breakers != nil {
		s.RegisterChecker("circuit_breakers", breakerChecker(cfg.Breakers))
	}

	return s
}

// RegisterChecker registers a custom health checker
func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Debug("Registered health checker", zap.String("name", name))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every checker concurrently. Degraded checks keep the service
// ready; a single unhealthy check does not.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for k, v := range s.checkers {
		checkers[k] = v
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}

	wg.Wait()

	overallStatus := StatusHealthy
	allReady := true

	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
			allReady = false
			s.log.Warn("Readiness check failed",
				zap.String("check", result.Name),
				zap.String("message", result.Message),
			)
		} else if result.Status == StatusDegraded && overallStatus != StatusUnhealthy {
			overallStatus = StatusDegraded
		}
	}

	return &ReadyResponse{
		Ready:     allReady,
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

// writableDirChecker creates and removes a probe file in dir.
func writableDirChecker(dir string) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		result := CheckResult{
			Name:      "static_storage",
			Timestamp: start,
		}

		f, err := os.CreateTemp(dir, ".health-*")
		if err == nil {
			name := f.Name()
			f.Close()
			err = os.Remove(name)
		}
		result.Duration = time.Since(start)

		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = fmt.Sprintf("not writable: %v", err)
		} else {
			result.Status = StatusHealthy
			result.Message = "writable"
		}
		return result
	}
}

// credentialChecker reports a missing key as degraded: calls still run and
// fail individually.
func credentialChecker(name, key string) Checker {
	return func(ctx context.Context) CheckResult {
		result := CheckResult{
			Name:      name,
			Timestamp: time.Now(),
		}
		if strings.TrimSpace(key) == "" {
			result.Status = StatusDegraded
			result.Message = "api key not configured"
		} else {
			result.Status = StatusHealthy
			result.Message = "api key configured"
		}
		return result
	}
}

func breakerChecker(breakers BreakerReporter) Checker {
	return func(ctx context.Context) CheckResult {
		result := CheckResult{
			Name:      "circuit_breakers",
			Status:    StatusHealthy,
			Timestamp: time.Now(),
		}

		states := breakers.Status()
		names := make([]string, 0, len(states))
		for name := range states {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			state := states[name]
			if state == "open" || state == "half-open" {
				result.Status = StatusDegraded
			}
			parts = append(parts, name+"="+state)
		}
		result.Message = strings.Join(parts, ", ")
		return result
	}
}
