package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when a checker name is registered twice.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by components readiness depends on: the quote
// store and, when enabled, the posts poller.
type HealthChecker interface {
	// Name keys the check in the readiness report.
	Name() string

	// Check returns nil when the component can serve. It must honor ctx.
	Check(ctx context.Context) error
}

// HealthRegistry aggregates health checks from multiple components.
type HealthRegistry interface {
	// Register adds a check whose failure makes the service unhealthy.
	Register(checker HealthChecker) error

	// RegisterOptional adds a check whose failure only degrades the service.
	RegisterOptional(checker HealthChecker) error

	// CheckAll runs every check concurrently under ctx.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus represents the overall health state.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"  // only optional checks failed
	HealthStatusUnhealthy HealthStatus = "unhealthy" // a critical check failed
)

// HealthResult is the readiness report.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of one check. Message holds the failure.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Optional bool          `json:"optional,omitempty"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

type registration struct {
	checker  HealthChecker
	optional bool
}

// DefaultHealthRegistry is safe for concurrent registration and checking.
type DefaultHealthRegistry struct {
	mu     sync.RWMutex
	checks []registration
}

func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{}
}

func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	return r.add(registration{checker: checker})
}

func (r *DefaultHealthRegistry) RegisterOptional(checker HealthChecker) error {
	return r.add(registration{checker: checker, optional: true})
}

func (r *DefaultHealthRegistry) add(reg registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := reg.checker.Name()
	for _, existing := range r.checks {
		if existing.checker.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
		}
	}

	r.checks = append(r.checks, reg)

	return nil
}

// CheckAll runs the checks concurrently and folds them into one status: any
// critical failure is unhealthy, optional failures alone are degraded.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checks := append([]registration(nil), r.checks...)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checks))

	var wg sync.WaitGroup
	for i, reg := range checks {
		wg.Go(func() {
			results[i] = run(ctx, reg)
		})
	}
	wg.Wait()

	report := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checks)),
		Timestamp: time.Now(),
	}

	for i, reg := range checks {
		res := results[i]
		report.Checks[reg.checker.Name()] = res

		if res.Status == HealthStatusHealthy {
			continue
		}

		if !reg.optional {
			report.Status = HealthStatusUnhealthy
		} else if report.Status == HealthStatusHealthy {
			report.Status = HealthStatusDegraded
		}
	}

	return report
}

func run(ctx context.Context, reg registration) *CheckResult {
	start := time.Now()
	err := reg.checker.Check(ctx)

	res := &CheckResult{Status: HealthStatusHealthy, Optional: reg.optional, Duration: time.Since(start)}
	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}
