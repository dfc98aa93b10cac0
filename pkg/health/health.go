// Package health reports the operational state of the logging facility,
// most importantly whether the remote log store is connected or the facility is
// running in degraded (local-only) mode. An embedding service can expose the
// handler to make degraded mode visible to operators.
//
// Example usage:
//
//	h := health.New()
//	h.RegisterChecker("remote_store", health.RemoteStore(logger))
//	http.HandleFunc("/health", h.Handler())
package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Checker performs a health check on one component.
// Returns nil if the component is healthy, or an error describing the problem.
// The context may include a timeout, which the implementation must respect.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc is a function adapter that implements the Checker interface.
type CheckerFunc func(ctx context.Context) error

// Check implements the Checker interface by calling the function.
func (f CheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// Health aggregates named component checkers.
type Health struct {
	mu           sync.RWMutex
	checkers     map[string]Checker
	checkTimeout time.Duration
}

// Result is the aggregated health check result.
type Result struct {
	Status string                 `json:"status"` // "healthy" or "degraded"
	Checks map[string]CheckResult `json:"checks"`
}

// CheckResult is the result of a single component check.
type CheckResult struct {
	Status  string `json:"status"`            // "ok" or "error"
	Message string `json:"message,omitempty"` // error message if status is "error"
}

// New creates a Health instance. The default per-check timeout is 5 seconds.
func New() *Health {
	return &Health{
		checkers:     make(map[string]Checker),
		checkTimeout: 5 * time.Second,
	}
}

// RegisterChecker registers a checker for a named component.
// A checker registered under an existing name replaces the previous one.
func (h *Health) RegisterChecker(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// Check executes all registered checkers and aggregates the results.
// A facility with a failing component is "degraded", never fatal: local sinks
// keep working regardless of remote store state.
func (h *Health) Check(ctx context.Context) *Result {
	h.mu.RLock()
	checkers := make(map[string]Checker, len(h.checkers))
	for name, checker := range h.checkers {
		checkers[name] = checker
	}
	h.mu.RUnlock()

	result := &Result{
		Status: "healthy",
		Checks: make(map[string]CheckResult, len(checkers)),
	}

	for name, checker := range checkers {
		checkCtx := ctx
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			checkCtx, cancel = context.WithTimeout(ctx, h.checkTimeout)
			defer cancel()
		}

		if err := checker.Check(checkCtx); err != nil {
			result.Checks[name] = CheckResult{Status: "error", Message: err.Error()}
			result.Status = "degraded"
		} else {
			result.Checks[name] = CheckResult{Status: "ok"}
		}
	}

	return result
}

// CheckComponent executes a single component's check by name.
func (h *Health) CheckComponent(ctx context.Context, name string) error {
	h.mu.RLock()
	checker, exists := h.checkers[name]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("health checker %q not registered", name)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.checkTimeout)
		defer cancel()
	}

	return checker.Check(ctx)
}

// IsHealthy returns true if all registered checkers are currently healthy.
func (h *Health) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx).Status == "healthy"
}
