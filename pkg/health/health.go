// Package health reports whether a long-running simulation is still sound:
// states finite, energy bounded, steps advancing. Checks are served as
// HTTP liveness and readiness endpoints.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"
)

// Check is one named condition of a running sandbox. Check returns nil
// while the condition holds.
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

// Result is the outcome of one check
type Result struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// Report is the body served by both endpoints. Results keep the order
// the checks were registered in.
type Report struct {
	Status  string   `json:"status"`
	Results []Result `json:"checks"`
}

// Healthy reports whether every result passed
func (r Report) Healthy() bool {
	return r.Status == "healthy"
}

type entry struct {
	check    Check
	critical bool
}

// Checker runs registered checks. Critical checks decide liveness: a
// world that has diverged will never recover, so it should be restarted.
// Readiness runs every check.
type Checker struct {
	mu      sync.RWMutex
	entries []entry
	timeout time.Duration
}

// NewChecker creates a checker whose handlers give up after timeout.
// A zero timeout means five seconds.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{timeout: timeout}
}

// AddCheck registers c for readiness only. A check with the same name
// is replaced in place.
func (c *Checker) AddCheck(check Check) {
	c.add(entry{check: check})
}

// AddCriticalCheck registers c for both liveness and readiness
func (c *Checker) AddCriticalCheck(check Check) {
	c.add(entry{check: check, critical: true})
}

func (c *Checker) add(e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		if c.entries[i].check.Name() == e.check.Name() {
			c.entries[i] = e
			return
		}
	}
	c.entries = append(c.entries, e)
}

// RemoveCheck drops the check called name, if any
func (c *Checker) RemoveCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		if c.entries[i].check.Name() == name {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Liveness runs the critical checks
func (c *Checker) Liveness(ctx context.Context) Report {
	return c.run(ctx, true)
}

// Readiness runs every check
func (c *Checker) Readiness(ctx context.Context) Report {
	return c.run(ctx, false)
}

func (c *Checker) run(ctx context.Context, criticalOnly bool) Report {
	c.mu.RLock()
	entries := append([]entry(nil), c.entries...)
	c.mu.RUnlock()

	report := Report{Status: "healthy", Results: []Result{}}
	for _, e := range entries {
		if criticalOnly && !e.critical {
			continue
		}
		res := Result{Name: e.check.Name(), Healthy: true}
		if err := e.check.Check(ctx); err != nil {
			res.Healthy = false
			res.Message = err.Error()
			report.Status = "unhealthy"
		}
		report.Results = append(report.Results, res)
	}
	return report
}

// LivenessHandler serves Liveness as JSON: 200 while every critical
// check passes, 503 otherwise.
func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, c.Liveness)
}

// ReadinessHandler serves Readiness as JSON: 200 while every check
// passes, 503 otherwise.
func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, c.Readiness)
}

func (c *Checker) serve(w http.ResponseWriter, r *http.Request, run func(context.Context) Report) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	report := run(ctx)
	w.Header().Set("Content-Type", "application/json")
	if report.Healthy() {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(report)
}

// HeapInUse returns the bytes held by in-use heap spans
func HeapInUse() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapInuse
}

// MemoryHealthCheck fails once the sandbox heap grows past a limit. Long
// headless runs with many bodies keep contact and impulse buffers alive,
// so unbounded growth points at a leak.
type MemoryHealthCheck struct {
	limitMB uint64
	usage   func() uint64
}

// NewMemoryHealthCheck checks usage against limitMB megabytes. A nil usage
// reads HeapInUse; a zero limit disables the check.
func NewMemoryHealthCheck(limitMB uint64, usage func() uint64) *MemoryHealthCheck {
	if usage == nil {
		usage = HeapInUse
	}
	return &MemoryHealthCheck{limitMB: limitMB, usage: usage}
}

// Name returns "memory"
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check compares the current heap against the limit
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	if m.limitMB == 0 {
		return nil
	}
	usedMB := m.usage() >> 20
	if usedMB > m.limitMB {
		return fmt.Errorf("heap in use %dMB exceeds limit %dMB", usedMB, m.limitMB)
	}
	return nil
}
