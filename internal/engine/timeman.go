package engine

import (
	"sync/atomic"
	"time"
)

// Limits describes a `go` command's search budget.
type Limits struct {
	Depth    int
	MoveTime time.Duration // 0 means no time budget (depth-only or infinite)
}

// DefaultDepth is used when `go` names no depth.
const DefaultDepth = 9

// InfiniteDepth stands in for "search until stopped".
const InfiniteDepth = 1000

// NewLimits returns the default fixed-depth budget.
func NewLimits() Limits {
	return Limits{Depth: DefaultDepth}
}

// TimeManager tracks a running search's clock and cooperative-stop
// flag. stopped is an atomic.Bool: the UCI dispatcher sets it from
// `stop` or `quit` without taking any lock, and the worker polls it
// between root moves and at matching points inside the tree.
type TimeManager struct {
	limits  Limits
	start   time.Time
	stopped atomic.Bool
}

// NewTimeManager starts the clock for a new search under limits.
func NewTimeManager(limits Limits) *TimeManager {
	return &TimeManager{limits: limits, start: time.Now()}
}

// Stop requests the worker to unwind at its next poll point.
func (tm *TimeManager) Stop() {
	tm.stopped.Store(true)
}

// Stopped reports whether Stop has been called.
func (tm *TimeManager) Stopped() bool {
	return tm.stopped.Load()
}

// Elapsed returns time since the search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.start)
}

// ShouldStop reports whether the worker should unwind now: either the
// stopped flag is set, or a move-time budget has elapsed. Depth limits
// are enforced by the iterative-deepening loop itself, not here.
func (tm *TimeManager) ShouldStop() bool {
	if tm.stopped.Load() {
		return true
	}
	if tm.limits.MoveTime > 0 && tm.Elapsed() >= tm.limits.MoveTime {
		return true
	}
	return false
}
