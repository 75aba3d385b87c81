package scheduler

import "sync/atomic"

// Budget caps how many jobs a single FlushSync call will run before it
// starts refusing further work, a backstop against runaway effect
// storms (an effect whose own run re-triggers itself, directly or
// through a cycle of other effects) — grounded on
// vango/pkg/vango/storm_budget.go's per-tick effect-run cap, adapted
// from a global singleton into an explicit value a Scheduler is
// configured with (spec §9, no ambient global budget).
type Budget struct {
	max  int64
	used atomic.Int64
}

// NewBudget creates a Budget allowing up to max job runs per flush.
func NewBudget(max int) *Budget {
	return &Budget{max: int64(max)}
}

// Allow reports whether another job may run in the current flush,
// incrementing the used counter if so.
func (b *Budget) Allow() bool {
	if b.used.Add(1) > b.max {
		return false
	}
	return true
}

// Reset zeroes the used counter; called by Scheduler at the start of
// each FlushSync.
func (b *Budget) Reset() {
	b.used.Store(0)
}
