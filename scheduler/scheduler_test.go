package scheduler

import (
	"context"
	"testing"
)

func TestJobsDedupeByKeyWithinPhase(t *testing.T) {
	s := New()
	runs := 0
	s.mu.Lock()
	s.jobs[Main]["key"] = func() { runs++ }
	s.jobs[Main]["key"] = func() { runs++ } // replaces, not appends
	s.mu.Unlock()

	s.FlushSync(context.Background())
	if runs != 1 {
		t.Errorf("expected 1 run for deduped key, got %d", runs)
	}
}

func TestFlushOrdersPreMainPost(t *testing.T) {
	s := New()
	var order []string

	s.mu.Lock()
	s.jobs[Post]["p"] = func() { order = append(order, "post") }
	s.jobs[Pre]["p"] = func() { order = append(order, "pre") }
	s.jobs[Main]["p"] = func() { order = append(order, "main") }
	s.mu.Unlock()

	s.FlushSync(context.Background())

	if len(order) != 3 || order[0] != "pre" || order[1] != "main" || order[2] != "post" {
		t.Errorf("expected [pre main post], got %v", order)
	}
}

func TestFlushPicksUpJobsQueuedDuringFlush(t *testing.T) {
	s := New()
	secondRan := false

	s.QueueJob(string(Pre), "first", func() {
		s.QueueJob(string(Post), "second", func() { secondRan = true })
	})

	if !secondRan {
		t.Error("expected a job queued mid-flush to run before FlushSync returns")
	}
}

func TestBudgetStopsFlushEarly(t *testing.T) {
	b := NewBudget(1)
	s := New(WithBudget(b))

	ran := 0
	s.mu.Lock()
	s.jobs[Main]["a"] = func() { ran++ }
	s.jobs[Main]["b"] = func() { ran++ }
	s.mu.Unlock()

	s.FlushSync(context.Background())
	if ran != 1 {
		t.Errorf("expected budget to cap at 1 run, got %d", ran)
	}
}

func TestNextTickFiresAfterFlushGoesIdle(t *testing.T) {
	s := New()
	fired := false
	s.NextTick(func() { fired = true })

	s.QueueJob(string(Main), "x", func() {})

	if !fired {
		t.Error("expected NextTick callback to fire once the scheduler goes idle")
	}
}
