package watch

import (
	"testing"

	"github.com/kinetic-ui/kinetic/reactive"
)

func TestWatchSkipsFirstRunByDefault(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)

	calls := 0
	Watch(rt, func() int { return count.Get() }, func(newVal, oldVal int) {
		calls++
	})
	if calls != 0 {
		t.Fatalf("expected no call before first change, got %d", calls)
	}

	count.Set(1)
	if calls != 1 {
		t.Errorf("expected 1 call after change, got %d", calls)
	}
}

func TestWatchImmediateRunsOnConstruction(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(5)

	var gotNew, gotOld int
	calls := 0
	Watch(rt, func() int { return count.Get() }, func(n, o int) {
		gotNew, gotOld = n, o
		calls++
	}, Immediate())

	if calls != 1 || gotNew != 5 || gotOld != 5 {
		t.Fatalf("expected immediate call with new=old=5, got calls=%d new=%d old=%d", calls, gotNew, gotOld)
	}
}

func TestWatchReportsOldAndNewValue(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(1)

	var gotNew, gotOld int
	Watch(rt, func() int { return count.Get() }, func(n, o int) {
		gotNew, gotOld = n, o
	})

	count.Set(9)
	if gotNew != 9 || gotOld != 1 {
		t.Errorf("expected new=9 old=1, got new=%d old=%d", gotNew, gotOld)
	}
}

func TestWatchOnceStopsAfterFirstCall(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)

	calls := 0
	Watch(rt, func() int { return count.Get() }, func(n, o int) {
		calls++
	}, Once())

	count.Set(1)
	count.Set(2)
	if calls != 1 {
		t.Errorf("expected exactly 1 call with Once(), got %d", calls)
	}
}

func TestWatchStopPreventsFurtherCalls(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)

	calls := 0
	h := Watch(rt, func() int { return count.Get() }, func(n, o int) {
		calls++
	})

	h.Stop()
	count.Set(1)
	if calls != 0 {
		t.Errorf("expected no calls after Stop, got %d", calls)
	}
}

type fakeScheduler struct {
	jobs []func()
}

func (s *fakeScheduler) QueueJob(phase string, key any, fn func()) {
	s.jobs = append(s.jobs, fn)
}

func TestWatchWithSchedulerDefersCallback(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)
	sched := &fakeScheduler{}

	calls := 0
	Watch(rt, func() int { return count.Get() }, func(n, o int) {
		calls++
	}, WithScheduler(sched))

	count.Set(1)
	if calls != 0 {
		t.Fatalf("expected callback deferred to scheduler, got %d immediate calls", calls)
	}

	for _, job := range sched.jobs {
		job()
	}
	if calls != 1 {
		t.Errorf("expected 1 call after running queued job, got %d", calls)
	}
}
