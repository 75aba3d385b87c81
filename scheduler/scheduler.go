package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Phase names a flush queue. Jobs run pre, then main, then post, and a
// job queued by a job running in an earlier phase is still picked up by
// the same flush (phases drain in a loop until all three are empty).
type Phase string

const (
	Pre  Phase = "pre"
	Main Phase = "main"
	Post Phase = "post"
)

var phaseOrder = [...]Phase{Pre, Main, Post}

// Scheduler batches reactive triggers into three ordered flush phases.
// QueueJob deduplicates by key within a phase: queuing the same key
// again before the next flush replaces the pending job rather than
// running it twice, matching spec §4.7's "a job already queued for this
// tick is not queued again" invariant (grounded on
// vango/pkg/vango/batch.go's dedup-by-listener-ID drain).
type Scheduler struct {
	mu   sync.Mutex
	jobs map[Phase]map[any]func()

	flushing bool

	budget  *Budget
	log     *slog.Logger
	tracer  Tracer
	metrics *SchedulerMetrics

	onIdle []func()
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithLogger overrides the scheduler's structured logger, which
// defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithBudget attaches a per-flush effect-run budget guard.
func WithBudget(b *Budget) Option {
	return func(s *Scheduler) { s.budget = b }
}

// WithTracer attaches an OpenTelemetry-backed tracer for flush spans.
func WithTracer(t Tracer) Option {
	return func(s *Scheduler) { s.tracer = t }
}

// New creates an empty Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		jobs: map[Phase]map[any]func(){
			Pre:  {},
			Main: {},
			Post: {},
		},
		log: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// QueueJob enqueues fn under key in the given phase, replacing any job
// already queued under the same key in that phase. If no flush is
// currently running, QueueJob runs one synchronously (FlushSync) before
// it returns; it does not defer the flush to a later tick. If a flush
// is already in progress, the job is picked up by that flush's phase
// loop before it returns.
func (s *Scheduler) QueueJob(phase string, key any, fn func()) {
	p := Phase(phase)
	s.mu.Lock()
	bucket, ok := s.jobs[p]
	if !ok {
		bucket = map[any]func(){}
		s.jobs[p] = bucket
	}
	bucket[key] = fn
	alreadyFlushing := s.flushing
	s.mu.Unlock()

	// If a flush is already walking the phase loop (including this very
	// call stack, when a running job queues another job), it will pick
	// this job up on its next iteration; otherwise start one now. This
	// runs synchronously rather than deferred to a goroutine/microtask,
	// so callers get deterministic ordering without an event loop to
	// rely on.
	if !alreadyFlushing {
		s.FlushSync(context.Background())
	}
}

// pending reports whether any phase has queued jobs.
func (s *Scheduler) pending() bool {
	for _, p := range phaseOrder {
		if len(s.jobs[p]) > 0 {
			return true
		}
	}
	return false
}

// drainPhase runs and clears every job currently queued in phase,
// returning how many ran. Jobs queued by a running job into the SAME
// phase are picked up by the next iteration of FlushSync's outer loop,
// not by this call.
func (s *Scheduler) drainPhase(p Phase) int {
	s.mu.Lock()
	bucket := s.jobs[p]
	s.jobs[p] = map[any]func(){}
	s.mu.Unlock()

	n := 0
	for _, fn := range bucket {
		if s.budget != nil && !s.budget.Allow() {
			s.log.Warn("scheduler: effect budget exceeded, dropping remaining jobs", "phase", p)
			if s.metrics != nil {
				s.metrics.budgetExceeded.Inc()
			}
			break
		}
		fn()
		n++
	}
	if s.metrics != nil && n > 0 {
		s.metrics.jobsTotal.WithLabelValues(string(p)).Add(float64(n))
	}
	return n
}

// FlushSync drains all three phases to a fixed point: pre, then main,
// then post, repeating the cycle as long as any phase still has work
// (a post job that queues a new pre job is picked up by the next
// iteration). Safe to call reentrantly; nested calls become no-ops
// because the outer call's loop will observe the newly queued jobs.
func (s *Scheduler) FlushSync(ctx context.Context) {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	s.mu.Unlock()

	if s.budget != nil {
		s.budget.Reset()
	}

	ctx, span := s.startFlushSpan(ctx)
	defer span.End()
	start := time.Now()

	ran := 0
	for s.pending() {
		for _, p := range phaseOrder {
			ran += s.drainPhase(p)
		}
	}
	span.SetAttribute("kinetic.scheduler.jobs_run", ran)
	if s.metrics != nil {
		s.metrics.flushDuration.Observe(time.Since(start).Seconds())
	}

	s.mu.Lock()
	s.flushing = false
	hooks := s.onIdle
	s.onIdle = nil
	s.mu.Unlock()

	for _, h := range hooks {
		h()
	}
}

// NextTick registers fn to run after the current (or next) flush
// completes and the scheduler goes idle. If no flush is pending when
// NextTick is called, fn runs as soon as one is triggered and
// completes; if nothing is ever queued, fn never runs (matching
// NextTick's "after the next DOM update" contract — there is no update
// without a queued job).
func (s *Scheduler) NextTick(fn func()) {
	s.mu.Lock()
	s.onIdle = append(s.onIdle, fn)
	s.mu.Unlock()
}
