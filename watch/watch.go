package watch

import (
	"reflect"

	"github.com/kinetic-ui/kinetic/reactive"
)

// Scheduler is the subset of scheduler.Scheduler that Watch needs: the
// ability to enqueue a deduplicated job into a named flush phase. Kept
// as a narrow interface here (rather than importing the scheduler
// package directly) so watch has no hard dependency on it — a bare
// Watch with no Scheduler attached simply runs synchronously, the way a
// reactive.Effect does.
type Scheduler interface {
	QueueJob(phase string, key any, fn func())
}

// Flush selects which scheduler phase (if any) a Watch's callback runs
// in, mirroring spec §4.6's flush timing options.
type Flush string

const (
	FlushSync Flush = "sync"
	FlushPre  Flush = "pre"
	FlushPost Flush = "post"
)

// Option configures a Watch/WatchEffect at construction time.
type Option struct {
	immediate bool
	once      bool
	deep      bool
	flush     Flush
	scheduler Scheduler
}

type OptionFunc func(*Option)

// Immediate runs the callback once immediately with the source's
// current value as both old and new, instead of waiting for the first
// change.
func Immediate() OptionFunc { return func(o *Option) { o.immediate = true } }

// Once disposes the watch after its first callback invocation.
func Once() OptionFunc { return func(o *Option) { o.once = true } }

// Deep marks the watch as relying on nested-field change detection.
// Values are always compared with reflect.DeepEqual, with or without
// Deep, so changes nested inside a struct or slice returned by source
// are detected either way.
func Deep() OptionFunc { return func(o *Option) { o.deep = true } }

// WithFlush selects the scheduler phase the callback runs in. Has no
// effect unless WithScheduler is also given.
func WithFlush(f Flush) OptionFunc { return func(o *Option) { o.flush = f } }

// WithScheduler attaches a scheduler so each re-run triggered by a
// change (re-reading source, which re-tracks its dependencies, and
// invoking the callback) is queued in the given flush phase instead of
// running synchronously.
func WithScheduler(s Scheduler) OptionFunc { return func(o *Option) { o.scheduler = s } }

func resolveOptions(opts []OptionFunc) Option {
	o := Option{flush: FlushPre}
	for _, f := range opts {
		f(&o)
	}
	return o
}

// Handle is a running watch; Stop disposes it.
type Handle struct {
	eff *reactive.Effect
}

// Stop permanently disposes the watch.
func (h *Handle) Stop() { h.eff.Dispose() }

// Watch tracks source (read inside a hidden reactive effect, so any
// signal source reads make the watch re-run on their change) and
// invokes cb with the new and old value whenever source's result
// changes. By default the first evaluation only establishes the
// baseline; pass Immediate() to also invoke cb on construction.
func Watch[T any](rt *reactive.Runtime, source func() T, cb func(newVal, oldVal T), opts ...OptionFunc) *Handle {
	o := resolveOptions(opts)

	var (
		old     T
		hasOld  bool
		stopped bool
	)
	var h *Handle

	// Go generics give no structural "!=" over an unconstrained T, so
	// both the shallow and Deep() paths compare via reflect.DeepEqual;
	// Deep() exists as an explicit opt-in marker for callers relying on
	// nested-field change detection, even though the implementation
	// doesn't currently need to treat it differently.
	equal := func(a, b T) bool {
		return reflect.DeepEqual(a, b)
	}

	invoke := func() {
		newVal := source()
		if !hasOld {
			hasOld = true
			old = newVal
			if o.immediate {
				cb(newVal, newVal)
				if o.once {
					stopped = true
				}
			}
			return
		}
		if equal(old, newVal) {
			return
		}
		prev := old
		old = newVal
		cb(newVal, prev)
		if o.once && !stopped {
			stopped = true
			h.Stop()
		}
	}

	eff := rt.NewEffect(func() {
		// Reading inside the effect body is what captures dependencies;
		// invoke() does the actual read, so tracking and value-diffing
		// always happen together.
		invoke()
	}, reactive.WithOnTrigger(func(e *reactive.Effect) {
		run := func() { e.Rerun() }
		if o.scheduler != nil && o.flush != FlushSync {
			o.scheduler.QueueJob(string(o.flush), e, run)
			return
		}
		run()
	}))

	h = &Handle{eff: eff}
	if stopped {
		h.Stop()
	}
	return h
}

// WatchEffect runs fn immediately and re-runs it whenever any signal it
// reads changes, with no explicit source/old-new split — the direct
// analogue of reactive.Runtime.NewEffect, exposed here so callers don't
// need to import both packages for the common "just re-run on change"
// case. fn receives an onCleanup registrar for teardown between runs.
func WatchEffect(rt *reactive.Runtime, fn func(onCleanup func(func())), opts ...OptionFunc) *Handle {
	o := resolveOptions(opts)

	run := func() {
		fn(func(cleanup func()) { rt.OnCleanup(cleanup) })
	}

	eff := rt.NewEffect(run, reactive.WithOnTrigger(func(e *reactive.Effect) {
		do := func() { e.Rerun() }
		if o.scheduler != nil && o.flush != FlushSync {
			o.scheduler.QueueJob(string(o.flush), e, do)
			return
		}
		do()
	}))

	return &Handle{eff: eff}
}
