package reactive

import (
	"sync"
	"sync/atomic"
)

// EffectState is the lifecycle state of an Effect.
type EffectState int32

const (
	EffectActive EffectState = iota
	EffectPaused
	EffectDisposed
)

func (s EffectState) String() string {
	switch s {
	case EffectActive:
		return "active"
	case EffectPaused:
		return "paused"
	case EffectDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Effect is a tracked side effect: a function that re-runs whenever a
// signal it read during its last run changes. Bare effects (no scheduler
// attached) run synchronously and inline on trigger; layered components
// (Watch, widget rebuilds, the scheduler package) instead set onTrigger
// to enqueue the run elsewhere, decoupling reactive notification from
// execution timing (spec §4.7's scheduler sits entirely above this type).
type Effect struct {
	node effectNode

	rt *Runtime
	fn func()

	// onTrigger, if set, is invoked instead of re-running fn directly.
	// Used by higher layers to route triggers through a scheduler queue.
	onTrigger func(e *Effect)

	onTrack   func(kind string)
	onRunTrig func(kind string)

	owner *Scope

	state atomic.Int32

	cleanupMu sync.Mutex
	cleanups  []func()
}

// NewEffect creates and immediately runs an Effect, capturing whatever
// signals fn reads during that first run as its dependency set. The
// effect is added to the runtime's currently active scope, if any.
func (rt *Runtime) NewEffect(fn func(), opts ...EffectOption) *Effect {
	e := &Effect{rt: rt, fn: fn}
	e.node.id = rt.nextID()
	e.node.onNotify = func() { e.trigger("signal") }
	e.node.ownerEffect = e
	for _, o := range opts {
		o(e)
	}

	if sc := rt.ActiveScope(); e.owner == nil && sc != nil {
		sc.add(e)
	}

	e.run()
	return e
}

// EffectOption configures an Effect at construction time (functional-
// option pattern, matching the signal/effect constructors throughout
// this package).
type EffectOption func(*Effect)

// WithOwner explicitly assigns the effect's owning scope, overriding the
// runtime's currently active scope (or the lack of one).
func WithOwner(sc *Scope) EffectOption {
	return func(e *Effect) {
		if sc != nil {
			sc.add(e)
		}
	}
}

// WithOnTrigger installs a hook invoked instead of an inline re-run when
// the effect is triggered. Higher layers use this to route triggers
// through a scheduler.
func WithOnTrigger(fn func(e *Effect)) EffectOption {
	return func(e *Effect) { e.onTrigger = fn }
}

// WithDebugHooks installs onTrack/onRunTrigger callbacks invoked on every
// dependency read and every trigger, for debugging and devtools-style
// introspection (spec §4.2).
func WithDebugHooks(onTrack, onTrigger func(kind string)) EffectOption {
	return func(e *Effect) {
		e.onTrack = onTrack
		e.onRunTrig = onTrigger
	}
}

// run re-executes fn under dependency tracking, unless the effect has
// been disposed. Cleanup callbacks registered by the previous run (via
// OnCleanup) run first.
func (e *Effect) run() {
	if EffectState(e.state.Load()) == EffectDisposed {
		return
	}
	e.runCleanups()
	e.rt.trackEffectDeps(&e.node, e.fn)
}

func (e *Effect) runCleanups() {
	e.cleanupMu.Lock()
	fns := e.cleanups
	e.cleanups = nil
	e.cleanupMu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// OnCleanup registers fn to run before the currently running effect's
// next run, or when it is disposed, whichever comes first — the
// standard teardown hook for resources an effect body acquires (timers,
// subscriptions, goroutines). It is a no-op if no effect is currently
// running on this goroutine.
func (rt *Runtime) OnCleanup(fn func()) {
	node := rt.activeNode()
	if node == nil || node.ownerEffect == nil {
		return
	}
	e := node.ownerEffect
	e.cleanupMu.Lock()
	e.cleanups = append(e.cleanups, fn)
	e.cleanupMu.Unlock()
}

// notify is called by the dep graph when a source this effect reads has
// changed. It delegates to whatever onNotify handler the owner installed
// (Effect.trigger, or a Computed's internal dirty-marking effect).
func (n *effectNode) notify() {
	if n.onNotify != nil {
		n.onNotify()
	}
}

func (e *Effect) trigger(kind string) {
	switch EffectState(e.state.Load()) {
	case EffectDisposed, EffectPaused:
		return
	}
	if e.onTrigger != nil {
		e.onTrigger(e)
	} else {
		e.run()
	}
	if e.onRunTrig != nil {
		e.onRunTrig(kind)
	}
}

// Rerun forces the effect to re-execute and re-track its dependencies
// right now, bypassing onTrigger. Layers that route triggers through a
// scheduler (watch.Watch, widget rebuilds) call this from inside their
// own queued job instead of going through trigger again.
func (e *Effect) Rerun() {
	e.run()
}

// Pause suspends the effect: further triggers are ignored until Resume.
func (e *Effect) Pause() {
	e.state.CompareAndSwap(int32(EffectActive), int32(EffectPaused))
}

// Resume reactivates a paused effect and immediately re-runs it, so it
// catches up on any changes it missed while paused.
func (e *Effect) Resume() {
	if e.state.CompareAndSwap(int32(EffectPaused), int32(EffectActive)) {
		e.run()
	}
}

// State reports the effect's current lifecycle state.
func (e *Effect) State() EffectState {
	return EffectState(e.state.Load())
}

// Dispose permanently stops the effect and releases its dependency
// links. Idempotent.
func (e *Effect) Dispose() {
	if !e.state.CompareAndSwap(int32(EffectActive), int32(EffectDisposed)) &&
		!e.state.CompareAndSwap(int32(EffectPaused), int32(EffectDisposed)) {
		return
	}
	e.runCleanups()
	clearEffectLinks(&e.node)
	if e.owner != nil {
		e.owner.remove(e)
	}
}

func (e *Effect) dispose() { e.Dispose() }
func (e *Effect) pause()   { e.Pause() }
func (e *Effect) resume()  { e.Resume() }

func (e *Effect) scopeOwner() *Scope      { return e.owner }
func (e *Effect) setScopeOwner(sc *Scope) { e.owner = sc }
