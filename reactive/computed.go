package reactive

import "sync/atomic"

// ErrCircularComputed is raised (via panic, which propagates out of the
// outermost Get) when a
// Computed's compute function reads itself, directly or through another
// Computed, during its own evaluation.
type ErrCircularComputed struct {
	Computed uint64
}

func (e *ErrCircularComputed) Error() string {
	return "reactive: circular dependency detected while evaluating computed"
}

// Computed is a derived, cached, lazily (re)evaluated signal: its value
// is recomputed from fn only when read after being marked dirty, not on
// every source write (spec §4.3's "Computed"/"Memo" — grounded on
// vango/pkg/vango/memo.go's Memo[T], including its `computing`
// re-entrancy guard against self-referential computeds).
type Computed[T any] struct {
	node signalNode // identity in the dep graph, as a source for others

	watcher effectNode // tracks fn's own sources; marks dirty on their change

	rt     *Runtime
	fn     func() T
	equals func(a, b T) bool

	value T
	dirty atomic.Bool

	computing atomic.Bool

	onTrack   func(kind string)
	onTrigger func(kind string)
}

// NewComputed creates a Computed wrapping fn. fn is not run until the
// first Get.
func (rt *Runtime) NewComputed[T any](fn func() T, opts ...SignalOption[T]) *Computed[T] {
	c := resolveConfig(opts)
	cp := &Computed[T]{rt: rt, fn: fn, equals: c.equals, onTrack: c.onTrack, onTrigger: c.onTrigger}
	cp.node.id = rt.nextID()
	cp.watcher.id = rt.nextID()
	cp.watcher.onNotify = cp.markDirty
	cp.dirty.Store(true)
	return cp
}

func (cp *Computed[T]) signalID() uint64 { return cp.node.id }

func (cp *Computed[T]) markDirty() {
	if cp.dirty.CompareAndSwap(false, true) {
		cp.rt.triggerSignal(&cp.node, "set", cp.onTrigger)
	}
}

// Get returns the current value, recomputing it first if a source has
// changed since the last evaluation. Panics with *ErrCircularComputed if
// evaluating fn requires re-entering this same Computed's Get.
func (cp *Computed[T]) Get() T {
	cp.rt.trackSignal(&cp.node, "get", cp.onTrack)
	if cp.dirty.Load() {
		cp.evaluate()
	}
	return cp.value
}

// Peek reads the cached value without recording a dependency and
// without forcing re-evaluation of a dirty computed's sources as a
// read, though it still recomputes if dirty (the cached value must
// never be stale, only the dependency edge is skipped).
func (cp *Computed[T]) Peek() T {
	if cp.dirty.Load() {
		cp.evaluate()
	}
	return cp.value
}

func (cp *Computed[T]) evaluate() {
	if !cp.computing.CompareAndSwap(false, true) {
		panic(&ErrCircularComputed{Computed: cp.node.id})
	}
	defer cp.computing.Store(false)

	var next T
	cp.rt.trackEffectDeps(&cp.watcher, func() {
		next = cp.fn()
	})

	cp.dirty.Store(false)
	cp.value = next
}

// Dispose releases the computed's subscriber links and its own
// subscription to its sources.
func (cp *Computed[T]) Dispose() {
	clearSignalLinks(&cp.node)
	clearEffectLinks(&cp.watcher)
}
