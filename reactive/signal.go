package reactive

// Signal is the common interface every reactive primitive in this
// package satisfies: something with an identity in the dep graph.
// ValueRef, PropertyRef and Computed all implement it.
type Signal interface {
	signalID() uint64
}

// ValueRef is a single mutable reactive value (spec §4.3's "Signal").
// Reading Get inside a tracked effect links the two; writing Set, if the
// new value differs under equals, stores it and triggers every linked
// effect.
type ValueRef[T any] struct {
	node signalNode

	rt     *Runtime
	value  T
	equals func(a, b T) bool

	onTrack   func(kind string)
	onTrigger func(kind string)
}

// SignalOption configures a ValueRef (or PropertyRef/Computed, which
// share the option type) at construction time.
type SignalOption[T any] func(*signalConfig[T])

type signalConfig[T any] struct {
	equals    func(a, b T) bool
	onTrack   func(kind string)
	onTrigger func(kind string)
}

// WithEquals overrides the default SameValue-style equality check used
// to decide whether a write actually changed the value.
func WithEquals[T any](eq func(a, b T) bool) SignalOption[T] {
	return func(c *signalConfig[T]) { c.equals = eq }
}

// WithSignalDebugHooks installs onTrack/onTrigger callbacks, invoked
// whenever this signal is read by a tracked effect or triggers one.
func WithSignalDebugHooks[T any](onTrack, onTrigger func(kind string)) SignalOption[T] {
	return func(c *signalConfig[T]) {
		c.onTrack = onTrack
		c.onTrigger = onTrigger
	}
}

func resolveConfig[T any](opts []SignalOption[T]) signalConfig[T] {
	c := signalConfig[T]{equals: defaultEquals[T]}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// NewValueRef creates a ValueRef holding initial.
func (rt *Runtime) NewValueRef[T any](initial T, opts ...SignalOption[T]) *ValueRef[T] {
	c := resolveConfig(opts)
	r := &ValueRef[T]{rt: rt, value: initial, equals: c.equals, onTrack: c.onTrack, onTrigger: c.onTrigger}
	r.node.id = rt.nextID()
	return r
}

func (r *ValueRef[T]) signalID() uint64 { return r.node.id }

// Get reads the current value, recording a dependency on the active
// effect if one is tracking.
func (r *ValueRef[T]) Get() T {
	r.rt.trackSignal(&r.node, "get", r.onTrack)
	return r.value
}

// Peek reads the current value without recording a dependency,
// regardless of whether an effect is actively tracking.
func (r *ValueRef[T]) Peek() T {
	return r.value
}

// Set assigns v. If v equals the current value under the configured
// equality, this is a no-op: no version bump, no trigger.
func (r *ValueRef[T]) Set(v T) {
	if r.equals(r.value, v) {
		return
	}
	r.value = v
	r.rt.triggerSignal(&r.node, "set", r.onTrigger)
}

// Update applies fn to the current value and stores the result, subject
// to the same equality check as Set.
func (r *ValueRef[T]) Update(fn func(T) T) {
	r.Set(fn(r.value))
}

// Dispose clears every effect link pointing at this signal. The
// ValueRef itself remains usable afterward (reads/writes still work;
// they simply start from an empty subscriber list again).
func (r *ValueRef[T]) Dispose() {
	clearSignalLinks(&r.node)
}

// isSignal reports whether v is one of this package's reactive
// primitives (spec §4.3's isSignal/isRef predicate).
func isSignal(v any) bool {
	_, ok := v.(Signal)
	return ok
}

// unref returns v.Get() if v is a Signal, or v itself otherwise — the Go
// analogue of spec §4.3's "unref" convenience, useful for APIs that
// accept either a plain value or a signal.
func unref[T any](v any) T {
	if s, ok := v.(interface{ Get() T }); ok {
		return s.Get()
	}
	return v.(T)
}
