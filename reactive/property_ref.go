package reactive

// PropertyRef is a signal bound to one property of an external
// container — a struct field, a map entry, a slice element — addressed
// by accessor functions rather than owning the storage itself (spec
// §4.3's "PropertyRef", the non-owning counterpart to ValueRef). Get/Set
// go through the accessors, so PropertyRef can sit in front of state
// that something else already manages the storage for, while still
// participating fully in the dep graph.
type PropertyRef[O any, K comparable] struct {
	node signalNode

	rt     *Runtime
	owner  O
	key    K
	get    func(O, K) any
	set    func(O, K, any)
	equals func(a, b any) bool

	onTrack   func(kind string)
	onTrigger func(kind string)
}

// NewPropertyRef creates a PropertyRef over owner's key, using get/set to
// reach the backing storage.
func (rt *Runtime) NewPropertyRef[O any, K comparable](
	owner O, key K,
	get func(O, K) any, set func(O, K, any),
	opts ...SignalOption[any],
) *PropertyRef[O, K] {
	c := resolveConfig(opts)
	p := &PropertyRef[O, K]{
		rt: rt, owner: owner, key: key, get: get, set: set,
		equals: c.equals, onTrack: c.onTrack, onTrigger: c.onTrigger,
	}
	p.node.id = rt.nextID()
	return p
}

func (p *PropertyRef[O, K]) signalID() uint64 { return p.node.id }

// Get reads the current value through the getter, recording a
// dependency on the active effect if one is tracking.
func (p *PropertyRef[O, K]) Get() any {
	p.rt.trackSignal(&p.node, "get", p.onTrack)
	return p.get(p.owner, p.key)
}

// Peek reads without recording a dependency.
func (p *PropertyRef[O, K]) Peek() any {
	return p.get(p.owner, p.key)
}

// Set writes through the setter, skipping the write and the trigger if
// the new value equals the current one.
func (p *PropertyRef[O, K]) Set(v any) {
	cur := p.get(p.owner, p.key)
	if p.equals(cur, v) {
		return
	}
	p.set(p.owner, p.key, v)
	p.rt.triggerSignal(&p.node, "set", p.onTrigger)
}

// Dispose clears every effect link pointing at this property ref. The
// backing container is untouched.
func (p *PropertyRef[O, K]) Dispose() {
	clearSignalLinks(&p.node)
}
