package proxy

import (
	"sync"

	"github.com/kinetic-ui/kinetic/reactive"
)

// ReactiveMap is a reactive Go map: Get/Set/Delete on individual keys
// track/trigger per-key, while Keys/Len track a single "structure"
// signal that changes whenever a key is added or removed (so ranging
// over a ReactiveMap inside an effect re-runs it on membership changes,
// not just value changes), mirroring vango/pkg/vango/signal_map.go's
// split between per-entry and whole-collection reactivity.
type ReactiveMap[K comparable, V any] struct {
	rt        *reactive.Runtime
	mu        sync.Mutex
	data      map[K]V
	refs      map[K]*reactive.PropertyRef[*ReactiveMap[K, V], K]
	structure *reactive.ValueRef[int] // bumped on add/delete, for Keys/Len tracking
}

// NewReactiveMap creates an empty ReactiveMap.
func NewReactiveMap[K comparable, V any](rt *reactive.Runtime) *ReactiveMap[K, V] {
	return &ReactiveMap[K, V]{
		rt:        rt,
		data:      map[K]V{},
		refs:      map[K]*reactive.PropertyRef[*ReactiveMap[K, V], K]{},
		structure: rt.NewValueRef(0),
	}
}

func (m *ReactiveMap[K, V]) ref(key K) *reactive.PropertyRef[*ReactiveMap[K, V], K] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.refs[key]; ok {
		return r
	}
	r := m.rt.NewPropertyRef[*ReactiveMap[K, V], K](m, key,
		func(mm *ReactiveMap[K, V], k K) any {
			mm.mu.Lock()
			defer mm.mu.Unlock()
			v, ok := mm.data[k]
			if !ok {
				return nil
			}
			return v
		},
		func(mm *ReactiveMap[K, V], k K, v any) {
			mm.mu.Lock()
			mm.data[k] = v.(V)
			mm.mu.Unlock()
		},
	)
	m.refs[key] = r
	return r
}

// Get reads key's value, tracking a dependency on that key specifically.
func (m *ReactiveMap[K, V]) Get(key K) V {
	v := m.ref(key).Get()
	if v == nil {
		var zero V
		return zero
	}
	return v.(V)
}

// Set writes key's value, existing or new. New keys also bump the
// structure signal so Keys()/Len() observers re-run.
func (m *ReactiveMap[K, V]) Set(key K, value V) {
	m.mu.Lock()
	_, existed := m.data[key]
	m.mu.Unlock()

	m.ref(key).Set(value)

	if !existed {
		m.structure.Update(func(n int) int { return n + 1 })
	}
}

// Delete removes key, if present, bumping the structure signal.
func (m *ReactiveMap[K, V]) Delete(key K) {
	m.mu.Lock()
	_, existed := m.data[key]
	if existed {
		delete(m.data, key)
	}
	m.mu.Unlock()

	if existed {
		m.structure.Update(func(n int) int { return n - 1 })
	}
}

// Has reports whether key is present, tracking the per-key dependency.
func (m *ReactiveMap[K, V]) Has(key K) bool {
	m.mu.Lock()
	_, ok := m.data[key]
	m.mu.Unlock()
	m.ref(key).Get()
	return ok
}

// Len returns the number of entries, tracking the structure signal.
func (m *ReactiveMap[K, V]) Len() int {
	m.structure.Get()
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Keys returns a snapshot of the map's keys, tracking the structure
// signal (so additions/removals, but not value changes, re-run an
// effect that only calls Keys).
func (m *ReactiveMap[K, V]) Keys() []K {
	m.structure.Get()
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]K, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// ReactiveSet is a reactive set built the same way as ReactiveMap: Add
// and Delete bump a structure signal; Has tracks per-member.
type ReactiveSet[T comparable] struct {
	m *ReactiveMap[T, struct{}]
}

// NewReactiveSet creates an empty ReactiveSet.
func NewReactiveSet[T comparable](rt *reactive.Runtime) *ReactiveSet[T] {
	return &ReactiveSet[T]{m: NewReactiveMap[T, struct{}](rt)}
}

// Add inserts v, bumping the structure signal if it wasn't already
// present.
func (s *ReactiveSet[T]) Add(v T) {
	s.m.Set(v, struct{}{})
}

// Delete removes v, if present.
func (s *ReactiveSet[T]) Delete(v T) {
	s.m.Delete(v)
}

// Has reports whether v is a member, tracking the per-member dependency.
func (s *ReactiveSet[T]) Has(v T) bool {
	return s.m.Has(v)
}

// Len returns the number of members, tracking the structure signal.
func (s *ReactiveSet[T]) Len() int {
	return s.m.Len()
}

// Values returns a snapshot of the set's members, tracking the
// structure signal.
func (s *ReactiveSet[T]) Values() []T {
	return s.m.Keys()
}
