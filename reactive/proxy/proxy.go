package proxy

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/kinetic-ui/kinetic/reactive"
)

// Handle is a deep reactive wrapper over a struct, map, or slice pointer.
// Since Go cannot intercept property access the way a JS Proxy can, Handle
// models spec §4.4's "Reactive"/"Readonly" pair as an explicit cell: Get
// and Set replace transparent field access, each going through a
// reactive.PropertyRef bound to one field/key/index so reads and writes
// still participate fully in the dependency graph.
type Handle struct {
	rt       *reactive.Runtime
	target   reflect.Value // the pointed-to struct/map/slice, addressable
	readonly bool
	shallow  bool

	mu    sync.Mutex
	refs  map[any]*reactive.PropertyRef[*Handle, any]
	cache map[any]*Handle // nested Handles, keyed by field/key/index
}

// registry tracks every live wrapping so Reactive/Readonly on an
// already-wrapped target returns the existing Handle instead of double
// wrapping it (spec §4.4's "calling reactive on a value already reactive
// returns that same proxy").
type registry struct {
	mu    sync.Mutex
	byPtr map[any]*Handle
}

var reactiveRegistry = &registry{byPtr: map[any]*Handle{}}
var readonlyRegistry = &registry{byPtr: map[any]*Handle{}}

var rawTargets sync.Map // target pointer -> true, see MarkRaw

func (r *registry) get(target any) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byPtr[target]
	return h, ok
}

func (r *registry) put(target any, h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPtr[target] = h
}

// MarkRaw excludes target from reactive wrapping: Reactive/Readonly
// called on it (or encountered while deep-wrapping a parent) return it
// unwrapped.
func MarkRaw(target any) {
	rawTargets.Store(target, true)
}

func isRaw(target any) bool {
	_, ok := rawTargets.Load(target)
	return ok
}

func wrap(rt *reactive.Runtime, target any, readonly, shallow bool) *Handle {
	if target == nil || isRaw(target) {
		return nil
	}
	reg := reactiveRegistry
	if readonly {
		reg = readonlyRegistry
	}
	if h, ok := reg.get(target); ok {
		return h
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic(fmt.Sprintf("proxy: Reactive/Readonly requires a non-nil pointer, got %T", target))
	}

	h := &Handle{
		rt:       rt,
		target:   v.Elem(),
		readonly: readonly,
		shallow:  shallow,
		refs:     map[any]*reactive.PropertyRef[*Handle, any]{},
		cache:    map[any]*Handle{},
	}
	reg.put(target, h)
	return h
}

// Reactive deep-wraps target (a pointer to a struct, map, or slice) so
// every field/key/element read inside a tracked effect creates a
// dependency, and every write triggers it. Nested struct/map/slice
// fields are wrapped lazily, on first access, with the same rules.
func Reactive(rt *reactive.Runtime, target any) *Handle {
	return wrap(rt, target, false, false)
}

// ShallowReactive wraps only target's own top-level fields/keys; nested
// containers are returned as-is, not recursively wrapped.
func ShallowReactive(rt *reactive.Runtime, target any) *Handle {
	return wrap(rt, target, false, true)
}

// Readonly deep-wraps target like Reactive, but Set panics: the handle
// is read-only from the caller's perspective, same underlying storage.
func Readonly(rt *reactive.Runtime, target any) *Handle {
	return wrap(rt, target, true, false)
}

// ShallowReadonly combines ShallowReactive's non-recursive wrapping with
// Readonly's write protection.
func ShallowReadonly(rt *reactive.Runtime, target any) *Handle {
	return wrap(rt, target, true, true)
}

func (h *Handle) propertyRef(key any) *reactive.PropertyRef[*Handle, any] {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ref, ok := h.refs[key]; ok {
		return ref
	}
	ref := h.rt.NewPropertyRef(h, key,
		func(handle *Handle, k any) any { return handle.rawGet(k) },
		func(handle *Handle, k any, v any) { handle.rawSet(k, v) },
	)
	h.refs[key] = ref
	return ref
}

func (h *Handle) fieldValue(key any) (reflect.Value, bool) {
	switch h.target.Kind() {
	case reflect.Struct:
		name, ok := key.(string)
		if !ok {
			return reflect.Value{}, false
		}
		fv := h.target.FieldByName(name)
		return fv, fv.IsValid()
	case reflect.Map:
		kv := reflect.ValueOf(key)
		mv := h.target.MapIndex(kv)
		return mv, mv.IsValid()
	case reflect.Slice, reflect.Array:
		idx, ok := key.(int)
		if !ok || idx < 0 || idx >= h.target.Len() {
			return reflect.Value{}, false
		}
		return h.target.Index(idx), true
	default:
		return reflect.Value{}, false
	}
}

func (h *Handle) rawGet(key any) any {
	fv, ok := h.fieldValue(key)
	if !ok {
		return nil
	}
	val := fv.Interface()
	if h.shallow {
		return val
	}
	return h.wrapNested(key, val)
}

// wrapNested lazily deep-wraps a nested struct/map/slice field the first
// time it's read, caching the child Handle by key so repeated reads
// return the same nested handle (preserving identity across reads,
// matching Reactive's top-level behavior).
func (h *Handle) wrapNested(key any, val any) any {
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
	default:
		return val
	}
	if isRaw(val) {
		return val
	}

	h.mu.Lock()
	child, ok := h.cache[key]
	h.mu.Unlock()
	if ok {
		return child
	}

	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	var nested *Handle
	if h.readonly {
		nested = Readonly(h.rt, ptr.Interface())
	} else {
		nested = Reactive(h.rt, ptr.Interface())
	}

	h.mu.Lock()
	h.cache[key] = nested
	h.mu.Unlock()
	return nested
}

func (h *Handle) rawSet(key any, v any) {
	switch h.target.Kind() {
	case reflect.Struct:
		name := key.(string)
		field := h.target.FieldByName(name)
		field.Set(reflect.ValueOf(v))
	case reflect.Map:
		h.target.SetMapIndex(reflect.ValueOf(key), reflect.ValueOf(v))
	case reflect.Slice, reflect.Array:
		idx := key.(int)
		h.target.Index(idx).Set(reflect.ValueOf(v))
	}

	h.mu.Lock()
	delete(h.cache, key)
	h.mu.Unlock()
}

// Get reads key (a struct field name, map key, or slice index) through a
// reactive.PropertyRef, recording a dependency if read inside a tracked
// effect.
func (h *Handle) Get(key any) any {
	return h.propertyRef(key).Get()
}

// Set writes key's value. Panics if h is read-only.
func (h *Handle) Set(key any, v any) {
	if h.readonly {
		panic("proxy: Set called on a Readonly handle")
	}
	h.propertyRef(key).Set(v)
}

// ToRaw returns the original, unwrapped value this handle wraps. The
// returned pointer is shared storage: mutating through it bypasses
// reactivity entirely, matching spec §4.4's "toRaw" escape hatch.
func (h *Handle) ToRaw() any {
	return h.target.Addr().Interface()
}
