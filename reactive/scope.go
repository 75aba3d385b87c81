package reactive

import (
	"errors"
	"sync"
)

// ErrScopeReassigned is the panic value add raises when a disposable
// already owned by one scope is added to a different one. Spec §4.5's
// ownership invariant ("effect in at most one scope's child list") makes
// moving an effect or nested scope between owners a programming error,
// not a silently-tolerated no-op.
var ErrScopeReassigned = errors.New("reactive: disposable already owned by another scope")

// disposable is anything a Scope can own and cascade lifecycle calls to:
// effects and nested scopes both satisfy it. scopeOwner/setScopeOwner
// let Scope.add enforce the single-owner invariant generically across
// both concrete types.
type disposable interface {
	dispose()
	pause()
	resume()
	scopeOwner() *Scope
	setScopeOwner(*Scope)
}

// ScopeState is the lifecycle state of a Scope.
type ScopeState int32

const (
	ScopeActive ScopeState = iota
	ScopePaused
	ScopeDisposed
)

// Scope is an ownership node in the effect-scope hierarchy: it tracks
// the effects and child scopes created while it was active, and cascades
// Pause/Resume/Dispose to all of them, children first (Pause and Dispose
// in reverse creation order, Resume in creation order) — the same shape as vango/pkg/vango/owner.go's Owner,
// extended with the pause/resume states Owner does not model.
type Scope struct {
	mu       sync.Mutex
	state    ScopeState
	parent   *Scope
	children []disposable

	onDispose []func()
	onPause   []func()
	onResume  []func()

	errHandler func(error)

	values map[any]any
}

// NewScope creates a scope. If parent is non-nil, the new scope is added
// as one of parent's children and is disposed/paused/resumed whenever
// parent is.
func NewScope(parent *Scope) *Scope {
	sc := &Scope{parent: parent}
	if parent != nil {
		parent.add(sc)
	}
	return sc
}

// RunInScope executes fn with sc installed as rt's active scope, so effects and
// child scopes created inside fn are owned by sc.
func (rt *Runtime) RunInScope(sc *Scope, fn func()) {
	rt.WithScope(sc, fn)
}

func (sc *Scope) add(d disposable) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.state == ScopeDisposed {
		return
	}
	if owner := d.scopeOwner(); owner != nil && owner != sc {
		panic(ErrScopeReassigned)
	}
	d.setScopeOwner(sc)
	sc.children = append(sc.children, d)
}

func (sc *Scope) scopeOwner() *Scope     { return sc.parent }
func (sc *Scope) setScopeOwner(p *Scope) { sc.parent = p }

func (sc *Scope) remove(d disposable) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for i, c := range sc.children {
		if c == d {
			sc.children = append(sc.children[:i], sc.children[i+1:]...)
			return
		}
	}
}

// OnDispose registers a cleanup callback run when the scope is disposed,
// after all child effects/scopes have been torn down.
func (sc *Scope) OnDispose(fn func()) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.onDispose = append(sc.onDispose, fn)
}

// OnPause registers a callback run when the scope is paused.
func (sc *Scope) OnPause(fn func()) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.onPause = append(sc.onPause, fn)
}

// OnResume registers a callback run when the scope is resumed.
func (sc *Scope) OnResume(fn func()) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.onResume = append(sc.onResume, fn)
}

// HandleError installs an error handler for errors raised by effects
// owned (directly or transitively) by this scope. If unset, errors
// propagate to the parent scope's handler; if no ancestor has one, the
// error is dropped (app.App.HandleError installs one on the app's root
// scope).
func (sc *Scope) HandleError(fn func(error)) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.errHandler = fn
}

// ReportError routes err to the nearest ancestor scope (including sc)
// with a HandleError handler installed, the same chain-walk Dispose's
// descendants use internally — exported so callers outside this
// package (widget.Instance's build-error bubbling) can report into it
// once no widget-level OnError handler claims the error.
func (sc *Scope) ReportError(err error) {
	sc.reportError(err)
}

// reportError walks up the scope chain looking for a handler.
func (sc *Scope) reportError(err error) {
	for s := sc; s != nil; s = s.parent {
		s.mu.Lock()
		h := s.errHandler
		s.mu.Unlock()
		if h != nil {
			h(err)
			return
		}
	}
}

// SetValue attaches a context value to this scope, visible to this
// scope and any descendant scope's GetValue (spec §4.9's provide/inject,
// grounded on vango/pkg/vango/context.go's Owner.SetValue/GetValue
// parent-chain walk).
func (sc *Scope) SetValue(key, value any) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.values == nil {
		sc.values = make(map[any]any)
	}
	sc.values[key] = value
}

// GetValue looks up key on this scope, then walks up through parents
// until found. Returns nil, false if no ancestor has it.
func (sc *Scope) GetValue(key any) (any, bool) {
	for s := sc; s != nil; s = s.parent {
		s.mu.Lock()
		v, ok := s.values[key]
		s.mu.Unlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// State reports the scope's current lifecycle state.
func (sc *Scope) State() ScopeState {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state
}

// Pause pauses the scope and all of its children, recursively.
func (sc *Scope) Pause() {
	sc.mu.Lock()
	if sc.state != ScopeActive {
		sc.mu.Unlock()
		return
	}
	sc.state = ScopePaused
	children := append([]disposable(nil), sc.children...)
	hooks := append([]func(){}, sc.onPause...)
	sc.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].pause()
	}
	for _, h := range hooks {
		h()
	}
}

// Resume reactivates a paused scope and all of its children, recursively,
// in original creation order.
func (sc *Scope) Resume() {
	sc.mu.Lock()
	if sc.state != ScopePaused {
		sc.mu.Unlock()
		return
	}
	sc.state = ScopeActive
	children := append([]disposable(nil), sc.children...)
	hooks := append([]func(){}, sc.onResume...)
	sc.mu.Unlock()

	for _, c := range children {
		c.resume()
	}
	for _, h := range hooks {
		h()
	}
}

// Dispose permanently tears down the scope: every child effect and
// nested scope is disposed in reverse creation order, then the scope's
// own onDispose callbacks run, then it detaches from its parent.
// Idempotent.
func (sc *Scope) Dispose() {
	sc.mu.Lock()
	if sc.state == ScopeDisposed {
		sc.mu.Unlock()
		return
	}
	sc.state = ScopeDisposed
	children := sc.children
	sc.children = nil
	hooks := sc.onDispose
	sc.onDispose = nil
	parent := sc.parent
	sc.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].dispose()
	}
	for _, h := range hooks {
		h()
	}
	if parent != nil {
		parent.remove(sc)
	}
}

func (sc *Scope) dispose() { sc.Dispose() }
func (sc *Scope) pause()   { sc.Pause() }
func (sc *Scope) resume()  { sc.Resume() }
