package reactive

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Runtime is the tracking context the rest of the reactive system runs
// against. It owns nothing but the active-effect/active-scope bookkeeping
// (kept per goroutine, mirroring vango/pkg/vango/tracking.go's
// goroutine-keyed TrackingContext); the graph itself lives on the signals
// and effects a Runtime touches. Constructing a Runtime is cheap, so
// tests and isolated hosts can each run their own copy instead of
// sharing one process-wide singleton (spec §9, "Global mutable state").
type Runtime struct {
	goroutines sync.Map // goroutine id (uint64) -> *goroutineState

	idCounter uint64
}

type goroutineState struct {
	activeNode  *effectNode
	activeScope *Scope
	suspended   bool
}

// New creates a Runtime with an empty graph.
func New() *Runtime {
	return &Runtime{}
}

func (rt *Runtime) nextID() uint64 {
	return atomic.AddUint64(&rt.idCounter, 1)
}

// goroutineID extracts the calling goroutine's numeric id from its stack
// trace. It is an implementation detail (not exposed) used purely to key
// the per-goroutine tracking state; callers never see the value.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := 10; i < n; i++ { // skip the "goroutine " prefix
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func (rt *Runtime) state() *goroutineState {
	gid := goroutineID()
	if s, ok := rt.goroutines.Load(gid); ok {
		return s.(*goroutineState)
	}
	s := &goroutineState{}
	actual, _ := rt.goroutines.LoadOrStore(gid, s)
	return actual.(*goroutineState)
}

// activeNode returns the dep-graph node of whatever is currently being
// tracked on this goroutine (an Effect's node or a Computed's internal
// watcher node), or nil.
func (rt *Runtime) activeNode() *effectNode {
	return rt.state().activeNode
}

func (rt *Runtime) setActiveNode(n *effectNode) *effectNode {
	s := rt.state()
	old := s.activeNode
	s.activeNode = n
	return old
}

// ActiveScope returns the scope currently installed on this goroutine, or
// nil if none is active.
func (rt *Runtime) ActiveScope() *Scope {
	return rt.state().activeScope
}

func (rt *Runtime) setActiveScope(sc *Scope) *Scope {
	s := rt.state()
	old := s.activeScope
	s.activeScope = sc
	return old
}

// WithScope installs scope as the active scope for the duration of fn,
// restoring the previous one on return (even on panic). Effects created
// inside fn are owned by scope unless they explicitly choose otherwise.
func (rt *Runtime) WithScope(sc *Scope, fn func()) {
	old := rt.setActiveScope(sc)
	defer rt.setActiveScope(old)
	fn()
}

// trackEffectDeps runs fn with node installed as the active tracked
// node, bumps node's depVersion first, and sweeps stale links once fn
// returns: any link in node's inbound list whose version didn't get
// bumped to the new depVersion during this run is destroyed. The
// previous active node is restored even if fn panics.
//
// This is the single entry point that makes a tracked node's dependency
// set exactly the signals it read on its most recent run (spec §3 "Dep
// link" invariant). Both Effect and Computed's internal watcher route
// through this.
func (rt *Runtime) trackEffectDeps(node *effectNode, fn func()) {
	node.mu.Lock()
	node.depVersion++
	version := node.depVersion
	node.mu.Unlock()

	old := rt.setActiveNode(node)
	defer func() {
		rt.setActiveNode(old)
		sweepStaleLinks(node, version)
	}()

	fn()
}

// sweepStaleLinks destroys every link on e whose version is behind
// current — i.e. every signal e depended on before this run but did not
// read during it.
func sweepStaleLinks(e *effectNode, current uint64) {
	e.mu.Lock()
	var stale []*depLink
	for l := e.headSignal; l != nil; l = l.nextInEff {
		if l.version != current {
			stale = append(stale, l)
		}
	}
	e.mu.Unlock()

	for _, l := range stale {
		destroyDepLink(l)
	}
}

// trackSignal records a read of sig by the currently active effect, if
// tracking is not suspended and an effect is active. kind/meta feed the
// optional debug hooks (spec §4.2, "in debug, also invoke onTrack").
func (rt *Runtime) trackSignal(sig *signalNode, kind string, onTrack func(kind string)) {
	s := rt.state()
	if s.suspended {
		return
	}
	node := s.activeNode
	if node == nil {
		return
	}
	linkSignalToEffect(node, sig)
	if onTrack != nil {
		onTrack(kind)
	}
}

// triggerSignal notifies every effect linked to sig. The handling policy
// per effect is entirely up to that effect's onTrigger hook (set by
// whatever layered a scheduler on top — Watch, widget rebuilds, or a bare
// NewEffect that just re-runs synchronously). onTrigger feeds the
// optional debug hook.
func (rt *Runtime) triggerSignal(sig *signalNode, kind string, onTrigger func(kind string)) {
	for _, eff := range iterateLinkedEffects(sig) {
		eff.notify()
	}
	if onTrigger != nil {
		onTrigger(kind)
	}
}

// withSuspendedTracking runs fn with tracking disabled on this goroutine:
// signal reads inside fn do not create dependencies. Used by Untracked
// blocks.
func (rt *Runtime) withSuspendedTracking(fn func()) {
	s := rt.state()
	old := s.suspended
	s.suspended = true
	defer func() { s.suspended = old }()
	fn()
}

// Untracked runs fn without recording any signal reads as dependencies
// of the currently active effect.
func (rt *Runtime) Untracked(fn func()) {
	rt.withSuspendedTracking(fn)
}
