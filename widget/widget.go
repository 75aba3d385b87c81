package widget

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/kinetic-ui/kinetic/reactive"
	"github.com/kinetic-ui/kinetic/vnode"
)

// Widget is anything Kinetic can build into a VNode tree: a class
// widget implements Build directly; FunctionWidget adapts a plain
// render function into the same interface.
type Widget interface {
	Build(ctx *BuildContext) *vnode.VNode
}

// FunctionWidget adapts a render function into a Widget, the function-
// component counterpart to a class Widget (spec §4.9's two widget
// kinds; NewVNode gives a FunctionWidget the vnode.StatelessWidget shape
// and a class Widget the vnode.StatefulWidget shape).
type FunctionWidget struct {
	Name   string
	Render func(ctx *BuildContext) *vnode.VNode
}

func (f *FunctionWidget) Build(ctx *BuildContext) *vnode.VNode {
	return f.Render(ctx)
}

// NewVNode describes w as a child for a widget's Build to return: a
// widget-shaped vnode.VNode carrying w itself (not yet a live
// Instance) in its Widget field. The renderer discovers this shape
// while materializing the tree (renderer.createSubtree/diffWidget) and
// instantiates/mounts/reconciles/unmounts a real Instance for it, so
// nested widgets compose the same way elements nest inside elements.
func NewVNode(w Widget, key any) *vnode.VNode {
	shape := vnode.StatefulWidget
	name := fmt.Sprintf("%T", w)
	if fw, ok := w.(*FunctionWidget); ok {
		shape = vnode.StatelessWidget
		if fw.Name != "" {
			name = fw.Name
		}
	}
	return &vnode.VNode{Shape: shape, Tag: name, Key: key, Widget: w}
}

// InstanceState is an Instance's lifecycle position.
type InstanceState int32

const (
	InstanceCreated InstanceState = iota
	InstanceMounted
	InstanceUnmounted
)

// ErrorInfo describes where a caught widget error originated, passed
// to an OnError handler alongside the error itself — spec's error
// taxonomy names several sources ("build", "render", "update",
// "hook:<name>"); only the synchronous Build() panic path ("build") is
// produced today.
type ErrorInfo struct {
	Source   string
	Instance *Instance
}

// Instance is one live occurrence of a Widget in the tree: its own
// reactive.Scope (so its effects and descendant widgets' scopes are
// disposed together), hook-slot storage for function widgets, and the
// lifecycle hook lists registered during its most recent Build.
type Instance struct {
	rt     *reactive.Runtime
	scope  *reactive.Scope
	widget Widget
	log    *slog.Logger

	state atomic.Int32

	hooks hookSlots

	parent   *Instance
	children []*Instance

	onBeforeMount   []func()
	onMount         []func()
	onUpdate        []func()
	onBeforeUnmount []func()
	onUnmount       []func()
	onError         []func(err error, info ErrorInfo) *vnode.VNode

	vnode *vnode.VNode

	buildEffect *reactive.Effect

	onRebuildExternal func(next *vnode.VNode)

	metrics   *Metrics
	scheduler Scheduler
}

// Scheduler is the subset of scheduler.Scheduler a widget Instance
// needs: enqueueing a rebuild into a named flush phase instead of
// running it inline on trigger. Declared narrowly here, as watch does,
// so widget carries no hard dependency on the scheduler package.
type Scheduler interface {
	QueueJob(phase string, key any, fn func())
}

// WithScheduler routes the instance's rebuilds through s's "main" phase
// instead of running them synchronously and inline on every dependency
// change.
func WithScheduler(s Scheduler) InstanceOption {
	return func(i *Instance) { i.scheduler = s }
}

// NewInstance creates an Instance for widget, owned by a new scope
// under parent (nil for a root widget). It does not build yet; call
// Mount to run the first build and transition to InstanceMounted.
func NewInstance(rt *reactive.Runtime, widget Widget, parent *reactive.Scope, opts ...InstanceOption) *Instance {
	inst := &Instance{
		rt:     rt,
		scope:  reactive.NewScope(parent),
		widget: widget,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(inst)
	}
	return inst
}

// InstanceOption configures an Instance at construction time.
type InstanceOption func(*Instance)

// WithLogger overrides the instance's structured logger.
func WithLogger(l *slog.Logger) InstanceOption {
	return func(i *Instance) { i.log = l }
}

// WithMetrics attaches Prometheus instrumentation to the instance's
// mount/update/unmount transitions.
func WithMetrics(m *Metrics) InstanceOption {
	return func(i *Instance) { i.metrics = m }
}

// WithParentInstance records parent as the widget instance whose Build
// output produced this one — used for OnError bubbling (a build error
// with no handler on this instance walks up to parent's) and for
// Unmount's before/after hook ordering across nested widgets. The
// renderer sets this when it materializes a widget-shaped vnode found
// nested inside another widget's output.
func WithParentInstance(parent *Instance) InstanceOption {
	return func(i *Instance) {
		i.parent = parent
		if parent != nil {
			parent.children = append(parent.children, i)
		}
	}
}

// OnRebuild installs a callback invoked whenever the widget rebuilds
// (its onTrigger hook); higher layers (the renderer) use this to patch
// the host tree with the new VNode.
func OnRebuild(fn func(next *vnode.VNode)) InstanceOption {
	return func(i *Instance) {
		i.onRebuildExternal = fn
	}
}

// Scope returns the instance's owning scope.
func (i *Instance) Scope() *reactive.Scope { return i.scope }

// Parent returns the widget instance this one was nested under, or nil
// for a root instance.
func (i *Instance) Parent() *Instance { return i.parent }

// Detach removes i from its parent's child list without unmounting it,
// used by the renderer when a nested widget is torn down individually
// (e.g. a keyed list item removed) so the parent's child list does not
// keep a stale entry.
func (i *Instance) Detach() {
	if i.parent == nil {
		return
	}
	siblings := i.parent.children
	for idx, c := range siblings {
		if c == i {
			i.parent.children = append(siblings[:idx], siblings[idx+1:]...)
			break
		}
	}
	i.parent = nil
}

// Widget returns the Widget value this instance currently builds.
func (i *Instance) Widget() Widget { return i.widget }

// State reports the instance's current lifecycle state.
func (i *Instance) State() InstanceState { return InstanceState(i.state.Load()) }

// VNode returns the tree produced by the instance's most recent build.
func (i *Instance) VNode() *vnode.VNode { return i.vnode }

// goroutineID mirrors reactive's private goroutine-id extraction; kept
// independent so widget has no internal coupling to reactive beyond
// the public Runtime/Scope/Effect surface.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

var activeInstances sync.Map // goroutine id -> *Instance

func currentInstance() *Instance {
	if v, ok := activeInstances.Load(goroutineID()); ok {
		return v.(*Instance)
	}
	return nil
}

func setCurrentInstance(i *Instance) *Instance {
	gid := goroutineID()
	old, _ := activeInstances.Load(gid)
	activeInstances.Store(gid, i)
	if old == nil {
		return nil
	}
	return old.(*Instance)
}

// MountBuild runs the widget's first build inside a tracked effect
// owned by the instance's scope, and fires OnBeforeMount callbacks —
// but does not fire OnMount or transition to InstanceMounted. Mounting
// a widget tree that nests other widgets requires those nested
// instances to finish mounting (MountBuild then FinishMount) before
// this one's FinishMount runs, so that onMounted fires child-before-
// parent while onBeforeMount fires parent-before-child (spec's mount-
// order contract); the renderer drives that ordering by calling
// MountBuild, recursively materializing the returned tree, then
// FinishMount. Every subsequent signal change one of the build's reads
// depends on re-runs Build and diffs against the previous VNode (wired
// by the renderer via OnRebuild).
func (i *Instance) MountBuild() *vnode.VNode {
	effOpts := []reactive.EffectOption{reactive.WithOwner(i.scope)}
	if i.scheduler != nil {
		effOpts = append(effOpts, reactive.WithOnTrigger(func(e *reactive.Effect) {
			i.scheduler.QueueJob("main", i, e.Rerun)
		}))
	}
	i.rt.RunInScope(i.scope, func() {
		i.buildEffect = i.rt.NewEffect(i.runBuild, effOpts...)
	})
	return i.vnode
}

// FinishMount fires OnMount callbacks and transitions the instance to
// InstanceMounted. Call once this instance's own MountBuild has run
// and every widget nested in its output has completed its own
// MountBuild/FinishMount pair.
func (i *Instance) FinishMount() {
	i.state.Store(int32(InstanceMounted))
	for _, h := range i.onMount {
		h()
	}
	if i.metrics != nil {
		i.metrics.mounts.Inc()
	}
}

// Mount is MountBuild immediately followed by FinishMount, for an
// instance with no nested widget descendants to wait on (a leaf
// widget, or test code constructing an Instance directly). The
// renderer uses the split form so a widget tree's mount order is
// depth-first across nested widgets.
func (i *Instance) Mount() *vnode.VNode {
	next := i.MountBuild()
	i.FinishMount()
	return next
}

// UpdateWidget replaces the instance's Widget value (new props pushed
// down from a parent's rebuild, as opposed to a rebuild triggered by
// one of this instance's own signal reads) and runs build immediately,
// firing the same update hooks and OnRebuild callback a signal-
// triggered rebuild would.
func (i *Instance) UpdateWidget(w Widget) *vnode.VNode {
	i.widget = w
	i.runBuild()
	return i.vnode
}

func (i *Instance) runBuild() {
	i.hooks.reset()
	isFirst := i.vnode == nil

	prevBeforeMount, prevMount := i.onBeforeMount, i.onMount
	prevBeforeUnmount, prevUnmount := i.onBeforeUnmount, i.onUnmount
	prevError := i.onError

	i.onBeforeMount, i.onMount = nil, nil
	i.onUpdate = nil
	i.onBeforeUnmount, i.onUnmount = nil, nil
	i.onError = nil

	old := setCurrentInstance(i)
	next, buildErr := i.buildSafely(&BuildContext{instance: i, scope: i.scope})
	setCurrentInstance(old)

	if !isFirst {
		// OnBeforeMount/OnMount/OnBeforeUnmount/OnUnmount/OnError only
		// ever register from the first build (see their doc comments),
		// so this rebuild's Build call appended nothing to these lists —
		// restore what the first build registered.
		i.onBeforeMount, i.onMount = prevBeforeMount, prevMount
		i.onBeforeUnmount, i.onUnmount = prevBeforeUnmount, prevUnmount
		i.onError = prevError
	}

	if buildErr != nil {
		next = i.handleBuildError(buildErr)
	}
	i.vnode = next

	if isFirst {
		for _, h := range i.onBeforeMount {
			h()
		}
		return
	}

	for _, h := range i.onUpdate {
		h()
	}
	if i.metrics != nil {
		i.metrics.updates.Inc()
	}
	if i.onRebuildExternal != nil {
		i.onRebuildExternal(next)
	}
}

// buildSafely runs widget.Build, recovering a panic into an error so a
// failing nested widget cannot take its ancestors down with it (spec's
// build-error scenario: a child throws, the parent's OnError decides
// what renders in its place).
func (i *Instance) buildSafely(ctx *BuildContext) (next *vnode.VNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("widget build panic: %v", r)
			}
		}
	}()
	return i.widget.Build(ctx), nil
}

// handleBuildError routes a Build failure to the nearest ancestor
// instance (starting with i itself) that registered an OnError
// handler, passing the originating instance in ErrorInfo regardless of
// which ancestor ends up handling it. A handler that returns a non-nil
// VNode renders that fallback in the failed widget's slot; returning
// nil swallows the error with an empty placeholder. If no ancestor has
// a handler, the error reaches the scope error-handler chain (and so,
// ultimately, App.HandleError) and an empty placeholder is rendered so
// the host tree stays structurally valid.
func (i *Instance) handleBuildError(err error) *vnode.VNode {
	info := ErrorInfo{Source: "build", Instance: i}
	for owner := i; owner != nil; owner = owner.parent {
		if len(owner.onError) == 0 {
			continue
		}
		for _, h := range owner.onError {
			if fallback := h(err, info); fallback != nil {
				return fallback
			}
		}
		return vnode.NewComment("widget build error")
	}
	i.scope.ReportError(err)
	return vnode.NewComment("widget build error")
}

// Unmount fires OnBeforeUnmount, recursively unmounts nested widget
// instances (firing their hooks in the same order), fires OnUnmount,
// then disposes the instance's scope, cascading to every effect it
// owns. Idempotent. The before-hooks fire parent-then-child and the
// after-hooks child-then-parent, matching spec's mount/unmount
// ordering contract run in reverse.
func (i *Instance) Unmount() {
	if !i.state.CompareAndSwap(int32(InstanceMounted), int32(InstanceUnmounted)) &&
		!i.state.CompareAndSwap(int32(InstanceCreated), int32(InstanceUnmounted)) {
		return
	}
	for _, h := range i.onBeforeUnmount {
		h()
	}
	for _, c := range i.children {
		c.Unmount()
	}
	for _, h := range i.onUnmount {
		h()
	}
	i.scope.Dispose()
	if i.metrics != nil {
		i.metrics.unmounts.Inc()
	}
}

// BuildContext is passed to a widget's Build call: it exposes the
// lifecycle-hook registrars, hook-slot accessors for function widgets,
// and context provide/inject (spec §4.9).
type BuildContext struct {
	instance *Instance
	scope    *reactive.Scope
}

// OnBeforeMount registers fn to run once, during the widget's first
// build, before any widget nested in its output has mounted — the
// parent-before-child half of spec's mount-order contract.
func (c *BuildContext) OnBeforeMount(fn func()) {
	if c.instance.vnode == nil {
		c.instance.onBeforeMount = append(c.instance.onBeforeMount, fn)
	}
}

// OnMount registers fn to run once, after the widget's first build
// mounts. Calling OnMount on a rebuild (not the first build) is a
// no-op-preserving operation: the originally registered mount hooks are
// kept, fn is ignored, matching "runs once" semantics.
func (c *BuildContext) OnMount(fn func()) {
	if c.instance.vnode == nil { // still building for the first time
		c.instance.onMount = append(c.instance.onMount, fn)
	}
}

// OnUpdate registers fn to run after every rebuild after the first.
func (c *BuildContext) OnUpdate(fn func()) {
	c.instance.onUpdate = append(c.instance.onUpdate, fn)
}

// OnBeforeUnmount registers fn to run once, before the instance (or
// any of its nested widgets) starts tearing down — the parent-before-
// child half of spec's unmount-order contract.
func (c *BuildContext) OnBeforeUnmount(fn func()) {
	if c.instance.vnode == nil {
		c.instance.onBeforeUnmount = append(c.instance.onBeforeUnmount, fn)
	}
}

// OnUnmount registers fn to run once, when the widget's instance is
// unmounted. Like OnMount, only the registration from the widget's
// first build is kept — Build bodies that call OnUnmount unconditionally
// on every rebuild still get exactly one registration.
func (c *BuildContext) OnUnmount(fn func()) {
	if c.instance.vnode == nil {
		c.instance.onUnmount = append(c.instance.onUnmount, fn)
	}
}

// OnError registers fn as this instance's build-error handler (spec's
// "build" error source). fn may return a fallback VNode to render in
// this widget's slot, or nil to swallow the error with an empty
// placeholder. Only the registration from the first build is kept. If
// a nested widget's Build panics and it has no handler of its own, the
// error bubbles up to the nearest ancestor's OnError instead.
func (c *BuildContext) OnError(fn func(err error, info ErrorInfo) *vnode.VNode) {
	if c.instance.vnode == nil {
		c.instance.onError = append(c.instance.onError, fn)
	}
}

// Runtime returns the reactive.Runtime this widget tree is built
// against, for constructing signals/effects/computeds inline in Build.
func (c *BuildContext) Runtime() *reactive.Runtime {
	return c.instance.rt
}
