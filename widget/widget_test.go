package widget

import (
	"testing"

	"github.com/kinetic-ui/kinetic/reactive"
	"github.com/kinetic-ui/kinetic/vnode"
)

type fakeWidget struct {
	build func(ctx *BuildContext) *vnode.VNode
}

func (f *fakeWidget) Build(ctx *BuildContext) *vnode.VNode {
	return f.build(ctx)
}

func TestMountRunsFirstBuildAndOnMount(t *testing.T) {
	rt := reactive.New()
	mounted := false
	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		ctx.OnMount(func() { mounted = true })
		return vnode.NewText("hi")
	}}

	inst := NewInstance(rt, w, nil)
	vn := inst.Mount()

	if vn == nil || vn.Text != "hi" {
		t.Fatalf("expected built vnode with text 'hi', got %+v", vn)
	}
	if !mounted {
		t.Errorf("expected OnMount callback to run after mount")
	}
	if inst.State() != InstanceMounted {
		t.Errorf("expected InstanceMounted, got %v", inst.State())
	}
}

func TestNoRebuildOnUntrackedSignalChange(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)
	builds := 0

	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		builds++
		return vnode.NewText("n")
	}}

	inst := NewInstance(rt, w, nil)
	inst.Mount()
	if builds != 1 {
		t.Fatalf("expected 1 build after mount, got %d", builds)
	}

	// Build didn't read count, so changing it shouldn't trigger a rebuild.
	count.Set(1)
	if builds != 1 {
		t.Fatalf("expected no rebuild from untracked signal, got %d builds", builds)
	}
}

func TestRebuildTracksSignalReadDuringBuild(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)
	builds := 0

	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		builds++
		count.Get()
		return vnode.NewText("n")
	}}

	inst := NewInstance(rt, w, nil)
	inst.Mount()
	if builds != 1 {
		t.Fatalf("expected 1 build after mount, got %d", builds)
	}

	count.Set(1)
	if builds != 2 {
		t.Fatalf("expected rebuild after tracked signal change, got %d builds", builds)
	}

	count.Set(1) // same value, no-op
	if builds != 2 {
		t.Fatalf("expected no rebuild on equal write, got %d builds", builds)
	}
}

func TestOnMountOnUnmountRunOnceAcrossRebuilds(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)
	mounts, unmounts := 0, 0

	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		count.Get()
		ctx.OnMount(func() { mounts++ })
		ctx.OnUnmount(func() { unmounts++ })
		return vnode.NewText("n")
	}}

	inst := NewInstance(rt, w, nil)
	inst.Mount()
	count.Set(1)
	count.Set(2)

	if mounts != 1 {
		t.Errorf("expected OnMount to fire exactly once across rebuilds, got %d", mounts)
	}

	inst.Unmount()
	if unmounts != 1 {
		t.Errorf("expected OnUnmount to fire exactly once, got %d", unmounts)
	}

	// Unmount is idempotent.
	inst.Unmount()
	if unmounts != 1 {
		t.Errorf("expected second Unmount to be a no-op, got %d", unmounts)
	}
}

func TestOnUpdateFiresOnEveryRebuildAfterFirst(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)
	updates := 0

	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		v := count.Get()
		ctx.OnUpdate(func() { updates++ })
		_ = v
		return vnode.NewText("n")
	}}

	inst := NewInstance(rt, w, nil)
	inst.Mount()
	if updates != 0 {
		t.Fatalf("expected no OnUpdate on first build, got %d", updates)
	}

	count.Set(1)
	if updates != 1 {
		t.Errorf("expected 1 update after rebuild, got %d", updates)
	}

	count.Set(2)
	if updates != 2 {
		t.Errorf("expected 2 updates after second rebuild, got %d", updates)
	}
}

func TestHookSlotStableIdentityAcrossRebuilds(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)
	var seen []int

	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		count.Get()
		v, ok := UseHookSlot()
		if !ok {
			v = 0
		}
		n := v.(int)
		seen = append(seen, n)
		SetHookSlot(n + 1)
		return vnode.NewText("n")
	}}

	inst := NewInstance(rt, w, nil)
	inst.Mount()
	count.Set(1)
	count.Set(1) // no-op write
	count.Set(2)

	want := []int{0, 1, 2}
	if len(seen) != len(want) {
		t.Fatalf("expected %d builds, got %d (%v)", len(want), len(seen), seen)
	}
	for i, w := range want {
		if seen[i] != w {
			t.Errorf("build %d: expected hook value %d, got %d", i, w, seen[i])
		}
	}
}

func TestProvideInjectUntyped(t *testing.T) {
	rt := reactive.New()
	var injected any
	var ok bool

	parentWidget := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		ctx.Provide("theme", "dark")
		return vnode.NewText("parent")
	}}
	parent := NewInstance(rt, parentWidget, nil)
	parent.Mount()

	childWidget := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		injected, ok = ctx.Inject("theme")
		return vnode.NewText("child")
	}}
	child := NewInstance(rt, childWidget, parent.Scope())
	child.Mount()

	if !ok || injected != "dark" {
		t.Errorf("expected to inject \"dark\" from ancestor scope, got %v, ok=%v", injected, ok)
	}
}

func TestInjectMissingReturnsNotOK(t *testing.T) {
	rt := reactive.New()
	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		return vnode.NewText("n")
	}}
	inst := NewInstance(rt, w, nil)
	inst.Mount()

	ctx := &BuildContext{instance: inst, scope: inst.Scope()}
	if _, ok := ctx.Inject("missing"); ok {
		t.Errorf("expected Inject of unset key to report ok=false")
	}
}

func TestTypedContextProvideUse(t *testing.T) {
	rt := reactive.New()
	themeCtx := NewContext("light")
	var used string

	parentWidget := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		themeCtx.Provide(ctx, "dark")
		return vnode.NewText("parent")
	}}
	parent := NewInstance(rt, parentWidget, nil)
	parent.Mount()

	childWidget := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		used = themeCtx.Use(ctx)
		return vnode.NewText("child")
	}}
	child := NewInstance(rt, childWidget, parent.Scope())
	child.Mount()

	if used != "dark" {
		t.Errorf("expected typed context to resolve provided value \"dark\", got %q", used)
	}
}

func TestTypedContextUsesDefaultWhenUnprovided(t *testing.T) {
	rt := reactive.New()
	themeCtx := NewContext("light")
	var used string

	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		used = themeCtx.Use(ctx)
		return vnode.NewText("n")
	}}
	inst := NewInstance(rt, w, nil)
	inst.Mount()

	if used != "light" {
		t.Errorf("expected default context value \"light\", got %q", used)
	}
}

type schedulerStub struct {
	jobs []func()
}

func (s *schedulerStub) QueueJob(phase string, key any, fn func()) {
	s.jobs = append(s.jobs, fn)
}

func TestSchedulerRoutesRebuilds(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)
	builds := 0
	sched := &schedulerStub{}

	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		count.Get()
		builds++
		return vnode.NewText("n")
	}}

	inst := NewInstance(rt, w, nil, WithScheduler(sched))
	inst.Mount()
	if builds != 1 {
		t.Fatalf("expected 1 build after mount, got %d", builds)
	}

	count.Set(1)
	if builds != 1 {
		t.Fatalf("expected rebuild to be deferred to scheduler, got %d builds", builds)
	}
	if len(sched.jobs) != 1 {
		t.Fatalf("expected 1 job queued, got %d", len(sched.jobs))
	}

	sched.jobs[0]()
	if builds != 2 {
		t.Errorf("expected rebuild after running queued job, got %d builds", builds)
	}
}

func TestMountOrderingParentBeforeChildBeforeChildMountedBeforeParentMounted(t *testing.T) {
	rt := reactive.New()
	var order []string

	child := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		ctx.OnBeforeMount(func() { order = append(order, "child.onBeforeMount") })
		ctx.OnMount(func() { order = append(order, "child.onMounted") })
		return vnode.NewText("child")
	}}
	parent := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		ctx.OnBeforeMount(func() { order = append(order, "parent.onBeforeMount") })
		ctx.OnMount(func() { order = append(order, "parent.onMounted") })
		return vnode.NewText("parent")
	}}

	// Mirrors renderer.mountWidgetNode's sequence: the parent's
	// MountBuild runs (firing its onBeforeMount) before the child
	// instance even exists, then the child fully mounts (MountBuild,
	// FinishMount), then the parent's FinishMount fires last.
	p := NewInstance(rt, parent, nil)
	p.MountBuild()
	c := NewInstance(rt, child, p.Scope(), WithParentInstance(p))
	c.MountBuild()
	c.FinishMount()
	p.FinishMount()

	want := []string{"parent.onBeforeMount", "child.onBeforeMount", "child.onMounted", "parent.onMounted"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestUnmountOrderingParentBeforeChildBeforeChildUnmountedBeforeParentUnmounted(t *testing.T) {
	rt := reactive.New()
	var order []string

	child := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		ctx.OnBeforeUnmount(func() { order = append(order, "child.onBeforeUnmount") })
		ctx.OnUnmount(func() { order = append(order, "child.onUnmounted") })
		return vnode.NewText("child")
	}}
	parent := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		ctx.OnBeforeUnmount(func() { order = append(order, "parent.onBeforeUnmount") })
		ctx.OnUnmount(func() { order = append(order, "parent.onUnmounted") })
		return vnode.NewText("parent")
	}}

	p := NewInstance(rt, parent, nil)
	p.Mount()
	c := NewInstance(rt, child, p.Scope(), WithParentInstance(p))
	c.Mount()

	p.Unmount()

	want := []string{"parent.onBeforeUnmount", "child.onBeforeUnmount", "child.onUnmounted", "parent.onUnmounted"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestChildBuildErrorBubblesToParentOnError(t *testing.T) {
	rt := reactive.New()
	var caughtErr error
	var caughtInfo ErrorInfo

	child := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		panic(errBoom)
	}}
	parent := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		ctx.OnError(func(err error, info ErrorInfo) *vnode.VNode {
			caughtErr = err
			caughtInfo = info
			return vnode.NewText("fallback")
		})
		return vnode.NewText("parent")
	}}

	p := NewInstance(rt, parent, nil)
	p.Mount()
	c := NewInstance(rt, child, p.Scope(), WithParentInstance(p))
	c.Mount()

	if caughtErr != errBoom {
		t.Fatalf("expected parent's OnError to catch child's build panic, got %v", caughtErr)
	}
	if caughtInfo.Instance != c {
		t.Errorf("expected ErrorInfo.Instance to be the originating child instance")
	}
	if caughtInfo.Source != "build" {
		t.Errorf("expected ErrorInfo.Source \"build\", got %q", caughtInfo.Source)
	}
	if c.VNode() == nil || c.VNode().Text != "fallback" {
		t.Errorf("expected the child's own vnode to be the parent's fallback, got %+v", c.VNode())
	}
}

func TestBuildErrorWithNoHandlerReportsToScope(t *testing.T) {
	rt := reactive.New()
	var caught error

	root := reactive.NewScope(nil)
	root.HandleError(func(err error) { caught = err })

	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		panic(errBoom)
	}}
	inst := NewInstance(rt, w, root)
	inst.Mount()

	if caught != errBoom {
		t.Fatalf("expected the build error to reach the scope's error handler, got %v", caught)
	}
}

var errBoom = &buildBoom{}

type buildBoom struct{}

func (*buildBoom) Error() string { return "boom" }

func TestOnRebuildExternalFiresWithNewVNode(t *testing.T) {
	rt := reactive.New()
	count := rt.NewValueRef(0)
	var lastText string

	w := &fakeWidget{build: func(ctx *BuildContext) *vnode.VNode {
		n := count.Get()
		if n == 0 {
			return vnode.NewText("zero")
		}
		return vnode.NewText("nonzero")
	}}

	inst := NewInstance(rt, w, nil, OnRebuild(func(next *vnode.VNode) {
		lastText = next.Text
	}))
	inst.Mount()
	if lastText != "" {
		t.Fatalf("expected OnRebuild not to fire on first build, got %q", lastText)
	}

	count.Set(1)
	if lastText != "nonzero" {
		t.Errorf("expected OnRebuild to report new vnode text %q, got %q", "nonzero", lastText)
	}
}
