package renderer

import (
	"context"
	"log/slog"

	"github.com/kinetic-ui/kinetic/reactive"
	"github.com/kinetic-ui/kinetic/vnode"
	"github.com/kinetic-ui/kinetic/widget"
)

// MountContext carries what the renderer needs to instantiate a nested
// widget.Instance when it discovers a widget-shaped vnode (built via
// widget.NewVNode by a parent's Build) while materializing a tree: the
// reactive.Runtime every instance builds against, and the scheduler/
// logger/metrics/tracer it's configured with — mirrored from whatever
// an App wired its root instance with (app.App.Mount), so a nested
// widget composes exactly like the root one.
type MountContext struct {
	RT        *reactive.Runtime
	Scheduler widget.Scheduler
	Logger    *slog.Logger
	Metrics   *widget.Metrics
	Renderer  *Renderer
}

func (mctx *MountContext) instanceOpts(parentInst *widget.Instance, onRebuild func(next *vnode.VNode)) []widget.InstanceOption {
	opts := []widget.InstanceOption{widget.OnRebuild(onRebuild)}
	if mctx.Logger != nil {
		opts = append(opts, widget.WithLogger(mctx.Logger))
	}
	if mctx.Metrics != nil {
		opts = append(opts, widget.WithMetrics(mctx.Metrics))
	}
	if mctx.Scheduler != nil {
		opts = append(opts, widget.WithScheduler(mctx.Scheduler))
	}
	if parentInst != nil {
		opts = append(opts, widget.WithParentInstance(parentInst))
	}
	return opts
}

// mountWidgetNode instantiates and mounts a widget.Instance for node
// (whose Widget field still holds the plain widget.Widget descriptor a
// parent Build returned), storing its built output as node's sole
// child so the rest of the tree walk treats a widget node as a
// transparent wrapper — the same role vnode.Fragment plays for a
// host-less group of children. MountBuild/FinishMount are kept split
// here (rather than calling Instance.Mount) so the recursive
// createSubtree call below finishes mounting everything nested in
// built before this instance's own FinishMount fires onMounted,
// matching the parent-before-child/child-before-parent mount-order
// contract described on Instance.MountBuild. A nil mctx (a plain,
// widget-unaware Mount call, e.g. in tests with no widget tree) leaves
// the node un-instantiated.
func mountWidgetNode(driver HostDriver, mctx *MountContext, parentInst *widget.Instance, node *vnode.VNode) {
	if mctx == nil {
		return
	}
	w, _ := node.Widget.(widget.Widget)
	if w == nil {
		return
	}

	var scope *reactive.Scope
	if parentInst != nil {
		scope = parentInst.Scope()
	}

	var inst *widget.Instance
	opts := mctx.instanceOpts(parentInst, func(next *vnode.VNode) {
		rebuildWidgetNode(driver, mctx, node, next)
	})
	inst = widget.NewInstance(mctx.RT, w, scope, opts...)

	built := inst.MountBuild()
	built.SetParent(node)
	node.Children = []*vnode.VNode{built}
	createSubtree(driver, mctx, inst, built)
	inst.FinishMount()

	node.Widget = inst
	node.Transition(vnode.Rendered)
}

// rebuildWidgetNode is a widget.Instance's OnRebuild callback: it
// diffs the instance's previous output (node's sole child) against its
// freshly built next and applies the resulting patches directly to
// driver, then updates node's child reference — independent of
// whatever outer Diff()/Apply() call may or may not be in flight, the
// same way app.App.rebuild patches the host tree for a root instance's
// own rebuild. The ordering tension this accepts: a signal-triggered
// rebuild of a nested widget applies to driver immediately, before any
// sibling-level patches from an outer Diff() call already in flight
// are applied — see DESIGN.md.
func rebuildWidgetNode(driver HostDriver, mctx *MountContext, node *vnode.VNode, next *vnode.VNode) {
	prevChild := node.Children[0]
	next.SetParent(node)
	patches := Diff(prevChild, next)

	r := mctx.Renderer
	if r == nil {
		r = New()
	}
	parentInst, _ := node.Widget.(*widget.Instance)
	r.applyWidgetAware(context.Background(), driver, mctx, parentInst, patches)

	node.Children = []*vnode.VNode{next}
}

// unmountWidgetNode tears down the widget.Instance backing node,
// firing its unmount hooks (recursing into any of its own nested
// widget children first) and disposing its scope, then detaches it
// from its parent instance's child list.
func unmountWidgetNode(node *vnode.VNode) {
	inst, ok := node.Widget.(*widget.Instance)
	if !ok {
		return
	}
	inst.Unmount()
	inst.Detach()
}
