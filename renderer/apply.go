package renderer

import (
	"context"

	"github.com/kinetic-ui/kinetic/vnode"
	"github.com/kinetic-ui/kinetic/widget"
)

// Mount creates a host node for root (and its subtree) via driver and
// attaches it under parent at index, transitioning every node in the
// subtree to vnode.Rendered. There is no prior tree to diff against, so
// Mount is used for a widget's (or the app's) very first render. Any
// widget-shaped node nested in root's subtree is left un-instantiated;
// use MountWidgetTree for a tree that may nest widgets.
func Mount(driver HostDriver, parent *vnode.VNode, root *vnode.VNode, index int) {
	MountWidgetTree(driver, nil, nil, parent, root, index)
}

// MountWidgetTree is Mount plus nested-widget materialization: any
// vnode.StatefulWidget/StatelessWidget node discovered while walking
// root's subtree gets a widget.Instance built via mctx and mounted
// depth-first (MountBuild, recurse into its own output, FinishMount),
// owned by parentInst (nil for a root widget with no further widget
// ancestor — app.App.Mount passes its own root instance here once it
// has run MountBuild but before FinishMount, so nested widgets finish
// mounting before the root's onMounted fires).
func MountWidgetTree(driver HostDriver, mctx *MountContext, parentInst *widget.Instance, parent *vnode.VNode, root *vnode.VNode, index int) {
	createSubtree(driver, mctx, parentInst, root)
	root.SetParent(parent)
	if parent != nil {
		driver.InsertNode(parent, root, index)
	}
}

func createSubtree(driver HostDriver, mctx *MountContext, parentInst *widget.Instance, node *vnode.VNode) {
	if node == nil {
		return
	}
	if node.IsWidget() {
		mountWidgetNode(driver, mctx, parentInst, node)
		return
	}
	node.Host = driver.CreateNode(node)
	node.Transition(vnode.Rendered)
	if node.Ref != nil {
		node.Ref(node.Host)
	}
	for _, b := range node.Directives {
		b.Directive.Mounted(node.Host, b.Value)
	}
	for _, c := range node.Children {
		c.SetParent(node)
		createSubtree(driver, mctx, parentInst, c)
	}
}

// Apply carries out patches against driver in order, recording an OTel
// span per patch when r has a tracer configured (Renderer.tracer). Any
// newly inserted widget-shaped node is left un-instantiated; callers
// whose patches may introduce nested widgets use applyWidgetAware via
// the renderer's own internal wiring (app.App never calls Apply
// directly on a tree that could contain one without going through
// MountWidgetTree first).
func (r *Renderer) Apply(ctx context.Context, driver HostDriver, patches []Patch) {
	r.applyWidgetAware(ctx, driver, nil, nil, patches)
}

// ApplyWidgetTree is Apply plus nested-widget materialization: any
// patch that inserts or replaces a subtree (InsertNode, or a
// non-transactional ReplaceNode) gets that subtree walked with mctx so
// a widget-shaped node inside it is instantiated and mounted, owned by
// parentInst. app.App uses this instead of Apply for every rebuild,
// since a widget's Build can return newly-nested widgets at any time.
func (r *Renderer) ApplyWidgetTree(ctx context.Context, driver HostDriver, mctx *MountContext, parentInst *widget.Instance, patches []Patch) {
	r.applyWidgetAware(ctx, driver, mctx, parentInst, patches)
}

func (r *Renderer) applyWidgetAware(ctx context.Context, driver HostDriver, mctx *MountContext, parentInst *widget.Instance, patches []Patch) {
	for _, p := range patches {
		r.applyOne(ctx, driver, mctx, parentInst, p)
	}
}

func (r *Renderer) applyOne(ctx context.Context, driver HostDriver, mctx *MountContext, parentInst *widget.Instance, p Patch) {
	_, span := r.startPatchSpan(ctx, p)
	defer span.End()

	switch p.Op {
	case SetText:
		driver.SetText(p.Target, p.Value)
	case SetAttr:
		driver.SetAttr(p.Target, p.Key, p.Value)
	case RemoveAttr:
		driver.RemoveAttr(p.Target, p.Key)
	case InsertNode:
		createSubtree(driver, mctx, parentInst, p.Node)
		driver.InsertNode(p.Parent, p.Node, p.Index)
	case RemoveNode:
		unmountSubtree(driver, p.Target)
	case MoveNode:
		driver.MoveNode(p.Parent, p.Target, p.Index)
	case ReplaceNode:
		if p.Transactional {
			r.applyTransactionalReplace(driver, mctx, parentInst, p)
		} else {
			createSubtree(driver, mctx, parentInst, p.Node)
			driver.ReplaceNode(p.Target, p.Node)
			unmountSubtree(driver, p.Target)
		}
	case SetValue:
		driver.SetValue(p.Target, p.Value)
	case SetChecked:
		driver.SetChecked(p.Target, p.Value == "true")
	case SetSelected:
		driver.SetSelected(p.Target, p.Value == "true")
	case Focus:
		driver.Focus(p.Target)
	}
}

// applyTransactionalReplace carries out a Dynamic node's changed-
// content switch (C10): p.Node's subtree is staged (materialized via
// createSubtree) before p.Target is touched at all, and only then is
// the host tree actually swapped and p.Target unmounted. If staging
// panics, the panic is recovered and p.Target is left mounted exactly
// as it was, instead of leaving a half-replaced tree behind.
func (r *Renderer) applyTransactionalReplace(driver HostDriver, mctx *MountContext, parentInst *widget.Instance, p Patch) (committed bool) {
	defer func() {
		if rec := recover(); rec != nil {
			committed = false
		}
	}()
	createSubtree(driver, mctx, parentInst, p.Node) // stage
	driver.ReplaceNode(p.Target, p.Node)            // commit
	unmountSubtree(driver, p.Target)
	return true
}

func unmountSubtree(driver HostDriver, node *vnode.VNode) {
	if node == nil {
		return
	}
	if node.IsWidget() {
		unmountWidgetNode(node)
		for _, c := range node.Children {
			unmountSubtree(driver, c)
		}
		node.Transition(vnode.Unmounted)
		return
	}
	for _, c := range node.Children {
		unmountSubtree(driver, c)
	}
	for _, b := range node.Directives {
		b.Directive.Unmounted(node.Host, b.Value)
	}
	node.Transition(vnode.Unmounted)
	driver.RemoveNode(node)
}
