package renderer

import (
	"context"
	"testing"

	"github.com/kinetic-ui/kinetic/reactive"
	"github.com/kinetic-ui/kinetic/vnode"
	"github.com/kinetic-ui/kinetic/widget"
)

type hookWidget struct {
	build func(ctx *widget.BuildContext) *vnode.VNode
}

func (w *hookWidget) Build(ctx *widget.BuildContext) *vnode.VNode {
	return w.build(ctx)
}

// TestMountWidgetTreeNestsChildWidgetAndOrdersHooks exercises spec
// scenario 5 through the real pipeline (MountWidgetTree, not two
// hand-constructed widget.Instance values): a parent widget's Build
// returns a vnode wrapping a nested child widget, and mounting it
// produces the parent-before-child/child-before-parent hook order and
// a real host node for the child's own rendered text.
func TestMountWidgetTreeNestsChildWidgetAndOrdersHooks(t *testing.T) {
	rt := reactive.New()
	driver := &fakeDriver{}
	var order []string

	child := &hookWidget{build: func(ctx *widget.BuildContext) *vnode.VNode {
		ctx.OnBeforeMount(func() { order = append(order, "child.onBeforeMount") })
		ctx.OnMount(func() { order = append(order, "child.onMounted") })
		return vnode.NewText("child")
	}}
	parent := &hookWidget{build: func(ctx *widget.BuildContext) *vnode.VNode {
		ctx.OnBeforeMount(func() { order = append(order, "parent.onBeforeMount") })
		ctx.OnMount(func() { order = append(order, "parent.onMounted") })
		return vnode.NewElement("div", nil, widget.NewVNode(child, nil))
	}}

	mctx := &MountContext{RT: rt}
	inst := widget.NewInstance(rt, parent, nil, widget.OnRebuild(func(*vnode.VNode) {}))
	root := inst.MountBuild()
	MountWidgetTree(driver, mctx, inst, nil, root, 0)
	inst.FinishMount()

	want := []string{"parent.onBeforeMount", "child.onBeforeMount", "child.onMounted", "parent.onMounted"}
	if len(order) != len(want) {
		t.Fatalf("expected hook order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected hook order %v, got %v", want, order)
		}
	}

	childNode := root.Children[0]
	if !childNode.IsWidget() {
		t.Fatalf("expected the nested vnode to still be widget-shaped, got %v", childNode.Shape)
	}
	childInst, ok := childNode.Widget.(*widget.Instance)
	if !ok {
		t.Fatalf("expected childNode.Widget to hold a live *widget.Instance, got %T", childNode.Widget)
	}
	if childInst.State() != widget.InstanceMounted {
		t.Errorf("expected child instance to be mounted, got %v", childInst.State())
	}
	if len(childNode.Children) != 1 || childNode.Children[0].Text != "child" {
		t.Fatalf("expected the widget node's sole child to be the built text node, got %+v", childNode.Children)
	}

	found := false
	for _, c := range driver.calls {
		if c == "create:child" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a real host node to be created for the child widget's text, got %v", driver.calls)
	}
}

// TestChildBuildErrorRendersParentFallbackThroughPipeline exercises
// spec scenario 6 through MountWidgetTree: a child widget panics
// during its build with no handler of its own, and the parent's
// OnError fallback ends up materialized as the host node in the
// child's slot.
func TestChildBuildErrorRendersParentFallbackThroughPipeline(t *testing.T) {
	rt := reactive.New()
	driver := &fakeDriver{}
	var caught error

	child := &hookWidget{build: func(ctx *widget.BuildContext) *vnode.VNode {
		panic(errMountBoom)
	}}
	parent := &hookWidget{build: func(ctx *widget.BuildContext) *vnode.VNode {
		ctx.OnError(func(err error, info widget.ErrorInfo) *vnode.VNode {
			caught = err
			return vnode.NewText("fallback")
		})
		return vnode.NewElement("div", nil, widget.NewVNode(child, nil))
	}}

	mctx := &MountContext{RT: rt}
	inst := widget.NewInstance(rt, parent, nil, widget.OnRebuild(func(*vnode.VNode) {}))
	root := inst.MountBuild()
	MountWidgetTree(driver, mctx, inst, nil, root, 0)
	inst.FinishMount()

	if caught != errMountBoom {
		t.Fatalf("expected parent's OnError to catch the child's build panic, got %v", caught)
	}

	childNode := root.Children[0]
	if len(childNode.Children) != 1 || childNode.Children[0].Text != "fallback" {
		t.Fatalf("expected the fallback vnode to render in the child's slot, got %+v", childNode.Children)
	}

	found := false
	for _, c := range driver.calls {
		if c == "create:fallback" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a real host node to be created for the fallback text, got %v", driver.calls)
	}
}

var errMountBoom = &mountBoomErr{}

type mountBoomErr struct{}

func (*mountBoomErr) Error() string { return "boom" }

// TestDiffWidgetPushesNewPropsIntoLiveInstance exercises parent-driven
// rebuild of a nested widget through Diff/ApplyWidgetTree: a parent
// rebuilds with a new descriptor for the same child widget slot, and
// the live instance behind it is updated and reconciled in place
// rather than torn down and recreated.
func TestDiffWidgetPushesNewPropsIntoLiveInstance(t *testing.T) {
	rt := reactive.New()
	driver := &fakeDriver{}

	makeChild := func(text string) widget.Widget {
		return &hookWidget{build: func(ctx *widget.BuildContext) *vnode.VNode {
			return vnode.NewText(text)
		}}
	}

	mctx := &MountContext{RT: rt}
	parentInst := widget.NewInstance(rt, &hookWidget{build: func(ctx *widget.BuildContext) *vnode.VNode {
		return nil
	}}, nil)

	prevRoot := vnode.NewElement("div", nil, widget.NewVNode(makeChild("one"), nil))
	MountWidgetTree(driver, mctx, parentInst, nil, prevRoot, 0)

	childNode := prevRoot.Children[0]
	childInst := childNode.Widget.(*widget.Instance)

	nextRoot := vnode.NewElement("div", nil, widget.NewVNode(makeChild("two"), nil))
	patches := Diff(prevRoot, nextRoot)
	r := New()
	r.ApplyWidgetTree(context.Background(), driver, mctx, parentInst, patches)

	nextChildNode := nextRoot.Children[0]
	sameInst, ok := nextChildNode.Widget.(*widget.Instance)
	if !ok || sameInst != childInst {
		t.Fatalf("expected the same live instance to be reused across the prop update")
	}
	if len(nextChildNode.Children) != 1 || nextChildNode.Children[0].Text != "two" {
		t.Fatalf("expected the instance to have rebuilt with the new descriptor's output, got %+v", nextChildNode.Children)
	}
}
