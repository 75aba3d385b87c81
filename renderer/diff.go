package renderer

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/kinetic-ui/kinetic/vnode"
	"github.com/kinetic-ui/kinetic/widget"
)

// Diff compares two VNode trees rooted at prev and next and returns the
// patches needed to turn the host tree built from prev into next,
// grounded on vango/pkg/vdom/diff.go's Diff/diff pair.
func Diff(prev, next *vnode.VNode) []Patch {
	var patches []Patch
	diff(prev, next, &patches)
	return patches
}

func diff(prev, next *vnode.VNode, patches *[]Patch) {
	if prev == nil && next == nil {
		return
	}
	if prev == nil {
		// Additions are handled by the parent's InsertNode patch, not here.
		return
	}
	if next == nil {
		*patches = append(*patches, Patch{Op: RemoveNode, Target: prev})
		return
	}

	// A Dynamic node's identity is not expected to survive a patch: any
	// change at all is a full transactional replace (staged, then
	// committed or cancelled by Renderer.applyOne) rather than an
	// attempt to diff incompatible content underneath it.
	if prev.Shape == vnode.Dynamic || next.Shape == vnode.Dynamic {
		if prev.Shape != next.Shape || !dynamicEqual(prev, next) {
			*patches = append(*patches, Patch{Op: ReplaceNode, Target: prev, Node: next, Transactional: true})
		} else {
			next.Host = prev.Host
			fireDirectiveUpdates(next)
		}
		return
	}

	if prev.Shape != next.Shape || prev.Tag != next.Tag {
		*patches = append(*patches, Patch{Op: ReplaceNode, Target: prev, Node: next})
		return
	}

	next.Host = prev.Host
	fireDirectiveUpdates(next)

	switch prev.Shape {
	case vnode.Text, vnode.Comment:
		diffText(prev, next, patches)
	case vnode.Element, vnode.VoidElement:
		diffElement(prev, next, patches)
	case vnode.Fragment:
		diffChildren(prev, prev.Children, next.Children, patches)
	case vnode.StatefulWidget, vnode.StatelessWidget:
		diffWidget(prev, next, patches)
	}
}

// fireDirectiveUpdates calls Directive.Updated for every binding on a
// node that survives a patch (next.Host already carries over from
// prev at every call site) — the counterpart to createSubtree's
// Mounted call and unmountSubtree's Unmounted call.
func fireDirectiveUpdates(node *vnode.VNode) {
	for _, b := range node.Directives {
		b.Directive.Updated(node.Host, b.Value)
	}
}

// dynamicEqual reports whether two Dynamic nodes carry equal content,
// so a patch that changes nothing is skipped even under the
// transactional-replace rule.
func dynamicEqual(prev, next *vnode.VNode) bool {
	return prev.Tag == next.Tag && prev.Text == next.Text && reflect.DeepEqual(prev.Props, next.Props)
}

func diffText(prev, next *vnode.VNode, patches *[]Patch) {
	if prev.Text != next.Text {
		*patches = append(*patches, Patch{Op: SetText, Target: prev, Value: next.Text})
	}
}

func diffElement(prev, next *vnode.VNode, patches *[]Patch) {
	diffProps(prev, next, patches)
	diffChildren(prev, prev.Children, next.Children, patches)
}

// diffWidget pushes next's descriptor down into the live widget.Instance
// prev.Widget already holds (UpdateWidget rebuilds synchronously and,
// via the instance's OnRebuild wiring installed at mountWidgetNode,
// diffs and applies its own previous output against its new one
// directly — independent of whatever outer Diff() call is in flight).
// A prev.Widget that isn't yet a live Instance (should not happen for
// any node that reached createSubtree) is left untouched rather than
// panicking.
func diffWidget(prev, next *vnode.VNode, patches *[]Patch) {
	inst, ok := prev.Widget.(*widget.Instance)
	if !ok {
		next.Widget = prev.Widget
		return
	}
	descriptor, _ := next.Widget.(widget.Widget)
	if descriptor == nil {
		descriptor = inst.Widget()
	}
	inst.UpdateWidget(descriptor)
	next.Widget = inst
	next.Children = prev.Children
}

func diffProps(prev, next *vnode.VNode, patches *[]Patch) {
	for key, prevVal := range prev.Props {
		if isEventHandler(key) {
			continue // event bindings are wired once by the host driver, not diffed
		}
		nextVal, exists := next.Props[key]
		if !exists {
			*patches = append(*patches, Patch{Op: RemoveAttr, Target: prev, Key: key})
		} else if !propsEqual(normalizeProp(key, prevVal), normalizeProp(key, nextVal)) {
			*patches = append(*patches, Patch{Op: SetAttr, Target: prev, Key: key, Value: propToString(normalizeProp(key, nextVal))})
		}
	}
	for key, nextVal := range next.Props {
		if isEventHandler(key) {
			continue
		}
		if _, exists := prev.Props[key]; !exists {
			*patches = append(*patches, Patch{Op: SetAttr, Target: prev, Key: key, Value: propToString(normalizeProp(key, nextVal))})
		}
	}
}

// normalizeProp flattens "class"/"style" into their canonical string
// form before comparing or serializing, via vnode.NormalizeClass/
// NormalizeStyle, so a class expressed as a []string one render and a
// plain string the next doesn't diff as changed when the resulting
// class set didn't.
func normalizeProp(key string, v any) any {
	switch key {
	case "class":
		return vnode.NormalizeClass(v)
	case "style":
		return vnode.NormalizeStyle(v)
	default:
		return v
	}
}

func diffChildren(parent *vnode.VNode, prev, next []*vnode.VNode, patches *[]Patch) {
	if hasKeys(prev) || hasKeys(next) {
		diffKeyedChildren(parent, prev, next, patches)
	} else {
		diffUnkeyedChildren(parent, prev, next, patches)
	}
}

func diffUnkeyedChildren(parent *vnode.VNode, prev, next []*vnode.VNode, patches *[]Patch) {
	maxLen := len(prev)
	if len(next) > maxLen {
		maxLen = len(next)
	}
	for i := 0; i < maxLen; i++ {
		var prevChild, nextChild *vnode.VNode
		if i < len(prev) {
			prevChild = prev[i]
		}
		if i < len(next) {
			nextChild = next[i]
		}
		switch {
		case prevChild == nil && nextChild != nil:
			nextChild.SetParent(parent)
			*patches = append(*patches, Patch{Op: InsertNode, Parent: parent, Node: nextChild, Index: i})
		case prevChild != nil && nextChild == nil:
			*patches = append(*patches, Patch{Op: RemoveNode, Target: prevChild})
		default:
			nextChild.SetParent(parent)
			diff(prevChild, nextChild, patches)
		}
	}
}

// diffKeyedChildren reconciles keyed children by matching on Key,
// emitting a MoveNode for anything whose position changed and a
// RemoveNode for anything that disappeared, mirroring
// vango/pkg/vdom/diff.go's diffKeyedChildren (adapted from string keys
// to the any-typed vnode.VNode.Key).
func diffKeyedChildren(parent *vnode.VNode, prev, next []*vnode.VNode, patches *[]Patch) {
	prevKeyIndex := make(map[any]int, len(prev))
	for i, c := range prev {
		if k := c.Key; k != nil {
			prevKeyIndex[k] = i
		}
	}

	matched := make(map[int]bool, len(prev))

	for nextIdx, nextChild := range next {
		nextChild.SetParent(parent)
		key := nextChild.Key
		if key == nil {
			*patches = append(*patches, Patch{Op: InsertNode, Parent: parent, Node: nextChild, Index: nextIdx})
			continue
		}
		prevIdx, ok := prevKeyIndex[key]
		if !ok {
			*patches = append(*patches, Patch{Op: InsertNode, Parent: parent, Node: nextChild, Index: nextIdx})
			continue
		}
		matched[prevIdx] = true
		prevChild := prev[prevIdx]
		if prevIdx != nextIdx {
			*patches = append(*patches, Patch{Op: MoveNode, Target: prevChild, Parent: parent, Index: nextIdx})
		}
		diff(prevChild, nextChild, patches)
	}

	for i, prevChild := range prev {
		if !matched[i] {
			*patches = append(*patches, Patch{Op: RemoveNode, Target: prevChild})
		}
	}
}

func hasKeys(children []*vnode.VNode) bool {
	for _, c := range children {
		if c.Key != nil {
			return true
		}
	}
	return false
}

func isEventHandler(key string) bool {
	return len(key) > 2 && (key[0] == 'o' || key[0] == 'O') && (key[1] == 'n' || key[1] == 'N')
}

func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
