package renderer

import "github.com/kinetic-ui/kinetic/vnode"

// HostDriver is the contract a concrete host (a browser DOM, a terminal
// UI, a test fake) implements to let Apply carry out patches produced
// by Diff. Kinetic ships no concrete HostDriver — per spec's Non-goals,
// a real DOM/terminal backend is out of scope; this is the seam a host
// integration plugs into.
type HostDriver interface {
	// CreateNode materializes a host handle for node (and, recursively,
	// its subtree) without attaching it anywhere yet. The returned value
	// is stored on node.Host.
	CreateNode(node *vnode.VNode) any

	InsertNode(parent *vnode.VNode, node *vnode.VNode, index int)
	RemoveNode(node *vnode.VNode)
	MoveNode(parent *vnode.VNode, node *vnode.VNode, index int)
	ReplaceNode(old *vnode.VNode, next *vnode.VNode)

	SetText(node *vnode.VNode, text string)
	SetAttr(node *vnode.VNode, key, value string)
	RemoveAttr(node *vnode.VNode, key string)

	SetValue(node *vnode.VNode, value string)
	SetChecked(node *vnode.VNode, checked bool)
	SetSelected(node *vnode.VNode, selected bool)
	Focus(node *vnode.VNode)
}
