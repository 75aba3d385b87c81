// Package renderer reconciles two vnode.VNode trees into a list of
// Patch operations and applies them through a HostDriver, grounded on
// vango/pkg/vdom/diff.go and patch.go. Unlike vango (which diffs toward
// a hydration-ID-addressed wire protocol for a browser client), Kinetic
// addresses patches directly by *vnode.VNode pointer: there is no wire
// transport in scope (spec's Non-goals), so Patch targets the VNode
// itself and HostDriver maps it to a concrete host handle.
package renderer
