// Package vnode implements Kinetic's virtual node representation: a
// ShapeFlag discriminator, the VNode tree itself, and the node lifecycle
// state machine (Created -> Rendered -> Activated <-> Deactivated ->
// Unmounted). Grounded on vango/pkg/vdom/vnode.go's VKind/VNode,
// generalized from its 5-kind SSR-oriented enum (Element, Text,
// Fragment, Component, Raw) to the richer shape-flag set an in-process,
// keep-alive-aware renderer needs (spec §4.8).
package vnode
