package vnode

// ShapeFlag discriminates the kind of node a VNode represents, extending
// vango/pkg/vdom's 5-value VKind with the splits spec §4.8 needs: a
// dedicated comment node, a void-element marker (no children permitted),
// and class/function widgets kept distinct from a generic "Component".
type ShapeFlag uint8

const (
	Element ShapeFlag = iota
	VoidElement
	Text
	Comment
	Fragment
	StatefulWidget
	StatelessWidget
	Dynamic // a marker node whose identity is expected to change across patches
)

func (f ShapeFlag) String() string {
	switch f {
	case Element:
		return "Element"
	case VoidElement:
		return "VoidElement"
	case Text:
		return "Text"
	case Comment:
		return "Comment"
	case Fragment:
		return "Fragment"
	case StatefulWidget:
		return "StatefulWidget"
	case StatelessWidget:
		return "StatelessWidget"
	case Dynamic:
		return "Dynamic"
	default:
		return "Unknown"
	}
}

// State is a VNode's position in its lifecycle. A freshly built VNode
// starts Created; the renderer moves it to Rendered once a host node
// exists for it. Activated/Deactivated cycle for nodes kept alive
// off-screen (spec §4.8's keep-alive note); Unmounted is terminal.
type State uint8

const (
	Created State = iota
	Rendered
	Activated
	Deactivated
	Unmounted
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Rendered:
		return "Rendered"
	case Activated:
		return "Activated"
	case Deactivated:
		return "Deactivated"
	case Unmounted:
		return "Unmounted"
	default:
		return "Unknown"
	}
}

// validTransitions enumerates the state machine's legal edges.
var validTransitions = map[State][]State{
	Created:     {Rendered, Unmounted},
	Rendered:    {Activated, Deactivated, Unmounted},
	Activated:   {Deactivated, Unmounted},
	Deactivated: {Activated, Unmounted},
	Unmounted:   nil,
}

// CanTransition reports whether moving from s to next is a legal edge.
func (s State) CanTransition(next State) bool {
	for _, t := range validTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Ref, if set on a VNode, receives the host element/instance once the
// node reaches Rendered, and nil once it reaches Unmounted.
type Ref func(instance any)

// Directive is a host-applied behavior attached to a VNode (spec §4.8's
// directive slot — e.g. a focus-management or click-outside directive).
// Mounted runs once the host node exists; Updated runs on every patch
// that keeps this node; Unmounted runs before the host node is removed.
type Directive interface {
	Mounted(host any, value any)
	Updated(host any, value any)
	Unmounted(host any, value any)
}

// DirectiveBinding pairs a Directive with the value passed to it.
type DirectiveBinding struct {
	Directive Directive
	Value     any
	Arg       string
}

// VNode is Kinetic's virtual node. A single struct serves every
// ShapeFlag; which fields are meaningful depends on Shape, mirroring
// vango/pkg/vdom/vnode.go's single-struct-many-kinds design.
type VNode struct {
	Shape ShapeFlag
	State State

	Tag      string // element tag, or the widget's registered name
	Text     string // Text/Comment content
	Props    Props
	Children []*VNode
	Key      any // reconciliation key; nil means unkeyed

	Widget any // a *Widget shape's widget.Widget descriptor (set by widget.NewVNode), replaced by its live *widget.Instance when the renderer mounts it

	Ref        Ref
	Directives []DirectiveBinding

	// Host is the renderer/driver-specific handle for this node once
	// Rendered (e.g. a DOM element wrapper on a concrete HostDriver).
	// Opaque to this package.
	Host any

	parent *VNode
}

// Props holds attributes, classes, styles and event handlers for an
// Element/VoidElement node, keyed by attribute name.
type Props map[string]any

// NewElement creates a Created Element node.
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	return &VNode{Shape: Element, Tag: tag, Props: props, Children: children}
}

// NewVoidElement creates a Created VoidElement node (e.g. <img>, <br>):
// Children is always empty and patch.go must never append to it.
func NewVoidElement(tag string, props Props) *VNode {
	return &VNode{Shape: VoidElement, Tag: tag, Props: props}
}

// NewText creates a Created Text node.
func NewText(text string) *VNode {
	return &VNode{Shape: Text, Text: text}
}

// NewComment creates a Created Comment node, used as a placeholder for
// conditionally absent content so its position in the tree survives a
// diff (the same role an empty text node plays in many vdom
// implementations, kept distinct here per spec §4.8).
func NewComment(text string) *VNode {
	return &VNode{Shape: Comment, Text: text}
}

// NewFragment creates a Created Fragment node grouping children with no
// host wrapper of its own.
func NewFragment(children ...*VNode) *VNode {
	return &VNode{Shape: Fragment, Children: children}
}

// Parent returns the VNode this node was last attached under, or nil
// for a root or detached node.
func (v *VNode) Parent() *VNode { return v.parent }

// SetParent sets v's parent pointer; called by the renderer while
// walking a tree being attached.
func (v *VNode) SetParent(p *VNode) { v.parent = p }

// Transition attempts to move v to next, returning false (and leaving
// State unchanged) if the edge is illegal.
func (v *VNode) Transition(next State) bool {
	if !v.State.CanTransition(next) {
		return false
	}
	v.State = next
	if next == Unmounted && v.Ref != nil {
		v.Ref(nil)
	}
	return true
}

// IsWidget reports whether v's shape is one of the widget kinds.
func (v *VNode) IsWidget() bool {
	return v.Shape == StatefulWidget || v.Shape == StatelessWidget
}
