package renderer

import "github.com/kinetic-ui/kinetic/vnode"

// Op is the kind of host mutation a Patch describes, mirroring
// vango/pkg/vdom/patch.go's PatchOp enum.
type Op uint8

const (
	SetText Op = iota
	SetAttr
	RemoveAttr
	InsertNode
	RemoveNode
	MoveNode
	ReplaceNode
	SetValue
	SetChecked
	SetSelected
	Focus
)

func (op Op) String() string {
	switch op {
	case SetText:
		return "SetText"
	case SetAttr:
		return "SetAttr"
	case RemoveAttr:
		return "RemoveAttr"
	case InsertNode:
		return "InsertNode"
	case RemoveNode:
		return "RemoveNode"
	case MoveNode:
		return "MoveNode"
	case ReplaceNode:
		return "ReplaceNode"
	case SetValue:
		return "SetValue"
	case SetChecked:
		return "SetChecked"
	case SetSelected:
		return "SetSelected"
	case Focus:
		return "Focus"
	default:
		return "Unknown"
	}
}

// Patch is a single host mutation produced by Diff. Target is always
// the previous tree's node (the one a live host handle already exists
// for); Node/Parent/Index carry whatever additional operands Op needs.
type Patch struct {
	Op     Op
	Target *vnode.VNode // node the patch applies to (holds Host once Rendered)
	Parent *vnode.VNode // InsertNode/MoveNode: the parent node to insert/move under
	Node   *vnode.VNode // InsertNode/ReplaceNode: the new node
	Index  int          // InsertNode/MoveNode: target position among Parent.Children
	Key    string       // SetAttr/RemoveAttr: attribute name
	Value  string       // SetAttr/SetValue: new value as a string

	// Transactional marks a ReplaceNode produced for a changed
	// vnode.Dynamic node (C10): Node's subtree is staged before Target
	// is touched at all, and only committed (ReplaceNode + unmount of
	// Target) if staging succeeds, so a panic partway through
	// materializing Node leaves Target mounted exactly as it was.
	Transactional bool
}
