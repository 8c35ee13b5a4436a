package dom

// PatchOp is the type of tree mutation.
type PatchOp uint8

const (
	PatchSetText     PatchOp = 0x01 // Update text content
	PatchSetAttr     PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchInsertNode  PatchOp = 0x04 // Insert new node
	PatchRemoveNode  PatchOp = 0x05 // Remove node
	PatchMoveNode    PatchOp = 0x06 // Move node to new position
	PatchReplaceNode PatchOp = 0x07 // Replace node entirely
	PatchSetValue    PatchOp = 0x08 // Set input value
	PatchSetChecked  PatchOp = 0x09 // Set checkbox checked
	PatchAddClass    PatchOp = 0x10 // Add CSS class
	PatchRemoveClass PatchOp = 0x11 // Remove CSS class
	PatchSetStyle    PatchOp = 0x13 // Set style property
	PatchRemoveStyle PatchOp = 0x14 // Remove style property
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchMoveNode:
		return "MoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	case PatchSetValue:
		return "SetValue"
	case PatchSetChecked:
		return "SetChecked"
	case PatchAddClass:
		return "AddClass"
	case PatchRemoveClass:
		return "RemoveClass"
	case PatchSetStyle:
		return "SetStyle"
	case PatchRemoveStyle:
		return "RemoveStyle"
	default:
		return "Unknown"
	}
}

// Patch records a single tree mutation.
type Patch struct {
	Op       PatchOp // Operation type
	NodeID   uint64  // Target node
	ParentID uint64  // Parent for InsertNode/MoveNode
	Key      string  // Attribute key, class name or style property
	Value    string  // New value
	Index    int     // Insert/move position
	Node     *Node   // Subtree for InsertNode/ReplaceNode
}

// Sink receives every patch a Document records, in mutation order.
type Sink interface {
	Apply(p Patch)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(p Patch)

// Apply implements Sink.
func (f SinkFunc) Apply(p Patch) { f(p) }
