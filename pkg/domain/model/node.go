package model

// NodeKind tags the variant of a list node
type NodeKind int

const (
	NodeRemote NodeKind = iota
	NodeRelease
	NodeAsset
	NodeTag
	NodeMessage
)

// CommandRef attaches an invokable command to a node, used by
// pagination affordances
type CommandRef struct {
	ID   string
	Args []any
}

// Node is one row of the release tree. It is a tagged union: the Kind
// field selects which of the variant fields are meaningful.
type Node struct {
	Kind  NodeKind
	Label string

	// Description is a secondary line, such as an error detail
	Description string

	// Icon names a decoration for the row ("tag", "arrow-right", an
	// avatar URL, ...); empty means none
	Icon string

	// Expanded marks container nodes rendered open by default
	Expanded bool

	Remote  *Remote       // NodeRemote
	Release *Release      // NodeRelease, NodeTag
	Asset   *ReleaseAsset // NodeAsset
	TagName string        // NodeTag

	Command *CommandRef
}

// NewMessageNode builds a plain informational row
func NewMessageNode(label string) Node {
	return Node{Kind: NodeMessage, Label: label}
}
