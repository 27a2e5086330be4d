package hl7ast

import (
	"fmt"
	"math"
)

// NodeKind classifies the type of a tree node.
type NodeKind uint8

// Node kinds, outermost first.
const (
	NodeMessage NodeKind = iota
	NodeSegment
	NodeField
	NodeRepetition
	NodeComponent
	NodeSubcomponent

	// Leaves.
	NodeLiteral
	NodeDelimiter
	NodeError
)

var nodeKindNames = [...]string{
	NodeMessage:      "Message",
	NodeSegment:      "Segment",
	NodeField:        "Field",
	NodeRepetition:   "Repetition",
	NodeComponent:    "Component",
	NodeSubcomponent: "Subcomponent",
	NodeLiteral:      "Literal",
	NodeDelimiter:    "Delimiter",
	NodeError:        "Error",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}

	return fmt.Sprintf("NodeKind(%d)", k)
}

// IsLeaf reports whether nodes of this kind never have children.
func (k NodeKind) IsLeaf() bool {
	return k >= NodeLiteral
}

// ErrorCode identifies a recoverable problem found while parsing.
type ErrorCode uint8

// Error codes carried by Error nodes and Message warnings.
const (
	CodeNone ErrorCode = iota
	CodeTruncated
	CodeEscapeError
	CodeAmbiguousDelimiter
)

func (c ErrorCode) String() string {
	switch c {
	case CodeNone:
		return "None"
	case CodeTruncated:
		return "Truncated"
	case CodeEscapeError:
		return "EscapeError"
	case CodeAmbiguousDelimiter:
		return "AmbiguousDelimiter"
	default:
		return fmt.Sprintf("ErrorCode(%d)", c)
	}
}

// SegmentState is the terminal state of the per-segment recovery machine.
type SegmentState uint8

// Segment states. Scanning is the normal outcome: the terminator was found.
const (
	StateScanning SegmentState = iota
	StateTruncated
	StateEscapeError
)

func (s SegmentState) String() string {
	switch s {
	case StateScanning:
		return "Scanning"
	case StateTruncated:
		return "Truncated"
	case StateEscapeError:
		return "EscapeError"
	default:
		return fmt.Sprintf("SegmentState(%d)", s)
	}
}

// node is one arena slot. Offsets are relative to the segment start.
type node struct {
	kind   NodeKind
	code   ErrorCode
	opaque bool // literal is never escape-decoded
	start  int32
	end    int32
	first  int32 // first child slot in SegmentTree.kids
	count  int32
}

// MaxSegmentLen is the longest segment a SegmentTree can hold. Arena
// offsets are stored as int32.
const MaxSegmentLen = math.MaxInt32

// SegmentTree is the immutable node arena for one segment. Offsets inside
// are relative to the segment start, so a tree can be reused at any
// absolute position by a later snapshot.
type SegmentTree struct {
	nodes []node
	kids  []int32
	root  int32
	state SegmentState
}

// Len returns the byte length of the segment including its terminator.
func (t *SegmentTree) Len() int {
	return int(t.nodes[t.root].end)
}

// State returns the recovery state the segment ended in.
func (t *SegmentTree) State() SegmentState {
	return t.state
}

// NodeCount returns the number of nodes in the arena.
func (t *SegmentTree) NodeCount() int {
	return len(t.nodes)
}

func (t *SegmentTree) children(idx int32) []int32 {
	n := t.nodes[idx]

	return t.kids[n.first : n.first+n.count]
}

// TreeBuilder appends nodes to a new SegmentTree. Children are created
// before their parent; Finish seals the arena.
type TreeBuilder struct {
	tree *SegmentTree
}

// NewTreeBuilder returns a builder with room for roughly sizeHint nodes.
func NewTreeBuilder(sizeHint int) *TreeBuilder {
	return &TreeBuilder{tree: &SegmentTree{
		nodes: make([]node, 0, sizeHint),
		kids:  make([]int32, 0, sizeHint),
	}}
}

// Leaf adds a childless node and returns its index.
func (b *TreeBuilder) Leaf(kind NodeKind, start, end int) int32 {
	return b.add(node{kind: kind, start: offset32(start), end: offset32(end)})
}

// OpaqueLiteral adds a Literal whose value is its raw text.
func (b *TreeBuilder) OpaqueLiteral(start, end int) int32 {
	return b.add(node{kind: NodeLiteral, opaque: true, start: offset32(start), end: offset32(end)})
}

// ErrorLeaf adds an Error node carrying code.
func (b *TreeBuilder) ErrorLeaf(code ErrorCode, start, end int) int32 {
	return b.add(node{kind: NodeError, code: code, start: offset32(start), end: offset32(end)})
}

// Container adds a node owning children, which must already be built.
func (b *TreeBuilder) Container(kind NodeKind, start, end int, children []int32) int32 {
	first := int32(len(b.tree.kids))
	b.tree.kids = append(b.tree.kids, children...)

	return b.add(node{
		kind:  kind,
		start: offset32(start),
		end:   offset32(end),
		first: first,
		count: int32(len(children)),
	})
}

// Finish seals the arena with root as the Segment node.
func (b *TreeBuilder) Finish(root int32, state SegmentState) *SegmentTree {
	tree := b.tree
	tree.root = root
	tree.state = state
	b.tree = nil

	return tree
}

// offset32 narrows a segment-relative offset for the arena.
func offset32(v int) int32 {
	if v < 0 || v > MaxSegmentLen {
		panic(fmt.Sprintf("hl7ast: segment offset %d outside [0, %d]", v, MaxSegmentLen))
	}

	return int32(v)
}

func (b *TreeBuilder) add(n node) int32 {
	b.tree.nodes = append(b.tree.nodes, n)

	return int32(len(b.tree.nodes) - 1)
}
