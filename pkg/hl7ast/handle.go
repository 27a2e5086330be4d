package hl7ast

// Node is a lightweight handle to one node of a Snapshot. The zero value
// is invalid. Handles are only meaningful together with the snapshot they
// came from; use ID to carry a reference across reparses.
type Node struct {
	snap *Snapshot
	seg  int // index into Snapshot.Segments, -1 for the Message root
	idx  int32
}

// NodeID is a stable node reference. It stays valid in every later
// snapshot that reuses the node's segment tree.
type NodeID struct {
	tree *SegmentTree
	idx  int32
}

// IsRoot reports whether id refers to the Message node.
func (id NodeID) IsRoot() bool {
	return id.tree == nil
}

// IsValid reports whether n refers to a node.
func (n Node) IsValid() bool {
	return n.snap != nil
}

// Snapshot returns the snapshot n belongs to.
func (n Node) Snapshot() *Snapshot {
	return n.snap
}

// ID returns a stable reference to n.
func (n Node) ID() NodeID {
	if n.snap == nil || n.seg < 0 {
		return NodeID{}
	}

	return NodeID{tree: n.tree(), idx: n.idx}
}

// SegmentIndex returns the index of the segment containing n, or -1 for
// the Message node.
func (n Node) SegmentIndex() int {
	return n.seg
}

// Segment returns the Segment node enclosing n.
func (n Node) Segment() Node {
	if n.snap == nil || n.seg < 0 {
		return Node{}
	}

	return n.snap.Segment(n.seg)
}

// Kind returns the node kind.
// The zero Node reports NodeMessage.
func (n Node) Kind() NodeKind {
	if n.snap == nil || n.seg < 0 {
		return NodeMessage
	}

	return n.raw().kind
}

// ErrorCode returns the code of an Error node and CodeNone otherwise.
func (n Node) ErrorCode() ErrorCode {
	if n.snap == nil || n.seg < 0 {
		return CodeNone
	}

	return n.raw().code
}

// Range returns the absolute byte range of n.
func (n Node) Range() SourceRange {
	if n.snap == nil {
		return SourceRange{}
	}

	if n.seg < 0 {
		return SourceRange{StartOffset: 0, EndOffset: len(n.snap.Content)}
	}

	raw := n.raw()
	base := n.snap.Segments[n.seg].Offset

	return SourceRange{StartOffset: base + int(raw.start), EndOffset: base + int(raw.end)}
}

// Start returns the absolute start offset.
func (n Node) Start() int {
	return n.Range().StartOffset
}

// End returns the absolute end offset.
func (n Node) End() int {
	return n.Range().EndOffset
}

// IsEmpty reports whether n covers no bytes.
func (n Node) IsEmpty() bool {
	return n.Range().IsEmpty()
}

// ChildCount returns the number of children.
func (n Node) ChildCount() int {
	if n.snap == nil {
		return 0
	}

	if n.seg < 0 {
		return len(n.snap.Segments)
	}

	return int(n.raw().count)
}

// Child returns the i-th child, or an invalid Node when out of range.
func (n Node) Child(i int) Node {
	if i < 0 || i >= n.ChildCount() {
		return Node{}
	}

	if n.seg < 0 {
		return n.snap.Segment(i)
	}

	return Node{snap: n.snap, seg: n.seg, idx: n.tree().children(n.idx)[i]}
}

// Children returns the children of n in buffer order.
func (n Node) Children() []Node {
	count := n.ChildCount()
	if count == 0 {
		return nil
	}

	out := make([]Node, count)

	if n.seg < 0 {
		for i := range out {
			out[i] = n.snap.Segment(i)
		}

		return out
	}

	for i, idx := range n.tree().children(n.idx) {
		out[i] = Node{snap: n.snap, seg: n.seg, idx: idx}
	}

	return out
}

// Text returns the raw bytes covered by n.
func (n Node) Text() []byte {
	if n.snap == nil {
		return nil
	}

	r := n.Range()

	return n.snap.Content[r.StartOffset:r.EndOffset]
}

// Value returns the decoded text of a Literal (escape sequences resolved)
// and the raw text of every other node.
func (n Node) Value() string {
	if n.Kind() != NodeLiteral || n.raw().opaque {
		return string(n.Text())
	}

	return Decode(n.Text(), n.snap.Delimiters)
}

// IsOpaque reports whether n is a Literal that is never escape-decoded:
// a segment id or the encoding characters of a header segment.
func (n Node) IsOpaque() bool {
	return n.snap != nil && n.seg >= 0 && n.raw().opaque
}

// SegmentName returns the segment id of a Segment node.
func (n Node) SegmentName() string {
	if n.Kind() != NodeSegment || n.ChildCount() == 0 {
		return ""
	}

	first := n.Child(0)
	if first.Kind() != NodeLiteral {
		return ""
	}

	return string(first.Text())
}

func (n Node) tree() *SegmentTree {
	return n.snap.Segments[n.seg].Tree
}

func (n Node) raw() node {
	return n.tree().nodes[n.idx]
}
