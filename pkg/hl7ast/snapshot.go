// Package hl7ast provides the HL7v2 (ER7) syntax tree for hl7lint.
// It defines a lossless, immutable view of a message buffer:
//   - Delimiters: the alphabet declared by the message header
//   - Token: classified byte spans produced by the lexer
//   - SegmentTree: one arena of nodes per segment, shared between snapshots
//   - Snapshot: the complete parse of one buffer
package hl7ast

import (
	"sort"
	"sync"
)

// SegmentRef places a shared segment tree at an absolute offset.
type SegmentRef struct {
	Tree   *SegmentTree
	Offset int
}

// End returns the absolute offset just past the segment.
func (r SegmentRef) End() int {
	return r.Offset + r.Tree.Len()
}

// Range returns the segment's absolute byte range.
func (r SegmentRef) Range() SourceRange {
	return SourceRange{StartOffset: r.Offset, EndOffset: r.End()}
}

// Shift returns the same tree placed delta bytes later.
func (r SegmentRef) Shift(delta int) SegmentRef {
	return SegmentRef{Tree: r.Tree, Offset: r.Offset + delta}
}

// Snapshot is an immutable, lossless parse of one message buffer.
// A snapshot produced by an incremental reparse shares unchanged
// SegmentTree pointers with its predecessor.
type Snapshot struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full message bytes.
	Content []byte

	// Lines contains metadata for each line of the buffer.
	Lines []LineInfo

	// Delimiters is the alphabet declared by the header.
	Delimiters Delimiters

	// Segments lists every segment in buffer order.
	Segments []SegmentRef

	// Warnings holds Message-level issues such as ambiguous delimiters.
	Warnings []Issue

	index *segmentIndex
}

type segmentIndex struct {
	once   sync.Once
	byTree map[*SegmentTree]int
}

// NewSnapshot assembles a snapshot and derives its line table and
// delimiter warnings.
func NewSnapshot(path string, content []byte, delims Delimiters, segments []SegmentRef) *Snapshot {
	return &Snapshot{
		Path:       path,
		Content:    content,
		Lines:      BuildLines(content),
		Delimiters: delims,
		Segments:   segments,
		Warnings:   delimiterWarnings(content, delims),
		index:      &segmentIndex{},
	}
}

// Root returns the Message node.
func (s *Snapshot) Root() Node {
	return Node{snap: s, seg: -1}
}

// Segment returns the Segment node at index i.
func (s *Snapshot) Segment(i int) Node {
	if i < 0 || i >= len(s.Segments) {
		return Node{}
	}

	return Node{snap: s, seg: i, idx: s.Segments[i].Tree.root}
}

// SegmentName returns the id of segment i, e.g. "PID".
func (s *Snapshot) SegmentName(i int) string {
	seg := s.Segment(i)
	if !seg.IsValid() {
		return ""
	}

	return seg.SegmentName()
}

// NodeRange returns the absolute byte range of n.
func (s *Snapshot) NodeRange(n Node) (int, int) {
	r := n.Range()

	return r.StartOffset, r.EndOffset
}

// Children returns the children of n in order.
func (s *Snapshot) Children(n Node) []Node {
	return n.Children()
}

// Kind returns the kind of n.
func (s *Snapshot) Kind(n Node) NodeKind {
	return n.Kind()
}

// Text returns the raw bytes covered by n.
func (s *Snapshot) Text(n Node) []byte {
	return n.Text()
}

// SegmentIndexAt returns the index of the segment containing offset,
// or -1 when offset is past the last segment.
func (s *Snapshot) SegmentIndexAt(offset int) int {
	i := sort.Search(len(s.Segments), func(i int) bool {
		return s.Segments[i].End() > offset
	})
	if i == len(s.Segments) || !s.Segments[i].Range().Contains(offset) {
		return -1
	}

	return i
}

// NodeAt returns the deepest non-empty node whose range contains offset.
// It returns the Message node when no segment contains offset.
func (s *Snapshot) NodeAt(offset int) Node {
	segIdx := s.SegmentIndexAt(offset)
	if segIdx < 0 {
		return s.Root()
	}

	cur := s.Segment(segIdx)

	for {
		next := Node{}

		for _, child := range cur.Children() {
			if child.Range().Contains(offset) {
				next = child

				break
			}
		}

		if !next.IsValid() {
			return cur
		}

		cur = next
	}
}

// Ancestors returns the chain of nodes from the Message root down to n,
// inclusive of both.
func (s *Snapshot) Ancestors(n Node) []Node {
	if !n.IsValid() || n.snap != s {
		return nil
	}

	chain := []Node{s.Root()}
	if n.seg < 0 {
		return chain
	}

	cur := s.Segment(n.seg)
	chain = append(chain, cur)
	target := n.Range()

	for cur.idx != n.idx {
		next := Node{}

		for _, child := range cur.Children() {
			if child.idx == n.idx {
				next = child

				break
			}

			r := child.Range()
			if !child.Kind().IsLeaf() && r.StartOffset <= target.StartOffset && target.EndOffset <= r.EndOffset {
				next = child
			}
		}

		if !next.IsValid() {
			return nil
		}

		cur = next
		chain = append(chain, cur)
	}

	return chain
}

// NodeByID resolves an id obtained from Node.ID against this snapshot.
// Ids survive reparses for every segment the reparse reused.
func (s *Snapshot) NodeByID(id NodeID) (Node, bool) {
	if id.tree == nil {
		return s.Root(), true
	}

	segIdx, ok := s.segmentOf(id.tree)
	if !ok || int(id.idx) >= len(id.tree.nodes) {
		return Node{}, false
	}

	return Node{snap: s, seg: segIdx, idx: id.idx}, true
}

func (s *Snapshot) segmentOf(tree *SegmentTree) (int, bool) {
	if s.index == nil {
		for i, ref := range s.Segments {
			if ref.Tree == tree {
				return i, true
			}
		}

		return 0, false
	}

	s.index.once.Do(func() {
		s.index.byTree = make(map[*SegmentTree]int, len(s.Segments))
		for i, ref := range s.Segments {
			s.index.byTree[ref.Tree] = i
		}
	})

	i, ok := s.index.byTree[tree]

	return i, ok
}
