package hl7ast

import (
	"bytes"
	"fmt"
)

// Entry is one node in a flattened, pre-order listing of a tree.
type Entry struct {
	Depth int
	Kind  NodeKind
	Start int
	End   int
	Code  ErrorCode
}

func (e Entry) String() string {
	if e.Code != CodeNone {
		return fmt.Sprintf("%*s%s(%s) [%d,%d)", e.Depth*2, "", e.Kind, e.Code, e.Start, e.End)
	}

	return fmt.Sprintf("%*s%s [%d,%d)", e.Depth*2, "", e.Kind, e.Start, e.End)
}

// Flatten lists every node under root in pre-order with its depth.
func Flatten(root Node) []Entry {
	var out []Entry

	depth := -1

	//nolint:errcheck // callbacks never fail
	WalkWithContext(root,
		func(n Node) error {
			depth++

			r := n.Range()
			out = append(out, Entry{
				Depth: depth,
				Kind:  n.Kind(),
				Start: r.StartOffset,
				End:   r.EndOffset,
				Code:  n.ErrorCode(),
			})

			return nil
		},
		func(Node) error {
			depth--

			return nil
		})

	return out
}

// Equal reports whether two snapshots describe the same buffer with the
// same delimiters, warnings and tree shape (kinds, ranges and error codes).
// It does not care whether segment trees are shared.
func Equal(a, b *Snapshot) bool {
	if a == nil || b == nil {
		return a == b
	}

	if !bytes.Equal(a.Content, b.Content) || a.Delimiters != b.Delimiters {
		return false
	}

	if len(a.Warnings) != len(b.Warnings) || len(a.Segments) != len(b.Segments) {
		return false
	}

	for i := range a.Warnings {
		if a.Warnings[i] != b.Warnings[i] {
			return false
		}
	}

	for i := range a.Segments {
		if a.Segments[i].Offset != b.Segments[i].Offset {
			return false
		}

		if a.Segments[i].Tree == b.Segments[i].Tree {
			continue
		}

		if !equalNodes(a.Segment(i), b.Segment(i)) {
			return false
		}
	}

	return true
}

func equalNodes(a, b Node) bool {
	if a.Kind() != b.Kind() || a.Range() != b.Range() || a.ErrorCode() != b.ErrorCode() {
		return false
	}

	if a.IsOpaque() != b.IsOpaque() || a.ChildCount() != b.ChildCount() {
		return false
	}

	for i := range a.ChildCount() {
		if !equalNodes(a.Child(i), b.Child(i)) {
			return false
		}
	}

	return true
}
