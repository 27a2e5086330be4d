package hl7ast

import (
	"errors"
	"iter"
)

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk, or ErrSkipChildren to skip the
// children of the current node.
type WalkFunc func(n Node) error

// ErrSkipChildren tells Walk not to descend into the current node.
var ErrSkipChildren = errors.New("skip children")

// Walk performs a pre-order traversal of the tree starting at root.
func Walk(root Node, walkFunc WalkFunc) error {
	if !root.IsValid() {
		return nil
	}

	if err := walkFunc(root); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}

		return err
	}

	for i := range root.ChildCount() {
		if err := Walk(root.Child(i), walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Either callback may be nil.
func WalkWithContext(root Node, enter, leave WalkFunc) error {
	if !root.IsValid() {
		return nil
	}

	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}

	for i := range root.ChildCount() {
		if err := WalkWithContext(root.Child(i), enter, leave); err != nil {
			return err
		}
	}

	if leave != nil {
		return leave(root)
	}

	return nil
}

// Leaves yields every leaf under root in buffer order. Concatenating the
// leaf texts of the Message node reproduces the buffer.
func Leaves(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		//nolint:errcheck // errStopWalk is expected and intentionally ignored
		Walk(root, func(n Node) error {
			if !n.Kind().IsLeaf() {
				return nil
			}

			if !yield(n) {
				return errStopWalk
			}

			return nil
		})
	}
}

// FindAll returns all nodes matching the predicate.
func FindAll(root Node, predicate func(n Node) bool) []Node {
	var result []Node

	//nolint:errcheck // Walk only returns nil errors in this usage
	Walk(root, func(n Node) error {
		if predicate(n) {
			result = append(result, n)
		}

		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or an invalid
// Node if none matches.
func FindFirst(root Node, predicate func(n Node) bool) Node {
	var found Node

	//nolint:errcheck // errStopWalk is expected and intentionally ignored
	Walk(root, func(n Node) error {
		if predicate(n) {
			found = n

			return errStopWalk
		}

		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root Node, kind NodeKind) []Node {
	return FindAll(root, func(n Node) bool {
		return n.Kind() == kind
	})
}

var errStopWalk = errors.New("stop walk")
