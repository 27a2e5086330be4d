package hl7ast

import (
	"errors"
	"fmt"
)

// Edit replaces Removed bytes at Offset with Inserted.
type Edit struct {
	Offset   int
	Removed  int
	Inserted []byte
}

// ErrInvalidEdit is wrapped by every error returned from Edit.Validate.
var ErrInvalidEdit = errors.New("invalid edit")

// End returns the offset just past the removed range, in the old buffer.
func (e Edit) End() int {
	return e.Offset + e.Removed
}

// InsertedEnd returns the offset just past the inserted bytes, in the new buffer.
func (e Edit) InsertedEnd() int {
	return e.Offset + len(e.Inserted)
}

// Delta returns the change in buffer length.
func (e Edit) Delta() int {
	return len(e.Inserted) - e.Removed
}

// IsNoop reports whether e changes nothing.
func (e Edit) IsNoop() bool {
	return e.Removed == 0 && len(e.Inserted) == 0
}

// Validate checks e against a buffer of length contentLen.
func (e Edit) Validate(contentLen int) error {
	switch {
	case e.Offset < 0:
		return fmt.Errorf("%w: negative offset %d", ErrInvalidEdit, e.Offset)
	case e.Removed < 0:
		return fmt.Errorf("%w: negative removed length %d", ErrInvalidEdit, e.Removed)
	case e.End() > contentLen:
		return fmt.Errorf("%w: range [%d,%d) exceeds content length %d",
			ErrInvalidEdit, e.Offset, e.End(), contentLen)
	}

	return nil
}

// Apply returns a new buffer with e applied. content is not modified.
func (e Edit) Apply(content []byte) ([]byte, error) {
	if err := e.Validate(len(content)); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(content)+e.Delta())
	out = append(out, content[:e.Offset]...)
	out = append(out, e.Inserted...)
	out = append(out, content[e.End():]...)

	return out, nil
}

// DiffEdit returns the single edit that turns old into updated, trimming
// their common prefix and suffix.
func DiffEdit(old, updated []byte) Edit {
	prefix := 0
	for prefix < len(old) && prefix < len(updated) && old[prefix] == updated[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(old)-prefix && suffix < len(updated)-prefix &&
		old[len(old)-1-suffix] == updated[len(updated)-1-suffix] {
		suffix++
	}

	inserted := updated[prefix : len(updated)-suffix]

	return Edit{
		Offset:   prefix,
		Removed:  len(old) - prefix - suffix,
		Inserted: append([]byte(nil), inserted...),
	}
}
