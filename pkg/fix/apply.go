package fix

import (
	"bytes"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// ApplyEdits applies a sorted, validated slice of edits to content.
// Edits must be prepared with PrepareEdits before calling.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}

	out.Write(content[cursor:])

	return out.Bytes()
}

// Sequence converts sorted, non-overlapping edits into edit records that
// can be applied one after another, each against the result of the
// previous one. They come back last-first so earlier offsets stay valid.
func Sequence(edits []TextEdit) []hl7ast.Edit {
	out := make([]hl7ast.Edit, len(edits))
	for i, e := range edits {
		out[len(edits)-1-i] = e.ToEdit()
	}

	return out
}
