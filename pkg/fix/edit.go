// Package fix provides text edit types and application logic for auto-fixing.
package fix

import "github.com/yaklabco/hl7lint/pkg/hl7ast"

// TextEdit represents a single text replacement in a message buffer.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// ToEdit converts e into the edit record consumed by incremental reparse.
func (e TextEdit) ToEdit() hl7ast.Edit {
	return hl7ast.Edit{
		Offset:   e.StartOffset,
		Removed:  e.EndOffset - e.StartOffset,
		Inserted: []byte(e.NewText),
	}
}

// FromEdit converts an edit record back into a TextEdit.
func FromEdit(edit hl7ast.Edit) TextEdit {
	return TextEdit{
		StartOffset: edit.Offset,
		EndOffset:   edit.End(),
		NewText:     string(edit.Inserted),
	}
}

// EditBuilder accumulates text edits for a file.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}

// ReplaceNode replaces the bytes covered by n.
func (b *EditBuilder) ReplaceNode(n hl7ast.Node, newText string) {
	r := n.Range()
	b.ReplaceRange(r.StartOffset, r.EndOffset, newText)
}

// DeleteNode removes the bytes covered by n.
func (b *EditBuilder) DeleteNode(n hl7ast.Node) {
	b.ReplaceNode(n, "")
}
