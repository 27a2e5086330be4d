package fix

import (
	"cmp"
	"fmt"
	"slices"
)

// ValidationError describes an edit whose range does not fit the buffer.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError describes two edits that touch the same bytes.
type ConflictError struct {
	First  TextEdit
	Second TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.StartOffset, e.First.EndOffset,
		e.Second.StartOffset, e.Second.EndOffset)
}

// ValidateEdits returns the first edit whose range falls outside [0, contentLen].
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		switch {
		case edit.StartOffset < 0:
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.EndOffset < edit.StartOffset:
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.EndOffset > contentLen:
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}

	return nil
}

// SortEdits orders edits by start offset, then end offset.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if c := cmp.Compare(a.StartOffset, b.StartOffset); c != 0 {
			return c
		}

		return cmp.Compare(a.EndOffset, b.EndOffset)
	})
}

// overlaps reports whether b, sorted after a, touches bytes a also touches.
// Two insertions at the same offset overlap since their order is ambiguous.
func overlaps(a, b TextEdit) bool {
	if b.StartOffset < a.EndOffset {
		return true
	}

	return a.StartOffset == a.EndOffset && b.StartOffset == b.EndOffset && a.StartOffset == b.StartOffset
}

// DetectConflicts returns the first pair of overlapping edits in a sorted slice.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		if overlaps(edits[i-1], edits[i]) && edits[i-1] != edits[i] {
			return &ConflictError{First: edits[i-1], Second: edits[i]}
		}
	}

	return nil
}

// PrepareEdits validates and sorts edits, dropping exact duplicates.
// Any remaining overlap is an error.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	result := slices.Clone(edits)
	SortEdits(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}

	return slices.Compact(result), nil
}

// mergeable reports whether overlapping edits a and b collapse into one.
// Identical edits and pairs of deletions do.
func mergeable(a, b TextEdit) bool {
	return a == b || (a.NewText == "" && b.NewText == "")
}

func union(a, b TextEdit) TextEdit {
	return TextEdit{
		StartOffset: min(a.StartOffset, b.StartOffset),
		EndOffset:   max(a.EndOffset, b.EndOffset),
		NewText:     a.NewText,
	}
}

// MergeAndFilterConflicts walks sorted edits, folding mergeable overlaps
// together and skipping the later edit of any other overlap. It returns
// the edits to apply, the skipped edits and how many were folded.
func MergeAndFilterConflicts(edits []TextEdit) ([]TextEdit, []TextEdit, int) {
	if len(edits) == 0 {
		return nil, nil, 0
	}

	accepted := make([]TextEdit, 0, len(edits))

	var skipped []TextEdit

	merged := 0
	current := edits[0]

	for _, edit := range edits[1:] {
		switch {
		case !overlaps(current, edit):
			accepted = append(accepted, current)
			current = edit
		case mergeable(current, edit):
			current = union(current, edit)
			merged++
		default:
			skipped = append(skipped, edit)
		}
	}

	accepted = append(accepted, current)

	return accepted, skipped, merged
}

// PrepareEditsFiltered is PrepareEdits without the conflict error: overlapping
// deletions merge and other conflicts lose to the earlier edit. Only range
// validation fails.
func PrepareEditsFiltered(edits []TextEdit, contentLen int) ([]TextEdit, []TextEdit, int, error) {
	if len(edits) == 0 {
		return nil, nil, 0, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, nil, 0, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)

	accepted, skipped, merged := MergeAndFilterConflicts(sorted)

	return accepted, skipped, merged, nil
}
