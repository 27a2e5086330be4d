package hl7ast

// SourceRange is a half-open byte range [StartOffset, EndOffset) of the
// message buffer.
type SourceRange struct {
	StartOffset int
	EndOffset   int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int { return r.EndOffset - r.StartOffset }

// IsEmpty reports whether the range has zero length.
func (r SourceRange) IsEmpty() bool { return r.StartOffset == r.EndOffset }

// Contains reports whether offset falls inside the range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Shift returns r moved by delta bytes.
func (r SourceRange) Shift(delta int) SourceRange {
	return SourceRange{StartOffset: r.StartOffset + delta, EndOffset: r.EndOffset + delta}
}

// SourcePosition is a 1-based line/column span. Columns count bytes.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// IsValid reports whether every coordinate is positive.
func (sp SourcePosition) IsValid() bool {
	return sp.StartLine > 0 && sp.StartColumn > 0 && sp.EndLine > 0 && sp.EndColumn > 0
}
