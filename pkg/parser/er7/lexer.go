package er7

import (
	"iter"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

type lexState uint8

const (
	stateSegmentStart lexState = iota
	stateBody
	stateEncodingChars
)

// Lexer is a pull-style tokenizer over an ER7 buffer. Tokens are produced
// on demand and cover every byte from the start offset exactly once.
type Lexer struct {
	src    []byte
	delims hl7ast.Delimiters
	pos    int
	state  lexState
	fields int  // field separators seen in the current segment
	header bool // current segment is MSH, FHS or BHS
}

// Checkpoint captures everything needed to resume a Lexer.
type Checkpoint struct {
	Offset int
	state  lexState
	fields int
	header bool
}

// AtSegmentStart reports whether the checkpoint sits on a segment boundary.
func (c Checkpoint) AtSegmentStart() bool {
	return c.state == stateSegmentStart
}

// NewLexer returns a lexer positioned at start, which must be the first
// byte of a segment.
func NewLexer(src []byte, delims hl7ast.Delimiters, start int) *Lexer {
	return &Lexer{
		src:    src,
		delims: delims,
		pos:    min(max(start, 0), len(src)),
	}
}

// Offset returns the position of the next token.
func (l *Lexer) Offset() int {
	return l.pos
}

// AtSegmentStart reports whether the next token begins a segment.
func (l *Lexer) AtSegmentStart() bool {
	return l.state == stateSegmentStart
}

// Checkpoint records the lexer position between two tokens.
func (l *Lexer) Checkpoint() Checkpoint {
	return Checkpoint{Offset: l.pos, state: l.state, fields: l.fields, header: l.header}
}

// Resume continues lexing from cp. The following tokens are identical to
// the ones produced after the checkpoint was taken.
func (l *Lexer) Resume(cp Checkpoint) {
	l.pos = cp.Offset
	l.state = cp.state
	l.fields = cp.fields
	l.header = cp.header
}

// Next returns the next token, or false at end of input.
func (l *Lexer) Next() (hl7ast.Token, bool) {
	if l.pos >= len(l.src) {
		return hl7ast.Token{}, false
	}

	switch l.state {
	case stateSegmentStart:
		if tok, ok := l.segmentID(); ok {
			return tok, true
		}
	case stateEncodingChars:
		l.state = stateBody
		if tok, ok := l.encodingChars(); ok {
			return tok, true
		}
	case stateBody:
	}

	return l.body(), true
}

// All yields the remaining tokens.
func (l *Lexer) All() iter.Seq[hl7ast.Token] {
	return func(yield func(hl7ast.Token) bool) {
		for tok, ok := l.Next(); ok; tok, ok = l.Next() {
			if !yield(tok) {
				return
			}
		}
	}
}

// Tokens lexes src from start, which must be a segment boundary.
func Tokens(src []byte, delims hl7ast.Delimiters, start int) iter.Seq[hl7ast.Token] {
	return NewLexer(src, delims, start).All()
}

// segmentID consumes the bytes before the first field separator. It
// returns false when the segment starts directly with a delimiter.
func (l *Lexer) segmentID() (hl7ast.Token, bool) {
	l.state = stateBody
	l.fields = 0

	start := l.pos
	end := start

	for end < len(l.src) {
		role := l.delims.Role(l.src[end])
		if role == hl7ast.RoleSegment || role == hl7ast.RoleField {
			break
		}

		end++
	}

	l.header = hl7ast.IsHeaderSegment(l.src[start:end])

	if end == start {
		return hl7ast.Token{}, false
	}

	l.pos = end

	return l.token(hl7ast.TokSegmentID, start), true
}

// encodingChars consumes the opaque MSH-2 field of a header segment.
func (l *Lexer) encodingChars() (hl7ast.Token, bool) {
	start := l.pos
	end := start

	for end < len(l.src) {
		role := l.delims.Role(l.src[end])
		if role == hl7ast.RoleSegment || role == hl7ast.RoleField {
			break
		}

		end++
	}

	if end == start {
		return hl7ast.Token{}, false
	}

	l.pos = end

	return l.token(hl7ast.TokEncodingChars, start), true
}

func (l *Lexer) body() hl7ast.Token {
	start := l.pos

	switch l.delims.Role(l.src[start]) {
	case hl7ast.RoleSegment:
		l.pos++
		if l.src[start] == '\r' && l.pos < len(l.src) && l.src[l.pos] == '\n' &&
			l.delims.Role('\n') == hl7ast.RoleNone {
			l.pos++
		}

		l.state = stateSegmentStart
		l.fields = 0
		l.header = false

		return l.token(hl7ast.TokSegmentEnd, start)
	case hl7ast.RoleField:
		l.pos++
		l.fields++

		if l.header && l.fields == 1 {
			l.state = stateEncodingChars
		}

		return l.token(hl7ast.TokFieldSep, start)
	case hl7ast.RoleRepetition:
		l.pos++

		return l.token(hl7ast.TokRepetitionSep, start)
	case hl7ast.RoleComponent:
		l.pos++

		return l.token(hl7ast.TokComponentSep, start)
	case hl7ast.RoleSubcomponent:
		l.pos++

		return l.token(hl7ast.TokSubcomponentSep, start)
	case hl7ast.RoleEscape:
		return l.escape()
	case hl7ast.RoleNone:
	}

	end := start + 1
	for end < len(l.src) && l.delims.Role(l.src[end]) == hl7ast.RoleNone {
		end++
	}

	l.pos = end

	return l.token(hl7ast.TokLiteral, start)
}

// escape consumes an escape sequence. Only the segment terminator or the
// end of input can interrupt it; every other delimiter inside is literal.
func (l *Lexer) escape() hl7ast.Token {
	start := l.pos

	for i := start + 1; i < len(l.src); i++ {
		switch l.delims.Role(l.src[i]) {
		case hl7ast.RoleEscape:
			l.pos = i + 1

			return l.token(hl7ast.TokEscape, start)
		case hl7ast.RoleSegment:
			l.pos = i

			return l.token(hl7ast.TokEscapeError, start)
		default:
		}
	}

	l.pos = len(l.src)

	return l.token(hl7ast.TokEscapeError, start)
}

func (l *Lexer) token(kind hl7ast.TokenKind, start int) hl7ast.Token {
	return hl7ast.Token{Kind: kind, StartOffset: start, EndOffset: l.pos}
}
