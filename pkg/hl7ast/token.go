package hl7ast

import "fmt"

// TokenKind classifies a token produced by the ER7 lexer.
type TokenKind uint8

// Token kinds. Every byte of a message belongs to exactly one token.
const (
	TokLiteral TokenKind = iota
	TokSegmentID
	TokEncodingChars // MSH-2 of a header segment, never decomposed
	TokEscape        // complete escape sequence including both escape bytes
	TokEscapeError   // escape sequence cut off by a terminator or end of input
	TokFieldSep
	TokRepetitionSep
	TokComponentSep
	TokSubcomponentSep
	TokSegmentEnd // segment terminator, plus an absorbed '\n' after '\r'
)

var tokenKindNames = [...]string{
	TokLiteral:         "Literal",
	TokSegmentID:       "SegmentID",
	TokEncodingChars:   "EncodingChars",
	TokEscape:          "Escape",
	TokEscapeError:     "EscapeError",
	TokFieldSep:        "FieldSep",
	TokRepetitionSep:   "RepetitionSep",
	TokComponentSep:    "ComponentSep",
	TokSubcomponentSep: "SubcomponentSep",
	TokSegmentEnd:      "SegmentEnd",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}

	return fmt.Sprintf("TokenKind(%d)", k)
}

// IsSeparator reports whether k is a structural delimiter token.
func (k TokenKind) IsSeparator() bool {
	switch k {
	case TokFieldSep, TokRepetitionSep, TokComponentSep, TokSubcomponentSep, TokSegmentEnd:
		return true
	default:
		return false
	}
}

// Token is a classified byte span of the message buffer.
// Tokens are contiguous and non-overlapping.
type Token struct {
	// Kind classifies what this token represents.
	Kind TokenKind

	// StartOffset is the byte index where this token begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where this token ends (exclusive).
	EndOffset int
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content []byte) []byte {
	if t.StartOffset < 0 || t.EndOffset > len(content) || t.StartOffset > t.EndOffset {
		return nil
	}

	return content[t.StartOffset:t.EndOffset]
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.EndOffset - t.StartOffset
}

// IsEmpty returns true if this token has zero length.
func (t Token) IsEmpty() bool {
	return t.StartOffset == t.EndOffset
}

// ValidateTokens checks that tokens are non-empty, contiguous and cover
// [start, end) exactly.
func ValidateTokens(tokens []Token, start, end int) bool {
	if len(tokens) == 0 {
		return start == end
	}

	if tokens[0].StartOffset != start || tokens[len(tokens)-1].EndOffset != end {
		return false
	}

	for i, tok := range tokens {
		if tok.IsEmpty() {
			return false
		}

		if i > 0 && tok.StartOffset != tokens[i-1].EndOffset {
			return false
		}
	}

	return true
}
