package er7

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// minHeaderLen is "MSH" + field separator + four encoding characters.
const minHeaderLen = 8

// ErrMalformedHeader means no delimiter scheme could be derived from the
// buffer. It is the only error that prevents a tree.
var ErrMalformedHeader = errors.New("malformed header")

// HeaderError carries the reason a header was rejected.
type HeaderError struct {
	Reason string
}

func (e *HeaderError) Error() string {
	return "malformed header: " + e.Reason
}

// Unwrap lets errors.Is match ErrMalformedHeader.
func (e *HeaderError) Unwrap() error {
	return ErrMalformedHeader
}

// Initialize derives the delimiter set from the MSH header at the start of
// raw. A legacy header that declares fewer than four encoding characters
// gets the defaults for the missing ones. The segment terminator is the
// first CR or LF in raw, CR when there is none.
func Initialize(raw []byte) (hl7ast.Delimiters, error) {
	if len(raw) < minHeaderLen {
		return hl7ast.Delimiters{}, &HeaderError{
			Reason: fmt.Sprintf("message is %d bytes, need at least %d", len(raw), minHeaderLen),
		}
	}

	if !bytes.HasPrefix(raw, []byte("MSH")) {
		return hl7ast.Delimiters{}, &HeaderError{
			Reason: fmt.Sprintf("message starts with %q, want \"MSH\"", raw[:3]),
		}
	}

	delims := hl7ast.DefaultDelimiters()
	delims.Field = raw[3]

	enc := raw[4:headerPrefixLen(raw)]
	targets := []*byte{&delims.Component, &delims.Repetition, &delims.Escape, &delims.Subcomponent}

	for i, c := range enc {
		*targets[i] = c
	}

	if i := bytes.IndexAny(raw[4:], "\r\n"); i >= 0 {
		delims.Segment = raw[4+i]
	}

	return delims, nil
}

// headerPrefixLen returns the length of the delimiter-declaring prefix:
// "MSH", the field separator and the encoding characters actually present.
func headerPrefixLen(raw []byte) int {
	if len(raw) < 4 {
		return len(raw)
	}

	field := raw[3]
	end := 4

	for end < len(raw) && end < minHeaderLen {
		c := raw[end]
		if c == field || c == '\r' || c == '\n' {
			break
		}

		end++
	}

	return end
}
