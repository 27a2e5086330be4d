// Package er7 parses HL7v2 messages in ER7 (pipe-delimited) encoding into
// hl7ast snapshots, and reparses them incrementally after edits.
package er7

import (
	"context"
	"fmt"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// Parser turns ER7 buffers into snapshots. It holds no state between
// calls and is safe for concurrent use.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse builds a snapshot of content.
//
// The header is read first to derive the delimiters; everything after it
// is tokenized and folded segment by segment. Malformed segments are kept
// in the tree with Error leaves. Only an underivable header fails the
// parse, with an error wrapping ErrMalformedHeader.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*hl7ast.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	owned := copyContent(content)

	delims, err := Initialize(owned)
	if err != nil {
		return nil, err
	}

	return hl7ast.NewSnapshot(path, owned, delims, parseSegments(owned, delims)), nil
}

func parseSegments(content []byte, delims hl7ast.Delimiters) []hl7ast.SegmentRef {
	var refs []hl7ast.SegmentRef

	lx := NewLexer(content, delims, 0)
	sb := newSegmentBuilder()

	for lx.Offset() < len(content) {
		start := lx.Offset()
		refs = append(refs, hl7ast.SegmentRef{Tree: sb.buildSegment(lx), Offset: start})
	}

	return refs
}

// copyContent creates a defensive copy of the content slice.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}

	cp := make([]byte, len(content))
	copy(cp, content)

	return cp
}
