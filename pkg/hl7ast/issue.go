package hl7ast

import (
	"bytes"
	"fmt"
)

// Severity distinguishes Error nodes from Message warnings.
type Severity uint8

// Severities.
const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}

	return "error"
}

// Issue is a recoverable problem recorded in a snapshot.
type Issue struct {
	Code     ErrorCode
	Severity Severity
	Range    SourceRange
	Message  string
}

// Issues returns every Message warning followed by every Error node in
// buffer order.
func (s *Snapshot) Issues() []Issue {
	out := make([]Issue, 0, len(s.Warnings))
	out = append(out, s.Warnings...)

	for i, ref := range s.Segments {
		if ref.Tree.State() == StateScanning {
			continue
		}

		_ = Walk(s.Segment(i), func(n Node) error {
			if n.Kind() == NodeError {
				out = append(out, Issue{
					Code:     n.ErrorCode(),
					Severity: SeverityError,
					Range:    n.Range(),
					Message:  errorMessage(s, i, n),
				})
			}

			return nil
		})
	}

	return out
}

func errorMessage(s *Snapshot, segIdx int, n Node) string {
	name := s.SegmentName(segIdx)
	if name == "" {
		name = fmt.Sprintf("#%d", segIdx+1)
	}

	switch n.ErrorCode() {
	case CodeTruncated:
		return fmt.Sprintf("segment %s is not terminated", name)
	case CodeEscapeError:
		return fmt.Sprintf("unterminated escape sequence %q in segment %s", n.Text(), name)
	default:
		return n.ErrorCode().String()
	}
}

// delimiterWarnings reports each ambiguous delimiter byte, pointing at its
// first declaration in the header when it appears there.
func delimiterWarnings(content []byte, d Delimiters) []Issue {
	ambiguities := d.Ambiguities()
	if len(ambiguities) == 0 {
		return nil
	}

	header := content[:min(len(content), 8)]
	out := make([]Issue, 0, len(ambiguities))

	for _, amb := range ambiguities {
		r := SourceRange{}
		if len(header) > 3 {
			if i := bytes.IndexByte(header[3:], amb.Char); i >= 0 {
				r = SourceRange{StartOffset: 3 + i, EndOffset: 4 + i}
			}
		}

		out = append(out, Issue{
			Code:     CodeAmbiguousDelimiter,
			Severity: SeverityWarning,
			Range:    r,
			Message:  amb.Describe(),
		})
	}

	return out
}
