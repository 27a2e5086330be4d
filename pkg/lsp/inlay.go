package lsp

import (
	"strconv"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

const methodInlayHint = "textDocument/inlayHint"

// InlayHintKindType marks a hint as a type annotation.
const InlayHintKindType = 1

// InlayHintParams are the parameters of a textDocument/inlayHint request.
type InlayHintParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Range        protocol.Range                  `json:"range"`
}

// InlayHint is a label shown inline in the editor.
type InlayHint struct {
	Position     protocol.Position `json:"position"`
	Label        string            `json:"label"`
	Kind         int               `json:"kind,omitempty"`
	PaddingLeft  bool              `json:"paddingLeft"`
	PaddingRight bool              `json:"paddingRight"`
}

// inlayHints labels every field separator in the requested range with the
// number of the field it opens: "N:" when the field has content, "N" when
// it is empty.
func (s *Server) inlayHints(params *InlayHintParams) []InlayHint {
	hints := []InlayHint{}

	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok || doc.snap == nil {
		return hints
	}

	for _, hint := range fieldHints(doc.snap) {
		pos := positionAt(doc.content, doc.lines, hint.offset)
		if pos.Line < params.Range.Start.Line || pos.Line > params.Range.End.Line {
			continue
		}

		hints = append(hints, InlayHint{
			Position: pos,
			Label:    hint.label,
			Kind:     InlayHintKindType,
		})
	}

	return hints
}

type fieldHint struct {
	offset int
	label  string
}

// fieldHints returns a label for each field separator, placed just after
// it. Header segments number from 2 because their first separator is
// field 1.
func fieldHints(snap *hl7ast.Snapshot) []fieldHint {
	var out []fieldHint

	for i := range snap.Segments {
		seg := snap.Segment(i)
		kids := seg.Children()

		field := 0
		if hl7ast.IsHeaderSegment([]byte(seg.SegmentName())) {
			field++
		}

		for j := 1; j < len(kids); j++ {
			kid := kids[j]
			if kid.Kind() != hl7ast.NodeDelimiter || snap.Delimiters.Role(kid.Text()[0]) != hl7ast.RoleField {
				continue
			}

			field++

			label := strconv.Itoa(field)
			if j+1 < len(kids) && kids[j+1].Kind() == hl7ast.NodeField && !kids[j+1].IsEmpty() {
				label += ":"
			}

			out = append(out, fieldHint{offset: kid.End(), label: label})
		}
	}

	return out
}
