package lsp

import (
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// symbolDetailLimit caps the field text shown as symbol detail.
const symbolDetailLimit = 40

// documentSymbols lists segments with their non-empty fields as children.
func (s *Server) documentSymbols(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok || doc.snap == nil {
		return []protocol.DocumentSymbol{}, nil
	}

	snap := doc.snap
	symbols := make([]protocol.DocumentSymbol, 0, len(snap.Segments))

	for i := range snap.Segments {
		seg := snap.Segment(i)

		name := seg.SegmentName()
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}

		selection := seg.Range()
		if seg.ChildCount() > 0 {
			selection = seg.Child(0).Range()
		}

		detail := fmt.Sprintf("segment %d", i+1)
		sym := protocol.DocumentSymbol{
			Name:           name,
			Detail:         &detail,
			Kind:           protocol.SymbolKindStruct,
			Range:          rangeOf(doc.content, doc.lines, seg.Range()),
			SelectionRange: rangeOf(doc.content, doc.lines, selection),
		}

		for _, field := range seg.Children() {
			if field.Kind() != hl7ast.NodeField || field.IsEmpty() {
				continue
			}

			text := clip(string(field.Text()))
			if len(text) > symbolDetailLimit {
				text = text[:symbolDetailLimit] + "…"
			}

			fieldRange := rangeOf(doc.content, doc.lines, field.Range())
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           snap.PathOf(field).String(),
				Detail:         &text,
				Kind:           protocol.SymbolKindField,
				Range:          fieldRange,
				SelectionRange: fieldRange,
			})
		}

		symbols = append(symbols, sym)
	}

	return symbols, nil
}
