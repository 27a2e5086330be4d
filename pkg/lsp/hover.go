package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// hoverTextLimit caps the raw and decoded text shown in a hover.
const hoverTextLimit = 120

// hover describes the node under the cursor: its path, kind, raw text and
// decoded value.
func (s *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok || doc.snap == nil {
		return nil, nil //nolint:nilnil // no hover
	}

	snap := doc.snap
	offset := offsetAt(doc.content, doc.lines, params.Position)

	n := snap.NodeAt(offset)
	if n.Kind() == hl7ast.NodeMessage {
		return nil, nil //nolint:nilnil // outside every segment
	}

	rng := rangeOf(doc.content, doc.lines, n.Range())

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: describeNode(snap, n),
		},
		Range: &rng,
	}, nil
}

func describeNode(snap *hl7ast.Snapshot, n hl7ast.Node) string {
	var b strings.Builder

	path := snap.PathOf(n).String()
	if path == "" {
		path = fmt.Sprintf("#%d", n.SegmentIndex()+1)
	}

	fmt.Fprintf(&b, "**%s** %s", path, n.Kind())

	switch n.Kind() {
	case hl7ast.NodeDelimiter:
		fmt.Fprintf(&b, " (%s separator)", snap.Delimiters.Role(n.Text()[0]))
	case hl7ast.NodeError:
		fmt.Fprintf(&b, " `%s`", n.ErrorCode())
	case hl7ast.NodeLiteral:
		if n.IsOpaque() {
			b.WriteString(" (opaque)")
		}
	}

	fmt.Fprintf(&b, "\n\nraw: `%s`", clip(string(n.Text())))

	if n.Kind() == hl7ast.NodeLiteral {
		if value := n.Value(); value != string(n.Text()) {
			fmt.Fprintf(&b, "\n\nvalue: `%s`", clip(value))
		}
	}

	return b.String()
}

// clip shortens s for display and makes control bytes visible.
func clip(s string) string {
	s = strings.NewReplacer("\r", `\r`, "\n", `\n`, "`", "'").Replace(s)
	if len(s) > hoverTextLimit {
		s = s[:hoverTextLimit] + "…"
	}

	return s
}
