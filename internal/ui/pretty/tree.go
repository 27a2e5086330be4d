package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// TreeOptions controls FormatTree.
type TreeOptions struct {
	// MaxDepth stops descent below this depth; the message is depth 0.
	// 0 means unlimited.
	MaxDepth int

	// Delimiters includes delimiter leaves in the outline.
	Delimiters bool

	// Width is the terminal width used to cut long literals. 0 means
	// DefaultWidth.
	Width int
}

// FormatTree renders snap as an indented outline, one node per line.
// Containers show their HL7 path and byte range; leaves show their text.
func (s *Styles) FormatTree(snap *hl7ast.Snapshot, opts TreeOptions) string {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	var builder strings.Builder

	root := snap.Root()
	fmt.Fprintf(&builder, "%s %s %s\n",
		s.TreeContainer.Render("Message"),
		s.TreeRange.Render(formatRange(root.Range())),
		s.Dim.Render(fmt.Sprintf("%d segments, delimiters %s", root.ChildCount(), snap.Delimiters)))

	s.formatChildren(&builder, snap, root, "", 1, opts)

	return builder.String()
}

// FormatSubtree renders n and its descendants as an outline.
func (s *Styles) FormatSubtree(snap *hl7ast.Snapshot, n hl7ast.Node, opts TreeOptions) string {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	var builder strings.Builder

	builder.WriteString(s.formatNode(snap, n, opts.Width) + "\n")

	if !n.Kind().IsLeaf() {
		s.formatChildren(&builder, snap, n, "", 1, opts)
	}

	return builder.String()
}

func (s *Styles) formatChildren(b *strings.Builder, snap *hl7ast.Snapshot, n hl7ast.Node, prefix string, depth int, opts TreeOptions) {
	if opts.MaxDepth > 0 && depth > opts.MaxDepth {
		return
	}

	kids := n.Children()
	if !opts.Delimiters {
		visible := kids[:0:0]
		for _, kid := range kids {
			if kid.Kind() != hl7ast.NodeDelimiter {
				visible = append(visible, kid)
			}
		}

		kids = visible
	}

	for i, kid := range kids {
		branch, indent := "├─ ", "│  "
		if i == len(kids)-1 {
			branch, indent = "└─ ", "   "
		}

		head := prefix + branch
		b.WriteString(s.TreeGuide.Render(head) + s.formatNode(snap, kid, opts.Width-len(head)) + "\n")

		if !kid.Kind().IsLeaf() {
			s.formatChildren(b, snap, kid, prefix+indent, depth+1, opts)
		}
	}
}

func (s *Styles) formatNode(snap *hl7ast.Snapshot, n hl7ast.Node, room int) string {
	rng := s.TreeRange.Render(formatRange(n.Range()))

	switch n.Kind() {
	case hl7ast.NodeLiteral:
		label := "Literal"
		if n.IsOpaque() {
			label = "Literal (opaque)"
		}

		return s.TreeLiteral.Render(label) + " " + quoteText(n.Text(), room-len(label)-16) + " " + rng
	case hl7ast.NodeDelimiter:
		role := snap.Delimiters.Role(n.Text()[0])

		return s.TreeDelimiter.Render("Delimiter") + " " + quoteText(n.Text(), room) + " " + s.Dim.Render(role.String()) + " " + rng
	case hl7ast.NodeError:
		return s.TreeError.Render("Error "+n.ErrorCode().String()) + " " + quoteText(n.Text(), room-24) + " " + rng
	case hl7ast.NodeSegment:
		name := n.SegmentName()
		if name == "" {
			name = "#" + strconv.Itoa(n.SegmentIndex()+1)
		}

		return s.TreeContainer.Render("Segment") + " " + s.Bold.Render(name) + " " + rng
	default:
		label := s.TreeContainer.Render(n.Kind().String()) + " " + s.HL7Path.Render(snap.PathOf(n).String()) + " " + rng
		if n.IsEmpty() {
			label += " " + s.Dim.Render("empty")
		}

		return label
	}
}

func formatRange(r hl7ast.SourceRange) string {
	return fmt.Sprintf("[%d,%d)", r.StartOffset, r.EndOffset)
}

// quoteText quotes text for the outline, cutting it to fit room columns.
func quoteText(text []byte, room int) string {
	const minRoom = 12

	q := strconv.Quote(string(text))
	if room < minRoom {
		room = minRoom
	}

	if len(q) > room {
		q = q[:room-4] + `..."`
	}

	return q
}
