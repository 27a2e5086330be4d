// Package treefmt serializes parse trees as JSON, YAML, canonical CBOR or a
// terminal outline.
package treefmt

import (
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// Node is the serialized form of one tree node.
type Node struct {
	Kind     string `json:"kind" yaml:"kind" cbor:"kind"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty" cbor:"path,omitempty"`
	Start    int    `json:"start" yaml:"start" cbor:"start"`
	End      int    `json:"end" yaml:"end" cbor:"end"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty" cbor:"text,omitempty"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty" cbor:"value,omitempty"`
	Role     string `json:"role,omitempty" yaml:"role,omitempty" cbor:"role,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty" cbor:"error,omitempty"`
	Opaque   bool   `json:"opaque,omitempty" yaml:"opaque,omitempty" cbor:"opaque,omitempty"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty" cbor:"children,omitempty"`
}

// Delimiters is the serialized delimiter alphabet.
type Delimiters struct {
	Segment      string `json:"segment" yaml:"segment" cbor:"segment"`
	Field        string `json:"field" yaml:"field" cbor:"field"`
	Component    string `json:"component" yaml:"component" cbor:"component"`
	Repetition   string `json:"repetition" yaml:"repetition" cbor:"repetition"`
	Escape       string `json:"escape" yaml:"escape" cbor:"escape"`
	Subcomponent string `json:"subcomponent" yaml:"subcomponent" cbor:"subcomponent"`
}

// Issue is a serialized snapshot issue.
type Issue struct {
	Code     string `json:"code" yaml:"code" cbor:"code"`
	Severity string `json:"severity" yaml:"severity" cbor:"severity"`
	Start    int    `json:"start" yaml:"start" cbor:"start"`
	End      int    `json:"end" yaml:"end" cbor:"end"`
	Message  string `json:"message" yaml:"message" cbor:"message"`
}

// Document is the top-level serialized parse.
type Document struct {
	Path       string     `json:"path,omitempty" yaml:"path,omitempty" cbor:"path,omitempty"`
	Delimiters Delimiters `json:"delimiters" yaml:"delimiters" cbor:"delimiters"`
	Segments   int        `json:"segments" yaml:"segments" cbor:"segments"`
	Issues     []Issue    `json:"issues" yaml:"issues" cbor:"issues"`

	// Nodes holds the message root, or the selected nodes when a path
	// selection was made.
	Nodes []Node `json:"nodes" yaml:"nodes" cbor:"nodes"`
}

// Options controls which parts of the tree are serialized.
type Options struct {
	// MaxDepth stops descent below this depth relative to each emitted
	// node. 0 means unlimited.
	MaxDepth int

	// Delimiters includes delimiter leaves.
	Delimiters bool

	// Select limits the output to the nodes addressed by this path.
	Select *hl7ast.Path
}

// Build converts snap into a Document.
func Build(snap *hl7ast.Snapshot, opts Options) *Document {
	d := snap.Delimiters

	doc := &Document{
		Path: snap.Path,
		Delimiters: Delimiters{
			Segment:      string(d.Segment),
			Field:        string(d.Field),
			Component:    string(d.Component),
			Repetition:   string(d.Repetition),
			Escape:       string(d.Escape),
			Subcomponent: string(d.Subcomponent),
		},
		Segments: len(snap.Segments),
		Issues:   []Issue{},
		Nodes:    []Node{},
	}

	for _, issue := range snap.Issues() {
		doc.Issues = append(doc.Issues, Issue{
			Code:     issue.Code.String(),
			Severity: issue.Severity.String(),
			Start:    issue.Range.StartOffset,
			End:      issue.Range.EndOffset,
			Message:  issue.Message,
		})
	}

	roots := []hl7ast.Node{snap.Root()}
	if opts.Select != nil {
		roots = snap.Select(*opts.Select)
	}

	for _, n := range roots {
		doc.Nodes = append(doc.Nodes, convert(snap, n, 0, opts))
	}

	return doc
}

func convert(snap *hl7ast.Snapshot, n hl7ast.Node, depth int, opts Options) Node {
	out := Node{
		Kind:  n.Kind().String(),
		Start: n.Start(),
		End:   n.End(),
	}

	switch n.Kind() {
	case hl7ast.NodeMessage:
	case hl7ast.NodeSegment:
		out.Path = n.SegmentName()
	case hl7ast.NodeLiteral:
		out.Text = string(n.Text())
		out.Opaque = n.IsOpaque()

		if v := n.Value(); v != out.Text {
			out.Value = v
		}

		return out
	case hl7ast.NodeDelimiter:
		out.Text = string(n.Text())
		out.Role = snap.Delimiters.Role(n.Text()[0]).String()

		return out
	case hl7ast.NodeError:
		out.Text = string(n.Text())
		out.Error = n.ErrorCode().String()

		return out
	default:
		out.Path = snap.PathOf(n).String()
	}

	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return out
	}

	for _, kid := range n.Children() {
		if kid.Kind() == hl7ast.NodeDelimiter && !opts.Delimiters {
			continue
		}

		out.Children = append(out.Children, convert(snap, kid, depth+1, opts))
	}

	return out
}
