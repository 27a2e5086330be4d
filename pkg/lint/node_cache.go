package lint

import (
	"bytes"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// NodeCache holds nodes of a snapshot grouped by what rules look for, so
// the tree is walked once per file instead of once per rule.
//
// Returned slices are shared between rules. Copy before sorting or
// filtering in place.
//
// NodeCache is not safe for concurrent use; the engine builds one per file.
type NodeCache struct {
	root hl7ast.Node

	segments   []hl7ast.Node
	fields     []hl7ast.Node
	escapes    []hl7ast.Node
	errors     []hl7ast.Node
	delimiters []hl7ast.Node

	built bool
}

// NewNodeCache returns an empty cache over root. It fills on first use.
func NewNodeCache(root hl7ast.Node) *NodeCache {
	return &NodeCache{root: root}
}

func (nc *NodeCache) build() {
	if nc.built {
		return
	}

	nc.built = true

	if !nc.root.IsValid() {
		return
	}

	escape := nc.root.Snapshot().Delimiters.Escape

	_ = hl7ast.Walk(nc.root, func(n hl7ast.Node) error {
		switch n.Kind() {
		case hl7ast.NodeSegment:
			nc.segments = append(nc.segments, n)
		case hl7ast.NodeField:
			nc.fields = append(nc.fields, n)
		case hl7ast.NodeLiteral:
			if !n.IsOpaque() && bytes.IndexByte(n.Text(), escape) >= 0 {
				nc.escapes = append(nc.escapes, n)
			}
		case hl7ast.NodeDelimiter:
			nc.delimiters = append(nc.delimiters, n)
		case hl7ast.NodeError:
			nc.errors = append(nc.errors, n)
		}

		return nil
	})
}

// Segments returns every Segment node in buffer order.
func (nc *NodeCache) Segments() []hl7ast.Node {
	nc.build()

	return nc.segments
}

// Fields returns every Field node in buffer order.
func (nc *NodeCache) Fields() []hl7ast.Node {
	nc.build()

	return nc.fields
}

// EscapedLiterals returns the decodable literals that contain the escape character.
func (nc *NodeCache) EscapedLiterals() []hl7ast.Node {
	nc.build()

	return nc.escapes
}

// Errors returns every Error leaf.
func (nc *NodeCache) Errors() []hl7ast.Node {
	nc.build()

	return nc.errors
}

// Delimiters returns every Delimiter leaf, terminators included.
func (nc *NodeCache) Delimiters() []hl7ast.Node {
	nc.build()

	return nc.delimiters
}
