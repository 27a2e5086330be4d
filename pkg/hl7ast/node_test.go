package hl7ast_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

func TestTreeBuilder_Offsets(t *testing.T) {
	t.Parallel()

	b := hl7ast.NewTreeBuilder(4)
	lit := b.Leaf(hl7ast.NodeLiteral, 0, 3)
	term := b.Leaf(hl7ast.NodeDelimiter, 3, 4)
	root := b.Container(hl7ast.NodeSegment, 0, 4, []int32{lit, term})
	tree := b.Finish(root, hl7ast.StateScanning)

	assert.Equal(t, 4, tree.Len())
	assert.Equal(t, 3, tree.NodeCount())

	assert.NotPanics(t, func() {
		hl7ast.NewTreeBuilder(1).Leaf(hl7ast.NodeLiteral, hl7ast.MaxSegmentLen, hl7ast.MaxSegmentLen)
	})
}

func TestTreeBuilder_OffsetOutOfRange(t *testing.T) {
	t.Parallel()

	// Wraps to a negative value where int is 32 bits wide; rejected either way.
	tooLong := math.MaxInt32
	tooLong++

	tests := []struct {
		name  string
		build func(b *hl7ast.TreeBuilder)
	}{
		{
			name:  "leaf end past limit",
			build: func(b *hl7ast.TreeBuilder) { b.Leaf(hl7ast.NodeLiteral, 0, tooLong) },
		},
		{
			name:  "negative start",
			build: func(b *hl7ast.TreeBuilder) { b.ErrorLeaf(hl7ast.CodeTruncated, -1, 0) },
		},
		{
			name:  "opaque literal past limit",
			build: func(b *hl7ast.TreeBuilder) { b.OpaqueLiteral(tooLong, tooLong) },
		},
		{
			name:  "container past limit",
			build: func(b *hl7ast.TreeBuilder) { b.Container(hl7ast.NodeSegment, 0, tooLong, nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Panics(t, func() { tt.build(hl7ast.NewTreeBuilder(1)) })
		})
	}
}
