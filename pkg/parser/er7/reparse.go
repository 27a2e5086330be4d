package er7

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// ErrNoSnapshot is returned when Reparse gets a nil previous snapshot.
var ErrNoSnapshot = errors.New("no previous snapshot")

// ReparseStats describes how much of the previous snapshot a reparse kept.
type ReparseStats struct {
	// Reused counts segment trees shared with the previous snapshot.
	Reused int

	// Rebuilt counts segment trees lexed and built from scratch.
	Rebuilt int

	// Full is set when the header changed and everything was reparsed.
	Full bool
}

// ApplyEdit reparses prev after edit with a default Parser.
func ApplyEdit(prev *hl7ast.Snapshot, edit hl7ast.Edit) (*hl7ast.Snapshot, error) {
	return New().Reparse(context.Background(), prev, edit)
}

// Reparse returns the snapshot of prev's buffer with edit applied. prev is
// not modified; unchanged segment trees are shared with it. The result is
// always equal to a full parse of the edited buffer.
func (p *Parser) Reparse(ctx context.Context, prev *hl7ast.Snapshot, edit hl7ast.Edit) (*hl7ast.Snapshot, error) {
	snap, _, err := p.ReparseWithStats(ctx, prev, edit)

	return snap, err
}

// ReparseWithStats is Reparse that also reports segment reuse.
func (p *Parser) ReparseWithStats(
	ctx context.Context,
	prev *hl7ast.Snapshot,
	edit hl7ast.Edit,
) (*hl7ast.Snapshot, ReparseStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, ReparseStats{}, fmt.Errorf("reparse cancelled: %w", err)
	}

	if prev == nil {
		return nil, ReparseStats{}, ErrNoSnapshot
	}

	content, err := edit.Apply(prev.Content)
	if err != nil {
		return nil, ReparseStats{}, err
	}

	if edit.IsNoop() {
		refs := append([]hl7ast.SegmentRef(nil), prev.Segments...)

		return hl7ast.NewSnapshot(prev.Path, content, prev.Delimiters, refs),
			ReparseStats{Reused: len(refs)}, nil
	}

	delims, err := Initialize(content)
	if err != nil {
		return nil, ReparseStats{}, err
	}

	if delims != prev.Delimiters || edit.Offset <= headerPrefixLen(prev.Content) {
		refs := parseSegments(content, delims)

		return hl7ast.NewSnapshot(prev.Path, content, delims, refs),
			ReparseStats{Rebuilt: len(refs), Full: true}, nil
	}

	refs, stats := spliceSegments(prev.Segments, content, delims, edit)

	return hl7ast.NewSnapshot(prev.Path, content, delims, refs), stats, nil
}

// spliceSegments re-lexes the segments touched by edit and reuses the rest.
//
// Segments whose range touches [Offset, End] (inclusive, so a boundary edit
// dirties both neighbours) are rebuilt starting at the first one's start.
// Rebuilding stops as soon as a new segment ends exactly where a shifted
// old segment past the edit begins: from there the bytes and the lexer
// state are identical, so the old trees are reused at offset+delta.
func spliceSegments(
	old []hl7ast.SegmentRef,
	content []byte,
	delims hl7ast.Delimiters,
	edit hl7ast.Edit,
) ([]hl7ast.SegmentRef, ReparseStats) {
	first := sort.Search(len(old), func(i int) bool {
		return old[i].End() >= edit.Offset
	})
	if first == len(old) {
		first = max(len(old)-1, 0)
	}

	// next is the first old segment starting strictly after the edit.
	next := sort.Search(len(old), func(i int) bool {
		return old[i].Offset > edit.End()
	})

	restart := 0
	if first < len(old) {
		restart = old[first].Offset
	}

	delta := edit.Delta()
	refs := make([]hl7ast.SegmentRef, 0, len(old)+1)
	refs = append(refs, old[:first]...)

	stats := ReparseStats{Reused: first}
	lx := NewLexer(content, delims, restart)
	sb := newSegmentBuilder()

	for lx.Offset() < len(content) {
		start := lx.Offset()
		refs = append(refs, hl7ast.SegmentRef{Tree: sb.buildSegment(lx), Offset: start})
		stats.Rebuilt++

		end := lx.Offset()
		for next < len(old) && old[next].Offset+delta < end {
			next++
		}

		if next < len(old) && old[next].Offset+delta == end {
			for _, ref := range old[next:] {
				refs = append(refs, ref.Shift(delta))
			}

			stats.Reused += len(old) - next

			break
		}
	}

	return refs, stats
}
