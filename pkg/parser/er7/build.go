package er7

import "github.com/yaklabco/hl7lint/pkg/hl7ast"

// level is a nesting depth inside a field.
type level int

const (
	levelField level = iota
	levelRepetition
	levelComponent
	levelSubcomponent
	numLevels
)

var levelKinds = [numLevels]hl7ast.NodeKind{
	hl7ast.NodeField,
	hl7ast.NodeRepetition,
	hl7ast.NodeComponent,
	hl7ast.NodeSubcomponent,
}

// sepLevels maps a separator token to the level it closes.
var sepLevels = map[hl7ast.TokenKind]level{
	hl7ast.TokRepetitionSep:   levelRepetition,
	hl7ast.TokComponentSep:    levelComponent,
	hl7ast.TokSubcomponentSep: levelSubcomponent,
}

// frame is an open container. Offsets are segment-relative.
type frame struct {
	start int
	kids  []int32
}

// segmentBuilder folds the tokens of one segment into a SegmentTree.
type segmentBuilder struct {
	tree      *hl7ast.TreeBuilder
	base      int
	frames    [numLevels]frame
	fieldOpen bool
	opaque    bool // open field holds header encoding characters
	litStart  int  // start of the pending merged literal, -1 when none
	segKids   []int32
	state     hl7ast.SegmentState
}

func newSegmentBuilder() *segmentBuilder {
	return &segmentBuilder{litStart: -1}
}

// buildSegment pulls tokens from lx up to and including the next segment
// terminator, or to end of input, and returns the finished tree. The lexer
// must sit at a segment start.
func (sb *segmentBuilder) buildSegment(lx *Lexer) *hl7ast.SegmentTree {
	sb.reset(lx.Offset())

	for tok, ok := lx.Next(); ok; tok, ok = lx.Next() {
		if sb.consume(tok) {
			return sb.finish(tok.EndOffset - sb.base)
		}
	}

	end := lx.Offset() - sb.base
	sb.closeField(end)

	if sb.state == hl7ast.StateScanning {
		sb.segKids = append(sb.segKids, sb.tree.ErrorLeaf(hl7ast.CodeTruncated, end, end))
		sb.state = hl7ast.StateTruncated
	}

	return sb.finish(end)
}

func (sb *segmentBuilder) reset(base int) {
	sb.tree = hl7ast.NewTreeBuilder(32)
	sb.base = base
	sb.fieldOpen = false
	sb.opaque = false
	sb.litStart = -1
	sb.segKids = sb.segKids[:0]
	sb.state = hl7ast.StateScanning
}

func (sb *segmentBuilder) finish(end int) *hl7ast.SegmentTree {
	root := sb.tree.Container(hl7ast.NodeSegment, 0, end, sb.segKids)

	return sb.tree.Finish(root, sb.state)
}

// consume applies one token and reports whether it ended the segment.
func (sb *segmentBuilder) consume(tok hl7ast.Token) bool {
	start := tok.StartOffset - sb.base
	end := tok.EndOffset - sb.base

	switch tok.Kind {
	case hl7ast.TokSegmentID:
		sb.segKids = append(sb.segKids, sb.tree.OpaqueLiteral(start, end))
	case hl7ast.TokEncodingChars:
		sb.ensureField(start)
		sb.opaque = true
		f := &sb.frames[levelField]
		f.kids = append(f.kids, sb.tree.OpaqueLiteral(start, end))
	case hl7ast.TokLiteral, hl7ast.TokEscape:
		sb.ensureField(start)
		if sb.litStart < 0 {
			sb.litStart = start
		}
	case hl7ast.TokEscapeError:
		sb.ensureField(start)
		sb.flushLiteral(start)
		sub := &sb.frames[levelSubcomponent]
		sub.kids = append(sub.kids, sb.tree.ErrorLeaf(hl7ast.CodeEscapeError, start, end))
		sb.state = hl7ast.StateEscapeError
	case hl7ast.TokFieldSep:
		sb.closeField(start)
		sb.segKids = append(sb.segKids, sb.tree.Leaf(hl7ast.NodeDelimiter, start, end))
		sb.open(levelField, end)
	case hl7ast.TokRepetitionSep, hl7ast.TokComponentSep, hl7ast.TokSubcomponentSep:
		sb.ensureField(start)
		lv := sepLevels[tok.Kind]
		parent := &sb.frames[lv-1]
		parent.kids = append(parent.kids, sb.close(lv, start))
		parent.kids = append(parent.kids, sb.tree.Leaf(hl7ast.NodeDelimiter, start, end))
		sb.open(lv, end)
	case hl7ast.TokSegmentEnd:
		sb.closeField(start)
		sb.segKids = append(sb.segKids, sb.tree.Leaf(hl7ast.NodeDelimiter, start, end))

		return true
	}

	return false
}

// ensureField opens an implicit field for content that appears before any
// field separator. The lexer never produces such content from a segment
// boundary, but a resumed lexer may.
func (sb *segmentBuilder) ensureField(at int) {
	if !sb.fieldOpen {
		sb.open(levelField, at)
	}
}

// open starts fresh containers from lv down to the subcomponent level.
func (sb *segmentBuilder) open(lv level, at int) {
	for l := lv; l < numLevels; l++ {
		sb.frames[l].start = at
		sb.frames[l].kids = sb.frames[l].kids[:0]
	}

	if lv == levelField {
		sb.fieldOpen = true
		sb.opaque = false
	}

	sb.litStart = -1
}

func (sb *segmentBuilder) closeField(at int) {
	if !sb.fieldOpen {
		return
	}

	sb.segKids = append(sb.segKids, sb.close(levelField, at))
	sb.fieldOpen = false
}

// close seals the container at lv ending at at, closing deeper levels
// first. An empty container gets no children at all.
func (sb *segmentBuilder) close(lv level, at int) int32 {
	f := &sb.frames[lv]
	if f.start == at {
		return sb.tree.Container(levelKinds[lv], at, at, nil)
	}

	switch {
	case lv == levelSubcomponent:
		sb.flushLiteral(at)
	case lv == levelField && sb.opaque:
	default:
		child := sb.close(lv+1, at)
		f.kids = append(f.kids, child)
	}

	return sb.tree.Container(levelKinds[lv], f.start, at, f.kids)
}

// flushLiteral emits the pending merged literal ending at at.
func (sb *segmentBuilder) flushLiteral(at int) {
	if sb.litStart < 0 || sb.litStart == at {
		sb.litStart = -1

		return
	}

	sub := &sb.frames[levelSubcomponent]
	sub.kids = append(sub.kids, sb.tree.Leaf(hl7ast.NodeLiteral, sb.litStart, at))
	sb.litStart = -1
}
