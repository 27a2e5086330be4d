package er7_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
)

func parse(t *testing.T, input string) *hl7ast.Snapshot {
	t.Helper()

	snap, err := er7.New().Parse(context.Background(), "test.hl7", []byte(input))
	require.NoError(t, err)

	return snap
}

func leafText(root hl7ast.Node) []byte {
	var buf bytes.Buffer
	for leaf := range hl7ast.Leaves(root) {
		buf.Write(leaf.Text())
	}

	return buf.Bytes()
}

func TestParse_PatientIdentifier(t *testing.T) {
	t.Parallel()

	snap := parse(t, "MSH|^~\\&|APP|FAC\rPID|||123^^^MR\r")
	require.Len(t, snap.Segments, 2)
	assert.Equal(t, "MSH", snap.SegmentName(0))
	assert.Equal(t, "PID", snap.SegmentName(1))

	e := func(depth int, kind hl7ast.NodeKind, start, end int) hl7ast.Entry {
		return hl7ast.Entry{Depth: depth, Kind: kind, Start: start, End: end}
	}
	want := []hl7ast.Entry{
		e(0, hl7ast.NodeSegment, 17, 32),
		e(1, hl7ast.NodeLiteral, 17, 20),
		e(1, hl7ast.NodeDelimiter, 20, 21),
		e(1, hl7ast.NodeField, 21, 21),
		e(1, hl7ast.NodeDelimiter, 21, 22),
		e(1, hl7ast.NodeField, 22, 22),
		e(1, hl7ast.NodeDelimiter, 22, 23),
		e(1, hl7ast.NodeField, 23, 31),
		e(2, hl7ast.NodeRepetition, 23, 31),
		e(3, hl7ast.NodeComponent, 23, 26),
		e(4, hl7ast.NodeSubcomponent, 23, 26),
		e(5, hl7ast.NodeLiteral, 23, 26),
		e(3, hl7ast.NodeDelimiter, 26, 27),
		e(3, hl7ast.NodeComponent, 27, 27),
		e(3, hl7ast.NodeDelimiter, 27, 28),
		e(3, hl7ast.NodeComponent, 28, 28),
		e(3, hl7ast.NodeDelimiter, 28, 29),
		e(3, hl7ast.NodeComponent, 29, 31),
		e(4, hl7ast.NodeSubcomponent, 29, 31),
		e(5, hl7ast.NodeLiteral, 29, 31),
		e(1, hl7ast.NodeDelimiter, 31, 32),
	}

	if diff := cmp.Diff(want, hl7ast.Flatten(snap.Segment(1))); diff != "" {
		t.Errorf("PID tree mismatch (-want +got):\n%s", diff)
	}

	fields := snap.Select(hl7ast.Path{Segment: "PID", Field: 3})
	require.Len(t, fields, 1)

	reps := hl7ast.FindByKind(fields[0], hl7ast.NodeRepetition)
	require.Len(t, reps, 1)

	comps := hl7ast.FindByKind(reps[0], hl7ast.NodeComponent)
	require.Len(t, comps, 4)

	values := make([]string, len(comps))
	for i, comp := range comps {
		values[i] = string(comp.Text())
	}

	assert.Equal(t, []string{"123", "", "", "MR"}, values)
	assert.Empty(t, snap.Issues())
}

func TestParse_HeaderEncodingCharactersAreOpaque(t *testing.T) {
	t.Parallel()

	snap := parse(t, "MSH|^~\\&|APP\r")

	msh2 := snap.Select(hl7ast.Path{Segment: "MSH", Field: 2})
	require.Len(t, msh2, 1)

	children := msh2[0].Children()
	require.Len(t, children, 1)
	assert.Equal(t, hl7ast.NodeLiteral, children[0].Kind())
	assert.True(t, children[0].IsOpaque())
	assert.Equal(t, "^~\\&", children[0].Value())

	msh3 := snap.Select(hl7ast.Path{Segment: "MSH", Field: 3})
	require.Len(t, msh3, 1)
	assert.Equal(t, "APP", string(msh3[0].Text()))
}

func TestParse_EscapedFieldSeparatorStaysInOneField(t *testing.T) {
	t.Parallel()

	snap := parse(t, "MSH|^~\\&|a\\F\\b\r")

	fields := hl7ast.FindByKind(snap.Segment(0), hl7ast.NodeField)
	require.Len(t, fields, 2)

	literals := hl7ast.FindByKind(fields[1], hl7ast.NodeLiteral)
	require.Len(t, literals, 1)
	assert.Equal(t, "a\\F\\b", string(literals[0].Text()))
	assert.Equal(t, "a|b", literals[0].Value())
}

func TestParse_UnterminatedEscapeAtEnd(t *testing.T) {
	t.Parallel()

	input := "MSH|^~\\&|A\rPID|x\\F"
	snap := parse(t, input)
	require.Len(t, snap.Segments, 2)

	assert.Equal(t, hl7ast.StateScanning, snap.Segments[0].Tree.State())
	assert.Equal(t, hl7ast.StateEscapeError, snap.Segments[1].Tree.State())

	errs := hl7ast.FindByKind(snap.Root(), hl7ast.NodeError)
	require.Len(t, errs, 1)
	assert.Equal(t, hl7ast.CodeEscapeError, errs[0].ErrorCode())
	assert.Equal(t, len(input), errs[0].End())
	assert.Equal(t, "\\F", string(errs[0].Text()))

	assert.Empty(t, hl7ast.FindByKind(snap.Segment(0), hl7ast.NodeError))

	issues := snap.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, hl7ast.CodeEscapeError, issues[0].Code)
	assert.Equal(t, hl7ast.SeverityError, issues[0].Severity)
}

func TestParse_UnterminatedEscapeMidMessage(t *testing.T) {
	t.Parallel()

	snap := parse(t, "MSH|^~\\&|A\rPID|\\F|2\rOBX|3\r")
	require.Len(t, snap.Segments, 3)

	assert.Equal(t, hl7ast.StateEscapeError, snap.Segments[1].Tree.State())
	assert.Equal(t, hl7ast.StateScanning, snap.Segments[2].Tree.State())

	obx := snap.Select(hl7ast.Path{Segment: "OBX", Field: 1})
	require.Len(t, obx, 1)
	assert.Equal(t, "3", string(obx[0].Text()))
}

func TestParse_TruncatedSegment(t *testing.T) {
	t.Parallel()

	input := "MSH|^~\\&|A\rPID|x"
	snap := parse(t, input)

	require.Len(t, snap.Segments, 2)
	assert.Equal(t, hl7ast.StateTruncated, snap.Segments[1].Tree.State())

	issues := snap.Issues()
	require.Len(t, issues, 1)
	assert.Equal(t, hl7ast.CodeTruncated, issues[0].Code)
	assert.Equal(t, hl7ast.SourceRange{StartOffset: len(input), EndOffset: len(input)}, issues[0].Range)
	assert.Contains(t, issues[0].Message, "PID")
}

func TestParse_AmbiguousDelimitersWarn(t *testing.T) {
	t.Parallel()

	snap := parse(t, "MSH|^^\\&|a^b\r")

	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, hl7ast.CodeAmbiguousDelimiter, snap.Warnings[0].Code)
	assert.Equal(t, hl7ast.SeverityWarning, snap.Warnings[0].Severity)
	assert.Equal(t, hl7ast.SourceRange{StartOffset: 4, EndOffset: 5}, snap.Warnings[0].Range)
	assert.Empty(t, hl7ast.FindByKind(snap.Root(), hl7ast.NodeError))

	// '^' is a repetition separator by precedence.
	reps := hl7ast.FindByKind(snap.Select(hl7ast.Path{Segment: "MSH", Field: 3})[0], hl7ast.NodeRepetition)
	assert.Len(t, reps, 2)
}

func TestParse_MalformedHeader(t *testing.T) {
	t.Parallel()

	_, err := er7.New().Parse(context.Background(), "bad.hl7", []byte("PID|1|2|3\r"))
	require.Error(t, err)
	assert.ErrorIs(t, err, er7.ErrMalformedHeader)
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := er7.New().Parse(ctx, "test.hl7", []byte("MSH|^~\\&|A\r"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParse_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	input := []byte("MSH|^~\\&|APP\r")
	snap, err := er7.New().Parse(context.Background(), "", input)
	require.NoError(t, err)

	input[9] = 'X'
	assert.Equal(t, "APP", string(snap.Select(hl7ast.Path{Segment: "MSH", Field: 3})[0].Text()))
}

func TestParse_LeavesReconstructBuffer(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"MSH|^~\\&|APP|FAC\rPID|||123^^^MR\r",
		"MSH|^~\\&|A\r\nPID|1~2~|a&b&^c\r\n",
		"MSH|^~\\&|A\rPID|x\\F",
		"MSH|^~\\&|A\rPID|x",
		"MSH|^^^^|^^|~~\r",
		"MSH||A|B\r\r\r|x\r",
		"MSH#$%@!#A$B%C@X41@!D@\r",
		"MSH|^~\\&|\\H\\bold\\N\\|\\.br\\|\\Z99\\\rZZ1||||\r",
		"MSH|^~\\&|A\nPID|\r|b\n",
	}

	for _, input := range inputs {
		snap := parse(t, input)
		assert.Equal(t, input, string(leafText(snap.Root())), "input %q", input)

		for i := range snap.Segments {
			seg := snap.Segment(i)
			assert.Equal(t, string(seg.Text()), string(leafText(seg)), "segment %d of %q", i, input)
		}
	}
}

func TestParse_ChildRangesAreContiguous(t *testing.T) {
	t.Parallel()

	snap := parse(t, "MSH|^~\\&|A^B&C~D|\\F\\\rPID|1||x^^y&&z\rOBX")

	err := hl7ast.Walk(snap.Root(), func(n hl7ast.Node) error {
		children := n.Children()
		if len(children) == 0 {
			return nil
		}

		assert.Equal(t, n.Start(), children[0].Start(), "first child of %s", n.Kind())
		assert.Equal(t, n.End(), children[len(children)-1].End(), "last child of %s", n.Kind())

		for i := 1; i < len(children); i++ {
			assert.Equal(t, children[i-1].End(), children[i].Start())
		}

		return nil
	})
	require.NoError(t, err)
}

func TestParse_EmptyContainersHaveNoChildren(t *testing.T) {
	t.Parallel()

	snap := parse(t, "MSH|^~\\&|~^&|\r")

	err := hl7ast.Walk(snap.Root(), func(n hl7ast.Node) error {
		if n.Kind() != hl7ast.NodeMessage && n.IsEmpty() {
			assert.Zero(t, n.ChildCount(), "%s at %d", n.Kind(), n.Start())
		}

		return nil
	})
	require.NoError(t, err)

	field := snap.Select(hl7ast.Path{Segment: "MSH", Field: 3})[0]
	reps := hl7ast.FindByKind(field, hl7ast.NodeRepetition)
	require.Len(t, reps, 2)
	assert.True(t, reps[0].IsEmpty())
	assert.Len(t, hl7ast.FindByKind(reps[1], hl7ast.NodeComponent), 2)
}
