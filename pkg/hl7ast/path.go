package hl7ast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IsHeaderSegment reports whether id names a segment whose first field
// declares the encoding characters (MSH, FHS, BHS).
func IsHeaderSegment(id []byte) bool {
	switch string(id) {
	case "MSH", "FHS", "BHS":
		return true
	default:
		return false
	}
}

// Path addresses a node in conventional HL7 notation, e.g. PID-3[1].4.1.
// Numbers are 1-based; zero means the level is not addressed.
type Path struct {
	Segment      string
	SegmentIndex int // 0-based position in the message, -1 when unknown
	Field        int
	Repetition   int
	Component    int
	Subcomponent int
}

// String renders the path.
func (p Path) String() string {
	var sb strings.Builder

	sb.WriteString(p.Segment)

	if p.Field == 0 {
		return sb.String()
	}

	fmt.Fprintf(&sb, "-%d", p.Field)

	if p.Repetition > 0 {
		fmt.Fprintf(&sb, "[%d]", p.Repetition)
	}

	if p.Component > 0 {
		fmt.Fprintf(&sb, ".%d", p.Component)

		if p.Subcomponent > 0 {
			fmt.Fprintf(&sb, ".%d", p.Subcomponent)
		}
	}

	return sb.String()
}

// ErrInvalidPath is returned by ParsePath for malformed input.
var ErrInvalidPath = errors.New("invalid path")

// ParsePath parses SEG[-F[[R]][.C[.S]]], e.g. "PID", "PID-3", "PID-3[2].1".
func ParsePath(s string) (Path, error) {
	p := Path{SegmentIndex: -1}

	seg, rest, hasField := strings.Cut(s, "-")
	if seg == "" {
		return Path{}, fmt.Errorf("%w: %q: missing segment id", ErrInvalidPath, s)
	}

	p.Segment = seg
	if !hasField {
		return p, nil
	}

	parts := strings.Split(rest, ".")
	if len(parts) > 3 {
		return Path{}, fmt.Errorf("%w: %q: too many levels", ErrInvalidPath, s)
	}

	fieldPart := parts[0]
	if open := strings.IndexByte(fieldPart, '['); open >= 0 {
		if !strings.HasSuffix(fieldPart, "]") {
			return Path{}, fmt.Errorf("%w: %q: unclosed repetition", ErrInvalidPath, s)
		}

		rep, err := positive(fieldPart[open+1 : len(fieldPart)-1])
		if err != nil {
			return Path{}, fmt.Errorf("%w: %q: repetition: %w", ErrInvalidPath, s, err)
		}

		p.Repetition = rep
		fieldPart = fieldPart[:open]
	}

	var err error

	if p.Field, err = positive(fieldPart); err != nil {
		return Path{}, fmt.Errorf("%w: %q: field: %w", ErrInvalidPath, s, err)
	}

	if len(parts) > 1 {
		if p.Component, err = positive(parts[1]); err != nil {
			return Path{}, fmt.Errorf("%w: %q: component: %w", ErrInvalidPath, s, err)
		}
	}

	if len(parts) > 2 {
		if p.Subcomponent, err = positive(parts[2]); err != nil {
			return Path{}, fmt.Errorf("%w: %q: subcomponent: %w", ErrInvalidPath, s, err)
		}
	}

	return p, nil
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}

	return n, nil
}

// PathOf returns the address of n. Leaves report the path of the
// container holding them.
func (s *Snapshot) PathOf(n Node) Path {
	chain := s.Ancestors(n)
	p := Path{SegmentIndex: -1}

	for i := 1; i < len(chain); i++ {
		cur := chain[i]
		parent := chain[i-1]

		switch cur.Kind() {
		case NodeSegment:
			p.Segment = cur.SegmentName()
			p.SegmentIndex = cur.SegmentIndex()
		case NodeField:
			p.Field = ordinal(parent, cur)
			if IsHeaderSegment([]byte(p.Segment)) {
				p.Field++
			}
		case NodeRepetition:
			p.Repetition = ordinal(parent, cur)
		case NodeComponent:
			p.Component = ordinal(parent, cur)
		case NodeSubcomponent:
			p.Subcomponent = ordinal(parent, cur)
		}
	}

	return p
}

// ordinal returns the 1-based position of child among parent's children
// of the same kind.
func ordinal(parent, child Node) int {
	count := 0

	for _, sibling := range parent.Children() {
		if sibling.Kind() != child.Kind() {
			continue
		}

		count++

		if sibling.idx == child.idx {
			return count
		}
	}

	return 0
}

// Select returns the nodes addressed by p in every segment named
// p.Segment. Repetition defaults to the first when a component is
// addressed without one.
func (s *Snapshot) Select(p Path) []Node {
	var out []Node

	for i := range s.Segments {
		seg := s.Segment(i)
		if seg.SegmentName() != p.Segment {
			continue
		}

		if p.Field == 0 {
			out = append(out, seg)

			continue
		}

		fieldNum := p.Field
		if IsHeaderSegment([]byte(p.Segment)) {
			fieldNum--
		}

		cur := nthOfKind(seg, NodeField, fieldNum)
		if !cur.IsValid() || (p.Repetition == 0 && p.Component == 0) {
			if cur.IsValid() {
				out = append(out, cur)
			}

			continue
		}

		rep := max(p.Repetition, 1)
		levels := []struct {
			kind NodeKind
			n    int
		}{
			{NodeRepetition, rep},
			{NodeComponent, p.Component},
			{NodeSubcomponent, p.Subcomponent},
		}

		for _, level := range levels {
			if level.n == 0 || !cur.IsValid() {
				break
			}

			cur = nthOfKind(cur, level.kind, level.n)
		}

		if cur.IsValid() {
			out = append(out, cur)
		}
	}

	return out
}

func nthOfKind(parent Node, kind NodeKind, n int) Node {
	if n < 1 {
		return Node{}
	}

	count := 0

	for _, child := range parent.Children() {
		if child.Kind() != kind {
			continue
		}

		count++

		if count == n {
			return child
		}
	}

	return Node{}
}
