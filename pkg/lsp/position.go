package lsp

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// LSP positions count UTF-16 code units and accept CR, LF and CRLF as line
// breaks, the same breaks hl7ast.BuildLines recognizes.

// offsetAt converts pos to a byte offset. Positions past the end of a
// line clamp to the line break; lines past the end clamp to the buffer end.
func offsetAt(content []byte, lines []hl7ast.LineInfo, pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(lines) {
		return len(content)
	}

	info := lines[line]
	offset := info.StartOffset
	units := int(pos.Character)

	for units > 0 && offset < info.NewlineStart {
		r, size := utf8.DecodeRune(content[offset:info.NewlineStart])

		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}

		if n > units {
			break
		}

		units -= n
		offset += size
	}

	return offset
}

// positionAt converts a byte offset to an LSP position.
func positionAt(content []byte, lines []hl7ast.LineInfo, offset int) protocol.Position {
	offset = min(max(offset, 0), len(content))

	if len(lines) == 0 {
		return protocol.Position{}
	}

	line := sort.Search(len(lines), func(i int) bool {
		return lines[i].StartOffset > offset
	}) - 1
	line = max(line, 0)

	units := 0

	for i := lines[line].StartOffset; i < offset; {
		r, size := utf8.DecodeRune(content[i:offset])

		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}

		units += n
		i += size
	}

	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(units)}
}

func rangeOf(content []byte, lines []hl7ast.LineInfo, r hl7ast.SourceRange) protocol.Range {
	return protocol.Range{
		Start: positionAt(content, lines, r.StartOffset),
		End:   positionAt(content, lines, r.EndOffset),
	}
}
