package hl7ast

import (
	"bytes"
	"encoding/hex"
	"strings"
)

// EscapeClass groups escape sequence codes by how Decode treats them.
type EscapeClass uint8

// Escape classes.
const (
	EscapeUnknown    EscapeClass = iota
	EscapeDelimiter              // \F\ \S\ \T\ \R\ \E\
	EscapeHex                    // \Xhh..\
	EscapeFormatting             // \H\ \N\ and .xx formatting commands
	EscapeCharset                // \Cxxyy\ \Mxxyyzz\ character set switches
	EscapeLocal                  // \Zxx\ locally defined
)

// ClassifyEscape returns the class of the code between two escape bytes.
func ClassifyEscape(code []byte) EscapeClass {
	if len(code) == 0 {
		return EscapeUnknown
	}

	switch code[0] {
	case 'F', 'S', 'T', 'R', 'E':
		if len(code) == 1 {
			return EscapeDelimiter
		}
	case 'H', 'N':
		if len(code) == 1 {
			return EscapeFormatting
		}
	case 'X':
		if len(code) > 1 && len(code)%2 == 1 && isHex(code[1:]) {
			return EscapeHex
		}
	case 'C':
		if len(code) == 5 && isHex(code[1:]) {
			return EscapeCharset
		}
	case 'M':
		if (len(code) == 5 || len(code) == 7) && isHex(code[1:]) {
			return EscapeCharset
		}
	case 'Z':
		if len(code) > 1 {
			return EscapeLocal
		}
	case '.':
		if isFormattingCommand(code[1:]) {
			return EscapeFormatting
		}
	}

	return EscapeUnknown
}

var formattingCommands = []string{"sp", "br", "fi", "nf", "in", "ti", "sk", "ce"}

func isFormattingCommand(cmd []byte) bool {
	for _, name := range formattingCommands {
		if bytes.HasPrefix(cmd, []byte(name)) && isSignedInt(cmd[len(name):]) {
			return true
		}
	}

	return false
}

func isSignedInt(b []byte) bool {
	if len(b) > 0 && (b[0] == '+' || b[0] == '-') {
		b = b[1:]
	}

	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

func isHex(b []byte) bool {
	for _, c := range b {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}

	return true
}

// Decode resolves escape sequences in raw literal text.
// Delimiter escapes become the delimiter bytes, hex escapes their bytes,
// \.br\ and \.sp\ a line feed. \H\, \N\ and other formatting commands are
// dropped. Character set, locally defined and unknown sequences, and an
// unterminated trailing sequence, are kept verbatim.
func Decode(raw []byte, d Delimiters) string {
	if bytes.IndexByte(raw, d.Escape) < 0 {
		return string(raw)
	}

	var out strings.Builder
	out.Grow(len(raw))

	for len(raw) > 0 {
		open := bytes.IndexByte(raw, d.Escape)
		if open < 0 {
			out.Write(raw)

			break
		}

		out.Write(raw[:open])

		closing := bytes.IndexByte(raw[open+1:], d.Escape)
		if closing < 0 {
			out.Write(raw[open:])

			break
		}

		seq := raw[open : open+closing+2]
		decodeSequence(&out, seq, seq[1:len(seq)-1], d)
		raw = raw[open+closing+2:]
	}

	return out.String()
}

func decodeSequence(out *strings.Builder, seq, code []byte, d Delimiters) {
	switch ClassifyEscape(code) {
	case EscapeDelimiter:
		switch code[0] {
		case 'F':
			out.WriteByte(d.Field)
		case 'S':
			out.WriteByte(d.Component)
		case 'T':
			out.WriteByte(d.Subcomponent)
		case 'R':
			out.WriteByte(d.Repetition)
		case 'E':
			out.WriteByte(d.Escape)
		}
	case EscapeHex:
		decoded, err := hex.DecodeString(string(code[1:]))
		if err != nil {
			out.Write(seq)

			return
		}

		out.Write(decoded)
	case EscapeFormatting:
		if bytes.HasPrefix(code, []byte(".br")) || bytes.HasPrefix(code, []byte(".sp")) {
			out.WriteByte('\n')
		}
	case EscapeCharset, EscapeLocal, EscapeUnknown:
		out.Write(seq)
	}
}

// Encode escapes every delimiter byte in text so it can be embedded in a
// field. Line feeds become \.br\ and carriage returns \X0D\.
func Encode(text string, d Delimiters) string {
	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c == '\n':
			out.WriteByte(d.Escape)
			out.WriteString(".br")
			out.WriteByte(d.Escape)
		case c == '\r':
			out.WriteByte(d.Escape)
			out.WriteString("X0D")
			out.WriteByte(d.Escape)
		case c == d.Escape:
			writeEscape(&out, 'E', d)
		case c == d.Field:
			writeEscape(&out, 'F', d)
		case c == d.Component:
			writeEscape(&out, 'S', d)
		case c == d.Subcomponent:
			writeEscape(&out, 'T', d)
		case c == d.Repetition:
			writeEscape(&out, 'R', d)
		default:
			out.WriteByte(c)
		}
	}

	return out.String()
}

func writeEscape(out *strings.Builder, code byte, d Delimiters) {
	out.WriteByte(d.Escape)
	out.WriteByte(code)
	out.WriteByte(d.Escape)
}
