package hl7ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	delims := hl7ast.DefaultDelimiters()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no escapes", input: "plain text", want: "plain text"},
		{name: "field separator", input: "a\\F\\b", want: "a|b"},
		{name: "component separator", input: "a\\S\\b", want: "a^b"},
		{name: "subcomponent separator", input: "a\\T\\b", want: "a&b"},
		{name: "repetition separator", input: "a\\R\\b", want: "a~b"},
		{name: "escape character", input: "a\\E\\b", want: "a\\b"},
		{name: "hex bytes", input: "\\X414243\\", want: "ABC"},
		{name: "line break", input: "one\\.br\\two", want: "one\ntwo"},
		{name: "highlighting dropped", input: "\\H\\bold\\N\\", want: "bold"},
		{name: "charset kept", input: "\\C2842\\x", want: "\\C2842\\x"},
		{name: "local escape kept", input: "\\Zfoo\\", want: "\\Zfoo\\"},
		{name: "unknown kept", input: "\\Q\\", want: "\\Q\\"},
		{name: "unterminated kept", input: "a\\F", want: "a\\F"},
		{name: "odd hex kept", input: "\\X4\\", want: "\\X4\\"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, hl7ast.Decode([]byte(testCase.input), delims))
		})
	}
}

func TestDecode_CustomDelimiters(t *testing.T) {
	t.Parallel()

	delims := hl7ast.Delimiters{
		Segment: '\r', Field: '#', Component: '$', Repetition: '%', Escape: '@', Subcomponent: '!',
	}

	assert.Equal(t, "a#b$c", hl7ast.Decode([]byte("a@F@b@S@c"), delims))
}

func TestEncode(t *testing.T) {
	t.Parallel()

	delims := hl7ast.DefaultDelimiters()
	text := "a|b^c~d&e\\f\ng"

	encoded := hl7ast.Encode(text, delims)
	assert.Equal(t, "a\\F\\b\\S\\c\\R\\d\\T\\e\\E\\f\\.br\\g", encoded)
	assert.Equal(t, text, hl7ast.Decode([]byte(encoded), delims))
}

func TestClassifyEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want hl7ast.EscapeClass
	}{
		{"F", hl7ast.EscapeDelimiter},
		{"E", hl7ast.EscapeDelimiter},
		{"FF", hl7ast.EscapeUnknown},
		{"X0D0A", hl7ast.EscapeHex},
		{"Xzz", hl7ast.EscapeUnknown},
		{"H", hl7ast.EscapeFormatting},
		{".br", hl7ast.EscapeFormatting},
		{".sp2", hl7ast.EscapeFormatting},
		{".in-4", hl7ast.EscapeFormatting},
		{".zz", hl7ast.EscapeUnknown},
		{"C2842", hl7ast.EscapeCharset},
		{"M2442", hl7ast.EscapeCharset},
		{"Z01", hl7ast.EscapeLocal},
		{"", hl7ast.EscapeUnknown},
	}

	for _, testCase := range tests {
		t.Run(testCase.code, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, hl7ast.ClassifyEscape([]byte(testCase.code)))
		})
	}
}
