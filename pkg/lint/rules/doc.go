// Package rules provides the built-in lint rules for hl7lint.
//
// # Rules
//
//   - HL7001: escape-error - Escape sequences must be closed
//   - HL7002: ambiguous-delimiters - Each delimiter role needs its own character
//   - HL7003: segment-id - Segment IDs must be well formed and known
//   - HL7004: segment-terminator - Segments end with a carriage return
//   - HL7005: missing-final-terminator - The last segment is terminated
//   - HL7006: empty-segment - No blank segments
//   - HL7007: trailing-delimiters - No separators before empty trailing values
//   - HL7008: unknown-escape - Escape codes must be defined
//   - HL7009: header-position - Header segments only where a message starts
//
// HL7001, HL7002 and HL7005 surface the parser's own recovery: escape
// errors, ambiguous declarations and truncated segments are kept in the
// tree and reported here rather than failing the parse.
//
// # Rule Packs
//
// Rule packs are configuration presets:
//
//   - core: the defaults
//   - strict: every rule on, structural problems as errors
//   - relaxed: only problems that change how a message parses
//
// Use PackByName or Packs to access pack definitions programmatically.
package rules
