package hl7ast

import (
	"fmt"
	"strings"
)

// Default delimiter bytes used when a header omits them.
const (
	DefaultSegment      byte = '\r'
	DefaultField        byte = '|'
	DefaultComponent    byte = '^'
	DefaultRepetition   byte = '~'
	DefaultEscape       byte = '\\'
	DefaultSubcomponent byte = '&'
)

// Role is the structural meaning a byte has under a delimiter set.
type Role uint8

// Roles in precedence order. When one byte is declared for several roles the
// lowest-numbered role wins.
const (
	RoleNone Role = iota
	RoleSegment
	RoleField
	RoleRepetition
	RoleComponent
	RoleSubcomponent
	RoleEscape
)

var roleNames = [...]string{
	RoleNone:         "none",
	RoleSegment:      "segment",
	RoleField:        "field",
	RoleRepetition:   "repetition",
	RoleComponent:    "component",
	RoleSubcomponent: "subcomponent",
	RoleEscape:       "escape",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}

	return fmt.Sprintf("Role(%d)", r)
}

// Delimiters is the six-byte delimiter alphabet declared by a message header.
// It is a plain value: fixed for one parse and safe to share.
type Delimiters struct {
	Segment      byte
	Field        byte
	Component    byte
	Repetition   byte
	Escape       byte
	Subcomponent byte
}

// DefaultDelimiters returns the conventional HL7 delimiter set `\r|^~\&`.
func DefaultDelimiters() Delimiters {
	return Delimiters{
		Segment:      DefaultSegment,
		Field:        DefaultField,
		Component:    DefaultComponent,
		Repetition:   DefaultRepetition,
		Escape:       DefaultEscape,
		Subcomponent: DefaultSubcomponent,
	}
}

// Role classifies b. Duplicate declarations resolve by precedence:
// segment > field > repetition > component > subcomponent > escape.
func (d Delimiters) Role(b byte) Role {
	switch b {
	case d.Segment:
		return RoleSegment
	case d.Field:
		return RoleField
	case d.Repetition:
		return RoleRepetition
	case d.Component:
		return RoleComponent
	case d.Subcomponent:
		return RoleSubcomponent
	case d.Escape:
		return RoleEscape
	default:
		return RoleNone
	}
}

// ByRole returns the byte declared for role r, or 0 for RoleNone.
func (d Delimiters) ByRole(r Role) byte {
	switch r {
	case RoleSegment:
		return d.Segment
	case RoleField:
		return d.Field
	case RoleRepetition:
		return d.Repetition
	case RoleComponent:
		return d.Component
	case RoleSubcomponent:
		return d.Subcomponent
	case RoleEscape:
		return d.Escape
	default:
		return 0
	}
}

// EncodingCharacters returns the MSH-2 form of the set: component, repetition,
// escape, subcomponent.
func (d Delimiters) EncodingCharacters() string {
	return string([]byte{d.Component, d.Repetition, d.Escape, d.Subcomponent})
}

// String renders the set as it would appear at the start of an MSH segment.
func (d Delimiters) String() string {
	return fmt.Sprintf("MSH%c%s (segment %q)", d.Field, d.EncodingCharacters(), d.Segment)
}

// Ambiguity describes one byte claimed by more than one role.
type Ambiguity struct {
	// Char is the shared byte.
	Char byte

	// Roles lists every role declaring Char, in precedence order.
	Roles []Role
}

// Winner is the role the lexer assigns to Char.
func (a Ambiguity) Winner() Role {
	if len(a.Roles) == 0 {
		return RoleNone
	}

	return a.Roles[0]
}

// Describe returns a human-readable description of the conflict.
func (a Ambiguity) Describe() string {
	names := make([]string, len(a.Roles))
	for i, r := range a.Roles {
		names[i] = r.String()
	}

	return fmt.Sprintf("delimiter %q is declared as %s; treated as %s",
		a.Char, strings.Join(names, " and "), a.Winner())
}

// Ambiguities lists every byte declared for more than one role.
// The result is ordered by the winning role.
func (d Delimiters) Ambiguities() []Ambiguity {
	var out []Ambiguity

	seen := make(map[byte]bool, 6)

	for r := RoleSegment; r <= RoleEscape; r++ {
		b := d.ByRole(r)
		if seen[b] {
			continue
		}

		seen[b] = true

		roles := []Role{r}

		for other := r + 1; other <= RoleEscape; other++ {
			if d.ByRole(other) == b {
				roles = append(roles, other)
			}
		}

		if len(roles) > 1 {
			out = append(out, Ambiguity{Char: b, Roles: roles})
		}
	}

	return out
}
