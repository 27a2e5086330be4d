package treefmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/hl7lint/internal/ui/pretty"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// Format names a tree serialization.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatCBOR}
}

// ParseFormat parses a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML, FormatCBOR:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown tree format %q; valid formats: text, json, yaml, cbor", s)
	}
}

// IsBinary reports whether the format produces non-text output.
func (f Format) IsBinary() bool {
	return f == FormatCBOR
}

// WriteOptions configures Write.
type WriteOptions struct {
	Options

	Format Format

	// Styles renders the text outline. Nil means no color.
	Styles *pretty.Styles

	// Width is the terminal width for the text outline.
	Width int
}

// Write serializes snap to w.
func Write(w io.Writer, snap *hl7ast.Snapshot, opts WriteOptions) error {
	switch opts.Format {
	case "", FormatText:
		return writeText(w, snap, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(Build(snap, opts.Options)); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(Build(snap, opts.Options)); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}

		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
	case FormatCBOR:
		data, err := MarshalCBOR(Build(snap, opts.Options))
		if err != nil {
			return err
		}

		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write CBOR: %w", err)
		}
	default:
		return fmt.Errorf("unsupported tree format: %s", opts.Format)
	}

	return nil
}

// MarshalCBOR encodes doc with canonical CBOR options, so equal trees
// always produce identical bytes.
func MarshalCBOR(doc *Document) ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("create CBOR encoder: %w", err)
	}

	data, err := encMode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode CBOR: %w", err)
	}

	return data, nil
}

// UnmarshalCBOR decodes a document written by MarshalCBOR.
func UnmarshalCBOR(data []byte) (*Document, error) {
	var doc Document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode CBOR: %w", err)
	}

	return &doc, nil
}

func writeText(w io.Writer, snap *hl7ast.Snapshot, opts WriteOptions) error {
	styles := opts.Styles
	if styles == nil {
		styles = pretty.NewStyles(false)
	}

	treeOpts := pretty.TreeOptions{
		MaxDepth:   opts.MaxDepth,
		Delimiters: opts.Delimiters,
		Width:      opts.Width,
	}

	var out string

	if opts.Select == nil {
		out = styles.FormatTree(snap, treeOpts)
	} else {
		nodes := snap.Select(*opts.Select)
		if len(nodes) == 0 {
			out = styles.Dim.Render("no nodes at "+opts.Select.String()) + "\n"
		}

		for _, n := range nodes {
			out += styles.FormatSubtree(snap, n, treeOpts)
		}
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	return nil
}
