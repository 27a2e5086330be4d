package treefmt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
	"github.com/yaklabco/hl7lint/pkg/treefmt"
)

const sample = "MSH|^~\\&|APP\rPID|1|DOE^JANE\r"

func parse(t *testing.T, content string) *hl7ast.Snapshot {
	t.Helper()

	snap, err := er7.New().Parse(context.Background(), "adt.hl7", []byte(content))
	require.NoError(t, err)

	return snap
}

func TestBuild(t *testing.T) {
	t.Parallel()

	doc := treefmt.Build(parse(t, sample), treefmt.Options{})

	assert.Equal(t, "adt.hl7", doc.Path)
	assert.Equal(t, 2, doc.Segments)
	assert.Equal(t, "|", doc.Delimiters.Field)
	assert.Equal(t, "\r", doc.Delimiters.Segment)
	assert.Empty(t, doc.Issues)

	require.Len(t, doc.Nodes, 1)
	root := doc.Nodes[0]
	assert.Equal(t, "Message", root.Kind)
	assert.Equal(t, 0, root.Start)
	assert.Equal(t, len(sample), root.End)

	require.Len(t, root.Children, 2)
	assert.Equal(t, "MSH", root.Children[0].Path)
	assert.Equal(t, "PID", root.Children[1].Path)

	for _, seg := range root.Children {
		for _, kid := range seg.Children {
			assert.NotEqual(t, "Delimiter", kid.Kind)
		}
	}
}

func TestBuild_Delimiters(t *testing.T) {
	t.Parallel()

	doc := treefmt.Build(parse(t, sample), treefmt.Options{Delimiters: true})

	pid := doc.Nodes[0].Children[1]
	last := pid.Children[len(pid.Children)-1]
	assert.Equal(t, "Delimiter", last.Kind)
	assert.Equal(t, "segment", last.Role)
	assert.Equal(t, "\r", last.Text)
}

func TestBuild_Select(t *testing.T) {
	t.Parallel()

	path, err := hl7ast.ParsePath("PID-2[1].2")
	require.NoError(t, err)

	doc := treefmt.Build(parse(t, sample), treefmt.Options{Select: &path})
	require.Len(t, doc.Nodes, 1)

	comp := doc.Nodes[0]
	assert.Equal(t, "Component", comp.Kind)
	assert.Equal(t, "PID-2[1].2", comp.Path)
	assert.Equal(t, 23, comp.Start)
	assert.Equal(t, 27, comp.End)

	missing, err := hl7ast.ParsePath("OBX-1")
	require.NoError(t, err)
	assert.Empty(t, treefmt.Build(parse(t, sample), treefmt.Options{Select: &missing}).Nodes)
}

func TestBuild_MaxDepth(t *testing.T) {
	t.Parallel()

	doc := treefmt.Build(parse(t, sample), treefmt.Options{MaxDepth: 1})

	require.Len(t, doc.Nodes[0].Children, 2)
	assert.Empty(t, doc.Nodes[0].Children[0].Children)
}

func TestBuild_LiteralValues(t *testing.T) {
	t.Parallel()

	doc := treefmt.Build(parse(t, "MSH|^~\\&|A\\F\\B\r"), treefmt.Options{})

	var literals []treefmt.Node

	var collect func(n treefmt.Node)
	collect = func(n treefmt.Node) {
		if n.Kind == "Literal" {
			literals = append(literals, n)
		}

		for _, kid := range n.Children {
			collect(kid)
		}
	}
	collect(doc.Nodes[0])

	require.Len(t, literals, 3)
	assert.True(t, literals[0].Opaque)
	assert.Equal(t, "MSH", literals[0].Text)
	assert.True(t, literals[1].Opaque)
	assert.Equal(t, "^~\\&", literals[1].Text)
	assert.Empty(t, literals[1].Value)
	assert.Equal(t, "A\\F\\B", literals[2].Text)
	assert.Equal(t, "A|B", literals[2].Value)
}

func TestBuild_Issues(t *testing.T) {
	t.Parallel()

	doc := treefmt.Build(parse(t, "MSH|^~\\&|A\rPID|x\\F"), treefmt.Options{})

	require.Len(t, doc.Issues, 1)
	assert.Equal(t, "EscapeError", doc.Issues[0].Code)
	assert.Equal(t, "error", doc.Issues[0].Severity)
	assert.Equal(t, 18, doc.Issues[0].End)
}

func TestWrite_Encodings(t *testing.T) {
	t.Parallel()

	snap := parse(t, sample)
	want := treefmt.Build(snap, treefmt.Options{})

	decoders := map[treefmt.Format]func([]byte, *treefmt.Document) error{
		treefmt.FormatJSON: func(b []byte, d *treefmt.Document) error { return json.Unmarshal(b, d) },
		treefmt.FormatYAML: func(b []byte, d *treefmt.Document) error { return yaml.Unmarshal(b, d) },
		treefmt.FormatCBOR: func(b []byte, d *treefmt.Document) error {
			got, err := treefmt.UnmarshalCBOR(b)
			if err == nil {
				*d = *got
			}

			return err
		},
	}

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, treefmt.Write(&buf, snap, treefmt.WriteOptions{Format: format}))

			var got treefmt.Document
			require.NoError(t, decode(buf.Bytes(), &got))

			if diff := cmp.Diff(want, &got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("%s round trip mismatch (-want +got):\n%s", format, diff)
			}
		})
	}
}

func TestMarshalCBOR_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := treefmt.MarshalCBOR(treefmt.Build(parse(t, sample), treefmt.Options{}))
	require.NoError(t, err)

	second, err := treefmt.MarshalCBOR(treefmt.Build(parse(t, sample), treefmt.Options{}))
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := treefmt.MarshalCBOR(treefmt.Build(parse(t, "MSH|^~\\&|APP\rPID|1|DOE^JOHN\r"), treefmt.Options{}))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestWrite_Text(t *testing.T) {
	t.Parallel()

	snap := parse(t, sample)

	var buf bytes.Buffer
	require.NoError(t, treefmt.Write(&buf, snap, treefmt.WriteOptions{}))
	assert.Contains(t, buf.String(), "Segment PID [13,28)")

	path, err := hl7ast.ParsePath("PID-2[1].2")
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, treefmt.Write(&buf, snap, treefmt.WriteOptions{Options: treefmt.Options{Select: &path}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("Component PID-2[1].2 [23,27)\n")), buf.String())
	assert.Contains(t, buf.String(), `Literal "JANE" [23,27)`)

	missing, err := hl7ast.ParsePath("ZZZ")
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, treefmt.Write(&buf, snap, treefmt.WriteOptions{Options: treefmt.Options{Select: &missing}}))
	assert.Equal(t, "no nodes at ZZZ\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range treefmt.Formats() {
		got, err := treefmt.ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := treefmt.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, treefmt.FormatText, got)
	assert.True(t, treefmt.FormatCBOR.IsBinary())

	_, err = treefmt.ParseFormat("xml")
	require.Error(t, err)

	err = treefmt.Write(&bytes.Buffer{}, parse(t, sample), treefmt.WriteOptions{Format: "xml"})
	require.Error(t, err)
}
