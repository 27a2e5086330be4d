package lsp

import (
	"context"
	"fmt"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
)

// document is one open text document. snap is nil while the header is
// malformed; content and lines always track the editor buffer.
type document struct {
	uri     string
	path    string
	version int32
	content []byte
	lines   []hl7ast.LineInfo

	snap     *hl7ast.Snapshot
	parseErr error

	// stats describes the most recent reparse.
	stats        er7.ReparseStats
	fullReparses int
}

func (d *document) segmentCount() int {
	if d.snap == nil {
		return 0
	}

	return len(d.snap.Segments)
}

// parse replaces the document with a fresh parse of content.
func (d *document) parse(parser *er7.Parser, content []byte) {
	d.content = content
	d.lines = hl7ast.BuildLines(content)
	d.snap, d.parseErr = parser.Parse(context.Background(), d.path, content)
	d.fullReparses++
}

// apply feeds one edit through the incremental reparser. A document
// without a snapshot is parsed from scratch.
func (d *document) apply(parser *er7.Parser, edit hl7ast.Edit) error {
	if err := edit.Validate(len(d.content)); err != nil {
		return fmt.Errorf("%s: %w", d.uri, err)
	}

	if d.snap == nil {
		content, err := edit.Apply(d.content)
		if err != nil {
			return fmt.Errorf("%s: %w", d.uri, err)
		}

		d.parse(parser, content)

		return nil
	}

	snap, stats, err := parser.ReparseWithStats(context.Background(), d.snap, edit)
	if err != nil {
		content, applyErr := edit.Apply(d.content)
		if applyErr != nil {
			return fmt.Errorf("%s: %w", d.uri, applyErr)
		}

		d.content = content
		d.lines = hl7ast.BuildLines(content)
		d.snap, d.parseErr = nil, err

		return nil
	}

	d.snap, d.parseErr = snap, nil
	d.content = snap.Content
	d.lines = snap.Lines
	d.stats = stats

	if stats.Full {
		d.fullReparses++
	}

	return nil
}

// documentStore holds the open documents by URI.
type documentStore struct {
	mu   sync.Mutex
	docs map[string]*document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[string]*document)}
}

func (s *documentStore) open(uri, path string, version int32, content []byte, parser *er7.Parser) *document {
	doc := &document{uri: uri, path: path, version: version}
	doc.parse(parser, content)

	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()

	return doc
}

// change applies content changes in order. Ranged changes become edits
// directly; whole-document changes are diffed against the current buffer
// so unchanged segments are still reused.
func (s *documentStore) change(uri string, version int32, changes []any, parser *er7.Parser) (*document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%s: document is not open", uri)
	}

	for _, change := range changes {
		var edit hl7ast.Edit

		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			start := offsetAt(doc.content, doc.lines, c.Range.Start)
			end := offsetAt(doc.content, doc.lines, c.Range.End)
			edit = hl7ast.Edit{Offset: start, Removed: max(end-start, 0), Inserted: []byte(c.Text)}
		case protocol.TextDocumentContentChangeEventWhole:
			edit = hl7ast.DiffEdit(doc.content, []byte(c.Text))
		default:
			return nil, fmt.Errorf("%s: unsupported content change %T", uri, change)
		}

		if err := doc.apply(parser, edit); err != nil {
			return nil, err
		}
	}

	doc.version = version

	return doc, nil
}

func (s *documentStore) get(uri string) (*document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uri]

	return doc, ok
}

func (s *documentStore) close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}
