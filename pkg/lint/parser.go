package lint

import (
	"context"

	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// Parser turns message bytes into a snapshot.
//
// Implementations must be deterministic, must not mutate content and must
// be safe for concurrent use. The returned snapshot's Path is path and its
// leaves cover content exactly.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*hl7ast.Snapshot, error)
}

// Reparser is a Parser that can update a snapshot in place of a full parse.
// The fix pipeline uses it when available.
type Reparser interface {
	Parser

	// Reparse returns the snapshot of prev's content with edit applied. The
	// result must equal a full parse of the edited content.
	Reparse(ctx context.Context, prev *hl7ast.Snapshot, edit hl7ast.Edit) (*hl7ast.Snapshot, error)
}
