package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/hl7lint/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	path := writeMessage(t, "MSH|old\r")

	if err := fsutil.WriteAtomic(context.Background(), path, []byte(adt), 0o640); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != adt {
		t.Errorf("content = %q, want %q", got, adt)
	}

	stat, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if stat.Mode().Perm() != 0o640 {
		t.Errorf("mode = %o, want 640", stat.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the target", len(entries))
	}
}

func TestWriteAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "adt.hl7")
	if err := fsutil.WriteAtomic(context.Background(), path, []byte(adt), 0); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	path := writeMessage(t, adt)

	wrote, err := fsutil.WriteAtomicIfChanged(context.Background(), path, []byte(adt), 0)
	if err != nil || wrote {
		t.Fatalf("identical content: wrote = %v, err = %v", wrote, err)
	}

	wrote, err = fsutil.WriteAtomicIfChanged(context.Background(), path, []byte(adt+"NTE|1\r"), 0)
	if err != nil || !wrote {
		t.Fatalf("new content: wrote = %v, err = %v", wrote, err)
	}

	fresh := filepath.Join(t.TempDir(), "new.hl7")

	wrote, err = fsutil.WriteAtomicIfChanged(context.Background(), fresh, []byte(adt), 0)
	if err != nil || !wrote {
		t.Fatalf("missing file: wrote = %v, err = %v", wrote, err)
	}
}
