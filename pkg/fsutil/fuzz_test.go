package fsutil_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/yaklabco/hl7lint/pkg/fsutil"
)

func FuzzWriteReadRoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte(adt))
	f.Add([]byte("MSH|^~\\&\r\n\x0b\x1c"))
	f.Add(make([]byte, 512))

	f.Fuzz(func(t *testing.T, content []byte) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "fuzz.hl7")

		if err := fsutil.WriteAtomic(ctx, path, content, 0); err != nil {
			t.Fatalf("WriteAtomic: %v", err)
		}

		got, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}

		if !bytes.Equal(got, content) {
			t.Fatalf("round trip changed %d bytes into %d", len(content), len(got))
		}

		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil || modified {
			t.Fatalf("CheckModified() = %v, %v", modified, err)
		}
	})
}
