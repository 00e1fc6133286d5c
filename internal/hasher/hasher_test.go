package hasher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/texturec/internal/texture"
)

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("texel"), 0)
	if len(a) != DigestLen {
		t.Fatalf("len %d", len(a))
	}
	if b := ContentHash([]byte("texel"), 8); b != a[:8] {
		t.Errorf("truncated %q, full %q", b, a)
	}
	if ContentHash([]byte("texels"), 0) == a {
		t.Error("different content, same hash")
	}
	r, err := ContentHashReader(strings.NewReader("texel"), 0)
	if err != nil || r != a {
		t.Errorf("reader hash %q %v, want %q", r, err, a)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := File(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != ContentHash([]byte("abc"), 0) {
		t.Errorf("got %s", got)
	}
	if _, err := File(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCanvasIncludesShape(t *testing.T) {
	// 4x2 L8 and 2x4 L8 and 2x1 RGBA8 all hold 8 zero bytes.
	a := Canvas(texture.NewCanvas(4, 2, texture.L8))
	b := Canvas(texture.NewCanvas(2, 4, texture.L8))
	c := Canvas(texture.NewCanvas(2, 1, texture.RGBA8))
	if a == b || a == c || b == c {
		t.Errorf("shape not part of digest: %s %s %s", a, b, c)
	}

	d := texture.NewCanvas(4, 2, texture.L8)
	if Canvas(d) != a {
		t.Error("equal canvases hash differently")
	}
	d.Set(1, 1, texture.NewL8(9))
	if Canvas(d) == a {
		t.Error("content change not detected")
	}
}
