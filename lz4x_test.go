package lz4x

import (
	"bytes"
	"io"
	"testing"
)

func TestCompressBlockRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("hello hello hello hello world"),
		bytes.Repeat([]byte{10, 12, 14, 16, 18}, 4),
		bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 50),
	}
	for _, src := range cases {
		compressed, err := CompressBlock(nil, src)
		if err != nil {
			t.Fatalf("CompressBlock(%q): %v", src, err)
		}
		dst := make([]byte, len(src))
		n, err := DecompressBlock(dst, compressed)
		if err != nil {
			t.Fatalf("DecompressBlock(%q): %v", src, err)
		}
		if !bytes.Equal(dst[:n], src) {
			t.Fatalf("round trip mismatch: got %v, want %v", dst[:n], src)
		}
	}
}

func TestCompressBlockLevels(t *testing.T) {
	src := bytes.Repeat([]byte("abcdefghijklmnopqrstuvwxyz"), 200)
	for level := FastLevel; level <= MaxLevel; level++ {
		compressed, err := CompressBlockLevel(nil, src, level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		dst := make([]byte, len(src))
		n, err := DecompressBlock(dst, compressed)
		if err != nil {
			t.Fatalf("level %d decompress: %v", level, err)
		}
		if !bytes.Equal(dst[:n], src) {
			t.Fatalf("level %d round trip mismatch", level)
		}
	}
}

// TestCompressPrependSizeRoundTrip covers scenario E1: a short greeting
// round trips through the size-prepended helpers, with the compressed
// form always at least 4 bytes (the size prefix).
func TestCompressPrependSizeRoundTrip(t *testing.T) {
	src := []byte("Hello people, what's up?")

	compressed, err := CompressPrependSize(src)
	if err != nil {
		t.Fatalf("CompressPrependSize: %v", err)
	}
	if len(compressed) < 4 {
		t.Fatalf("compressed length %d, want >= 4", len(compressed))
	}

	got, err := DecompressSizePrepended(compressed)
	if err != nil {
		t.Fatalf("DecompressSizePrepended: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, src)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	src := bytes.Repeat([]byte("frame payload data, repeated to span several blocks. "), 5000)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r := NewReader(&buf)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("frame round trip mismatch: got %d bytes, want %d", len(got), len(src))
	}
}

func TestFrameRoundTripLinked(t *testing.T) {
	src := bytes.Repeat([]byte("linked mode payload with repeated phrases repeated phrases. "), 3000)

	var buf bytes.Buffer
	info := DefaultFrameInfo()
	info.BlockMode = Linked
	info.BlockSize = Max64KB
	w := NewWriterOptions(&buf, info, DefaultLevel)
	if _, err := w.Write(src); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r := NewReader(&buf)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("linked frame round trip mismatch: got %d bytes, want %d", len(got), len(src))
	}
}
