package compress

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func generateRandomData(size int) []byte {
	data := make([]byte, size)
	rand.Read(data)
	return data
}

func generateCompressibleData(size int) []byte {
	data := make([]byte, size)
	pattern := []byte("abcdefghijklmnopqrstuvwxyz0123456789")

	for i := 0; i < size; i += len(pattern) {
		n := copy(data[i:], pattern)
		if n < len(pattern) {
			break
		}
	}

	return data
}

func roundTrip(t *testing.T, src []byte, level CompressionLevel) {
	t.Helper()
	compressed, err := CompressBlockLevel(nil, src, level)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	dst := make([]byte, len(src))
	n, err := DecompressBlock(dst, compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(dst[:n], src) {
		t.Fatalf("mismatch: got %v want %v", dst[:n], src)
	}
}

func TestEmptyBlock(t *testing.T) {
	roundTrip(t, nil, DefaultLevel)
	roundTrip(t, nil, FastLevel)
}

func TestTinyBlocksLiteralOnly(t *testing.T) {
	for n := 0; n < 20; n++ {
		src := bytes.Repeat([]byte{'x'}, n)
		roundTrip(t, src, FastLevel)
		roundTrip(t, src, DefaultLevel)
	}
}

// TestRepeatingShortPattern mirrors a short, highly repetitive input whose
// compressed form must still decompress back to the exact original bytes.
func TestRepeatingShortPattern(t *testing.T) {
	src := bytes.Repeat([]byte{10, 12, 14, 16, 18}, 4)
	roundTrip(t, src, FastLevel)
	roundTrip(t, src, DefaultLevel)
	roundTrip(t, src, MaxLevel)
}

func TestSingleByteRepeat(t *testing.T) {
	src := bytes.Repeat([]byte{'z'}, 10000)
	roundTrip(t, src, FastLevel)
	roundTrip(t, src, MaxLevel)
}

func TestCompressBlockWrappers(t *testing.T) {
	input := generateCompressibleData(1024)

	compressed1, err := CompressBlock(nil, input)
	if err != nil {
		t.Fatalf("CompressBlock() error = %v", err)
	}
	if compressed1 == nil {
		t.Errorf("CompressBlock() compressed is nil")
	}

	levels := []CompressionLevel{FastLevel, DefaultLevel, MaxLevel}
	for _, level := range levels {
		compressed2, err := CompressBlockLevel(nil, input, level)
		if err != nil {
			t.Fatalf("CompressBlockLevel(%v) error = %v", level, err)
		}

		dst := make([]byte, len(input))
		n, err := DecompressBlock(dst, compressed2)
		if err != nil {
			t.Fatalf("DecompressBlock() error = %v", err)
		}
		if !bytes.Equal(dst[:n], input) {
			t.Errorf("Decompressed data does not match original input for level %v", level)
		}
	}
}

func TestDecompressInvalidOffset(t *testing.T) {
	// Token: literal len 1, match len nibble 0 (decodes to MinMatch=4);
	// one literal byte; offset 0, which the format forbids.
	src := []byte{0x10, 'a', 0x00, 0x00}
	dst := make([]byte, 16)
	_, err := DecompressBlock(dst, src)
	if err != ErrOffsetOutOfBounds {
		t.Fatalf("got %v, want ErrOffsetOutOfBounds", err)
	}
}

func TestDecompressLiteralOutOfBounds(t *testing.T) {
	// Token declares 5 literal bytes but only 1 follows.
	src := []byte{0x50, 'a'}
	dst := make([]byte, 16)
	_, err := DecompressBlock(dst, src)
	if err != ErrLiteralOutOfBounds {
		t.Fatalf("got %v, want ErrLiteralOutOfBounds", err)
	}
}

// TestDecompressOutputTooSmall feeds a block whose declared literal run
// overruns a too-small destination buffer, and a second block whose
// match copy does the same. Neither must panic; both must return
// *OutputTooSmallError.
func TestDecompressOutputTooSmall(t *testing.T) {
	t.Run("literal", func(t *testing.T) {
		// Token: literal length 15 + extension byte 50 => 65 literal
		// bytes declared; all 65 follow, far more than dst can hold.
		src := append([]byte{0xF0, 50}, bytes.Repeat([]byte{'x'}, 65)...)
		dst := make([]byte, 4)
		_, err := DecompressBlock(dst, src)
		if _, ok := err.(*OutputTooSmallError); !ok {
			t.Fatalf("got %v (%T), want *OutputTooSmallError", err, err)
		}
	})

	t.Run("match", func(t *testing.T) {
		src, err := CompressBlock(nil, bytes.Repeat([]byte("overflow me "), 100))
		if err != nil {
			t.Fatalf("compress: %v", err)
		}
		// The block opens with the 12-byte literal "overflow me ", which
		// fits in 16 bytes; the match copy that follows does not.
		dst := make([]byte, 16)
		_, err = DecompressBlock(dst, src)
		if _, ok := err.(*OutputTooSmallError); !ok {
			t.Fatalf("got %v (%T), want *OutputTooSmallError", err, err)
		}
	})
}

func TestAllLiteralDecode(t *testing.T) {
	// Token 0x30 = literal length 3, match length 0; "a49" as literal,
	// no trailing match (token ends the block).
	src := []byte{0x30, 'a', '4', '9'}
	dst := make([]byte, 3)
	n, err := DecompressBlock(dst, src)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(dst[:n]) != "a49" {
		t.Fatalf("got %q, want %q", dst[:n], "a49")
	}
}

func TestCompressBlockBound(t *testing.T) {
	if CompressBlockBound(0) < 16 {
		t.Fatalf("bound too small for empty input")
	}
	if got, want := CompressBlockBound(1000), 1000+1000/255+16; got != want {
		t.Fatalf("got %d want %d", got, want)
	}
}

func TestInvalidCompressionLevel(t *testing.T) {
	_, err := CompressBlockLevel(nil, []byte("x"), 0)
	if err != ErrInvalidCompressionLevel {
		t.Fatalf("got %v, want ErrInvalidCompressionLevel", err)
	}
	_, err = CompressBlockLevel(nil, []byte("x"), MaxLevel+1)
	if err != ErrInvalidCompressionLevel {
		t.Fatalf("got %v, want ErrInvalidCompressionLevel", err)
	}
}

func TestInvalidBlockSize(t *testing.T) {
	huge := make([]byte, MaxBlockSize+1)
	_, err := CompressBlockLevel(nil, huge, DefaultLevel)
	if err != ErrInvalidBlockSize {
		t.Fatalf("got %v, want ErrInvalidBlockSize", err)
	}
}

func TestDictRoundTrip(t *testing.T) {
	dict := NewDict([]byte("the quick brown fox jumps over the lazy dog"))
	src := []byte("the quick brown fox jumps again")

	compressed, err := CompressBlockWithDict(nil, src, dict)
	if err != nil {
		t.Fatalf("compress with dict: %v", err)
	}
	dst := make([]byte, len(src))
	n, err := DecompressBlockWithDict(dst, compressed, dict.Bytes())
	if err != nil {
		t.Fatalf("decompress with dict: %v", err)
	}
	if !bytes.Equal(dst[:n], src) {
		t.Fatalf("dict round trip mismatch: got %q want %q", dst[:n], src)
	}
}

// TestCompressDecompressRoundTrip exercises round-trip compression over a
// range of input sizes and both random and highly compressible content.
func TestCompressDecompressRoundTrip(t *testing.T) {
	testSizes := []int{0, 1, 16, 64 * 1024, 1 * 1024 * 1024}

	for _, size := range testSizes {
		t.Run("random", func(t *testing.T) {
			roundTrip(t, generateRandomData(size), DefaultLevel)
		})
		t.Run("compressible", func(t *testing.T) {
			input := generateCompressibleData(size)
			compressed, err := CompressBlock(nil, input)
			if err != nil {
				t.Fatalf("CompressBlock() error = %v", err)
			}
			dst := make([]byte, size)
			n, err := DecompressBlock(dst, compressed)
			if err != nil {
				t.Fatalf("DecompressBlock() error = %v", err)
			}
			if !bytes.Equal(dst[:n], input) {
				t.Errorf("Decompressed data does not match original input")
			}
			if size > 1024 {
				ratio := float64(len(compressed)) / float64(len(input))
				t.Logf("compression ratio for size %d: %.2f", size, ratio)
			}
		})
	}
}
