// Package compress implements the LZ4 block and frame codecs.
package compress

import (
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"
)

// wideStride is the number of bytes copied per wildcopy iteration when the
// caller has guaranteed slack on both ends. Go's slice bounds checking means
// we cannot literally overrun a buffer the way the C/Rust references do;
// instead wildcopy uses whatever stride the platform handles cheapest and
// lets copy() clip the final partial stride.
var wideStride = 16

var detectStrideOnce sync.Once

func detectStride() {
	detectStrideOnce.Do(func() {
		if runtime.GOARCH == "amd64" && cpu.X86.HasAVX2 {
			wideStride = 32
		}
	})
}

func init() {
	detectStride()
}

// loadLE16 reads an unaligned little-endian uint16 at off.
func loadLE16(b []byte, off int) uint16 {
	_ = b[off+1]
	return uint16(b[off]) | uint16(b[off+1])<<8
}

// storeLE16 writes v as a little-endian uint16 at off.
func storeLE16(b []byte, off int, v uint16) {
	_ = b[off+1]
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
}

// loadLE32 reads an unaligned little-endian uint32 at off.
func loadLE32(b []byte, off int) uint32 {
	_ = b[off+3]
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
}

// loadLE64 reads an unaligned little-endian uint64 at off.
func loadLE64(b []byte, off int) uint64 {
	_ = b[off+7]
	return uint64(b[off]) | uint64(b[off+1])<<8 | uint64(b[off+2])<<16 | uint64(b[off+3])<<24 |
		uint64(b[off+4])<<32 | uint64(b[off+5])<<40 | uint64(b[off+6])<<48 | uint64(b[off+7])<<56
}

// storeLE32 writes v as a little-endian uint32 at off.
func storeLE32(b []byte, off int, v uint32) {
	_ = b[off+3]
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
}

// wildcopy copies n bytes from src[srcOff:] to dst[dstOff:]. The caller
// guarantees dst has at least n bytes of room starting at dstOff and src has
// at least n bytes starting at srcOff; regions must not overlap in the
// direction that would corrupt unread source data (ordinary forward copies,
// not the self-referential match case, which has its own helper).
func wildcopy(dst []byte, dstOff int, src []byte, srcOff int, n int) {
	copy(dst[dstOff:dstOff+n], src[srcOff:srcOff+n])
}

// wildcopyStride is like wildcopy but unconditionally moves a whole number
// of wideStride-sized chunks, matching the reference's "copy 16 (or 24/32)
// bytes regardless of logical length" hot-path idiom used when both buffers
// are known to carry extra slack past the logical length.
func wildcopyStride(dst []byte, dstOff int, src []byte, srcOff int, n int) {
	stride := wideStride
	for copied := 0; copied < n; copied += stride {
		end := copied + stride
		if end > len(src)-srcOff {
			end = len(src) - srcOff
		}
		if end > len(dst)-dstOff {
			end = len(dst) - dstOff
		}
		if end <= copied {
			return
		}
		copy(dst[dstOff+copied:dstOff+end], src[srcOff+copied:srcOff+end])
	}
}

// shortCopy copies small (<=32 byte) slices using a two-ended double-copy
// trick: two overlapping fixed-width copies cover the whole range without a
// byte-counting loop, cheaper than the general copy() for tiny lengths.
func shortCopy(dst []byte, dstOff int, src []byte, srcOff int, n int) {
	switch {
	case n <= 0:
		return
	case n <= 8:
		copy(dst[dstOff:dstOff+n], src[srcOff:srcOff+n])
	case n <= 16:
		copy(dst[dstOff:dstOff+8], src[srcOff:srcOff+8])
		copy(dst[dstOff+n-8:dstOff+n], src[srcOff+n-8:srcOff+n])
	default: // n <= 32
		copy(dst[dstOff:dstOff+16], src[srcOff:srcOff+16])
		copy(dst[dstOff+n-16:dstOff+n], src[srcOff+n-16:srcOff+n])
	}
}
