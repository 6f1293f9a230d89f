// Package lz4x provides a fast, pure-Go implementation of the LZ4
// compression algorithm: block codec, frame codec, and io.Reader/Writer
// streaming wrappers.
package lz4x

import (
	"io"

	"github.com/lz4x/lz4x/compress"
)

// Version identifies this module's release.
const Version = "1.0.0"

// CompressionLevel selects how hard the compressor searches for matches.
// FastLevel uses the single-probe fast tier; levels above it, up to
// MaxLevel, use the high-compression chained-match tier. Other values are
// rejected.
type CompressionLevel = compress.CompressionLevel

const (
	FastLevel    = compress.FastLevel
	DefaultLevel = compress.DefaultLevel
	MaxLevel     = compress.MaxLevel
)

// CompressBlock compresses src into dst at the default compression level.
// If dst is nil or too small, a new buffer is allocated.
func CompressBlock(dst, src []byte) ([]byte, error) {
	return compress.CompressBlock(dst, src)
}

// CompressBlockLevel compresses src into dst at the given level.
func CompressBlockLevel(dst, src []byte, level CompressionLevel) ([]byte, error) {
	return compress.CompressBlockLevel(dst, src, level)
}

// CompressBlockBound returns the largest possible compressed size for an
// input of length n, for sizing a destination buffer ahead of time.
func CompressBlockBound(n int) int {
	return compress.CompressBlockBound(n)
}

// DecompressBlock decompresses src into dst, returning the number of
// bytes written. dst must be large enough to hold the result in full.
func DecompressBlock(dst, src []byte) (int, error) {
	return compress.DecompressBlock(dst, src)
}

// CompressPrependSize compresses src and prefixes the result with src's
// length as a 4-byte little-endian integer, so the uncompressed size
// travels with the block instead of needing to be supplied separately.
func CompressPrependSize(src []byte) ([]byte, error) {
	return compress.CompressPrependSize(src)
}

// DecompressSizePrepended reverses CompressPrependSize.
func DecompressSizePrepended(src []byte) ([]byte, error) {
	return compress.DecompressSizePrepended(src)
}

// BlockMode selects whether a frame's blocks may reference each other's
// decoded bytes.
type BlockMode = compress.BlockMode

const (
	Independent = compress.Independent
	Linked      = compress.Linked
)

// BlockSize names a frame's fixed block-size class.
type BlockSize = compress.BlockSize

const (
	Auto     = compress.Auto
	Max64KB  = compress.Max64KB
	Max256KB = compress.Max256KB
	Max1MB   = compress.Max1MB
	Max4MB   = compress.Max4MB
)

// FrameInfo configures a frame's block layout and checksumming.
type FrameInfo = compress.FrameInfo

// DefaultFrameInfo returns the default frame configuration: independent
// blocks, 4MiB block size, content checksum on.
func DefaultFrameInfo() FrameInfo {
	return compress.DefaultFrameInfo()
}

// Reader is an io.Reader that decompresses an LZ4 frame.
type Reader struct {
	r *compress.FrameDecoder
}

// NewReader returns a Reader decompressing frames read from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: compress.NewFrameDecoder(r)}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	return r.r.Read(p)
}

// Writer is an io.WriteCloser that compresses a byte stream into an LZ4
// frame.
type Writer struct {
	w *compress.FrameEncoder
}

// NewWriter returns a Writer compressing to w with the default frame
// options and compression level.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: compress.NewFrameEncoder(w)}
}

// NewWriterLevel returns a Writer compressing to w at the given level,
// with default frame options.
func NewWriterLevel(w io.Writer, level CompressionLevel) *Writer {
	return &Writer{w: compress.NewFrameEncoderLevel(w, compress.DefaultFrameInfo(), level)}
}

// NewWriterOptions returns a Writer compressing to w with explicit frame
// options and compression level.
func NewWriterOptions(w io.Writer, info FrameInfo, level CompressionLevel) *Writer {
	return &Writer{w: compress.NewFrameEncoderLevel(w, info, level)}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Close implements io.Closer, flushing any buffered data and writing the
// frame's end mark and content checksum.
func (w *Writer) Close() error {
	return w.w.Close()
}

// PushDecoder decodes an LZ4 frame from chunks supplied via Push rather
// than through a blocking io.Reader, for callers receiving compressed
// bytes incrementally (e.g. off a socket).
type PushDecoder struct {
	d *compress.PushDecoder
}

// NewPushDecoder returns an empty PushDecoder ready to receive frame bytes.
func NewPushDecoder() *PushDecoder {
	return &PushDecoder{d: compress.NewPushDecoder()}
}

// Push appends newly received compressed bytes to the decoder's buffer.
func (p *PushDecoder) Push(chunk []byte) {
	p.d.Push(chunk)
}

// Pull drains the next decoded block, if the buffered bytes form one. It
// returns (nil, nil) when more bytes are needed, (nil, io.EOF) once the
// frame has been fully verified, or decoded bytes otherwise.
func (p *PushDecoder) Pull() ([]byte, error) {
	return p.d.Pull()
}
