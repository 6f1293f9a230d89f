package compress

import "fmt"

// Frame-layer errors. Returned by the frame header codec, encoder, and
// decoder; several wrap a block-layer error via Unwrap so callers can
// still errors.Is against the underlying cause.
var (
	// ErrWrongMagicNumber is returned when a frame's leading 4 bytes match
	// neither the current magic, the legacy magic, nor a skippable-frame
	// magic.
	ErrWrongMagicNumber = fmt.Errorf("lz4x: wrong magic number")

	// ErrUnsupportedVersion is returned when the frame descriptor's
	// version bits are not the one version this codec implements.
	ErrUnsupportedVersion = fmt.Errorf("lz4x: unsupported frame version")

	// ErrReservedBitsSet is returned when a frame descriptor sets bits the
	// format reserves for future use.
	ErrReservedBitsSet = fmt.Errorf("lz4x: reserved bits set in frame descriptor")

	// ErrUnsupportedBlockSize is returned when a frame descriptor names a
	// block-size code this codec does not recognize.
	ErrUnsupportedBlockSize = fmt.Errorf("lz4x: unsupported block size code")

	// ErrBlockTooBig is returned when a block's declared size exceeds the
	// frame's configured maximum block size.
	ErrBlockTooBig = fmt.Errorf("lz4x: block size exceeds frame maximum")

	// ErrBlockChecksumMismatch is returned when a block's trailing XXH32
	// checksum does not match its (compressed) bytes.
	ErrBlockChecksumMismatch = fmt.Errorf("lz4x: block checksum mismatch")

	// ErrHeaderChecksumMismatch is returned when a frame descriptor's
	// trailing checksum byte does not match its preceding bytes.
	ErrHeaderChecksumMismatch = fmt.Errorf("lz4x: frame header checksum mismatch")

	// ErrContentChecksumMismatch is returned when a frame's trailing
	// content checksum does not match the decompressed content.
	ErrContentChecksumMismatch = fmt.Errorf("lz4x: content checksum mismatch")

	// ErrInvalidBlockInfo names a block-size field whose bit pattern is
	// inconsistent with the format. No decoder in this package returns it.
	ErrInvalidBlockInfo = fmt.Errorf("lz4x: invalid block size field")

	// ErrDictionaryNotSupported is returned when a frame descriptor sets
	// the dictionary-ID flag; this codec does not implement pinned
	// external dictionaries addressed by ID.
	ErrDictionaryNotSupported = fmt.Errorf("lz4x: dictionary ID frames are not supported")

	// ErrSkippableFrame is returned by the low-level frame-magic reader
	// when it encounters a skippable frame. FrameDecoder and PushDecoder
	// recognize skippable magics themselves and skip those frames, so
	// callers of the public Reader never see it.
	ErrSkippableFrame = fmt.Errorf("lz4x: skippable frame")
)

// ContentLengthMismatchError is returned when a frame declares a content
// size that does not match the number of bytes actually decompressed.
type ContentLengthMismatchError struct {
	Expected uint64
	Actual   uint64
}

func (e *ContentLengthMismatchError) Error() string {
	return fmt.Sprintf("lz4x: content length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// frameDecompressionError wraps a block-layer error encountered while
// decompressing one block of a frame, so the caller can still unwrap down
// to the underlying cause.
type frameDecompressionError struct {
	err error
}

func (e *frameDecompressionError) Error() string {
	return fmt.Sprintf("lz4x: block decompression failed: %v", e.err)
}

func (e *frameDecompressionError) Unwrap() error { return e.err }
