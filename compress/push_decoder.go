package compress

import (
	"bytes"
	"io"
)

// PushDecoder decodes an LZ4 frame from bytes supplied in arbitrary-sized
// chunks via Push, rather than through a blocking io.Reader -- useful when
// compressed bytes arrive incrementally (e.g. off a socket) and the caller
// cannot afford to block waiting for a full block to arrive.
//
// Grounded on original_source/src/frame/raw_decompress.rs's Decoder, whose
// push/next_block pair works the same way: push feeds bytes in, next_block
// (here Pull) drains whatever complete blocks the buffered bytes allow and
// reports "not enough yet" rather than blocking.
type PushDecoder struct {
	buf bytes.Buffer

	info       FrameInfo
	haveHeader bool

	history []byte

	skipRemaining int
	endSeen       bool
	done          bool

	content    *xxh32Digest
	contentLen uint64
}

// NewPushDecoder returns an empty PushDecoder ready to receive frame bytes.
func NewPushDecoder() *PushDecoder {
	return &PushDecoder{content: newXXH32Digest(0)}
}

// Push appends newly received compressed bytes to the decoder's internal
// buffer. It never decodes or blocks; call Pull afterward to drain
// whatever complete blocks the buffer now allows.
func (d *PushDecoder) Push(p []byte) {
	d.buf.Write(p)
}

// Pull attempts to produce the next decoded block from previously pushed
// bytes. It returns (nil, nil) when the buffered bytes don't yet contain a
// complete header or block -- Push more and call Pull again -- (nil,
// io.EOF) once the frame's end mark and (if present) content checksum have
// been verified, or decoded bytes with a nil error when a block completed.
func (d *PushDecoder) Pull() ([]byte, error) {
	if d.done {
		return nil, io.EOF
	}
	for {
		if d.skipRemaining > 0 {
			if d.buf.Len() == 0 {
				return nil, nil
			}
			n := d.skipRemaining
			if n > d.buf.Len() {
				n = d.buf.Len()
			}
			d.buf.Next(n)
			d.skipRemaining -= n
			continue
		}
		if !d.haveHeader {
			ok, err := d.tryParseHeader()
			if err != nil {
				d.done = true
				return nil, err
			}
			if !ok {
				return nil, nil
			}
			continue
		}
		if d.endSeen {
			return d.finish()
		}
		decoded, sawEndMark, err := d.tryParseBlock()
		if err != nil {
			d.done = true
			return nil, err
		}
		if sawEndMark {
			continue
		}
		if decoded == nil {
			return nil, nil
		}
		return decoded, nil
	}
}

// tryParseHeader consumes a frame header (legacy, skippable, or current)
// from the front of the buffer once enough bytes are available. It
// returns (false, nil) when more bytes are needed.
func (d *PushDecoder) tryParseHeader() (bool, error) {
	avail := d.buf.Bytes()
	if len(avail) < 4 {
		return false, nil
	}
	magic := loadLE32(avail, 0)

	if magic == legacyFrameMagic {
		d.buf.Next(4)
		d.info = FrameInfo{BlockMode: Independent, BlockSize: max8MBLegacy, Legacy: true}
		d.haveHeader = true
		return true, nil
	}
	if isSkippableMagic(magic) {
		if len(avail) < 8 {
			return false, nil
		}
		d.buf.Next(8)
		d.skipRemaining = int(loadLE32(avail, 4))
		return true, nil
	}
	if magic != frameMagic {
		return false, ErrWrongMagicNumber
	}
	if len(avail) < 5 {
		return false, nil
	}
	flg := avail[4]
	need := 4 + 2 + 1
	if flg&flgContentSize != 0 {
		need += 8
	}
	if len(avail) < need {
		return false, nil
	}
	info, _, err := readFrameHeader(avail[4:need])
	if err != nil {
		return false, err
	}
	d.buf.Next(need)
	d.info = info
	d.haveHeader = true
	return true, nil
}

// tryParseBlock consumes one block's size field, payload, and optional
// checksum once fully buffered. sawEndMark reports that the all-zero end
// mark was consumed, in which case the caller should move on to finish.
func (d *PushDecoder) tryParseBlock() (decoded []byte, sawEndMark bool, err error) {
	maxBlock := d.info.BlockSize.sizeInBytes()
	avail := d.buf.Bytes()
	if len(avail) < 4 {
		return nil, false, nil
	}
	size, uncompressed, endMark, err := readBlockSizeField(avail[:4])
	if err != nil {
		return nil, false, err
	}
	if endMark {
		d.buf.Next(4)
		d.endSeen = true
		return nil, true, nil
	}
	if size > maxBlock {
		return nil, false, ErrBlockTooBig
	}

	need := 4 + size
	if d.info.BlockChecksums {
		need += 4
	}
	if len(avail) < need {
		return nil, false, nil
	}

	payload := avail[4 : 4+size]
	if d.info.BlockChecksums {
		want := loadLE32(avail, 4+size)
		if XXH32(payload, 0) != want {
			return nil, false, ErrBlockChecksumMismatch
		}
	}

	if uncompressed {
		decoded = append([]byte(nil), payload...)
	} else {
		dst := make([]byte, maxBlock)
		var n int
		var derr error
		if d.info.BlockMode == Linked && len(d.history) > 0 {
			n, derr = DecompressBlockWithDict(dst, payload, d.history)
		} else {
			n, derr = DecompressBlock(dst, payload)
		}
		if derr != nil {
			return nil, false, &frameDecompressionError{derr}
		}
		decoded = dst[:n]
	}
	d.buf.Next(need)

	d.contentLen += uint64(len(decoded))
	if d.info.ContentChecksum {
		d.content.Write(decoded)
	}
	if d.info.BlockMode == Linked {
		d.history = append(d.history, decoded...)
		if len(d.history) > windowSize {
			d.history = d.history[len(d.history)-windowSize:]
		}
	}
	return decoded, false, nil
}

// finish verifies the declared content size and (if present) the trailing
// content checksum once the end mark has been seen, returning io.EOF on
// success. It returns (nil, nil) when the checksum bytes haven't all
// arrived yet.
func (d *PushDecoder) finish() ([]byte, error) {
	if d.info.ContentSize != 0 && d.info.ContentSize != d.contentLen {
		d.done = true
		return nil, &ContentLengthMismatchError{Expected: d.info.ContentSize, Actual: d.contentLen}
	}
	if d.info.ContentChecksum {
		avail := d.buf.Bytes()
		if len(avail) < 4 {
			return nil, nil
		}
		want := loadLE32(avail, 0)
		d.buf.Next(4)
		if want != d.content.Sum32() {
			d.done = true
			return nil, ErrContentChecksumMismatch
		}
	}
	d.done = true
	return nil, io.EOF
}
