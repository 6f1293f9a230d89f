package compress

import "github.com/lz4x/lz4x/matcher"

// minCompressibleBlock is the smallest block a match may be searched in;
// anything shorter is emitted as a single literal-only sequence, per the
// format's end-of-block restrictions.
const minCompressibleBlock = 13

// lastMatchMargin is the minimum distance a match's starting position must
// keep from the end of the block (the format requires the last match to
// start at least this many bytes before the block ends).
const lastMatchMargin = 12

// endOffset is the minimum distance a match's last byte must keep from the
// very end of the block, per the format's end-of-block restriction (the
// final 5 bytes of a block are always literals).
const endOffset = 5

// compressFast implements the fast (non-HC) compression tier: one hash
// probe per position, first acceptable candidate wins. Grounded on
// original_source/src/block/compress.rs's compress_into main loop.
func compressFast(dst, src []byte) (int, error) {
	n := len(src)
	if n < minCompressibleBlock {
		return handleLastLiterals(dst, 0, src, 0)
	}

	table := matcher.NewFastTable(n)
	dstPos := 0
	srcPos := 0
	anchor := 0

	endPos := n - lastMatchMargin

	for srcPos <= endPos {
		seq := loadLE32(src, srcPos)
		candidate := table.GetAndPut(seq, int32(srcPos))

		if candidate < 0 || int(candidate) >= srcPos {
			srcPos++
			continue
		}
		offset := srcPos - int(candidate)
		if offset <= 0 || offset > 0xFFFF {
			srcPos++
			continue
		}
		if loadLE32(src, int(candidate)) != seq {
			srcPos++
			continue
		}

		matchLen := extendMatch(src, int(candidate)+4, srcPos+4, n-endOffset)

		litLen := srcPos - anchor
		dstPos = emitSequence(dst, dstPos, src, anchor, litLen, offset, matchLen)

		srcPos += matchLen
		anchor = srcPos

		// Insert the position two bytes before the match end so later
		// matches can find this run, rather than leaving a hash gap across
		// the whole match.
		if srcPos <= endPos {
			table.Put(loadLE32(src, srcPos-2), int32(srcPos-2))
		}
	}

	return handleLastLiterals(dst, dstPos, src, anchor)
}

// extendMatch counts how many more bytes starting at (a, b) match, without
// reading past limit (exclusive) in the b (destination-side) stream. a and b
// are the positions just past an already verified MinMatch-byte prefix; the
// returned value is the whole match length, that prefix included.
func extendMatch(src []byte, a, b, limit int) int {
	n := 0
	for b+n < limit && src[a+n] == src[b+n] {
		n++
	}
	return MinMatch + n
}

// emitSequence writes one token + literal run + offset + match-length
// extension sequence, per the block format, and returns the new dst
// position.
func emitSequence(dst []byte, dstPos int, src []byte, litStart, litLen, offset, matchLen int) int {
	matchLenCode := matchLen - MinMatch

	tokenPos := dstPos
	dst[tokenPos] = packToken(litLen, matchLenCode)
	dstPos++

	if litLen >= 15 {
		dstPos = encodeExtension(dst, dstPos, litLen-15)
	}
	if litLen > 0 {
		copy(dst[dstPos:dstPos+litLen], src[litStart:litStart+litLen])
		dstPos += litLen
	}

	storeLE16(dst, dstPos, uint16(offset))
	dstPos += 2

	if matchLenCode >= 15 {
		dstPos = encodeExtension(dst, dstPos, matchLenCode-15)
	}
	return dstPos
}

// handleLastLiterals emits the remainder of src (from anchor to the end)
// as a single literal-only sequence (token with match-length nibble 0 and
// no offset), the mandatory shape for a block's final bytes.
func handleLastLiterals(dst []byte, dstPos int, src []byte, anchor int) (int, error) {
	litLen := len(src) - anchor
	if litLen == 0 {
		return dstPos, nil
	}
	dst[dstPos] = packToken(litLen, 0)
	dstPos++
	if litLen >= 15 {
		dstPos = encodeExtension(dst, dstPos, litLen-15)
	}
	copy(dst[dstPos:dstPos+litLen], src[anchor:])
	dstPos += litLen
	return dstPos, nil
}
