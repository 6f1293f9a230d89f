package compress

// packToken packs a sequence's literal length and match length (already
// minus the implicit MinMatch of 4) into a single token byte, saturating
// each nibble at 15 the way the LZ4 block format requires.
func packToken(litLen, matchLenMinus4 int) byte {
	l := litLen
	if l > 15 {
		l = 15
	}
	m := matchLenMinus4
	if m > 15 {
		m = 15
	}
	return byte(l<<4 | m)
}

// unpackToken splits a token byte into its literal-length and
// match-length nibbles.
func unpackToken(token byte) (litNibble, matchNibble int) {
	return int(token >> 4), int(token & 0x0F)
}

// encodeExtension appends the LSIC (linear small integer code) extension
// for v: a run of 0xFF bytes followed by a terminating byte < 0xFF, such
// that the sum of all written bytes equals v. Used whenever a token nibble
// saturated at 15.
func encodeExtension(dst []byte, pos int, v int) int {
	for v >= 255 {
		dst[pos] = 0xFF
		pos++
		v -= 255
	}
	dst[pos] = byte(v)
	pos++
	return pos
}

// extensionSize returns the number of bytes encodeExtension would write
// for v.
func extensionSize(v int) int {
	return v/255 + 1
}

// decodeExtension reads an LSIC extension starting at pos, returning the
// decoded value and the position just past the terminating byte. It
// reports ErrUnexpectedEOF if src is exhausted before a terminator is
// found.
func decodeExtension(src []byte, pos int) (v int, newPos int, err error) {
	for {
		if pos >= len(src) {
			return 0, pos, ErrUnexpectedEOF
		}
		b := src[pos]
		pos++
		v += int(b)
		if b != 0xFF {
			return v, pos, nil
		}
	}
}
