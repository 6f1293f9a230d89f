package compress

// decompressBlock decompresses src into snk. When dict is non-nil, match
// offsets that reach before the start of the bytes already written in this
// call are resolved against dict's trailing bytes (external-dictionary
// mode, per spec §4.7); otherwise such an offset is an error.
//
// Grounded on original_source/src/block/decompress_safe.rs's
// decompress_into: every length is read defensively (bounds checked
// before use) since, unlike the reference's unsafe fast path, this
// implementation has only the one (safe) code path.
func decompressBlock(snk sink, src []byte, dict []byte) (int, error) {
	pos := 0
	for pos < len(src) {
		token := src[pos]
		pos++

		litNibble, matchNibble := unpackToken(token)

		litLen := litNibble
		if litLen == 15 {
			v, newPos, err := decodeExtension(src, pos)
			if err != nil {
				return 0, err
			}
			pos = newPos
			litLen += v
		}

		if pos+litLen > len(src) {
			return 0, ErrLiteralOutOfBounds
		}
		if litLen > 0 {
			if err := snk.Extend(src[pos : pos+litLen]); err != nil {
				return 0, err
			}
			pos += litLen
		}

		// A token with no trailing offset means this was the block's
		// final literal run.
		if pos >= len(src) {
			if matchNibble != 0 {
				return 0, ErrUnexpectedEOF
			}
			break
		}

		if pos+2 > len(src) {
			return 0, ErrUnexpectedEOF
		}
		offset := int(loadLE16(src, pos))
		pos += 2
		if offset == 0 {
			return 0, ErrOffsetOutOfBounds
		}

		matchLen := matchNibble
		if matchLen == 15 {
			v, newPos, err := decodeExtension(src, pos)
			if err != nil {
				return 0, err
			}
			pos = newPos
			matchLen += v
		}
		matchLen += MinMatch

		if err := copyMatch(snk, offset, matchLen, dict); err != nil {
			return 0, err
		}
	}
	return snk.Len(), nil
}

// copyMatch resolves a single back-reference of the given offset and
// length against whatever has already been written to snk, falling back to
// dict when the offset reaches further back than the output written so
// far.
func copyMatch(snk sink, offset, matchLen int, dict []byte) error {
	written := snk.Len()
	if offset <= written {
		return snk.ExtendWithin(written-offset, matchLen)
	}

	// The back-reference reaches into the external dictionary.
	if dict == nil {
		return ErrOffsetOutOfBounds
	}
	dictBack := offset - written
	if dictBack > len(dict) {
		return ErrOffsetOutOfBounds
	}
	dictStart := len(dict) - dictBack

	fromDict := matchLen
	if fromDict > dictBack {
		fromDict = dictBack
	}
	if err := snk.Extend(dict[dictStart : dictStart+fromDict]); err != nil {
		return err
	}

	remaining := matchLen - fromDict
	if remaining > 0 {
		// The match straddles the dict/output boundary: the rest copies
		// from the output written so far (and possibly from bytes this
		// same call just appended, the ordinary overlapping case).
		return snk.ExtendWithin(0, remaining)
	}
	return nil
}
