package compress

// Dict is an external dictionary: bytes from previously processed data
// that later blocks may reference by offset even though they are not part
// of that block's own input. Grounded on
// original_source/src/block/dict.rs's Dict type.
type Dict struct {
	data []byte
}

// maxDictSize mirrors the format's 16-bit offset limit: a dictionary
// longer than this has bytes no match offset could ever reach, so only
// the trailing maxDictSize bytes are kept.
const maxDictSize = 1<<16 - 1

// NewDict builds a Dict from data, retaining only the most recent
// maxDictSize bytes (the ones any 16-bit offset can actually address).
func NewDict(data []byte) *Dict {
	if len(data) > maxDictSize {
		data = data[len(data)-maxDictSize:]
	}
	d := make([]byte, len(data))
	copy(d, data)
	return &Dict{data: d}
}

// Bytes returns the dictionary's retained trailing bytes, most recent
// last -- the same layout DecompressBlockWithDict expects.
func (d *Dict) Bytes() []byte { return d.data }

// CompressBlockWithDict compresses src into dst with the fast tier,
// allowing matches to reach back into dict's trailing bytes as if they
// immediately preceded src. Only the fast tier supports dictionary-seeded
// search; HC-tier dictionary compression is not implemented (see
// DESIGN.md) and CompressBlockWithDict always uses the fast tier.
func CompressBlockWithDict(dst, src []byte, dict *Dict) ([]byte, error) {
	if len(src) > MaxBlockSize {
		return nil, ErrInvalidBlockSize
	}
	need := CompressBlockBound(len(src))
	if len(dst) < need {
		dst = make([]byte, need)
	}
	var dictBytes []byte
	if dict != nil {
		dictBytes = dict.data
	}
	n, err := compressFastWithDict(dst, src, dictBytes)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// byteAt reads the byte at virtual position p, where p >= 0 indexes src
// and p < 0 indexes into dict's trailing bytes (p == -1 is dict's last
// byte).
func byteAt(src, dict []byte, p int) byte {
	if p >= 0 {
		return src[p]
	}
	return dict[len(dict)+p]
}

func load4At(src, dict []byte, p int) (uint32, bool) {
	if p >= 0 {
		if p+4 > len(src) {
			return 0, false
		}
		return loadLE32(src, p), true
	}
	if p+4 <= 0 {
		idx := len(dict) + p
		if idx < 0 || idx+4 > len(dict) {
			return 0, false
		}
		return loadLE32(dict, idx), true
	}
	// Straddles the dict/src boundary: build it byte by byte.
	var b [4]byte
	for i := 0; i < 4; i++ {
		b[i] = byteAt(src, dict, p+i)
	}
	return loadLE32(b[:], 0), true
}

// compressFastWithDict is compressFast generalized to search a virtual
// stream of dict followed by src, using negative positions for dict
// bytes. Grounded on the same compress.rs main loop as compressFast, with
// candidate positions and comparisons widened to negative indices.
func compressFastWithDict(dst, src, dict []byte) (int, error) {
	n := len(src)
	if n < minCompressibleBlock {
		return handleLastLiterals(dst, 0, src, 0)
	}

	capacity := 1 << 14
	mask := uint32(capacity - 1)
	table := make([]int32, capacity)
	const emptySlot = int32(-1 << 30)
	for i := range table {
		table[i] = emptySlot
	}
	hashIdx := func(seq uint32) uint32 {
		return ((seq * hashMultiplierLocal) >> 15) & mask
	}

	// Seed the table with every 4-byte sequence in dict so src can match
	// against it from the very first position.
	for i := -len(dict); i < 0; i++ {
		seq, ok := load4At(src, dict, i)
		if !ok {
			continue
		}
		table[hashIdx(seq)] = int32(i)
	}

	dstPos := 0
	srcPos := 0
	anchor := 0
	endPos := n - lastMatchMargin

	for srcPos <= endPos {
		seq := loadLE32(src, srcPos)
		idx := hashIdx(seq)
		candidate := table[idx]
		table[idx] = int32(srcPos)

		if candidate == emptySlot {
			srcPos++
			continue
		}
		cSeq, ok := load4At(src, dict, int(candidate))
		if !ok || cSeq != seq {
			srcPos++
			continue
		}
		offset := srcPos - int(candidate)
		if offset <= 0 || offset > 0xFFFF {
			srcPos++
			continue
		}

		matchLen := extendMatchDict(src, dict, int(candidate)+4, srcPos+4, n-endOffset)

		litLen := srcPos - anchor
		dstPos = emitSequence(dst, dstPos, src, anchor, litLen, offset, matchLen)

		srcPos += matchLen
		anchor = srcPos
	}

	return handleLastLiterals(dst, dstPos, src, anchor)
}

const hashMultiplierLocal = 2654435761

func extendMatchDict(src, dict []byte, a, b, limit int) int {
	n := 0
	for b+n < limit && byteAt(src, dict, a+n) == src[b+n] {
		n++
	}
	return MinMatch + n
}
