package compress

// Frame magic numbers, per spec §3/§6.
const (
	frameMagic          uint32 = 0x184D2204
	legacyFrameMagic    uint32 = 0x184C2102
	skippableMagicLow   uint32 = 0x184D2A50
	skippableMagicHigh  uint32 = 0x184D2A5F
	legacyFrameBlockLen        = 8 << 20
)

func isSkippableMagic(magic uint32) bool {
	return magic >= skippableMagicLow && magic <= skippableMagicHigh
}

// BlockMode selects whether successive blocks in a frame may reference
// each other's decoded bytes (Linked) or must decode independently
// (Independent).
type BlockMode int

const (
	Independent BlockMode = iota
	Linked
)

// BlockSize names one of the format's fixed block-size classes. Auto lets
// the encoder pick (this codec defaults Auto to Max4MB).
type BlockSize int

const (
	Auto    BlockSize = 0
	Max64KB BlockSize = 4
	Max256KB BlockSize = 5
	Max1MB  BlockSize = 6
	Max4MB  BlockSize = 7
	max8MBLegacy BlockSize = 8
)

// sizeInBytes returns the maximum uncompressed size of a block described
// by this BlockSize code.
func (b BlockSize) sizeInBytes() int {
	switch b {
	case Max64KB:
		return 64 << 10
	case Max256KB:
		return 256 << 10
	case Max1MB:
		return 1 << 20
	case Max4MB:
		return 4 << 20
	case max8MBLegacy:
		return 8 << 20
	default:
		return 4 << 20
	}
}

// Frame descriptor flag bit positions (FLG byte), per spec §4.8.
const (
	flgVersionShift       = 6
	flgVersionMask        = 0x3
	flgBlockIndependence  = 1 << 5
	flgBlockChecksum      = 1 << 4
	flgContentSize        = 1 << 3
	flgContentChecksum    = 1 << 2
	flgReservedBit1       = 1 << 1
	flgDictID             = 1 << 0
	supportedFlgVersion   = 1
	bdBlockSizeShift      = 4
	bdBlockSizeMask       = 0x7
	bdReservedMask        = ^uint8((0x7 << bdBlockSizeShift))
)

// FrameInfo describes a frame's descriptor: the options that shape how
// its blocks are laid out and checksummed. Grounded on
// original_source/src/frame/header.rs's FrameInfo.
type FrameInfo struct {
	BlockMode          BlockMode
	BlockSize          BlockSize
	BlockChecksums     bool
	ContentSize        uint64 // 0 means "not present"
	ContentChecksum    bool
	Legacy             bool
}

// DefaultFrameInfo matches the teacher's default Writer configuration:
// independent blocks, 4MiB block size, content checksum on, block
// checksums and content size off.
func DefaultFrameInfo() FrameInfo {
	return FrameInfo{
		BlockMode:       Independent,
		BlockSize:       Max4MB,
		ContentChecksum: true,
	}
}

// writeFrameHeader appends frame magic, descriptor bytes, and the
// descriptor checksum byte to dst, returning the new slice.
func writeFrameHeader(dst []byte, info FrameInfo) []byte {
	if info.Legacy {
		var m [4]byte
		storeLE32(m[:], 0, legacyFrameMagic)
		return append(dst, m[:]...)
	}

	var m [4]byte
	storeLE32(m[:], 0, frameMagic)
	dst = append(dst, m[:]...)

	descStart := len(dst)

	flg := byte(supportedFlgVersion << flgVersionShift)
	if info.BlockMode == Independent {
		flg |= flgBlockIndependence
	}
	if info.BlockChecksums {
		flg |= flgBlockChecksum
	}
	if info.ContentSize > 0 {
		flg |= flgContentSize
	}
	if info.ContentChecksum {
		flg |= flgContentChecksum
	}
	dst = append(dst, flg)

	blockSize := info.BlockSize
	if blockSize == Auto {
		blockSize = Max4MB
	}
	bd := byte(blockSize) << bdBlockSizeShift
	dst = append(dst, bd)

	if info.ContentSize > 0 {
		var sz [8]byte
		for i := 0; i < 8; i++ {
			sz[i] = byte(info.ContentSize >> (8 * i))
		}
		dst = append(dst, sz[:]...)
	}

	sum := XXH32(dst[descStart:], 0)
	dst = append(dst, byte(sum>>8))

	return dst
}

// readFrameMagic reads and classifies the 4-byte magic at the start of
// src. For skippable frames it returns the magic together with
// ErrSkippableFrame, so callers can tell them apart and skip past them.
func readFrameMagic(src []byte) (magic uint32, legacy bool, err error) {
	if len(src) < 4 {
		return 0, false, ErrUnexpectedEOF
	}
	magic = loadLE32(src, 0)
	switch {
	case magic == frameMagic:
		return magic, false, nil
	case magic == legacyFrameMagic:
		return magic, true, nil
	case isSkippableMagic(magic):
		return magic, false, ErrSkippableFrame
	default:
		return magic, false, ErrWrongMagicNumber
	}
}

// readFrameHeader parses the frame descriptor starting immediately after
// the magic number (src does not include the magic). It returns the
// parsed FrameInfo and the number of bytes consumed (descriptor + FLG/BD +
// optional content size + checksum byte).
func readFrameHeader(src []byte) (FrameInfo, int, error) {
	if len(src) < 2 {
		return FrameInfo{}, 0, ErrUnexpectedEOF
	}
	flg := src[0]
	bd := src[1]

	version := (flg >> flgVersionShift) & flgVersionMask
	if version != supportedFlgVersion {
		return FrameInfo{}, 0, ErrUnsupportedVersion
	}
	if flg&flgReservedBit1 != 0 {
		return FrameInfo{}, 0, ErrReservedBitsSet
	}
	if bd&bdReservedMask != 0 {
		return FrameInfo{}, 0, ErrReservedBitsSet
	}

	info := FrameInfo{
		BlockChecksums:  flg&flgBlockChecksum != 0,
		ContentChecksum: flg&flgContentChecksum != 0,
	}
	if flg&flgBlockIndependence != 0 {
		info.BlockMode = Independent
	} else {
		info.BlockMode = Linked
	}
	if flg&flgDictID != 0 {
		return FrameInfo{}, 0, ErrDictionaryNotSupported
	}

	blockSizeCode := BlockSize((bd >> bdBlockSizeShift) & bdBlockSizeMask)
	switch blockSizeCode {
	case Max64KB, Max256KB, Max1MB, Max4MB:
		info.BlockSize = blockSizeCode
	default:
		return FrameInfo{}, 0, ErrUnsupportedBlockSize
	}

	pos := 2
	if flg&flgContentSize != 0 {
		if len(src) < pos+8 {
			return FrameInfo{}, 0, ErrUnexpectedEOF
		}
		var sz uint64
		for i := 0; i < 8; i++ {
			sz |= uint64(src[pos+i]) << (8 * i)
		}
		info.ContentSize = sz
		pos += 8
	}

	if len(src) < pos+1 {
		return FrameInfo{}, 0, ErrUnexpectedEOF
	}
	wantSum := src[pos]
	gotSum := byte(XXH32(src[:pos], 0) >> 8)
	if wantSum != gotSum {
		return FrameInfo{}, 0, ErrHeaderChecksumMismatch
	}
	pos++

	return info, pos, nil
}

const blockUncompressedSizeBit uint32 = 0x80000000

// writeBlockSizeField appends a block's 4-byte size field: the low 31
// bits hold the size, and the high bit is set when the block is stored
// uncompressed (i.e. compression did not shrink it).
func writeBlockSizeField(dst []byte, size int, uncompressed bool) []byte {
	v := uint32(size)
	if uncompressed {
		v |= blockUncompressedSizeBit
	}
	var b [4]byte
	storeLE32(b[:], 0, v)
	return append(dst, b[:]...)
}

// readBlockSizeField decodes a block's 4-byte size field, reporting
// whether it is the end-mark (all-zero) and whether the block is stored
// uncompressed.
func readBlockSizeField(src []byte) (size int, uncompressed, endMark bool, err error) {
	if len(src) < 4 {
		return 0, false, false, ErrUnexpectedEOF
	}
	v := loadLE32(src, 0)
	if v == 0 {
		return 0, false, true, nil
	}
	uncompressed = v&blockUncompressedSizeBit != 0
	size = int(v &^ blockUncompressedSizeBit)
	return size, uncompressed, false, nil
}
