package compress

import "github.com/lz4x/lz4x/matcher"

// hcTier describes one level's search budget, grounded on the teacher's
// compress/hc.go NewHCMatcher tiers and spec §4.4's max_attempts formula
// (1 << (level-1), clamped).
type hcTier struct {
	maxAttempts int
	windowSize  int
}

func tierFor(level CompressionLevel) hcTier {
	attempts := 1 << (uint(level) - 1)
	if attempts > 1<<16 {
		attempts = 1 << 16
	}
	window := 1 << 16
	if level <= 6 {
		window = 1 << 15
	}
	return hcTier{maxAttempts: attempts, windowSize: window}
}

// compressHC implements the high-compression tier: a chained hash table
// probed up to maxAttempts times per position, plus one step of lazy
// matching (check whether starting the match one byte later yields a
// strictly longer one) before committing, grounded on the teacher's
// compress/hc.go LazyMatch and original_source's compress_hc.rs concept.
func compressHC(dst, src []byte, level CompressionLevel) (int, error) {
	n := len(src)
	if n < minCompressibleBlock {
		return handleLastLiterals(dst, 0, src, 0)
	}

	tier := tierFor(level)
	table := matcher.NewHCTable(tier.maxAttempts, tier.windowSize)

	dstPos := 0
	srcPos := 0
	anchor := 0
	endPos := n - lastMatchMargin

	for srcPos <= endPos {
		offset, matchLen := findBestHC(table, src, srcPos, n-endOffset)
		if matchLen < MinMatch {
			table.Insert(loadLE32(src, srcPos), int32(srcPos))
			srcPos++
			continue
		}

		// Lazy matching: if starting one byte later finds a strictly
		// longer match, prefer emitting one extra literal byte and taking
		// that match instead.
		if srcPos+1 <= endPos {
			table.Insert(loadLE32(src, srcPos), int32(srcPos))
			nextOffset, nextLen := findBestHC(table, src, srcPos+1, n-endOffset)
			if nextLen > matchLen {
				srcPos++
				offset, matchLen = nextOffset, nextLen
			}
		} else {
			table.Insert(loadLE32(src, srcPos), int32(srcPos))
		}

		litLen := srcPos - anchor
		dstPos = emitSequence(dst, dstPos, src, anchor, litLen, offset, matchLen)

		matchEnd := srcPos + matchLen
		for p := srcPos + 1; p < matchEnd && p <= endPos; p++ {
			table.Insert(loadLE32(src, p), int32(p))
		}
		srcPos = matchEnd
		anchor = srcPos
	}

	return handleLastLiterals(dst, dstPos, src, anchor)
}

// findBestHC walks pos's hash chain (bounded by the table's attempt
// budget) and returns the longest valid match found, or matchLen 0 if
// none qualifies.
func findBestHC(table *matcher.HCTable, src []byte, pos, limit int) (bestOffset, bestLen int) {
	if pos+4 > len(src) {
		return 0, 0
	}
	seq := loadLE32(src, pos)
	table.Candidates(seq, int32(pos), func(candidate int32) bool {
		c := int(candidate)
		if c >= pos || loadLE32(src, c) != seq {
			return true
		}
		length := extendMatch(src, c+4, pos+4, limit)
		offset := pos - c
		if offset <= 0 || offset > 0xFFFF {
			return true
		}
		if length > bestLen {
			bestLen = length
			bestOffset = offset
		}
		return true
	})
	return bestOffset, bestLen
}
