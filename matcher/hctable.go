package matcher

// HC hash table constants, grounded on the teacher's compress/hc.go
// HashLogHC/HashTableSizeHC pair and original_source/src/block/hashtable.rs's
// HashTable8K sizing, corrected to the 128 KiB head (1<<15 int32 entries)
// the spec's memory-bound invariant requires.
const (
	hcHashLog  = 15
	hcHashSize = 1 << hcHashLog
	hcHashMask = hcHashSize - 1

	// chainSize is the delta-chain's entry count: a fixed 65536 slots
	// indexed by position modulo window, independent of input size, per
	// spec §3/§5 ("a 65536-entry delta-chain", "128 KiB head + 128 KiB
	// chain"). Each slot is a uint16 delta (distance back to the
	// previous position with the same hash, 0 meaning "none"), so the
	// chain array itself is 65536*2 = 128 KiB regardless of block size.
	chainSize = 1 << 16
	chainMask = chainSize - 1
)

// HCTable is the high-compression tier's match finder: a head-of-chain
// table plus a fixed-size delta-chain array, so a probe can walk backward
// through earlier positions that hashed to the same bucket, bounded by
// maxAttempts and the configured window. Both arrays are allocated once at
// a fixed size (256 KiB total) regardless of input length.
type HCTable struct {
	head        []int32
	chain       []uint16
	maxAttempts int
	windowSize  int
}

// NewHCTable creates an HC table with the given attempt budget and
// back-reference window, per spec §4.4's level tiers (maxAttempts =
// 1<<(level-1), clamped; windowSize grows with level up to 1<<16).
func NewHCTable(maxAttempts, windowSize int) *HCTable {
	t := &HCTable{
		head:        make([]int32, hcHashSize),
		chain:       make([]uint16, chainSize),
		maxAttempts: maxAttempts,
		windowSize:  windowSize,
	}
	t.Reset()
	return t
}

// Reset clears all chains, discarding match history.
func (t *HCTable) Reset() {
	for i := range t.head {
		t.head[i] = -1
	}
	for i := range t.chain {
		t.chain[i] = 0
	}
}

func hcHash(seq uint32) uint32 {
	return (seq * hashMultiplier) >> (32 - hcHashLog)
}

// Insert records pos under seq's bucket, storing the distance back to the
// previous head-of-chain position (if any and if it fits a uint16) in
// pos's chain slot, then promoting pos to head-of-chain.
func (t *HCTable) Insert(seq uint32, pos int32) {
	h := hcHash(seq)
	prev := t.head[h]
	delta := 0
	if prev >= 0 {
		d := pos - prev
		if d > 0 && d <= 0xFFFF {
			delta = int(d)
		}
	}
	t.chain[uint32(pos)&chainMask] = uint16(delta)
	t.head[h] = pos
}

// Candidates returns an iterator-style callback sequence: it invokes visit
// for each candidate position in seq's chain, starting from the most recent,
// stopping after maxAttempts candidates, a window-size cutoff, or when the
// chain delta is exhausted (a slot of 0, meaning "no predecessor").
func (t *HCTable) Candidates(seq uint32, pos int32, visit func(candidate int32) bool) {
	h := hcHash(seq)
	candidate := t.head[h]
	attempts := 0
	minPos := pos - int32(t.windowSize)
	for candidate >= 0 && candidate > minPos && attempts < t.maxAttempts {
		if !visit(candidate) {
			return
		}
		delta := t.chain[uint32(candidate)&chainMask]
		if delta == 0 {
			return
		}
		candidate -= int32(delta)
		attempts++
	}
}
