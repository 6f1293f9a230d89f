package compress

// XXH32 implements the 32-bit xxHash algorithm used for the frame format's
// header, block, and content checksums. No pack-provided Go library
// offers XXH32 (only XXH64, via cespare/xxhash in go-ethereum's module
// graph, which cannot produce a bit-compatible 32-bit digest) -- see
// DESIGN.md. This is the one checksum primitive implemented directly
// against the algorithm rather than through a dependency.
const (
	xxh32Prime1 = 2654435761
	xxh32Prime2 = 2246822519
	xxh32Prime3 = 3266489917
	xxh32Prime4 = 668265263
	xxh32Prime5 = 374761393
)

// XXH32 returns the xxHash32 digest of data seeded with seed. The frame
// format always uses seed 0.
func XXH32(data []byte, seed uint32) uint32 {
	var h uint32
	n := len(data)
	i := 0

	if n >= 16 {
		v1 := seed + xxh32Prime1 + xxh32Prime2
		v2 := seed + xxh32Prime2
		v3 := seed
		v4 := seed - xxh32Prime1

		for ; i+16 <= n; i += 16 {
			v1 = xxh32Round(v1, loadLE32(data, i))
			v2 = xxh32Round(v2, loadLE32(data, i+4))
			v3 = xxh32Round(v3, loadLE32(data, i+8))
			v4 = xxh32Round(v4, loadLE32(data, i+12))
		}
		h = rotl32(v1, 1) + rotl32(v2, 7) + rotl32(v3, 12) + rotl32(v4, 18)
	} else {
		h = seed + xxh32Prime5
	}

	h += uint32(n)

	for ; i+4 <= n; i += 4 {
		h += loadLE32(data, i) * xxh32Prime3
		h = rotl32(h, 17) * xxh32Prime4
	}

	for ; i < n; i++ {
		h += uint32(data[i]) * xxh32Prime5
		h = rotl32(h, 11) * xxh32Prime1
	}

	h ^= h >> 15
	h *= xxh32Prime2
	h ^= h >> 13
	h *= xxh32Prime3
	h ^= h >> 16

	return h
}

func xxh32Round(acc, input uint32) uint32 {
	acc += input * xxh32Prime2
	acc = rotl32(acc, 13)
	acc *= xxh32Prime1
	return acc
}

func rotl32(x uint32, r uint) uint32 {
	return (x << r) | (x >> (32 - r))
}

// xxh32Digest is a streaming XXH32 accumulator, used by the frame encoder
// and decoder to checksum content incrementally as blocks are produced or
// consumed, rather than buffering the whole payload to hash it at once.
type xxh32Digest struct {
	seed    uint32
	v1      uint32
	v2      uint32
	v3      uint32
	v4      uint32
	buf     [16]byte
	bufLen  int
	total   uint64
	started bool
}

func newXXH32Digest(seed uint32) *xxh32Digest {
	d := &xxh32Digest{seed: seed}
	d.reset()
	return d
}

func (d *xxh32Digest) reset() {
	d.v1 = d.seed + xxh32Prime1 + xxh32Prime2
	d.v2 = d.seed + xxh32Prime2
	d.v3 = d.seed
	d.v4 = d.seed - xxh32Prime1
	d.bufLen = 0
	d.total = 0
	d.started = false
}

func (d *xxh32Digest) Write(p []byte) {
	d.total += uint64(len(p))

	if d.bufLen > 0 {
		fill := 16 - d.bufLen
		if fill > len(p) {
			fill = len(p)
		}
		copy(d.buf[d.bufLen:], p[:fill])
		d.bufLen += fill
		p = p[fill:]
		if d.bufLen < 16 {
			return
		}
		d.v1 = xxh32Round(d.v1, loadLE32(d.buf[:], 0))
		d.v2 = xxh32Round(d.v2, loadLE32(d.buf[:], 4))
		d.v3 = xxh32Round(d.v3, loadLE32(d.buf[:], 8))
		d.v4 = xxh32Round(d.v4, loadLE32(d.buf[:], 12))
		d.bufLen = 0
		d.started = true
	}

	for len(p) >= 16 {
		d.v1 = xxh32Round(d.v1, loadLE32(p, 0))
		d.v2 = xxh32Round(d.v2, loadLE32(p, 4))
		d.v3 = xxh32Round(d.v3, loadLE32(p, 8))
		d.v4 = xxh32Round(d.v4, loadLE32(p, 12))
		p = p[16:]
		d.started = true
	}

	if len(p) > 0 {
		copy(d.buf[:], p)
		d.bufLen = len(p)
	}
}

func (d *xxh32Digest) Sum32() uint32 {
	var h uint32
	if d.started || d.total >= 16 {
		h = rotl32(d.v1, 1) + rotl32(d.v2, 7) + rotl32(d.v3, 12) + rotl32(d.v4, 18)
	} else {
		h = d.seed + xxh32Prime5
	}

	h += uint32(d.total)

	i := 0
	for ; i+4 <= d.bufLen; i += 4 {
		h += loadLE32(d.buf[:], i) * xxh32Prime3
		h = rotl32(h, 17) * xxh32Prime4
	}
	for ; i < d.bufLen; i++ {
		h += uint32(d.buf[i]) * xxh32Prime5
		h = rotl32(h, 11) * xxh32Prime1
	}

	h ^= h >> 15
	h *= xxh32Prime2
	h ^= h >> 13
	h *= xxh32Prime3
	h ^= h >> 16

	return h
}
