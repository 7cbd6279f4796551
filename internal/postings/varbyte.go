// Package postings implements the block-compressed posting list format:
// varbyte/delta encoding, the skip table, and the random-access Cursor.
package postings

// EncodeVarbyte appends the base-128 little-endian varbyte encoding of n to dst
// and returns the extended slice. The high bit of each byte signals continuation;
// the low 7 bits carry the payload.
func EncodeVarbyte(dst []byte, n uint32) []byte {
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n == 0 {
			dst = append(dst, b)
			return dst
		}
		dst = append(dst, b|0x80)
	}
}

// DecodeVarbyte reads one varbyte-encoded integer from src starting at offset off
// and returns the value and the offset of the next unread byte.
func DecodeVarbyte(src []byte, off int) (uint32, int) {
	var n uint32
	var shift uint
	for {
		b := src[off]
		off++
		n |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return n, off
		}
		shift += 7
	}
}

// EncodeDeltas varbyte-encodes a strictly increasing sequence of doc-ids as
// [docs[0], docs[1]-docs[0], ...].
func EncodeDeltas(docs []int32) []byte {
	out := make([]byte, 0, len(docs)*2)
	var prev int32
	for i, d := range docs {
		var delta uint32
		if i == 0 {
			delta = uint32(d)
		} else {
			delta = uint32(d - prev)
		}
		out = EncodeVarbyte(out, delta)
		prev = d
	}
	return out
}

// DecodeDeltas decodes n varbyte-encoded deltas from src and prefix-sums them
// back into absolute doc-ids.
func DecodeDeltas(src []byte, n int) []int32 {
	docs := make([]int32, n)
	off := 0
	var cur int32
	for i := 0; i < n; i++ {
		var v uint32
		v, off = DecodeVarbyte(src, off)
		if i == 0 {
			cur = int32(v)
		} else {
			cur += int32(v)
		}
		docs[i] = cur
	}
	return docs
}

// EncodeFreqs varbyte-encodes a slice of term frequencies.
func EncodeFreqs(freqs []int32) []byte {
	out := make([]byte, 0, len(freqs)*2)
	for _, f := range freqs {
		out = EncodeVarbyte(out, uint32(f))
	}
	return out
}

// DecodeFreqs decodes n varbyte-encoded frequencies from src.
func DecodeFreqs(src []byte, n int) []int32 {
	freqs := make([]int32, n)
	off := 0
	for i := 0; i < n; i++ {
		var v uint32
		v, off = DecodeVarbyte(src, off)
		freqs[i] = int32(v)
	}
	return freqs
}
