package indexing

import (
	"math/bits"

	"github.com/hideo55/go-popcount"
)

// childMask marks the children of an internal node whose subtree holds at
// least one entry. Bit i of word i>>6 stands for child i.
type childMask []uint64

func newChildMask(fan int) childMask {
	return make(childMask, (fan+63)>>6)
}

func (m childMask) set(idx int) {
	m[idx>>6] |= 1 << (idx & 0x3F)
}

func (m childMask) unset(idx int) {
	m[idx>>6] &^= 1 << (idx & 0x3F)
}

func (m childMask) has(idx int) bool {
	return (m[idx>>6]>>(idx&0x3F))&1 != 0
}

// count returns the number of non-empty children.
func (m childMask) count() int {
	var cnt uint64
	for _, bmp := range m {
		cnt += popcount.Count(bmp)
	}
	return int(cnt)
}

// rank returns the number of non-empty children before idx.
func (m childMask) rank(idx int) int {
	var (
		ofs = idx >> 6
		cnt = popcount.Count(m[ofs] & ((1 << (idx & 0x3F)) - 1))
	)
	for j := 0; j < ofs; j++ {
		cnt += popcount.Count(m[j])
	}
	return int(cnt)
}

// next returns the first non-empty child at or after idx, or -1.
func (m childMask) next(idx int) int {
	for ofs := idx >> 6; ofs < len(m); ofs++ {
		bmp := m[ofs]
		if ofs == idx>>6 {
			bmp &^= (1 << (idx & 0x3F)) - 1 // drop the bits below idx
		}
		if bmp != 0 {
			return ofs<<6 | bits.TrailingZeros64(bmp)
		}
	}
	return -1
}
