package core

import "math/bits"

const wordBits = 64

// PriceBitset is a dense occupancy index over the price grid: one bit per price, tracking whether
// a level has any active order. Scans use word-level ctz/clz so an empty book costs O(PMax/64)
// rather than O(PMax).
type PriceBitset struct {
	words []uint64
	size  int
}

// NewPriceBitset allocates a bitset covering [0, size).
func NewPriceBitset(size int) *PriceBitset {
	return &PriceBitset{
		words: make([]uint64, (size+wordBits-1)/wordBits),
		size:  size,
	}
}

// Set marks price p occupied.
func (b *PriceBitset) Set(p int) {
	b.words[p/wordBits] |= 1 << uint(p%wordBits)
}

// Clear marks price p empty.
func (b *PriceBitset) Clear(p int) {
	b.words[p/wordBits] &^= 1 << uint(p%wordBits)
}

// Test reports whether price p is occupied.
func (b *PriceBitset) Test(p int) bool {
	return b.words[p/wordBits]&(1<<uint(p%wordBits)) != 0
}

// ClearAll empties the bitset.
func (b *PriceBitset) ClearAll() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// FindFirstSet returns the smallest set bit >= start, or Size() if none exists.
func (b *PriceBitset) FindFirstSet(start int) int {
	if start < 0 {
		start = 0
	}
	if start >= b.size {
		return b.size
	}
	wi := start / wordBits
	bit := start % wordBits
	w := b.words[wi] >> uint(bit)
	if w != 0 {
		p := start + bits.TrailingZeros64(w)
		if p < b.size {
			return p
		}
		return b.size
	}
	for wi++; wi < len(b.words); wi++ {
		if b.words[wi] != 0 {
			p := wi*wordBits + bits.TrailingZeros64(b.words[wi])
			if p < b.size {
				return p
			}
			return b.size
		}
	}
	return b.size
}

// FindFirstSetDown returns the largest set bit <= start, or -1 if none exists.
func (b *PriceBitset) FindFirstSetDown(start int) int {
	if start >= b.size {
		start = b.size - 1
	}
	if start < 0 {
		return -1
	}
	wi := start / wordBits
	bit := start % wordBits
	w := b.words[wi]
	if bit < wordBits-1 {
		w &= (uint64(1) << uint(bit+1)) - 1
	}
	if w != 0 {
		return wi*wordBits + (wordBits - 1 - bits.LeadingZeros64(w))
	}
	for wi--; wi >= 0; wi-- {
		if b.words[wi] != 0 {
			return wi*wordBits + (wordBits - 1 - bits.LeadingZeros64(b.words[wi]))
		}
	}
	return -1
}

// Size returns the number of addressable prices.
func (b *PriceBitset) Size() int { return b.size }
