package tags

import "math/bits"

const setWords = MaxTags / 64

// Set is a fixed-size bitset of active tags. The zero value is empty and
// Sets are copied by value.
type Set [setWords]uint64

// Add marks id active.
func (s *Set) Add(id ID) {
	s[id/64] |= 1 << (id % 64)
}

// Remove clears id.
func (s *Set) Remove(id ID) {
	s[id/64] &^= 1 << (id % 64)
}

// Has reports whether exactly id is set. Use Registry.AnyMatch for
// hierarchical queries.
func (s Set) Has(id ID) bool {
	return s[id/64]&(1<<(id%64)) != 0
}

// Intersects reports whether s and o share any tag.
func (s Set) Intersects(o Set) bool {
	for i := range s {
		if s[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

// Len returns the number of tags in the set.
func (s Set) Len() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// IDs returns the set members in ascending order.
func (s Set) IDs() []ID {
	var out []ID
	for i, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, ID(i*64+b))
			w &^= 1 << b
		}
	}
	return out
}
