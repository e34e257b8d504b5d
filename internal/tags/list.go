package tags

import "fmt"

// MaxListLen bounds every List.
const MaxListLen = 4

// List is an inline, fixed-capacity tag list. Its limit is set once by
// NewList and pushing past it panics. Lists are copied by value.
type List struct {
	ids   [MaxListLen]ID
	n     uint8
	limit uint8
}

// NewList returns an empty list that holds at most limit tags.
func NewList(limit int) List {
	if limit < 0 || limit > MaxListLen {
		panic(fmt.Sprintf("tags: list limit %d out of range [0,%d]", limit, MaxListLen))
	}
	return List{limit: uint8(limit)}
}

// Push appends ids, panicking when the list would exceed its limit.
func (l *List) Push(ids ...ID) {
	for _, id := range ids {
		if l.n >= l.limit {
			panic(fmt.Sprintf("tags: list capacity %d exceeded", l.limit))
		}
		l.ids[l.n] = id
		l.n++
	}
}

// Slice returns the tags in insertion order. The result aliases nothing.
func (l List) Slice() []ID {
	out := make([]ID, l.n)
	copy(out, l.ids[:l.n])
	return out
}

// Len returns the number of tags in the list.
func (l List) Len() int { return int(l.n) }

// Cap returns the list limit.
func (l List) Cap() int { return int(l.limit) }

// Contains reports whether id is in the list (exact match).
func (l List) Contains(id ID) bool {
	for _, t := range l.ids[:l.n] {
		if t == id {
			return true
		}
	}
	return false
}
