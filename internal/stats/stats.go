// Package stats stores the numeric resources (mana, health, stamina) that
// ability costs are checked against. The set of stats is a closed
// enumeration supplied by the game; every type here is generic over it.
package stats

import "sort"

// Kind is the constraint for a game's stat enumeration.
type Kind interface {
	~uint8
	String() string
}

// Value is a single stat's base and current value.
type Value struct {
	Base    float32
	Current float32
}

// Block holds the values of every stat an entity has. The zero Block is
// empty; unknown kinds read as zero.
type Block[K Kind] struct {
	values map[K]Value
}

// New builds a Block whose base and current values come from init.
func New[K Kind](init map[K]float32) Block[K] {
	b := Block[K]{values: make(map[K]Value, len(init))}
	for k, v := range init {
		b.values[k] = Value{Base: v, Current: v}
	}
	return b
}

// Get returns the value of k.
func (b Block[K]) Get(k K) Value {
	return b.values[k]
}

// Current returns the current value of k.
func (b Block[K]) Current(k K) float32 {
	return b.values[k].Current
}

// Has reports whether the block tracks k.
func (b Block[K]) Has(k K) bool {
	_, ok := b.values[k]
	return ok
}

// Add applies an immediate additive change to the current value of k.
// The result is not clamped.
func (b *Block[K]) Add(k K, delta float32) {
	if b.values == nil {
		b.values = make(map[K]Value)
	}
	v := b.values[k]
	v.Current += delta
	b.values[k] = v
}

// Set overwrites the current value of k.
func (b *Block[K]) Set(k K, current float32) {
	if b.values == nil {
		b.values = make(map[K]Value)
	}
	v := b.values[k]
	v.Current = current
	b.values[k] = v
}

// Kinds returns the tracked kinds in ascending order.
func (b Block[K]) Kinds() []K {
	out := make([]K, 0, len(b.values))
	for k := range b.values {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of the block.
func (b Block[K]) Clone() Block[K] {
	out := Block[K]{values: make(map[K]Value, len(b.values))}
	for k, v := range b.values {
		out.values[k] = v
	}
	return out
}
