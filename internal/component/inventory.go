package component

import "gameplay-abilities/internal/ecs"

const CInventory ecs.ComponentType = 8

// Inventory counts the discrete items an entity carries, keyed by item id.
// The ability gate only reads it; gameplay code spends from it.
type Inventory struct {
	Items map[uint16]uint16
}

func (Inventory) Type() ecs.ComponentType { return CInventory }

// NewInventory returns an inventory seeded with counts.
func NewInventory(counts map[uint16]uint16) Inventory {
	inv := Inventory{Items: make(map[uint16]uint16, len(counts))}
	for id, n := range counts {
		inv.Items[id] = n
	}
	return inv
}

// Count returns how many of item the inventory holds and whether the item
// has an entry at all.
func (inv Inventory) Count(item uint16) (uint16, bool) {
	n, ok := inv.Items[item]
	return n, ok
}
