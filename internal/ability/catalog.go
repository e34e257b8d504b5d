package ability

import (
	"fmt"

	"gameplay-abilities/internal/stats"
	"gameplay-abilities/internal/tags"
)

// Catalog maps ability IDs to definitions. It is built once and only read
// afterwards, so a single *Catalog is shared by every entity.
type Catalog[K stats.Kind] struct {
	defs  map[tags.ID]Definition[K]
	order []tags.ID
}

// NewCatalog builds a catalog from defs. Two definitions with the same ID
// are an error.
func NewCatalog[K stats.Kind](defs ...Definition[K]) (*Catalog[K], error) {
	c := &Catalog[K]{defs: make(map[tags.ID]Definition[K], len(defs))}
	for _, d := range defs {
		id := d.ID()
		if id == tags.None {
			return nil, fmt.Errorf("definition without ability tag")
		}
		if _, dup := c.defs[id]; dup {
			return nil, fmt.Errorf("duplicate ability %d", id)
		}
		c.defs[id] = d.Clone()
		c.order = append(c.order, id)
	}
	return c, nil
}

// Get returns a copy of the definition for id.
func (c *Catalog[K]) Get(id tags.ID) (Definition[K], bool) {
	if c == nil {
		return Definition[K]{}, false
	}
	d, ok := c.defs[id]
	if !ok {
		return Definition[K]{}, false
	}
	return d.Clone(), true
}

// IDs returns the ability IDs in registration order.
func (c *Catalog[K]) IDs() []tags.ID {
	if c == nil {
		return nil
	}
	return append([]tags.ID(nil), c.order...)
}

// Len returns the number of definitions.
func (c *Catalog[K]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}
