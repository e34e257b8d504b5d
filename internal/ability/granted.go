package ability

import (
	"fmt"

	"gameplay-abilities/internal/stats"
	"gameplay-abilities/internal/tags"
)

// MaxGranted bounds the number of abilities one entity may hold.
const MaxGranted = 16

// Granted is the ordered list of abilities an entity may invoke.
type Granted[K stats.Kind] struct {
	defs []Definition[K]
}

// GrantFrom resolves ids against the catalog. IDs the catalog does not know
// are skipped.
func GrantFrom[K stats.Kind](catalog *Catalog[K], ids ...tags.ID) Granted[K] {
	var g Granted[K]
	for _, id := range ids {
		if d, ok := catalog.Get(id); ok {
			g.Grant(d)
		}
	}
	return g
}

// Grant appends def, replacing an existing entry with the same ID.
// Panics when the list already holds MaxGranted abilities.
func (g *Granted[K]) Grant(def Definition[K]) {
	for i := range g.defs {
		if g.defs[i].ID() == def.ID() {
			g.defs[i] = def.Clone()
			return
		}
	}
	if len(g.defs) >= MaxGranted {
		panic(fmt.Sprintf("ability: granted list full (%d)", MaxGranted))
	}
	g.defs = append(g.defs, def.Clone())
}

// Revoke removes id and reports whether it was present.
func (g *Granted[K]) Revoke(id tags.ID) bool {
	for i := range g.defs {
		if g.defs[i].ID() == id {
			g.defs = append(g.defs[:i:i], g.defs[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a copy of the granted definition for id.
func (g Granted[K]) Get(id tags.ID) (Definition[K], bool) {
	for _, d := range g.defs {
		if d.ID() == id {
			return d.Clone(), true
		}
	}
	return Definition[K]{}, false
}

// Has reports whether id is granted.
func (g Granted[K]) Has(id tags.ID) bool {
	for _, d := range g.defs {
		if d.ID() == id {
			return true
		}
	}
	return false
}

// IDs returns the granted ability IDs in order.
func (g Granted[K]) IDs() []tags.ID {
	out := make([]tags.ID, 0, len(g.defs))
	for _, d := range g.defs {
		out = append(out, d.ID())
	}
	return out
}

// Len returns the number of granted abilities.
func (g Granted[K]) Len() int { return len(g.defs) }
