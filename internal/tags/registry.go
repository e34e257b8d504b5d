// Package tags implements the hierarchical gameplay tag registry and the
// fixed-capacity bitset that stores the tags active on an entity.
//
// Tag names are dotted paths ("Character.Movement.Blocked.Stunned"). A query
// for a tag matches when that tag or any of its descendants is active, so a
// system that checks "Character.Movement.Blocked" also sees an entity that is
// only "Character.Movement.Blocked.Stunned".
package tags

import (
	"fmt"
	"strings"
)

// MaxTags is the capacity of a Registry and of every Set.
const MaxTags = 128

// ID identifies a registered tag. The zero ID is never assigned.
type ID uint8

// None is the zero ID; no registered tag has it.
const None ID = 0

// Registry maps tag names to IDs and records the hierarchy between them.
// It is built once at setup and only read afterwards.
type Registry struct {
	names   []string // index = ID
	byName  map[string]ID
	subtree []Set // index = ID; the tag itself plus all descendants
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names:   []string{""},
		byName:  make(map[string]ID),
		subtree: []Set{{}},
	}
}

// Register returns the ID for name, registering it and any missing parents.
// Registering more than MaxTags-1 tags is a programming error and panics.
func (r *Registry) Register(name string) ID {
	name = strings.TrimSpace(name)
	if name == "" {
		panic("tags: empty tag name")
	}
	if id, ok := r.byName[name]; ok {
		return id
	}

	var ancestors []ID
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		parent := r.Register(name[:i])
		ancestors = append(ancestors, parent)
		ancestors = append(ancestors, r.ancestors(parent)...)
	}

	if len(r.names) >= MaxTags {
		panic(fmt.Sprintf("tags: registry full, cannot register %q", name))
	}
	id := ID(len(r.names))
	r.names = append(r.names, name)
	r.byName[name] = id

	var own Set
	own.Add(id)
	r.subtree = append(r.subtree, own)
	for _, a := range ancestors {
		r.subtree[a].Add(id)
	}
	return id
}

// TryRegister is Register for names coming from data files: it reports
// an empty name or a full registry as an error instead of panicking.
func (r *Registry) TryRegister(name string) (ID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return None, fmt.Errorf("tags: empty tag name")
	}
	missing := 0
	for p := name; p != ""; {
		if _, ok := r.byName[p]; !ok {
			missing++
		}
		i := strings.LastIndexByte(p, '.')
		if i <= 0 {
			break
		}
		p = p[:i]
	}
	if len(r.names)+missing > MaxTags {
		return None, fmt.Errorf("tags: registry full, cannot register %q", name)
	}
	return r.Register(name), nil
}

func (r *Registry) ancestors(id ID) []ID {
	var out []ID
	name := r.names[id]
	for {
		i := strings.LastIndexByte(name, '.')
		if i <= 0 {
			return out
		}
		name = name[:i]
		out = append(out, r.byName[name])
	}
}

// Lookup returns the ID registered for name.
func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.byName[strings.TrimSpace(name)]
	return id, ok
}

// MustLookup is Lookup for names that are known to be registered.
func (r *Registry) MustLookup(name string) ID {
	id, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("tags: %q is not registered", name))
	}
	return id
}

// Name returns the dotted name of id, or "" for unknown IDs.
func (r *Registry) Name(id ID) string {
	if int(id) >= len(r.names) {
		return ""
	}
	return r.names[id]
}

// Len reports how many tags are registered.
func (r *Registry) Len() int { return len(r.names) - 1 }

// Names returns the names of the given IDs.
func (r *Registry) Names(ids []ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.Name(id))
	}
	return out
}

// AnyMatch reports whether tag or one of its descendants is in set.
func (r *Registry) AnyMatch(tag ID, set Set) bool {
	if tag == None || int(tag) >= len(r.subtree) {
		return false
	}
	return r.subtree[tag].Intersects(set)
}

// AllPresent reports whether every tag matches set. An empty list passes.
func (r *Registry) AllPresent(list []ID, set Set) bool {
	for _, t := range list {
		if !r.AnyMatch(t, set) {
			return false
		}
	}
	return true
}

// NonePresent reports whether no tag matches set. An empty list passes.
func (r *Registry) NonePresent(list []ID, set Set) bool {
	return !r.AnyPresent(list, set)
}

// AnyPresent reports whether at least one tag matches set.
func (r *Registry) AnyPresent(list []ID, set Set) bool {
	for _, t := range list {
		if r.AnyMatch(t, set) {
			return true
		}
	}
	return false
}
