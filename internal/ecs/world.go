package ecs

import "sort"

// World is the central entity registry and component store. It also tracks a
// single-parent hierarchy so owned child entities (ability procedures) are
// released together with their owner.
type World struct {
	nextID     EntityID
	alive      map[EntityID]bool
	components map[ComponentType]map[EntityID]Component
	parent     map[EntityID]EntityID
	children   map[EntityID][]EntityID
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{
		nextID:     1,
		alive:      make(map[EntityID]bool),
		components: make(map[ComponentType]map[EntityID]Component),
		parent:     make(map[EntityID]EntityID),
		children:   make(map[EntityID][]EntityID),
	}
}

// CreateEntity mints a new entity ID and marks it alive.
func (w *World) CreateEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.alive[id] = true
	return id
}

// DestroyEntity marks the entity dead, removes all its components and
// recursively destroys its children.
func (w *World) DestroyEntity(id EntityID) {
	if !w.alive[id] {
		return
	}
	w.alive[id] = false
	for _, store := range w.components {
		delete(store, id)
	}

	kids := w.children[id]
	delete(w.children, id)
	for _, child := range kids {
		delete(w.parent, child)
		w.DestroyEntity(child)
	}

	if p, ok := w.parent[id]; ok {
		w.detach(p, id)
		delete(w.parent, id)
	}
}

// Alive reports whether the entity is alive.
func (w *World) Alive(id EntityID) bool {
	return w.alive[id]
}

// AddChild attaches child to parent. A child already attached elsewhere is
// moved. Dead entities are ignored.
func (w *World) AddChild(parent, child EntityID) {
	if !w.alive[parent] || !w.alive[child] || parent == child {
		return
	}
	if old, ok := w.parent[child]; ok {
		w.detach(old, child)
	}
	w.parent[child] = parent
	w.children[parent] = append(w.children[parent], child)
}

// Parent returns the parent of id, or NilEntity.
func (w *World) Parent(id EntityID) EntityID {
	return w.parent[id]
}

// Children returns a copy of the children attached to id, in attach order.
func (w *World) Children(id EntityID) []EntityID {
	kids := w.children[id]
	if len(kids) == 0 {
		return nil
	}
	out := make([]EntityID, len(kids))
	copy(out, kids)
	return out
}

func (w *World) detach(parent, child EntityID) {
	kids := w.children[parent]
	for i, k := range kids {
		if k == child {
			w.children[parent] = append(kids[:i], kids[i+1:]...)
			break
		}
	}
	if len(w.children[parent]) == 0 {
		delete(w.children, parent)
	}
}

// Add attaches a component to an entity, replacing any component of the
// same type.
func (w *World) Add(id EntityID, c Component) {
	t := c.Type()
	if w.components[t] == nil {
		w.components[t] = make(map[EntityID]Component)
	}
	w.components[t][id] = c
}

// Get returns the component of the given type for entity id, or nil.
func (w *World) Get(id EntityID, t ComponentType) Component {
	store := w.components[t]
	if store == nil {
		return nil
	}
	return store[id]
}

// Remove detaches a component from an entity.
func (w *World) Remove(id EntityID, t ComponentType) {
	if store := w.components[t]; store != nil {
		delete(store, id)
	}
}

// Has reports whether entity id has a component of the given type.
func (w *World) Has(id EntityID, t ComponentType) bool {
	return w.Get(id, t) != nil
}

// Query returns all alive entities that have every listed component type,
// in ascending ID order so tick systems are deterministic.
func (w *World) Query(types ...ComponentType) []EntityID {
	if len(types) == 0 {
		return nil
	}
	// Use the smallest store as the candidate set.
	smallest := types[0]
	for _, t := range types[1:] {
		if len(w.components[t]) < len(w.components[smallest]) {
			smallest = t
		}
	}
	store := w.components[smallest]
	if store == nil {
		return nil
	}
	var result []EntityID
	for id := range store {
		if !w.alive[id] {
			continue
		}
		match := true
		for _, t := range types {
			if t == smallest {
				continue
			}
			if !w.Has(id, t) {
				match = false
				break
			}
		}
		if match {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
