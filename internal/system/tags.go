package system

import (
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/tags"
)

// ActiveTagsOf returns the entity's active tag set.
func ActiveTagsOf(w *ecs.World, id ecs.EntityID) (tags.Set, bool) {
	c, ok := w.Get(id, component.CActiveTags).(component.ActiveTags)
	if !ok {
		return tags.Set{}, false
	}
	return c.Set, true
}

// AddTag applies tag to the entity. Returns false if the entity has no
// ActiveTags component.
func AddTag(w *ecs.World, id ecs.EntityID, tag tags.ID) bool {
	c, ok := w.Get(id, component.CActiveTags).(component.ActiveTags)
	if !ok {
		return false
	}
	c.Set.Add(tag)
	w.Add(id, c)
	return true
}

// RemoveTag clears tag from the entity.
func RemoveTag(w *ecs.World, id ecs.EntityID, tag tags.ID) bool {
	c, ok := w.Get(id, component.CActiveTags).(component.ActiveTags)
	if !ok {
		return false
	}
	c.Set.Remove(tag)
	w.Add(id, c)
	return true
}

// HasTag reports whether tag, or any of its descendants, is active on the
// entity.
func HasTag(w *ecs.World, reg *tags.Registry, id ecs.EntityID, tag tags.ID) bool {
	set, ok := ActiveTagsOf(w, id)
	if !ok {
		return false
	}
	return reg.AnyMatch(tag, set)
}
