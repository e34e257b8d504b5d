package system

import (
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/tags"
)

// TickEffects decrements every timed tag by one tick and clears the tags that
// expire.
func TickEffects(w *ecs.World) {
	for _, id := range w.Query(component.CEffects) {
		eff := w.Get(id, component.CEffects).(component.Effects)
		active := eff.Active[:0]
		var expired []tags.ID
		for _, e := range eff.Active {
			e.TicksRemaining--
			if e.TicksRemaining > 0 {
				active = append(active, e)
			} else {
				expired = append(expired, e.Tag)
			}
		}
		eff.Active = active
		w.Add(id, eff)
		for _, t := range expired {
			RemoveTag(w, id, t)
		}
	}
}

// ApplyTagEffect applies tag to the entity for ticks ticks. Re-applying a tag
// that is already timed keeps the longer of the two durations.
func ApplyTagEffect(w *ecs.World, id ecs.EntityID, tag tags.ID, ticks int) bool {
	if ticks <= 0 || !AddTag(w, id, tag) {
		return false
	}
	effs := component.Effects{}
	if c, ok := w.Get(id, component.CEffects).(component.Effects); ok {
		effs = c
	}
	for i, e := range effs.Active {
		if e.Tag == tag {
			if ticks > e.TicksRemaining {
				effs.Active[i].TicksRemaining = ticks
			}
			w.Add(id, effs)
			return true
		}
	}
	effs.Active = append(effs.Active, component.TimedTag{Tag: tag, TicksRemaining: ticks})
	w.Add(id, effs)
	return true
}

// HasEffect reports whether tag is currently applied to the entity by a
// timed effect.
func HasEffect(w *ecs.World, id ecs.EntityID, tag tags.ID) bool {
	c, ok := w.Get(id, component.CEffects).(component.Effects)
	if !ok {
		return false
	}
	for _, e := range c.Active {
		if e.Tag == tag {
			return true
		}
	}
	return false
}

// RemainingTicks returns the ticks left on the timed tag, or 0.
func RemainingTicks(w *ecs.World, id ecs.EntityID, tag tags.ID) int {
	c, ok := w.Get(id, component.CEffects).(component.Effects)
	if !ok {
		return 0
	}
	for _, e := range c.Active {
		if e.Tag == tag {
			return e.TicksRemaining
		}
	}
	return 0
}
