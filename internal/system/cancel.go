package system

import (
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/stats"
)

// CheckCanceled queues an end for every running ability whose cancel tags
// match the owner's active tags. It runs once per tick after the other
// systems, so it sees this tick's tag state.
func CheckCanceled[K stats.Kind](c *Controller[K]) {
	w := c.world
	for _, id := range w.Query(component.CCurrentAbility, component.CActiveTags) {
		slot, ok := w.Get(id, component.CCurrentAbility).(component.CurrentAbility[K])
		if !ok || slot.Empty() {
			continue
		}
		active := w.Get(id, component.CActiveTags).(component.ActiveTags)
		if c.tags.AnyPresent(slot.Ability.Tags.CanceledBy.Slice(), active.Set) {
			c.queueEnd(id, slot.Ability.Clone(), EndCanceled)
		}
	}
}
