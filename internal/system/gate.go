package system

import (
	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/stats"
	"gameplay-abilities/internal/tags"
)

// CanActivate reports whether entity id may start the granted ability
// abilityID right now. It never mutates the world.
func CanActivate[K stats.Kind](w *ecs.World, reg *tags.Registry, id ecs.EntityID, abilityID tags.ID) bool {
	granted, ok := w.Get(id, component.CGrantedAbilities).(component.GrantedAbilities[K])
	if !ok {
		return false
	}
	def, ok := granted.Get(abilityID)
	if !ok {
		return false
	}
	return CanActivateInstance(w, reg, id, ability.FromDefinition(def))
}

// CanActivateInstance runs the gate for a specific ability snapshot: the
// ability must be granted, its tag requirements met and its costs
// affordable.
func CanActivateInstance[K stats.Kind](w *ecs.World, reg *tags.Registry, id ecs.EntityID, inst ability.Instance[K]) bool {
	active, ok := ActiveTagsOf(w, id)
	if !ok {
		return false
	}
	granted, ok := w.Get(id, component.CGrantedAbilities).(component.GrantedAbilities[K])
	if !ok || !granted.Has(inst.ID()) {
		return false
	}
	if !TagsOK(reg, inst.Tags, active) {
		return false
	}
	return CanPay(w, id, inst.Costs)
}

// TagsOK checks the tag clauses of the gate: every required tag active, no
// blocking tag active, no cancel tag active.
func TagsOK(reg *tags.Registry, ts ability.TagSet, active tags.Set) bool {
	return reg.AllPresent(ts.Required.Slice(), active) &&
		reg.NonePresent(ts.BlockedBy.Slice(), active) &&
		reg.NonePresent(ts.CanceledBy.Slice(), active)
}

// CanPay reports whether the entity can currently afford costs. Declaring a
// cost in a dimension the entity has no component for fails, as does an
// item cost for an item with no inventory entry.
func CanPay[K stats.Kind](w *ecs.World, id ecs.EntityID, costs ability.CostModel[K]) bool {
	if len(costs.Stats) > 0 {
		s, ok := w.Get(id, component.CStats).(component.Stats[K])
		if !ok {
			return false
		}
		for _, c := range costs.Stats {
			if s.Current(c.Stat) < c.Amount {
				return false
			}
		}
	}

	if len(costs.Items) > 0 {
		inv, ok := w.Get(id, component.CInventory).(component.Inventory)
		if !ok {
			return false
		}
		for _, c := range costs.Items {
			n, ok := inv.Count(c.Item)
			if !ok || n < uint16(c.Amount) {
				return false
			}
		}
	}
	return true
}
