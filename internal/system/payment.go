package system

import (
	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/stats"
)

// Payment is never performed by the gate. Ability procedures call these at
// whatever point they want to pay, so the window between the feasibility
// check and the deduction is not atomic: another activation can spend the
// same resource in between.

// PayStatCost deducts cost from the entity's stats. The deduction is
// applied even if it drives the stat negative. Returns false when the
// entity has no stats.
func PayStatCost[K stats.Kind](w *ecs.World, id ecs.EntityID, cost ability.StatCost[K]) bool {
	s, ok := w.Get(id, component.CStats).(component.Stats[K])
	if !ok {
		return false
	}
	s.Add(cost.Stat, -cost.Amount)
	w.Add(id, s)
	return true
}

// PayItemCost removes cost.Amount units of cost.Item, stopping at zero.
// Returns false when the inventory did not hold the full amount.
func PayItemCost(w *ecs.World, id ecs.EntityID, cost ability.ItemCost) bool {
	inv, ok := w.Get(id, component.CInventory).(component.Inventory)
	if !ok {
		return false
	}
	n := inv.Items[cost.Item]
	want := uint16(cost.Amount)
	paid := want <= n
	if paid {
		n -= want
	} else {
		n = 0
	}
	if inv.Items == nil {
		inv.Items = make(map[uint16]uint16)
	}
	inv.Items[cost.Item] = n
	w.Add(id, inv)
	return paid
}

// PayCosts pays every stat and item cost in order and reports whether all
// of them were covered.
func PayCosts[K stats.Kind](w *ecs.World, id ecs.EntityID, costs ability.CostModel[K]) bool {
	ok := true
	for _, c := range costs.Stats {
		ok = PayStatCost(w, id, c) && ok
	}
	for _, c := range costs.Items {
		ok = PayItemCost(w, id, c) && ok
	}
	return ok
}
