package ability

import "gameplay-abilities/internal/stats"

// StatCost requires Amount of Stat to be available before activation.
type StatCost[K stats.Kind] struct {
	Stat   K
	Amount float32
}

// ItemCost requires Amount units of Item in the entity's inventory.
type ItemCost struct {
	Item   uint16
	Amount uint8
}

// CostModel lists what an ability needs to be affordable. An empty list
// makes the ability free in that dimension.
type CostModel[K stats.Kind] struct {
	Stats []StatCost[K]
	Items []ItemCost
}

// Free reports whether the model declares no cost at all.
func (c CostModel[K]) Free() bool {
	return len(c.Stats) == 0 && len(c.Items) == 0
}

// Clone returns a copy that shares no backing arrays with c.
func (c CostModel[K]) Clone() CostModel[K] {
	var out CostModel[K]
	if len(c.Stats) > 0 {
		out.Stats = append([]StatCost[K](nil), c.Stats...)
	}
	if len(c.Items) > 0 {
		out.Items = append([]ItemCost(nil), c.Items...)
	}
	return out
}
