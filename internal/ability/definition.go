// Package ability holds the data model of the activation engine: tag sets,
// cost models, immutable definitions, the shared catalog, the per-entity
// granted list and the per-activation runtime instance.
//
// Nothing in this package touches the world; the gate and lifecycle live in
// package system.
package ability

import (
	"fmt"

	"gameplay-abilities/internal/stats"
	"gameplay-abilities/internal/tags"
)

// Tag list capacities.
const (
	MaxRequired   = 4
	MaxBlockedBy  = 4
	MaxCanceledBy = 4
	MaxAdds       = 2
)

// TagSet is the gating configuration of one ability.
type TagSet struct {
	// Ability identifies the ability.
	Ability tags.ID
	// Required tags must all be active to activate.
	Required tags.List
	// BlockedBy tags must all be absent to activate.
	BlockedBy tags.List
	// CanceledBy tags must be absent to activate and end the ability early
	// when they appear while it runs.
	CanceledBy tags.List
	// Adds tags are applied to the owner for the ability's duration.
	Adds tags.List
}

// NewTagSet returns an empty tag set for the ability id.
func NewTagSet(id tags.ID) TagSet {
	return TagSet{
		Ability:    id,
		Required:   tags.NewList(MaxRequired),
		BlockedBy:  tags.NewList(MaxBlockedBy),
		CanceledBy: tags.NewList(MaxCanceledBy),
		Adds:       tags.NewList(MaxAdds),
	}
}

// Template is an opaque, cloneable description of the multi-step procedure
// an ability runs while active.
type Template interface {
	Clone() Template
}

// Definition is the immutable template of an ability. Builder methods take
// and return values, so a Definition held by a Catalog is never mutated.
type Definition[K stats.Kind] struct {
	Tags     TagSet
	Costs    CostModel[K]
	Template Template
}

// New starts a definition for the ability tag id.
func New[K stats.Kind](id tags.ID) Definition[K] {
	if id == tags.None {
		panic("ability: definition needs an ability tag")
	}
	return Definition[K]{Tags: NewTagSet(id)}
}

// ID returns the ability identifier.
func (d Definition[K]) ID() tags.ID { return d.Tags.Ability }

// Requires adds tags that must all be active. Panics past MaxRequired.
func (d Definition[K]) Requires(ids ...tags.ID) Definition[K] {
	d.Tags.Required.Push(ids...)
	return d
}

// BlockedBy adds tags that prevent activation. Panics past MaxBlockedBy.
func (d Definition[K]) BlockedBy(ids ...tags.ID) Definition[K] {
	d.Tags.BlockedBy.Push(ids...)
	return d
}

// CanceledBy adds tags that prevent activation and cancel a running
// instance. Panics past MaxCanceledBy.
func (d Definition[K]) CanceledBy(ids ...tags.ID) Definition[K] {
	d.Tags.CanceledBy.Push(ids...)
	return d
}

// AddsTags adds tags applied while the ability runs. Panics past MaxAdds.
func (d Definition[K]) AddsTags(ids ...tags.ID) Definition[K] {
	d.Tags.Adds.Push(ids...)
	return d
}

// WithStatCost appends a stat cost. Amount must be positive.
func (d Definition[K]) WithStatCost(stat K, amount float32) Definition[K] {
	if !(amount > 0) {
		panic(fmt.Sprintf("ability: stat cost for %s must be positive, got %v", stat, amount))
	}
	d.Costs = d.Costs.Clone()
	d.Costs.Stats = append(d.Costs.Stats, StatCost[K]{Stat: stat, Amount: amount})
	return d
}

// WithItemCost appends an item cost. Amount must be positive.
func (d Definition[K]) WithItemCost(item uint16, amount uint8) Definition[K] {
	if amount == 0 {
		panic(fmt.Sprintf("ability: item cost for item %d must be positive", item))
	}
	d.Costs = d.Costs.Clone()
	d.Costs.Items = append(d.Costs.Items, ItemCost{Item: item, Amount: amount})
	return d
}

// WithTemplate sets the execution template.
func (d Definition[K]) WithTemplate(t Template) Definition[K] {
	d.Template = t
	return d
}

// Clone returns a deep copy of d.
func (d Definition[K]) Clone() Definition[K] {
	out := Definition[K]{Tags: d.Tags, Costs: d.Costs.Clone()}
	if d.Template != nil {
		out.Template = d.Template.Clone()
	}
	return out
}
