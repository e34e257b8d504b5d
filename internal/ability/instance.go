package ability

import (
	"github.com/oklog/ulid/v2"

	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/stats"
	"gameplay-abilities/internal/tags"
)

// Instance is one activation of an ability. Callers build an unstarted
// Instance with FromDefinition and hand it to the controller; the controller
// stamps Activation and Procedure when the ability starts.
type Instance[K stats.Kind] struct {
	Tags     TagSet
	Costs    CostModel[K]
	Template Template

	// Activation is assigned when the instance starts running.
	Activation ulid.ULID
	// Procedure is the live procedure entity, or ecs.NilEntity.
	Procedure ecs.EntityID
}

// FromDefinition snapshots d into an unstarted instance.
func FromDefinition[K stats.Kind](d Definition[K]) Instance[K] {
	c := d.Clone()
	return Instance[K]{Tags: c.Tags, Costs: c.Costs, Template: c.Template}
}

// ID returns the ability identifier.
func (i Instance[K]) ID() tags.ID { return i.Tags.Ability }

// Started reports whether the controller has assigned an activation.
func (i Instance[K]) Started() bool {
	return i.Activation != (ulid.ULID{})
}

// Clone returns a deep copy of i, keeping activation and procedure handle.
func (i Instance[K]) Clone() Instance[K] {
	out := i
	out.Costs = i.Costs.Clone()
	if i.Template != nil {
		out.Template = i.Template.Clone()
	}
	return out
}
