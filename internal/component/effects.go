package component

import (
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/tags"
)

const CEffects ecs.ComponentType = 10

// TimedTag keeps Tag applied to its entity until TicksRemaining runs out.
type TimedTag struct {
	Tag            tags.ID
	TicksRemaining int
}

type Effects struct {
	Active []TimedTag
}

func (Effects) Type() ecs.ComponentType { return CEffects }
