package component

import (
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/stats"
)

const CStats ecs.ComponentType = 9

// Stats wraps the entity's stat block.
type Stats[K stats.Kind] struct {
	stats.Block[K]
}

func (Stats[K]) Type() ecs.ComponentType { return CStats }
