package component

import "gameplay-abilities/internal/ecs"

const CPosition ecs.ComponentType = 1

// Position is a cell on the demo arena.
type Position struct {
	X, Y int
}

func (Position) Type() ecs.ComponentType { return CPosition }
