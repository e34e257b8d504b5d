package system

import (
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/tags"
)

// MoveResult describes the outcome of a TryMove call.
type MoveResult uint8

const (
	MoveOK         MoveResult = iota // position updated
	MoveBlocked                      // out of bounds or occupied
	MoveRestrained                   // a movement-blocking tag is active
)

// Bounds is the walkable rectangle [0,W) x [0,H).
type Bounds struct {
	W, H int
}

// TryMove attempts to move entity id by (dx, dy). Entities carrying blockTag
// (or one of its children, e.g. Stunned or Casting under Movement.Blocked)
// cannot move.
func TryMove(w *ecs.World, reg *tags.Registry, b Bounds, blockTag tags.ID, id ecs.EntityID, dx, dy int) MoveResult {
	pos, ok := w.Get(id, component.CPosition).(component.Position)
	if !ok {
		return MoveBlocked
	}
	if blockTag != tags.None && HasTag(w, reg, id, blockTag) {
		return MoveRestrained
	}

	nx, ny := pos.X+dx, pos.Y+dy
	if nx < 0 || ny < 0 || nx >= b.W || ny >= b.H {
		return MoveBlocked
	}
	for _, other := range w.Query(component.CPosition, component.CRenderable) {
		if other == id {
			continue
		}
		op := w.Get(other, component.CPosition).(component.Position)
		if op.X == nx && op.Y == ny {
			return MoveBlocked
		}
	}

	w.Add(id, component.Position{X: nx, Y: ny})
	return MoveOK
}
