package component

import (
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/tags"
)

const (
	CTagPlayer  ecs.ComponentType = 3
	CTagEnemy   ecs.ComponentType = 4
	CActiveTags ecs.ComponentType = 5
)

// TagPlayer marks the player-controlled entity.
type TagPlayer struct{}

func (TagPlayer) Type() ecs.ComponentType { return CTagPlayer }

// TagEnemy marks the entities the demo abilities act on.
type TagEnemy struct{}

func (TagEnemy) Type() ecs.ComponentType { return CTagEnemy }

// ActiveTags is the set of gameplay tags currently applied to an entity.
// An entity without it is not a valid ability target.
type ActiveTags struct {
	Set tags.Set
}

func (ActiveTags) Type() ecs.ComponentType { return CActiveTags }
