package component

import (
	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/stats"
)

const (
	CGrantedAbilities ecs.ComponentType = 6
	CCurrentAbility   ecs.ComponentType = 7
)

// GrantedAbilities lists the abilities the entity may invoke.
type GrantedAbilities[K stats.Kind] struct {
	ability.Granted[K]
}

func (GrantedAbilities[K]) Type() ecs.ComponentType { return CGrantedAbilities }

// CurrentAbility is the entity's single running-ability slot. Ability is
// nil while the entity is idle.
type CurrentAbility[K stats.Kind] struct {
	Ability *ability.Instance[K]
}

func (CurrentAbility[K]) Type() ecs.ComponentType { return CCurrentAbility }

// Empty reports whether no ability is running.
func (c CurrentAbility[K]) Empty() bool { return c.Ability == nil }
