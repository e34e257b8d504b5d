package factory

import (
	"gameplay-abilities/assets"
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/engine"
	"gameplay-abilities/internal/tags"

	"github.com/gdamore/tcell/v2"
)

// PlayerOptions sets the player's starting resources.
type PlayerOptions struct {
	Mana     float32
	Grenades uint16
}

// NewPlayer creates the player entity at (x, y), granted every ability in
// the engine's catalog.
func NewPlayer(e *engine.Engine[assets.Stat], x, y int, opts PlayerOptions) ecs.EntityID {
	id := e.Spawn(engine.SpawnOptions[assets.Stat]{
		Abilities: e.Catalog.IDs(),
		Stats: map[assets.Stat]float32{
			assets.StatMana:   opts.Mana,
			assets.StatHealth: 100,
		},
		Items: map[uint16]uint16{assets.ItemGrenade: opts.Grenades},
	})
	w := e.World
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Renderable{
		Glyph:       assets.GlyphPlayer,
		FGColor:     tcell.ColorYellow,
		RenderOrder: 10,
	})
	w.Add(id, component.Effects{})
	w.Add(id, component.TagPlayer{})
	return id
}

// NewEnemy creates a training dummy at (x, y). Enemies carry tags and
// health but no abilities.
func NewEnemy(e *engine.Engine[assets.Stat], x, y int) ecs.EntityID {
	id := e.Spawn(engine.SpawnOptions[assets.Stat]{
		Stats: map[assets.Stat]float32{assets.StatHealth: assets.EnemyMaxHealth},
	})
	w := e.World
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Renderable{
		Glyph:       assets.GlyphEnemy,
		FGColor:     tcell.ColorRed,
		RenderOrder: 5,
	})
	w.Add(id, component.Effects{})
	w.Add(id, component.TagEnemy{})
	return id
}

// RegisterTags registers the tags Go code refers to that the catalog may
// not mention.
func RegisterTags(reg *tags.Registry) {
	for _, name := range []string{
		assets.TagMovementBlocked,
		assets.TagCasting,
		assets.TagStunned,
		assets.TagDying,
		assets.TagSilenced,
		assets.TagStunCooldown,
		assets.TagGrenadeThrowing,
	} {
		reg.Register(name)
	}
}
