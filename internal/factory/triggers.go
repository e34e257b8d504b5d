package factory

import (
	"gameplay-abilities/assets"
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/engine"
	"gameplay-abilities/internal/procedure"
	"gameplay-abilities/internal/system"
)

// RegisterTriggers installs the demo's procedure handlers on the engine.
func RegisterTriggers(e *engine.Engine[assets.Stat]) {
	stunned := e.Tags.MustLookup(assets.TagStunned)
	dying := e.Tags.MustLookup(assets.TagDying)

	e.Procedures.Handle(assets.TriggerStun, func(ctx procedure.Context) bool {
		hit := 0
		for _, id := range enemiesNear(ctx.World, ctx.Owner, assets.StunRange) {
			if system.ApplyTagEffect(ctx.World, id, stunned, assets.StunTicks) {
				hit++
			}
		}
		ctx.Log.Info("stun landed", "enemies", hit)
		return true
	})

	e.Procedures.Handle(assets.TriggerExplode, func(ctx procedure.Context) bool {
		hit := 0
		for _, id := range enemiesNear(ctx.World, ctx.Owner, assets.GrenadeRadius) {
			s, ok := ctx.World.Get(id, component.CStats).(component.Stats[assets.Stat])
			if !ok {
				continue
			}
			s.Add(assets.StatHealth, -assets.GrenadeDamage)
			ctx.World.Add(id, s)
			if s.Current(assets.StatHealth) <= 0 {
				system.AddTag(ctx.World, id, dying)
			}
			hit++
		}
		ctx.Log.Info("grenade exploded", "enemies", hit)
		return true
	})
}

// enemiesNear returns the enemies within Chebyshev distance r of owner.
func enemiesNear(w *ecs.World, owner ecs.EntityID, r int) []ecs.EntityID {
	origin, ok := w.Get(owner, component.CPosition).(component.Position)
	if !ok {
		return nil
	}
	var out []ecs.EntityID
	for _, id := range w.Query(component.CTagEnemy, component.CPosition) {
		p := w.Get(id, component.CPosition).(component.Position)
		if abs(p.X-origin.X) <= r && abs(p.Y-origin.Y) <= r {
			out = append(out, id)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
