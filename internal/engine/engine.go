// Package engine wires the ability controller, the procedure host and the
// per-tick systems into a single fixed-order tick.
package engine

import (
	"context"
	"log/slog"
	"time"

	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/procedure"
	"gameplay-abilities/internal/stats"
	"gameplay-abilities/internal/system"
	"gameplay-abilities/internal/tags"
)

// TriggerPayCosts is the built-in trigger that pays the running ability's
// costs. It fails the procedure, without paying, when the owner can no
// longer afford them.
const TriggerPayCosts = "pay_costs"

const defaultTickRate = 10

// Options configures New.
type Options[K stats.Kind] struct {
	Tags    *tags.Registry
	Catalog *ability.Catalog[K]
	Logger  *slog.Logger
}

// Engine owns the world and everything that acts on abilities in it. It is
// driven from one goroutine.
type Engine[K stats.Kind] struct {
	World      *ecs.World
	Tags       *tags.Registry
	Catalog    *ability.Catalog[K]
	Controller *system.Controller[K]
	Procedures *procedure.Host

	log  *slog.Logger
	tick uint64
}

// New builds an engine around a fresh world.
func New[K stats.Kind](opts Options[K]) *Engine[K] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := opts.Tags
	if reg == nil {
		reg = tags.NewRegistry()
	}

	w := ecs.NewWorld()
	host := procedure.NewHost(reg, logger)
	e := &Engine[K]{
		World:      w,
		Tags:       reg,
		Catalog:    opts.Catalog,
		Procedures: host,
		log:        logger,
	}
	e.Controller = system.NewController[K](system.ControllerConfig{
		World:      w,
		Tags:       reg,
		Procedures: host,
		Logger:     logger,
	})
	host.Handle(TriggerPayCosts, e.payCosts)
	return e
}

func (e *Engine[K]) payCosts(ctx procedure.Context) bool {
	cur, ok := e.Controller.Current(ctx.Owner)
	if !ok || cur.Procedure != ctx.Procedure {
		return false
	}
	// The gate checked affordability at activation; anything may have been
	// spent since.
	if !system.CanPay(ctx.World, ctx.Owner, cur.Costs) {
		ctx.Log.Warn("ability costs not covered at payment", "ability", e.Tags.Name(cur.ID()))
		return false
	}
	return system.PayCosts(ctx.World, ctx.Owner, cur.Costs)
}

// Tick runs one simulation step:
//
//  1. apply queued activations and ends;
//  2. expire timed tags and advance procedures, turning finished ones into
//     end requests;
//  3. apply those requests;
//  4. look for running abilities whose cancel tags have appeared;
//  5. apply the cancellations.
func (e *Engine[K]) Tick() {
	e.tick++
	e.Controller.Flush()

	system.TickEffects(e.World)
	for _, done := range e.Procedures.Advance(e.World, e.tick) {
		cur, ok := e.Controller.Current(done.Owner)
		if !ok || cur.Procedure != done.Procedure {
			e.Procedures.Despawn(e.World, done.Procedure)
			continue
		}
		if done.Status == component.ProcedureSucceeded {
			e.Controller.RequestComplete(done.Owner, cur)
		} else {
			e.Controller.RequestFail(done.Owner, cur)
		}
	}
	e.Controller.Flush()

	system.CheckCanceled(e.Controller)
	e.Controller.Flush()
}

// TickCount returns the number of ticks run so far.
func (e *Engine[K]) TickCount() uint64 { return e.tick }

// TickResult describes one tick of Run.
type TickResult struct {
	Tick     uint64
	Duration time.Duration
	Budget   time.Duration
}

// LoopHooks are called by Run on the loop goroutine.
type LoopHooks struct {
	BeforeTick func()
	AfterTick  func(TickResult)
}

// Run ticks the engine rate times per second until ctx is done.
func (e *Engine[K]) Run(ctx context.Context, rate int, hooks LoopHooks) {
	if rate <= 0 {
		rate = defaultTickRate
	}
	budget := time.Second / time.Duration(rate)
	ticker := time.NewTicker(budget)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if hooks.BeforeTick != nil {
				hooks.BeforeTick()
			}
			start := time.Now()
			e.Tick()
			res := TickResult{Tick: e.tick, Duration: time.Since(start), Budget: budget}
			if res.Duration > budget {
				e.log.Warn("tick over budget", "tick", res.Tick, "duration", res.Duration, "budget", budget)
			}
			if hooks.AfterTick != nil {
				hooks.AfterTick(res)
			}
		}
	}
}

// SpawnOptions describes an ability-capable entity.
type SpawnOptions[K stats.Kind] struct {
	Abilities []tags.ID // resolved against the catalog, unknown ids skipped
	Tags      []tags.ID
	Stats     map[K]float32
	Items     map[uint16]uint16
}

// Spawn creates an entity that can hold and run abilities. Stats and
// inventory are only attached when given.
func (e *Engine[K]) Spawn(opts SpawnOptions[K]) ecs.EntityID {
	id := e.World.CreateEntity()
	var active component.ActiveTags
	for _, t := range opts.Tags {
		active.Set.Add(t)
	}
	e.World.Add(id, active)
	e.World.Add(id, component.GrantedAbilities[K]{Granted: ability.GrantFrom(e.Catalog, opts.Abilities...)})
	e.World.Add(id, component.CurrentAbility[K]{})
	if opts.Stats != nil {
		e.World.Add(id, component.Stats[K]{Block: stats.New(opts.Stats)})
	}
	if opts.Items != nil {
		e.World.Add(id, component.NewInventory(opts.Items))
	}
	return id
}

// TryActivate queues an activation of the granted ability abilityID. The
// request is applied at the start of the next tick.
func (e *Engine[K]) TryActivate(id ecs.EntityID, abilityID tags.ID) {
	e.Controller.TryActivate(id, abilityID)
}

// CanActivate runs the gate without side effects.
func (e *Engine[K]) CanActivate(id ecs.EntityID, abilityID tags.ID) bool {
	return system.CanActivate[K](e.World, e.Tags, id, abilityID)
}

// Signal delivers name to the entity's running procedures.
func (e *Engine[K]) Signal(id ecs.EntityID, name string) int {
	return e.Procedures.Signal(e.World, id, name)
}

// Current returns the entity's running ability.
func (e *Engine[K]) Current(id ecs.EntityID) (ability.Instance[K], bool) {
	return e.Controller.Current(id)
}

// State returns the entity's lifecycle state.
func (e *Engine[K]) State(id ecs.EntityID) string {
	return e.Controller.State(id)
}

// HasTag reports whether tag or a descendant is active on the entity.
func (e *Engine[K]) HasTag(id ecs.EntityID, tag tags.ID) bool {
	return system.HasTag(e.World, e.Tags, id, tag)
}

// StatValue returns the current value of stat on the entity.
func (e *Engine[K]) StatValue(id ecs.EntityID, stat K) float32 {
	s, ok := e.World.Get(id, component.CStats).(component.Stats[K])
	if !ok {
		return 0
	}
	return s.Current(stat)
}

// ItemCount returns how many of item the entity carries.
func (e *Engine[K]) ItemCount(id ecs.EntityID, item uint16) uint16 {
	inv, ok := e.World.Get(id, component.CInventory).(component.Inventory)
	if !ok {
		return 0
	}
	n, _ := inv.Count(item)
	return n
}
