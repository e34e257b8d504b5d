package system

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"
	"github.com/oklog/ulid/v2"

	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/stats"
	"gameplay-abilities/internal/tags"
)

// Lifecycle states.
const (
	StateIdle     = "idle"
	StateStarting = "starting"
	StateRunning  = "running"
	StateEnding   = "ending"
)

// Lifecycle events.
const (
	eventTryActivate = "try_activate"
	eventAbort       = "abort"
	eventExecute     = "execute"
	eventEnd         = "end"
	eventFinish      = "finish"
)

// maxFlushSteps bounds the requests handled by one Flush so a hook that keeps
// re-requesting cannot stall the tick. Leftovers run on the next Flush.
const maxFlushSteps = 256

// EndReason says why a running ability ended.
type EndReason uint8

const (
	EndRequested EndReason = iota
	EndCompleted
	EndCanceled
	EndSuperseded
	EndFailed
)

func (r EndReason) String() string {
	switch r {
	case EndCompleted:
		return "completed"
	case EndCanceled:
		return "canceled"
	case EndSuperseded:
		return "superseded"
	case EndFailed:
		return "failed"
	default:
		return "requested"
	}
}

// ProcedureHost creates and releases the execution procedure attached to a
// running ability.
type ProcedureHost interface {
	// Instantiate spawns a procedure for t as a child of owner and returns
	// its handle. ok is false if the template cannot be run.
	Instantiate(w *ecs.World, owner ecs.EntityID, t ability.Template) (ecs.EntityID, bool)
	// Despawn releases a procedure created by Instantiate.
	Despawn(w *ecs.World, handle ecs.EntityID)
}

// ActivatedEvent is delivered after an ability starts running.
type ActivatedEvent[K stats.Kind] struct {
	Entity  ecs.EntityID
	Ability ability.Instance[K]
}

// EndedEvent is delivered after an ability has been torn down.
type EndedEvent[K stats.Kind] struct {
	Entity  ecs.EntityID
	Ability ability.Instance[K]
	Reason  EndReason
}

// ControllerConfig carries the controller's collaborators.
type ControllerConfig struct {
	World      *ecs.World
	Tags       *tags.Registry
	Procedures ProcedureHost // optional; templates are ignored without one
	Logger     *slog.Logger
}

type requestKind uint8

const (
	requestActivate requestKind = iota
	requestEnd
	requestCancel
)

type request[K stats.Kind] struct {
	kind    requestKind
	entity  ecs.EntityID
	inst    ability.Instance[K]
	ability tags.ID
	reason  EndReason
}

// Controller owns the per-entity ability lifecycle. Requests are queued and
// applied by Flush, which runs them to quiescence; handlers registered with
// OnActivated and OnEnded run synchronously inside Flush and may queue more
// requests.
//
// The controller is not safe for concurrent use. It is meant to be driven
// from the single simulation goroutine.
type Controller[K stats.Kind] struct {
	world *ecs.World
	tags  *tags.Registry
	procs ProcedureHost
	log   *slog.Logger

	queue       []request[K]
	onActivated []func(ActivatedEvent[K])
	onEnded     []func(EndedEvent[K])
}

// NewController returns a controller bound to cfg.World.
func NewController[K stats.Kind](cfg ControllerConfig) *Controller[K] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller[K]{
		world: cfg.World,
		tags:  cfg.Tags,
		procs: cfg.Procedures,
		log:   logger,
	}
}

// OnActivated registers fn to run after every successful activation.
func (c *Controller[K]) OnActivated(fn func(ActivatedEvent[K])) {
	c.onActivated = append(c.onActivated, fn)
}

// OnEnded registers fn to run after every ability teardown.
func (c *Controller[K]) OnEnded(fn func(EndedEvent[K])) {
	c.onEnded = append(c.onEnded, fn)
}

// RequestActivate queues an activation of inst for the entity. Whether it
// happens is observable only through the entity's tags and ability slot.
func (c *Controller[K]) RequestActivate(id ecs.EntityID, inst ability.Instance[K]) {
	c.queue = append(c.queue, request[K]{kind: requestActivate, entity: id, inst: inst})
}

// TryActivate queues an activation of the granted ability abilityID.
// Abilities the entity was not granted are ignored.
func (c *Controller[K]) TryActivate(id ecs.EntityID, abilityID tags.ID) {
	granted, ok := c.world.Get(id, component.CGrantedAbilities).(component.GrantedAbilities[K])
	if !ok {
		return
	}
	def, ok := granted.Get(abilityID)
	if !ok {
		return
	}
	c.RequestActivate(id, ability.FromDefinition(def))
}

// RequestEnd queues the end of inst. Ending an ability that is not running
// is a no-op.
func (c *Controller[K]) RequestEnd(id ecs.EntityID, inst ability.Instance[K]) {
	c.queueEnd(id, inst, EndRequested)
}

// RequestComplete is RequestEnd for a procedure that finished its work.
func (c *Controller[K]) RequestComplete(id ecs.EntityID, inst ability.Instance[K]) {
	c.queueEnd(id, inst, EndCompleted)
}

// RequestFail ends inst because its procedure failed.
func (c *Controller[K]) RequestFail(id ecs.EntityID, inst ability.Instance[K]) {
	c.queueEnd(id, inst, EndFailed)
}

// RequestCancel queues the cancellation of the running ability abilityID.
func (c *Controller[K]) RequestCancel(id ecs.EntityID, abilityID tags.ID) {
	c.queue = append(c.queue, request[K]{kind: requestCancel, entity: id, ability: abilityID})
}

func (c *Controller[K]) queueEnd(id ecs.EntityID, inst ability.Instance[K], reason EndReason) {
	c.queue = append(c.queue, request[K]{kind: requestEnd, entity: id, inst: inst, reason: reason})
}

// Pending returns the number of queued requests.
func (c *Controller[K]) Pending() int { return len(c.queue) }

// Flush applies queued requests in order, including requests queued by
// event handlers while flushing.
func (c *Controller[K]) Flush() {
	for steps := 0; len(c.queue) > 0; steps++ {
		if steps >= maxFlushSteps {
			c.log.Warn("ability request flush truncated", "pending", len(c.queue))
			return
		}
		req := c.queue[0]
		c.queue = c.queue[1:]

		switch req.kind {
		case requestActivate:
			c.activate(req.entity, req.inst)
		case requestEnd:
			c.end(req.entity, req.inst, req.reason)
		case requestCancel:
			if cur, ok := c.Current(req.entity); ok && cur.ID() == req.ability {
				c.end(req.entity, cur, EndCanceled)
			}
		}
	}
	c.queue = nil
}

// Current returns a copy of the entity's running ability.
func (c *Controller[K]) Current(id ecs.EntityID) (ability.Instance[K], bool) {
	slot, ok := c.world.Get(id, component.CCurrentAbility).(component.CurrentAbility[K])
	if !ok || slot.Empty() {
		return ability.Instance[K]{}, false
	}
	return slot.Ability.Clone(), true
}

// State returns the entity's lifecycle state.
func (c *Controller[K]) State(id ecs.EntityID) string {
	lc, ok := c.world.Get(id, component.CLifecycle).(component.Lifecycle)
	if !ok || lc.FSM == nil {
		return StateIdle
	}
	return lc.FSM.Current()
}

func (c *Controller[K]) activate(id ecs.EntityID, inst ability.Instance[K]) {
	w := c.world
	if !w.Alive(id) || !w.Has(id, component.CActiveTags) || !w.Has(id, component.CGrantedAbilities) {
		return
	}

	// The gate is the guard of idle -> starting. A rejected request leaves
	// no trace beyond a debug line.
	if !CanActivateInstance(w, c.tags, id, inst) {
		c.log.Debug("ability activation rejected", "entity", id, "ability", c.tags.Name(inst.ID()))
		return
	}

	if cur, ok := c.Current(id); ok {
		c.log.Warn("running ability superseded",
			"entity", id,
			"running", c.tags.Name(cur.ID()),
			"activation", cur.Activation.String(),
			"next", c.tags.Name(inst.ID()),
		)
		c.end(id, cur, EndSuperseded)
	}

	lc := c.lifecycle(id)
	if err := lc.Event(context.Background(), eventTryActivate); err != nil {
		c.log.Error("ability lifecycle refused activation", "entity", id, "state", lc.Current(), "err", err)
		return
	}
	c.start(id, inst, lc)
}

func (c *Controller[K]) start(id ecs.EntityID, inst ability.Instance[K], lc *fsm.FSM) {
	w := c.world
	run := inst.Clone()
	run.Activation = ulid.Make()
	run.Procedure = ecs.NilEntity

	if run.Template != nil && c.procs != nil {
		handle, ok := c.procs.Instantiate(w, id, run.Template)
		if !ok {
			c.log.Warn("ability procedure could not be instantiated", "entity", id, "ability", c.tags.Name(run.ID()))
			_ = lc.Event(context.Background(), eventAbort)
			return
		}
		run.Procedure = handle
	}

	active := w.Get(id, component.CActiveTags).(component.ActiveTags)
	for _, t := range run.Tags.Adds.Slice() {
		active.Set.Add(t)
	}
	w.Add(id, active)

	slot := run
	w.Add(id, component.CurrentAbility[K]{Ability: &slot})

	if err := lc.Event(context.Background(), eventExecute); err != nil {
		c.log.Error("ability lifecycle refused execute", "entity", id, "err", err)
	}
	c.log.Debug("ability started",
		"entity", id,
		"ability", c.tags.Name(run.ID()),
		"activation", run.Activation.String(),
		"procedure", uint64(run.Procedure),
	)

	for _, fn := range c.onActivated {
		fn(ActivatedEvent[K]{Entity: id, Ability: run.Clone()})
	}
}

// end tears down the running ability if it matches target. A started target
// must match the activation exactly; an unstarted snapshot matches by ID.
func (c *Controller[K]) end(id ecs.EntityID, target ability.Instance[K], reason EndReason) {
	cur, ok := c.Current(id)
	if !ok || cur.ID() != target.ID() {
		return
	}
	if target.Started() && target.Activation != cur.Activation {
		return
	}

	w := c.world
	lc := c.lifecycle(id)
	if err := lc.Event(context.Background(), eventEnd); err != nil {
		c.log.Error("ability lifecycle refused end", "entity", id, "state", lc.Current(), "err", err)
	}

	if active, ok := w.Get(id, component.CActiveTags).(component.ActiveTags); ok {
		for _, t := range cur.Tags.Adds.Slice() {
			active.Set.Remove(t)
		}
		w.Add(id, active)
	}

	if cur.Procedure != ecs.NilEntity {
		if c.procs != nil {
			c.procs.Despawn(w, cur.Procedure)
		} else {
			w.DestroyEntity(cur.Procedure)
		}
	}

	w.Add(id, component.CurrentAbility[K]{})
	if err := lc.Event(context.Background(), eventFinish); err != nil {
		c.log.Error("ability lifecycle refused finish", "entity", id, "err", err)
	}
	c.log.Debug("ability ended",
		"entity", id,
		"ability", c.tags.Name(cur.ID()),
		"activation", cur.Activation.String(),
		"reason", reason.String(),
	)

	for _, fn := range c.onEnded {
		fn(EndedEvent[K]{Entity: id, Ability: cur, Reason: reason})
	}
}

func (c *Controller[K]) lifecycle(id ecs.EntityID) *fsm.FSM {
	if lc, ok := c.world.Get(id, component.CLifecycle).(component.Lifecycle); ok && lc.FSM != nil {
		return lc.FSM
	}
	f := newLifecycleFSM(c.log, id)
	c.world.Add(id, component.Lifecycle{FSM: f})
	return f
}

func newLifecycleFSM(log *slog.Logger, id ecs.EntityID) *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventTryActivate, Src: []string{StateIdle}, Dst: StateStarting},
			{Name: eventAbort, Src: []string{StateStarting}, Dst: StateIdle},
			{Name: eventExecute, Src: []string{StateStarting}, Dst: StateRunning},
			{Name: eventEnd, Src: []string{StateRunning}, Dst: StateEnding},
			{Name: eventFinish, Src: []string{StateEnding}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug("ability lifecycle transition", "entity", id, "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
}
