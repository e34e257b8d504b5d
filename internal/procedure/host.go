package procedure

import (
	"log/slog"
	"slices"

	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/system"
	"gameplay-abilities/internal/tags"
)

var _ system.ProcedureHost = (*Host)(nil)

// Context is handed to trigger handlers and Lua bindings.
type Context struct {
	World     *ecs.World
	Tags      *tags.Registry
	Owner     ecs.EntityID
	Procedure ecs.EntityID
	Tick      uint64
	Log       *slog.Logger

	host *Host
}

// Signal delivers name to every live procedure of the owner.
func (c Context) Signal(name string) int {
	return c.host.Signal(c.World, c.Owner, name)
}

// Handler implements a trigger step. Returning false fails the procedure.
type Handler func(Context) bool

// Completion reports a procedure that stopped running during Advance.
type Completion struct {
	Owner     ecs.EntityID
	Procedure ecs.EntityID
	Status    component.ProcedureStatus
}

// Host instantiates and advances procedures. It satisfies
// system.ProcedureHost.
type Host struct {
	tags     *tags.Registry
	log      *slog.Logger
	handlers map[string]Handler
}

// NewHost returns a host resolving tag names against reg.
func NewHost(reg *tags.Registry, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{tags: reg, log: logger, handlers: make(map[string]Handler)}
}

// Handle registers fn as the trigger handler for name, replacing any
// previous one.
func (h *Host) Handle(name string, fn Handler) {
	h.handlers[name] = fn
}

// Handles reports whether a trigger handler is registered for name.
func (h *Host) Handles(name string) bool {
	_, ok := h.handlers[name]
	return ok
}

// Instantiate spawns a running procedure for t as a child of owner. It
// refuses templates that are not trees and trees that name unregistered
// triggers.
func (h *Host) Instantiate(w *ecs.World, owner ecs.EntityID, t ability.Template) (ecs.EntityID, bool) {
	tree, ok := asTree(t)
	if !ok {
		h.log.Warn("procedure template is not a tree", "owner", owner)
		return ecs.NilEntity, false
	}
	for _, s := range tree.Steps {
		if s.Kind == StepTrigger && !h.Handles(s.Name) {
			h.log.Warn("procedure names an unknown trigger", "procedure", tree.Name, "trigger", s.Name)
			return ecs.NilEntity, false
		}
	}

	id := w.CreateEntity()
	w.AddChild(owner, id)
	w.Add(id, component.Procedure{
		Owner:    owner,
		Template: tree.Clone(),
		Status:   component.ProcedureRunning,
	})
	return id, true
}

// Despawn releases the procedure entity handle.
func (h *Host) Despawn(w *ecs.World, handle ecs.EntityID) {
	if w.Has(handle, component.CProcedure) {
		w.DestroyEntity(handle)
	}
}

// Signal buffers name on every running procedure owned by owner and returns
// how many received it.
func (h *Host) Signal(w *ecs.World, owner ecs.EntityID, name string) int {
	n := 0
	for _, child := range w.Children(owner) {
		p, ok := w.Get(child, component.CProcedure).(component.Procedure)
		if !ok || p.Status != component.ProcedureRunning {
			continue
		}
		p.Signals = append(p.Signals, name)
		w.Add(child, p)
		n++
	}
	return n
}

// Get returns the state of the procedure handle.
func (h *Host) Get(w *ecs.World, handle ecs.EntityID) (component.Procedure, bool) {
	p, ok := w.Get(handle, component.CProcedure).(component.Procedure)
	return p, ok
}

// Advance steps every running procedure once, in entity order, and returns
// those that succeeded or failed on this tick.
func (h *Host) Advance(w *ecs.World, tick uint64) []Completion {
	var done []Completion
	for _, id := range w.Query(component.CProcedure) {
		p, ok := w.Get(id, component.CProcedure).(component.Procedure)
		if !ok || p.Status != component.ProcedureRunning {
			continue
		}
		tree, _ := asTree(p.Template)
		p, alive := h.run(w, id, p, tree, tick)
		if !alive {
			continue
		}
		w.Add(id, p)
		if p.Status != component.ProcedureRunning {
			done = append(done, Completion{Owner: p.Owner, Procedure: id, Status: p.Status})
		}
	}
	return done
}

// run executes steps until one blocks or the tree ends. Instant steps chain
// within the same tick.
func (h *Host) run(w *ecs.World, id ecs.EntityID, p component.Procedure, tree Tree, tick uint64) (component.Procedure, bool) {
	for p.Step < len(tree.Steps) {
		s := tree.Steps[p.Step]
		switch s.Kind {
		case StepWait:
			if p.Elapsed < s.Ticks {
				p.Elapsed++
				return p, true
			}
		case StepAwait:
			i := slices.Index(p.Signals, s.Name)
			if i < 0 {
				return p, true
			}
			p.Signals = slices.Delete(p.Signals, i, i+1)
		case StepTrigger, StepScript:
			// Handlers see and may change the stored state.
			w.Add(id, p)
			ok := h.exec(w, id, p, tree, s, tick)
			if !w.Has(id, component.CProcedure) {
				return p, false
			}
			p = w.Get(id, component.CProcedure).(component.Procedure)
			if !ok {
				p.Status = component.ProcedureFailed
				return p, true
			}
		}
		p.Step++
		p.Elapsed = 0
	}
	p.Status = component.ProcedureSucceeded
	return p, true
}

func (h *Host) exec(w *ecs.World, id ecs.EntityID, p component.Procedure, tree Tree, s Step, tick uint64) bool {
	ctx := Context{
		World:     w,
		Tags:      h.tags,
		Owner:     p.Owner,
		Procedure: id,
		Tick:      tick,
		Log:       h.log.With("procedure", tree.Name, "owner", p.Owner),
		host:      h,
	}
	if s.Kind == StepTrigger {
		fn := h.handlers[s.Name]
		if fn == nil {
			ctx.Log.Warn("trigger handler missing", "trigger", s.Name)
			return false
		}
		return fn(ctx)
	}

	ok, err := h.runScript(ctx, s.Script)
	if err != nil {
		ctx.Log.Warn("procedure script failed", "step", p.Step, "err", err)
		return false
	}
	return ok
}
