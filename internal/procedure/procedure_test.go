package procedure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/system"
	"gameplay-abilities/internal/tags"
)

func newHostWorld(t *testing.T) (*ecs.World, *tags.Registry, *Host, ecs.EntityID) {
	t.Helper()
	w := ecs.NewWorld()
	reg := tags.NewRegistry()
	reg.Register("Ability.Stun.Cooldown")
	reg.Register("Character.Movement.Blocked.Casting")
	owner := w.CreateEntity()
	w.Add(owner, component.ActiveTags{})
	return w, reg, NewHost(reg, nil), owner
}

func advanceUntilDone(t *testing.T, w *ecs.World, h *Host, max int) (int, []Completion) {
	t.Helper()
	for tick := 1; tick <= max; tick++ {
		if done := h.Advance(w, uint64(tick)); len(done) > 0 {
			return tick, done
		}
	}
	t.Fatalf("procedure did not finish within %d ticks", max)
	return 0, nil
}

func TestInstantiateSpawnsChild(t *testing.T) {
	w, _, h, owner := newHostWorld(t)

	id, ok := h.Instantiate(w, owner, NewTree("noop"))
	require.True(t, ok)
	require.True(t, w.Alive(id))
	require.Equal(t, owner, w.Parent(id))

	p, ok := h.Get(w, id)
	require.True(t, ok)
	require.Equal(t, component.ProcedureRunning, p.Status)
	require.Equal(t, owner, p.Owner)
}

func TestInstantiateRejects(t *testing.T) {
	w, _, h, owner := newHostWorld(t)

	_, ok := h.Instantiate(w, owner, stubTemplate{})
	require.False(t, ok, "non-tree template")

	_, ok = h.Instantiate(w, owner, NewTree("bad", Trigger("missing")))
	require.False(t, ok, "unknown trigger")
	require.Empty(t, w.Children(owner))
}

func TestWaitBlocksForTicks(t *testing.T) {
	w, _, h, owner := newHostWorld(t)
	_, ok := h.Instantiate(w, owner, NewTree("wait", Wait(3)))
	require.True(t, ok)

	tick, done := advanceUntilDone(t, w, h, 10)
	require.Equal(t, 4, tick)
	require.Len(t, done, 1)
	require.Equal(t, component.ProcedureSucceeded, done[0].Status)
	require.Equal(t, owner, done[0].Owner)
}

func TestEmptyTreeSucceedsOnFirstAdvance(t *testing.T) {
	w, _, h, owner := newHostWorld(t)
	id, _ := h.Instantiate(w, owner, NewTree("empty"))

	done := h.Advance(w, 1)
	require.Equal(t, []Completion{{Owner: owner, Procedure: id, Status: component.ProcedureSucceeded}}, done)
	require.Empty(t, h.Advance(w, 2), "finished procedures are not reported twice")
}

func TestAwaitSignal(t *testing.T) {
	w, _, h, owner := newHostWorld(t)
	id, _ := h.Instantiate(w, owner, NewTree("grenade", Await("confirm"), Wait(1)))

	require.Empty(t, h.Advance(w, 1))
	require.Empty(t, h.Advance(w, 2))
	require.Equal(t, 0, h.Signal(w, w.CreateEntity(), "confirm"), "other owners get nothing")
	require.Equal(t, 1, h.Signal(w, owner, "confirm"))

	require.Empty(t, h.Advance(w, 3))
	p, _ := h.Get(w, id)
	require.Equal(t, 1, p.Step)
	require.Empty(t, p.Signals)

	done := h.Advance(w, 4)
	require.Len(t, done, 1)
}

func TestSignalBeforeAwaitIsBuffered(t *testing.T) {
	w, _, h, owner := newHostWorld(t)
	_, _ = h.Instantiate(w, owner, NewTree("buffered", Wait(1), Await("go")))
	h.Signal(w, owner, "go")

	tick, _ := advanceUntilDone(t, w, h, 5)
	require.Equal(t, 2, tick)
}

func TestTriggerHandlers(t *testing.T) {
	w, reg, h, owner := newHostWorld(t)
	cooldown := reg.MustLookup("Ability.Stun.Cooldown")

	var calls []uint64
	h.Handle("cooldown", func(ctx Context) bool {
		calls = append(calls, ctx.Tick)
		return system.ApplyTagEffect(ctx.World, ctx.Owner, cooldown, 5)
	})
	h.Handle("refuse", func(Context) bool { return false })

	_, ok := h.Instantiate(w, owner, NewTree("ok", Trigger("cooldown")))
	require.True(t, ok)
	done := h.Advance(w, 7)
	require.Len(t, done, 1)
	require.Equal(t, component.ProcedureSucceeded, done[0].Status)
	require.Equal(t, []uint64{7}, calls)
	require.True(t, system.HasTag(w, reg, owner, cooldown))

	_, ok = h.Instantiate(w, owner, NewTree("fail", Trigger("refuse"), Trigger("cooldown")))
	require.True(t, ok)
	done = h.Advance(w, 8)
	require.Len(t, done, 1)
	require.Equal(t, component.ProcedureFailed, done[0].Status)
	require.Len(t, calls, 1, "steps after a failure never run")
}

func TestTriggerDespawningItself(t *testing.T) {
	w, _, h, owner := newHostWorld(t)
	h.Handle("vanish", func(ctx Context) bool {
		h.Despawn(ctx.World, ctx.Procedure)
		return true
	})
	_, _ = h.Instantiate(w, owner, NewTree("vanish", Trigger("vanish")))
	require.Empty(t, h.Advance(w, 1))
	require.Empty(t, w.Children(owner))
}

func TestDespawnIgnoresOtherEntities(t *testing.T) {
	w, _, h, owner := newHostWorld(t)
	h.Despawn(w, owner)
	require.True(t, w.Alive(owner))
}

func TestProceduresAdvanceInEntityOrder(t *testing.T) {
	w, _, h, owner := newHostWorld(t)
	other := w.CreateEntity()

	var order []ecs.EntityID
	h.Handle("record", func(ctx Context) bool {
		order = append(order, ctx.Owner)
		return true
	})
	_, _ = h.Instantiate(w, other, NewTree("b", Trigger("record")))
	_, _ = h.Instantiate(w, owner, NewTree("a", Trigger("record")))
	h.Advance(w, 1)
	require.Equal(t, []ecs.EntityID{other, owner}, order)
}

type stubTemplate struct{}

func (stubTemplate) Clone() ability.Template { return stubTemplate{} }
