package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/procedure"
	"gameplay-abilities/internal/system"
	"gameplay-abilities/internal/tags"
)

type stat uint8

const mana stat = 0

func (stat) String() string { return "mana" }

const grenadeItem uint16 = 1

type testEngine struct {
	*Engine[stat]
	stun, grenade, death    tags.ID
	casting, silenced, fuse tags.ID
	ended                   []system.EndReason
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	reg := tags.NewRegistry()
	te := &testEngine{
		stun:     reg.Register("Ability.Stun"),
		grenade:  reg.Register("Ability.Grenade"),
		death:    reg.Register("Ability.Death"),
		casting:  reg.Register("Character.Movement.Blocked.Casting"),
		silenced: reg.Register("Character.State.Silenced"),
		fuse:     reg.Register("Ability.Grenade.Throwing"),
	}
	dying := reg.Register("Character.State.Dying")

	cat, err := ability.NewCatalog(
		ability.New[stat](te.stun).
			BlockedBy(te.casting).
			CanceledBy(te.silenced).
			AddsTags(te.casting).
			WithStatCost(mana, 25).
			WithTemplate(procedure.NewTree("stun", procedure.Wait(2), procedure.Trigger(TriggerPayCosts))),
		ability.New[stat](te.grenade).
			BlockedBy(te.fuse).
			AddsTags(te.fuse).
			WithItemCost(grenadeItem, 1).
			WithTemplate(procedure.NewTree("grenade", procedure.Await("confirm"), procedure.Trigger(TriggerPayCosts))),
		ability.New[stat](te.death).BlockedBy(dying).AddsTags(dying),
	)
	require.NoError(t, err)

	te.Engine = New(Options[stat]{Tags: reg, Catalog: cat})
	te.Controller.OnEnded(func(e system.EndedEvent[stat]) { te.ended = append(te.ended, e.Reason) })
	return te
}

func (te *testEngine) player(t *testing.T, manaAmount float32, grenades uint16) ecs.EntityID {
	t.Helper()
	return te.Spawn(SpawnOptions[stat]{
		Abilities: []tags.ID{te.stun, te.grenade, te.death},
		Stats:     map[stat]float32{mana: manaAmount},
		Items:     map[uint16]uint16{grenadeItem: grenades},
	})
}

func (te *testEngine) runUntilIdle(t *testing.T, id ecs.EntityID, max int) {
	t.Helper()
	for i := 0; i < max; i++ {
		te.Tick()
		if _, ok := te.Current(id); !ok {
			return
		}
	}
	t.Fatalf("ability still running after %d ticks", max)
}

func TestStunCyclesUntilManaRunsOut(t *testing.T) {
	te := newTestEngine(t)
	id := te.player(t, 100, 0)

	for i := 1; i <= 4; i++ {
		require.True(t, te.CanActivate(id, te.stun), "cycle %d", i)
		te.TryActivate(id, te.stun)
		te.Tick()
		_, ok := te.Current(id)
		require.True(t, ok, "cycle %d should start", i)
		require.True(t, te.HasTag(id, te.casting))
		te.runUntilIdle(t, id, 10)
		require.False(t, te.HasTag(id, te.casting))
	}
	require.Equal(t, float32(0), te.StatValue(id, mana))

	te.TryActivate(id, te.stun)
	te.Tick()
	_, ok := te.Current(id)
	require.False(t, ok, "fifth stun must be rejected")
	require.Equal(t, []system.EndReason{system.EndCompleted, system.EndCompleted, system.EndCompleted, system.EndCompleted}, te.ended)
}

func TestGrenadeWaitsForConfirmation(t *testing.T) {
	te := newTestEngine(t)
	id := te.player(t, 0, 1)

	te.TryActivate(id, te.grenade)
	for i := 0; i < 5; i++ {
		te.Tick()
	}
	cur, ok := te.Current(id)
	require.True(t, ok, "grenade waits for the confirm signal")
	require.Equal(t, system.StateRunning, te.State(id))
	require.Equal(t, uint16(1), te.ItemCount(id, grenadeItem))

	require.Equal(t, 1, te.Signal(id, "confirm"))
	te.Tick()
	_, ok = te.Current(id)
	require.False(t, ok)
	require.False(t, te.World.Alive(cur.Procedure))
	require.Equal(t, uint16(0), te.ItemCount(id, grenadeItem))

	te.TryActivate(id, te.grenade)
	te.Tick()
	_, ok = te.Current(id)
	require.False(t, ok, "no grenades left")
}

func TestSilenceCancelsStun(t *testing.T) {
	te := newTestEngine(t)
	id := te.player(t, 100, 0)

	te.TryActivate(id, te.stun)
	te.Tick()
	system.ApplyTagEffect(te.World, id, te.silenced, 3)
	te.Tick()

	_, ok := te.Current(id)
	require.False(t, ok)
	require.Equal(t, []system.EndReason{system.EndCanceled}, te.ended)
	require.Equal(t, float32(100), te.StatValue(id, mana), "canceled before payment")

	// The silence also gates a new attempt until it expires.
	require.False(t, te.CanActivate(id, te.stun))
	for i := 0; i < 3; i++ {
		te.Tick()
	}
	require.True(t, te.CanActivate(id, te.stun))
}

func TestShortfallAtPaymentFailsAbility(t *testing.T) {
	te := newTestEngine(t)
	id := te.player(t, 25, 0)

	te.TryActivate(id, te.stun)
	te.Tick()
	// Something else spends the mana the gate saw.
	system.PayStatCost(te.World, id, ability.StatCost[stat]{Stat: mana, Amount: 10})
	te.runUntilIdle(t, id, 10)

	require.Equal(t, []system.EndReason{system.EndFailed}, te.ended)
	require.Equal(t, float32(15), te.StatValue(id, mana), "nothing is paid on a shortfall")
}

func TestDeathBlocksItself(t *testing.T) {
	te := newTestEngine(t)
	id := te.player(t, 0, 0)

	te.TryActivate(id, te.death)
	te.Tick()
	first, ok := te.Current(id)
	require.True(t, ok)

	te.TryActivate(id, te.death)
	te.Tick()
	again, _ := te.Current(id)
	require.Equal(t, first.Activation, again.Activation)
}

func TestSpawnSkipsUnknownAbilities(t *testing.T) {
	te := newTestEngine(t)
	unknown := te.Tags.Register("Ability.Unknown")
	id := te.Spawn(SpawnOptions[stat]{Abilities: []tags.ID{unknown, te.death}, Tags: []tags.ID{te.silenced}})

	require.False(t, te.CanActivate(id, unknown))
	require.True(t, te.CanActivate(id, te.death))
	require.True(t, te.HasTag(id, te.silenced))
	require.Equal(t, float32(0), te.StatValue(id, mana))
	require.Equal(t, uint16(0), te.ItemCount(id, grenadeItem))
}

func TestPayCostsOutsideOwnProcedureFails(t *testing.T) {
	te := newTestEngine(t)
	id := te.player(t, 100, 0)
	ok := te.payCosts(procedure.Context{World: te.World, Owner: id, Procedure: ecs.NilEntity})
	require.False(t, ok)
	require.Equal(t, float32(100), te.StatValue(id, mana))
}

func TestRunTicksUntilCanceled(t *testing.T) {
	te := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())

	var before, after int
	te.Run(ctx, 200, LoopHooks{
		BeforeTick: func() { before++ },
		AfterTick: func(r TickResult) {
			after++
			require.Equal(t, time.Second/200, r.Budget)
			if r.Tick == 3 {
				cancel()
			}
		},
	})

	require.Equal(t, uint64(3), te.TickCount())
	require.Equal(t, 3, before)
	require.Equal(t, 3, after)
}
