package system

import (
	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/stats"
	"gameplay-abilities/internal/tags"
)

type testStat uint8

const (
	statMana testStat = iota
	statHealth
)

func (s testStat) String() string {
	switch s {
	case statMana:
		return "mana"
	case statHealth:
		return "health"
	default:
		return "unknown"
	}
}

const grenadeItem uint16 = 1

type stubTemplate struct{ name string }

func (s stubTemplate) Clone() ability.Template { return s }

// fakeHost records procedure instances so tests can check they are released.
type fakeHost struct {
	fail      bool
	spawned   []ecs.EntityID
	despawned []ecs.EntityID
}

func (h *fakeHost) Instantiate(w *ecs.World, owner ecs.EntityID, _ ability.Template) (ecs.EntityID, bool) {
	if h.fail {
		return ecs.NilEntity, false
	}
	e := w.CreateEntity()
	w.AddChild(owner, e)
	h.spawned = append(h.spawned, e)
	return e, true
}

func (h *fakeHost) Despawn(w *ecs.World, handle ecs.EntityID) {
	h.despawned = append(h.despawned, handle)
	w.DestroyEntity(handle)
}

// fixture is a world with the tags the demo abilities use.
type fixture struct {
	w    *ecs.World
	reg  *tags.Registry
	host *fakeHost
	ctrl *Controller[testStat]

	death, stun, grenade     tags.ID
	dying, casting, cooldown tags.ID
	throwing, silenced       tags.ID
}

func newFixture() *fixture {
	f := &fixture{w: ecs.NewWorld(), reg: tags.NewRegistry(), host: &fakeHost{}}
	f.death = f.reg.Register("Ability.Death")
	f.stun = f.reg.Register("Ability.Stun")
	f.grenade = f.reg.Register("Ability.Grenade")
	f.dying = f.reg.Register("Character.State.Dying")
	f.casting = f.reg.Register("Character.Movement.Blocked.Casting")
	f.cooldown = f.reg.Register("Ability.Stun.Cooldown")
	f.throwing = f.reg.Register("Ability.Grenade.Throwing")
	f.silenced = f.reg.Register("Character.State.Silenced")
	f.ctrl = NewController[testStat](ControllerConfig{World: f.w, Tags: f.reg, Procedures: f.host})
	return f
}

func (f *fixture) deathDef() ability.Definition[testStat] {
	return ability.New[testStat](f.death).BlockedBy(f.dying).AddsTags(f.dying)
}

func (f *fixture) stunDef() ability.Definition[testStat] {
	return ability.New[testStat](f.stun).
		BlockedBy(f.cooldown, f.casting).
		CanceledBy(f.silenced).
		AddsTags(f.casting).
		WithStatCost(statMana, 25).
		WithTemplate(stubTemplate{name: "stun"})
}

func (f *fixture) grenadeDef() ability.Definition[testStat] {
	return ability.New[testStat](f.grenade).
		BlockedBy(f.throwing).
		AddsTags(f.throwing).
		WithItemCost(grenadeItem, 1).
		WithTemplate(stubTemplate{name: "grenade"})
}

// spawn creates an ability-capable entity granted defs.
func (f *fixture) spawn(defs ...ability.Definition[testStat]) ecs.EntityID {
	id := f.w.CreateEntity()
	var g ability.Granted[testStat]
	for _, d := range defs {
		g.Grant(d)
	}
	f.w.Add(id, component.ActiveTags{})
	f.w.Add(id, component.GrantedAbilities[testStat]{Granted: g})
	f.w.Add(id, component.CurrentAbility[testStat]{})
	return id
}

func (f *fixture) withMana(id ecs.EntityID, mana float32) {
	f.w.Add(id, component.Stats[testStat]{Block: stats.New(map[testStat]float32{statMana: mana})})
}

func (f *fixture) withGrenades(id ecs.EntityID, n uint16) {
	f.w.Add(id, component.NewInventory(map[uint16]uint16{grenadeItem: n}))
}

func (f *fixture) activate(id ecs.EntityID, abilityID tags.ID) {
	f.ctrl.TryActivate(id, abilityID)
	f.ctrl.Flush()
}

func (f *fixture) endCurrent(id ecs.EntityID) {
	if cur, ok := f.ctrl.Current(id); ok {
		f.ctrl.RequestEnd(id, cur)
		f.ctrl.Flush()
	}
}

func (f *fixture) mana(id ecs.EntityID) float32 {
	return f.w.Get(id, component.CStats).(component.Stats[testStat]).Current(statMana)
}
