package system

import (
	"testing"

	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/component"
)

func TestCheckCanceledEndsWithoutCompletion(t *testing.T) {
	f := newFixture()
	id := f.spawn(f.stunDef())
	f.withMana(id, 100)

	var got []EndReason
	f.ctrl.OnEnded(func(e EndedEvent[testStat]) { got = append(got, e.Reason) })

	f.activate(id, f.stun)
	CheckCanceled(f.ctrl)
	f.ctrl.Flush()
	if _, ok := f.ctrl.Current(id); !ok {
		t.Fatal("stun should keep running without the cancel tag")
	}

	AddTag(f.w, id, f.silenced)
	CheckCanceled(f.ctrl)
	f.ctrl.Flush()

	if _, ok := f.ctrl.Current(id); ok {
		t.Fatal("silence should cancel stun")
	}
	if len(got) != 1 || got[0] != EndCanceled {
		t.Fatalf("end reasons = %v; want [canceled]", got)
	}
	if f.mana(id) != 100 {
		t.Errorf("a canceled stun never reached payment, mana = %v", f.mana(id))
	}
}

func TestCheckCanceledMatchesDescendants(t *testing.T) {
	f := newFixture()
	def := ability.New[testStat](f.death).CanceledBy(f.reg.MustLookup("Character.State"))
	id := f.spawn(def)
	f.activate(id, f.death)

	AddTag(f.w, id, f.silenced)
	CheckCanceled(f.ctrl)
	f.ctrl.Flush()
	if _, ok := f.ctrl.Current(id); ok {
		t.Fatal("a child of a cancel tag should cancel the ability")
	}
}

func TestDeathScenario(t *testing.T) {
	f := newFixture()
	id := f.spawn(f.deathDef())

	f.activate(id, f.death)
	if !HasTag(f.w, f.reg, id, f.dying) {
		t.Fatal("death should add the dying tag")
	}
	first, _ := f.ctrl.Current(id)

	// Dying blocks a second activation; nothing changes.
	f.activate(id, f.death)
	cur, _ := f.ctrl.Current(id)
	if cur.Activation != first.Activation {
		t.Fatal("second death activation should be rejected")
	}
}

func TestManaScenario(t *testing.T) {
	f := newFixture()
	def := ability.New[testStat](f.stun).WithStatCost(statMana, 25)
	id := f.spawn(def)
	f.withMana(id, 100)

	for i := 1; i <= 5; i++ {
		f.activate(id, f.stun)
		cur, ok := f.ctrl.Current(id)
		if i <= 4 {
			if !ok {
				t.Fatalf("activation %d should succeed", i)
			}
			PayCosts(f.w, id, cur.Costs)
			f.endCurrent(id)
			continue
		}
		if ok {
			t.Fatalf("activation %d should fail with %v mana", i, f.mana(id))
		}
	}
	if f.mana(id) != 0 {
		t.Errorf("mana = %v; want 0", f.mana(id))
	}
}

func TestGrenadeScenario(t *testing.T) {
	f := newFixture()
	id := f.spawn(f.grenadeDef())
	f.withGrenades(id, 1)

	f.activate(id, f.grenade)
	cur, ok := f.ctrl.Current(id)
	if !ok {
		t.Fatal("grenade should start with one grenade")
	}
	if !HasTag(f.w, f.reg, id, f.throwing) {
		t.Error("throwing tag should be applied")
	}
	if !PayCosts(f.w, id, cur.Costs) {
		t.Fatal("payment should be covered")
	}
	f.endCurrent(id)

	inv := f.w.Get(id, component.CInventory).(component.Inventory)
	if n, _ := inv.Count(grenadeItem); n != 0 {
		t.Fatalf("grenades = %d; want 0", n)
	}
	f.activate(id, f.grenade)
	if _, ok := f.ctrl.Current(id); ok {
		t.Fatal("grenade should not start with an empty inventory")
	}
}

// The gate and payment are separate steps. Anything that spends the same
// resource in between is not prevented, and payment still goes through.
func TestCheckThenPayIsNotAtomic(t *testing.T) {
	f := newFixture()
	id := f.spawn(f.stunDef())
	f.withMana(id, 25)

	f.activate(id, f.stun)
	cur, ok := f.ctrl.Current(id)
	if !ok {
		t.Fatal("stun should start with 25 mana")
	}

	PayStatCost(f.w, id, ability.StatCost[testStat]{Stat: statMana, Amount: 20})
	PayCosts(f.w, id, cur.Costs)

	if got := f.mana(id); got != -20 {
		t.Fatalf("mana = %v; want -20", got)
	}
}

func TestPayItemCostClamps(t *testing.T) {
	f := newFixture()
	id := f.spawn()
	f.withGrenades(id, 1)

	if PayItemCost(f.w, id, ability.ItemCost{Item: grenadeItem, Amount: 3}) {
		t.Fatal("payment of 3 from 1 should report a shortfall")
	}
	inv := f.w.Get(id, component.CInventory).(component.Inventory)
	if n, _ := inv.Count(grenadeItem); n != 0 {
		t.Fatalf("count = %d; want 0", n)
	}
	if PayStatCost(f.w, id, ability.StatCost[testStat]{Stat: statMana, Amount: 1}) {
		t.Fatal("paying a stat without a stats component should fail")
	}
}
