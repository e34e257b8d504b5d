package system

import (
	"testing"

	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/tags"
)

// newEffectsWorld creates a world with one tag-carrying entity.
func newEffectsWorld() (*ecs.World, *tags.Registry, ecs.EntityID) {
	w := ecs.NewWorld()
	reg := tags.NewRegistry()
	id := w.CreateEntity()
	w.Add(id, component.ActiveTags{})
	return w, reg, id
}

func TestApplyTagEffectAddsTag(t *testing.T) {
	w, reg, id := newEffectsWorld()
	stunned := reg.Register("Character.Movement.Blocked.Stunned")

	if !ApplyTagEffect(w, id, stunned, 3) {
		t.Fatal("ApplyTagEffect should succeed on an entity with ActiveTags")
	}
	if !HasTag(w, reg, id, stunned) {
		t.Fatal("expected stunned tag to be active")
	}
	if !HasTag(w, reg, id, reg.MustLookup("Character.Movement.Blocked")) {
		t.Fatal("parent query should match the timed child tag")
	}
	if got := RemainingTicks(w, id, stunned); got != 3 {
		t.Errorf("RemainingTicks = %d; want 3", got)
	}
}

func TestApplyTagEffectNeedsActiveTags(t *testing.T) {
	w := ecs.NewWorld()
	reg := tags.NewRegistry()
	id := w.CreateEntity()
	if ApplyTagEffect(w, id, reg.Register("X"), 3) {
		t.Fatal("entities without ActiveTags cannot receive tag effects")
	}
	if w.Has(id, component.CEffects) {
		t.Fatal("no Effects component should be created")
	}
}

func TestTickEffectsExpiry(t *testing.T) {
	w, reg, id := newEffectsWorld()
	cooldown := reg.Register("Ability.Stun.Cooldown")
	ApplyTagEffect(w, id, cooldown, 2)

	TickEffects(w)
	if !HasTag(w, reg, id, cooldown) {
		t.Fatal("tag should survive the first tick")
	}
	TickEffects(w)
	if HasTag(w, reg, id, cooldown) {
		t.Fatal("tag should be removed when the effect expires")
	}
	if HasEffect(w, id, cooldown) {
		t.Fatal("expired effect should be dropped")
	}
}

func TestTickEffectsMultiple(t *testing.T) {
	w, reg, id := newEffectsWorld()
	short := reg.Register("Short")
	long := reg.Register("Long")
	ApplyTagEffect(w, id, short, 1)
	ApplyTagEffect(w, id, long, 3)

	TickEffects(w)
	effs := w.Get(id, component.CEffects).(component.Effects)
	if len(effs.Active) != 1 {
		t.Fatalf("expected 1 effect to remain, got %d", len(effs.Active))
	}
	if effs.Active[0].Tag != long {
		t.Errorf("expected Long to survive, got %v", effs.Active[0].Tag)
	}
	if effs.Active[0].TicksRemaining != 2 {
		t.Errorf("TicksRemaining = %d; want 2", effs.Active[0].TicksRemaining)
	}
}

func TestApplyTagEffectKeepsLongerDuration(t *testing.T) {
	cases := []struct {
		name        string
		first, then int
		want        int
	}{
		{name: "longer replaces", first: 2, then: 5, want: 5},
		{name: "shorter is ignored", first: 5, then: 2, want: 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, reg, id := newEffectsWorld()
			tag := reg.Register("Tag")
			ApplyTagEffect(w, id, tag, tc.first)
			ApplyTagEffect(w, id, tag, tc.then)
			if got := RemainingTicks(w, id, tag); got != tc.want {
				t.Errorf("RemainingTicks = %d; want %d", got, tc.want)
			}
			effs := w.Get(id, component.CEffects).(component.Effects)
			if len(effs.Active) != 1 {
				t.Errorf("expected a single effect entry, got %d", len(effs.Active))
			}
		})
	}
}
