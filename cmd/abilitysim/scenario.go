package main

import (
	"fmt"
	"log/slog"

	"gameplay-abilities/assets"
	"gameplay-abilities/internal/catalog"
	"gameplay-abilities/internal/config"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/engine"
	"gameplay-abilities/internal/factory"
	"gameplay-abilities/internal/system"
)

// maxWait bounds every wait in a scenario so a broken catalog cannot hang
// the runner.
const maxWait = 500

type result struct {
	Activations int
	Ends        map[string]int
	Mana        float32
	Grenades    uint16
	Ticks       uint64
}

type sim struct {
	eng    *engine.Engine[assets.Stat]
	cat    *catalog.Catalog[assets.Stat]
	player ecs.EntityID
	log    *slog.Logger
	res    result
}

type scenario func(s *sim) error

var scenarios = map[string]scenario{
	"mana":    manaScenario,
	"grenade": grenadeScenario,
	"silence": silenceScenario,
	"death":   deathScenario,
}

func runScenario(sc scenario, cfg config.Config, logger *slog.Logger) (result, error) {
	eng, cat, err := factory.NewEngine(cfg.CatalogPath, logger)
	if err != nil {
		return result{}, err
	}
	s := &sim{
		eng: eng,
		cat: cat,
		log: logger,
		res: result{Ends: make(map[string]int)},
	}
	s.player = factory.NewPlayer(eng, 2, 2, factory.PlayerOptions{
		Mana:     cfg.StartingMana,
		Grenades: cfg.StartingGrenades,
	})
	factory.NewEnemy(eng, 4, 2)
	factory.NewEnemy(eng, 3, 3)

	eng.Controller.OnActivated(func(ev system.ActivatedEvent[assets.Stat]) {
		s.res.Activations++
		s.log.Info("activated", "tick", eng.TickCount(), "ability", eng.Tags.Name(ev.Ability.ID()))
	})
	eng.Controller.OnEnded(func(ev system.EndedEvent[assets.Stat]) {
		s.res.Ends[ev.Reason.String()]++
		s.log.Info("ended", "tick", eng.TickCount(), "ability", eng.Tags.Name(ev.Ability.ID()), "reason", ev.Reason)
	})

	if err := sc(s); err != nil {
		return s.res, err
	}
	s.res.Mana = eng.StatValue(s.player, assets.StatMana)
	s.res.Grenades = eng.ItemCount(s.player, assets.ItemGrenade)
	s.res.Ticks = eng.TickCount()
	return s.res, nil
}

// try queues ability name and runs the tick that applies it. It reports
// whether the ability is running afterwards.
func (s *sim) try(name string) bool {
	id, ok := s.eng.Tags.Lookup(name)
	if !ok {
		return false
	}
	s.eng.TryActivate(s.player, id)
	s.eng.Tick()
	cur, running := s.eng.Current(s.player)
	return running && cur.ID() == id
}

func (s *sim) ready(name string) bool {
	id, ok := s.eng.Tags.Lookup(name)
	return ok && s.eng.CanActivate(s.player, id)
}

func (s *sim) untilIdle() error {
	for i := 0; i < maxWait; i++ {
		if _, ok := s.eng.Current(s.player); !ok {
			return nil
		}
		s.eng.Tick()
	}
	return fmt.Errorf("ability still running after %d ticks", maxWait)
}

// untilReady ticks until name can be activated. It gives up quietly after
// maxWait ticks.
func (s *sim) untilReady(name string) bool {
	for i := 0; i < maxWait; i++ {
		if s.ready(name) {
			return true
		}
		s.eng.Tick()
	}
	return false
}

// manaScenario casts Stun until the mana pool can no longer pay for it.
func manaScenario(s *sim) error {
	for s.untilReady(assets.AbilityStun) {
		if !s.try(assets.AbilityStun) {
			return fmt.Errorf("stun passed the gate but did not start")
		}
		if err := s.untilIdle(); err != nil {
			return err
		}
	}
	s.log.Info("out of mana", "mana", s.eng.StatValue(s.player, assets.StatMana))
	return nil
}

// grenadeScenario readies and throws every grenade the player carries.
func grenadeScenario(s *sim) error {
	for s.untilReady(assets.AbilityGrenade) {
		if !s.try(assets.AbilityGrenade) {
			return fmt.Errorf("grenade passed the gate but did not start")
		}
		s.eng.Tick()
		if s.eng.Signal(s.player, assets.SignalConfirm) == 0 {
			return fmt.Errorf("grenade is not waiting for %q", assets.SignalConfirm)
		}
		if err := s.untilIdle(); err != nil {
			return err
		}
	}
	return nil
}

// silenceScenario interrupts a channelled Stun with Silence.
func silenceScenario(s *sim) error {
	if !s.try(assets.AbilityStun) {
		return fmt.Errorf("stun did not start")
	}
	s.eng.Tick()
	silenced := s.eng.Tags.MustLookup(assets.TagSilenced)
	system.ApplyTagEffect(s.eng.World, s.player, silenced, assets.SilenceTicks)
	s.eng.Tick()
	if _, ok := s.eng.Current(s.player); ok {
		return fmt.Errorf("stun survived silence")
	}
	return nil
}

// deathScenario kills the player and checks that nothing else can start.
func deathScenario(s *sim) error {
	if !s.try(assets.AbilityDeath) {
		return fmt.Errorf("death did not start")
	}
	for _, name := range []string{assets.AbilityStun, assets.AbilityGrenade, assets.AbilityDeath} {
		if s.ready(name) {
			return fmt.Errorf("%s is still available while dying", name)
		}
	}
	return nil
}
