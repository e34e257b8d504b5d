// Package game runs the terminal demo: a wizard in a small arena with the
// catalog's abilities bound to keys and a few training dummies to hit.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/oklog/ulid/v2"

	"gameplay-abilities/assets"
	"gameplay-abilities/internal/catalog"
	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/config"
	"gameplay-abilities/internal/ecs"
	"gameplay-abilities/internal/engine"
	"gameplay-abilities/internal/factory"
	"gameplay-abilities/internal/render"
	"gameplay-abilities/internal/system"
	"gameplay-abilities/internal/tags"
)

const maxMessages = 50

// hintEvery is how many idle ticks pass before the next hint is shown.
const hintEvery = 80

// Game is the top-level orchestrator.
type Game struct {
	screen   tcell.Screen
	renderer *render.Renderer
	eng      *engine.Engine[assets.Stat]
	cat      *catalog.Catalog[assets.Stat]
	cfg      config.Config
	log      *slog.Logger
	playerID ecs.EntityID
	messages []string
	session  Session
	idle     int
	hint     int

	blocked, silenced, stunned, dying tags.ID
}

// New creates a Game on the real terminal.
func New(cfg config.Config, logger *slog.Logger) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	g, err := NewOnScreen(screen, cfg, logger)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return g, nil
}

// NewOnScreen builds a Game on an initialised screen, e.g. one backed by an
// SSH session. The caller keeps ownership of the screen until Run.
func NewOnScreen(screen tcell.Screen, cfg config.Config, logger *slog.Logger) (*Game, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	eng, cat, err := factory.NewEngine(cfg.CatalogPath, logger)
	if err != nil {
		return nil, err
	}

	g := &Game{
		screen:   screen,
		renderer: render.NewRenderer(screen, assets.ArenaWidth, assets.ArenaHeight),
		eng:      eng,
		cat:      cat,
		cfg:      cfg,
		log:      logger,
		blocked:  eng.Tags.MustLookup(assets.TagMovementBlocked),
		silenced: eng.Tags.MustLookup(assets.TagSilenced),
		stunned:  eng.Tags.MustLookup(assets.TagStunned),
		dying:    eng.Tags.MustLookup(assets.TagDying),
		session: Session{
			ID:          ulid.Make().String(),
			Started:     time.Now().UTC(),
			Activations: make(map[string]int),
			Ends:        make(map[string]int),
		},
	}

	g.playerID = factory.NewPlayer(eng, 3, assets.ArenaHeight/2, factory.PlayerOptions{
		Mana:     cfg.StartingMana,
		Grenades: cfg.StartingGrenades,
	})
	for _, p := range [][2]int{{8, 4}, {9, 7}, {14, 5}, {18, 9}, {20, 2}} {
		factory.NewEnemy(eng, p[0], p[1])
	}

	eng.Controller.OnActivated(g.onActivated)
	eng.Controller.OnEnded(g.onEnded)

	g.addMessage("You step into the training arena.")
	g.addMessage(assets.Hints[0])
	return g, nil
}

func (g *Game) onActivated(ev system.ActivatedEvent[assets.Stat]) {
	g.session.Activations[g.eng.Tags.Name(ev.Ability.ID())]++
	if ev.Entity == g.playerID {
		g.addMessage(fmt.Sprintf("You use %s.", g.abilityName(ev.Ability.ID())))
	}
}

func (g *Game) onEnded(ev system.EndedEvent[assets.Stat]) {
	g.session.Ends[ev.Reason.String()]++
	if ev.Entity != g.playerID {
		return
	}
	name := g.abilityName(ev.Ability.ID())
	switch ev.Reason {
	case system.EndCompleted:
		g.addMessage(fmt.Sprintf("%s finished.", name))
	case system.EndCanceled:
		g.addMessage(fmt.Sprintf("%s was interrupted!", name))
	case system.EndFailed:
		g.addMessage(fmt.Sprintf("%s fizzled.", name))
	case system.EndSuperseded:
		g.addMessage(fmt.Sprintf("%s gave way to another ability.", name))
	}
}

// Run drives the engine at the configured tick rate until the player quits
// or ctx is done. Input is polled on its own goroutine and drained at the
// start of each tick.
func (g *Game) Run(ctx context.Context) {
	defer g.screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	g.draw()
	g.eng.Run(ctx, g.cfg.TickRate, engine.LoopHooks{
		BeforeTick: func() {
			for {
				select {
				case ev := <-events:
					if g.handleEvent(ev) {
						cancel()
						return
					}
				default:
					return
				}
			}
		},
		AfterTick: func(engine.TickResult) {
			g.tickHints()
			g.draw()
		},
	})

	g.finishSession()
}

// handleEvent applies one terminal event and reports whether the player
// asked to quit.
func (g *Game) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventKey:
		action := keyToAction(ev)
		if action == ActionQuit {
			return true
		}
		g.processAction(action, ev.Rune())
	}
	return false
}

// processAction queues the engine requests for one player action. They take
// effect on the tick that follows.
func (g *Game) processAction(action Action, r rune) {
	g.idle = 0
	switch action {
	case ActionMoveN, ActionMoveS, ActionMoveE, ActionMoveW:
		dx, dy := actionToDelta(action)
		bounds := system.Bounds{W: assets.ArenaWidth, H: assets.ArenaHeight}
		if system.TryMove(g.eng.World, g.eng.Tags, bounds, g.blocked, g.playerID, dx, dy) == system.MoveRestrained {
			g.addMessage("You cannot move right now.")
		}

	case ActionConfirm:
		if g.eng.Signal(g.playerID, assets.SignalConfirm) == 0 {
			g.addMessage("Nothing to confirm.")
		}

	case ActionSilence:
		if system.ApplyTagEffect(g.eng.World, g.playerID, g.silenced, assets.SilenceTicks) {
			g.addMessage("A hex of silence falls on you.")
		}

	case ActionAbility:
		id, ok := g.cat.ByKey(r)
		if !ok {
			return
		}
		if !g.eng.CanActivate(g.playerID, id) {
			g.addMessage(fmt.Sprintf("You cannot use %s now.", g.abilityName(id)))
			return
		}
		g.eng.TryActivate(g.playerID, id)
	}
}

func (g *Game) tickHints() {
	g.idle++
	if g.idle < hintEvery {
		return
	}
	g.idle = 0
	g.hint = (g.hint + 1) % len(assets.Hints)
	g.addMessage(assets.Hints[g.hint])
}

func (g *Game) draw() {
	g.renderer.DrawFrame(g.eng.World, g.glyphFor)
	g.renderer.DrawHUD(g.hud())
}

// glyphFor shows status overlays in place of an entity's own glyph.
func (g *Game) glyphFor(id ecs.EntityID, rend component.Renderable) string {
	switch {
	case g.eng.HasTag(id, g.dying):
		return assets.GlyphDying
	case g.eng.HasTag(id, g.stunned):
		return assets.GlyphStunned
	}
	return rend.Glyph
}

func (g *Game) hud() render.HUD {
	h := render.HUD{
		Mana:     g.eng.StatValue(g.playerID, assets.StatMana),
		Grenades: g.eng.ItemCount(g.playerID, assets.ItemGrenade),
		State:    g.eng.State(g.playerID),
		Messages: g.messages,
		Tick:     g.eng.TickCount(),
	}
	if cur, ok := g.eng.Current(g.playerID); ok {
		h.Ability = g.abilityName(cur.ID())
	}
	if set, ok := system.ActiveTagsOf(g.eng.World, g.playerID); ok {
		h.Tags = g.eng.Tags.Names(set.IDs())
		sort.Strings(h.Tags)
	}
	return h
}

func (g *Game) abilityName(id tags.ID) string {
	if m, ok := g.cat.Meta(id); ok {
		return m.Name
	}
	return g.eng.Tags.Name(id)
}

func (g *Game) addMessage(msg string) {
	g.messages = append(g.messages, msg)
	if len(g.messages) > maxMessages {
		g.messages = g.messages[len(g.messages)-maxMessages:]
	}
}

func (g *Game) finishSession() {
	g.session.Ticks = g.eng.TickCount()
	g.session.FinalMana = g.eng.StatValue(g.playerID, assets.StatMana)
	g.session.Grenades = g.eng.ItemCount(g.playerID, assets.ItemGrenade)
	g.log.Info("session ended",
		"session", g.session.ID,
		"ticks", g.session.Ticks,
		"activations", g.session.Activations,
		"ends", g.session.Ends,
	)
	if !g.cfg.SessionLog {
		return
	}
	if err := saveSession(g.session); err != nil {
		g.log.Warn("save session log", "error", err)
	}
}
