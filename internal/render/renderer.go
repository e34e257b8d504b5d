package render

import (
	"sort"

	"gameplay-abilities/internal/component"
	"gameplay-abilities/internal/ecs"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HUDRows is the number of screen rows reserved below the arena.
const HUDRows = 8

// GlyphFunc lets the caller override an entity's glyph, e.g. to show a
// status effect.
type GlyphFunc func(id ecs.EntityID, rend component.Renderable) string

// Renderer draws the arena onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera Camera
	tiles  ArenaTiles
	w, h   int // arena size in cells
}

// NewRenderer creates a Renderer for an arena of w x h cells.
func NewRenderer(screen tcell.Screen, w, h int) *Renderer {
	return &Renderer{
		screen: screen,
		camera: Camera{OffsetX: 2, OffsetY: 1},
		tiles:  DefaultTiles,
		w:      w,
		h:      h,
	}
}

// Camera returns the arena camera.
func (r *Renderer) Camera() Camera { return r.camera }

// DrawFrame clears the screen and renders the arena and its entities.
func (r *Renderer) DrawFrame(w *ecs.World, glyph GlyphFunc) {
	r.screen.Clear()
	r.drawArena()
	r.drawEntities(w, glyph)
}

func (r *Renderer) drawArena() {
	style := tcell.StyleDefault.Background(tcell.ColorBlack)
	for y := -1; y <= r.h; y++ {
		for x := -1; x <= r.w; x++ {
			g := r.tiles.Floor
			if x < 0 || y < 0 || x == r.w || y == r.h {
				g = r.tiles.Wall
			}
			sx, sy := r.camera.CellToScreen(x, y)
			r.putGlyph(sx, sy, g, style)
		}
	}
}

// renderableEntity holds sorting info for entity rendering.
type renderableEntity struct {
	id    ecs.EntityID
	order int
	pos   component.Position
	rend  component.Renderable
}

// drawEntities renders all entities with Renderable + Position, ordered by RenderOrder.
func (r *Renderer) drawEntities(w *ecs.World, glyph GlyphFunc) {
	ids := w.Query(component.CRenderable, component.CPosition)
	entities := make([]renderableEntity, 0, len(ids))
	for _, id := range ids {
		pos := w.Get(id, component.CPosition).(component.Position)
		rend := w.Get(id, component.CRenderable).(component.Renderable)
		if pos.X < 0 || pos.Y < 0 || pos.X >= r.w || pos.Y >= r.h {
			continue
		}
		entities = append(entities, renderableEntity{id: id, order: rend.RenderOrder, pos: pos, rend: rend})
	}

	// Lower render order is drawn first.
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].order < entities[j].order
	})

	for _, e := range entities {
		g := e.rend.Glyph
		if glyph != nil {
			g = glyph(e.id, e.rend)
		}
		sx, sy := r.camera.CellToScreen(e.pos.X, e.pos.Y)
		style := tcell.StyleDefault.Foreground(e.rend.FGColor).Background(tcell.ColorBlack)
		r.putGlyph(sx, sy, g, style)
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, runes[0], combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
