package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HUD is the player status shown under the arena.
type HUD struct {
	Mana     float32
	Grenades uint16
	State    string // lifecycle state
	Ability  string // running ability, "" when idle
	Tags     []string
	Messages []string
	Tick     uint64
}

// DrawHUD renders the status lines and the message log below the arena and
// shows the frame.
func (r *Renderer) DrawHUD(h HUD) {
	_, top := r.camera.CellToScreen(0, r.h+1)
	r.drawHLine(top, tcell.ColorGray)

	running := "-"
	if h.Ability != "" {
		running = h.Ability
	}
	status := fmt.Sprintf("Mana: %-5.0f Grenades: %d  State: %-8s Ability: %s  Tick: %d",
		h.Mana, h.Grenades, h.State, running, h.Tick)
	r.drawText(0, top+1, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	col := r.drawText(0, top+2, "Tags: ", tcell.StyleDefault.Foreground(tcell.ColorGray))
	if len(h.Tags) == 0 {
		r.drawText(col, top+2, "none", tcell.StyleDefault.Foreground(tcell.ColorGray))
	}
	for i, name := range h.Tags {
		if i > 0 {
			col = r.drawText(col, top+2, ", ", tcell.StyleDefault)
		}
		col = r.drawText(col, top+2, name, tcell.StyleDefault.Foreground(TagColor(name)))
	}

	// Message log (last few messages).
	logRows := HUDRows - 4
	start := len(h.Messages) - logRows
	if start < 0 {
		start = 0
	}
	for i, msg := range h.Messages[start:] {
		r.drawText(0, top+3+i, msg, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}
	r.drawText(0, top+HUDRows-1, strings.Repeat(" ", 2)+"space stun  g grenade  enter throw  c silence  x death  arrows move  q quit",
		tcell.StyleDefault.Foreground(tcell.ColorGray))

	r.screen.Show()
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

// drawText writes text starting at column x and returns the column after
// it. Wide runes take two columns.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
	return col
}
