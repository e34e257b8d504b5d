package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ArenaTiles holds the emoji glyphs used to draw the arena.
type ArenaTiles struct {
	Wall  string
	Floor string
}

// DefaultTiles is the arena look of the demo.
var DefaultTiles = ArenaTiles{
	Wall:  "🧱",
	Floor: "⬛",
}

// TagColor picks the HUD color of an active tag by its top-level branch.
func TagColor(name string) tcell.Color {
	switch {
	case strings.HasPrefix(name, "Character.State."):
		return tcell.ColorIndianRed
	case strings.HasPrefix(name, "Character.Movement."):
		return tcell.ColorOrange
	case strings.HasPrefix(name, "Ability."):
		return tcell.ColorLightSkyBlue
	default:
		return tcell.ColorWhite
	}
}
