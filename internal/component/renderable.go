package component

import (
	"gameplay-abilities/internal/ecs"

	"github.com/gdamore/tcell/v2"
)

const CRenderable ecs.ComponentType = 2

type Renderable struct {
	Glyph       string
	FGColor     tcell.Color
	RenderOrder int
}

func (Renderable) Type() ecs.ComponentType { return CRenderable }
