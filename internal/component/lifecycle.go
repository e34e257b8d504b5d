package component

import (
	"gameplay-abilities/internal/ecs"

	"github.com/looplab/fsm"
)

const CLifecycle ecs.ComponentType = 12

// Lifecycle holds the per-entity ability state machine.
type Lifecycle struct {
	FSM *fsm.FSM
}

func (Lifecycle) Type() ecs.ComponentType { return CLifecycle }
