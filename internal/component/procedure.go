package component

import (
	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/ecs"
)

const CProcedure ecs.ComponentType = 11

// ProcedureStatus is the state of a live procedure instance.
type ProcedureStatus uint8

const (
	ProcedureRunning ProcedureStatus = iota
	ProcedureSucceeded
	ProcedureFailed
)

func (s ProcedureStatus) String() string {
	switch s {
	case ProcedureRunning:
		return "running"
	case ProcedureSucceeded:
		return "succeeded"
	default:
		return "failed"
	}
}

// Procedure lives on the child entity spawned for an ability activation.
type Procedure struct {
	Owner    ecs.EntityID
	Template ability.Template
	Step     int
	Elapsed  int // ticks spent in the current step
	Signals  []string
	Status   ProcedureStatus
}

func (Procedure) Type() ecs.ComponentType { return CProcedure }
