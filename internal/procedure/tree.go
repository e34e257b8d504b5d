// Package procedure runs the multi-step execution procedure an ability owns
// while it is active. A Tree is the template stored on an ability
// definition; the Host instantiates it as a child entity of the ability
// owner and advances it once per tick until it succeeds or fails.
package procedure

import (
	"errors"
	"fmt"

	"gameplay-abilities/internal/ability"
)

// StepKind is the kind of a procedure step.
type StepKind uint8

const (
	// StepWait blocks for Ticks ticks.
	StepWait StepKind = iota
	// StepAwait blocks until the signal Name is delivered.
	StepAwait
	// StepTrigger calls the Go handler registered under Name.
	StepTrigger
	// StepScript runs a Lua chunk.
	StepScript
)

func (k StepKind) String() string {
	switch k {
	case StepWait:
		return "wait"
	case StepAwait:
		return "await"
	case StepTrigger:
		return "trigger"
	case StepScript:
		return "script"
	default:
		return fmt.Sprintf("StepKind(%d)", uint8(k))
	}
}

// ParseStepKind maps a step name to its kind.
func ParseStepKind(s string) (StepKind, error) {
	switch s {
	case "wait":
		return StepWait, nil
	case "await":
		return StepAwait, nil
	case "trigger":
		return StepTrigger, nil
	case "script":
		return StepScript, nil
	}
	return 0, fmt.Errorf("unknown step kind %q", s)
}

// Step is one node of a procedure.
type Step struct {
	Kind   StepKind
	Ticks  int
	Name   string
	Script string
}

func Wait(ticks int) Step         { return Step{Kind: StepWait, Ticks: ticks} }
func Await(signal string) Step    { return Step{Kind: StepAwait, Name: signal} }
func Trigger(handler string) Step { return Step{Kind: StepTrigger, Name: handler} }
func Script(src string) Step      { return Step{Kind: StepScript, Script: src} }

// Tree is an ordered sequence of steps. It implements ability.Template.
type Tree struct {
	Name  string
	Steps []Step
}

// NewTree returns a tree running steps in order.
func NewTree(name string, steps ...Step) Tree {
	return Tree{Name: name, Steps: append([]Step(nil), steps...)}
}

// Clone implements ability.Template.
func (t Tree) Clone() ability.Template {
	return Tree{Name: t.Name, Steps: append([]Step(nil), t.Steps...)}
}

var errEmptyName = errors.New("step needs a name")

// Validate checks every step is well formed. Lua chunks are compiled but
// not run.
func (t Tree) Validate() error {
	for i, s := range t.Steps {
		var err error
		switch s.Kind {
		case StepWait:
			if s.Ticks < 0 {
				err = fmt.Errorf("negative wait %d", s.Ticks)
			}
		case StepAwait, StepTrigger:
			if s.Name == "" {
				err = errEmptyName
			}
		case StepScript:
			err = CheckScript(s.Script)
		default:
			err = fmt.Errorf("unknown step kind %d", s.Kind)
		}
		if err != nil {
			return fmt.Errorf("procedure %q step %d (%s): %w", t.Name, i, s.Kind, err)
		}
	}
	return nil
}

func asTree(t ability.Template) (Tree, bool) {
	switch v := t.(type) {
	case Tree:
		return v, true
	case *Tree:
		if v == nil {
			return Tree{}, false
		}
		return *v, true
	}
	return Tree{}, false
}
