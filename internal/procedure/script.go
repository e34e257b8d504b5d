package procedure

import (
	"fmt"

	"github.com/Shopify/go-lua"

	"gameplay-abilities/internal/system"
	"gameplay-abilities/internal/tags"
)

// CheckScript compiles src without running it.
func CheckScript(src string) error {
	state := lua.NewState()
	if err := lua.LoadString(state, src); err != nil {
		return fmt.Errorf("compile lua: %w", err)
	}
	return nil
}

// runScript executes src with the ability bindings in scope. A chunk that
// returns false fails the step; any other result succeeds.
func (h *Host) runScript(ctx Context, src string) (bool, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	state.NewTable()
	lua.SetFunctions(state, h.bindings(ctx), 0)
	state.SetGlobal("ability")

	if err := lua.LoadString(state, src); err != nil {
		return false, fmt.Errorf("compile lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return false, fmt.Errorf("run lua: %w", err)
	}
	failed := state.IsBoolean(-1) && !state.ToBoolean(-1)
	state.Pop(1)
	return !failed, nil
}

func (h *Host) bindings(ctx Context) []lua.RegistryFunction {
	lookup := func(state *lua.State, arg int) tags.ID {
		name := lua.CheckString(state, arg)
		id, ok := ctx.Tags.Lookup(name)
		if !ok {
			lua.Errorf(state, "unknown tag %s", name)
		}
		return id
	}

	return []lua.RegistryFunction{
		{Name: "add_tag", Function: func(state *lua.State) int {
			system.AddTag(ctx.World, ctx.Owner, lookup(state, 1))
			return 0
		}},
		{Name: "remove_tag", Function: func(state *lua.State) int {
			system.RemoveTag(ctx.World, ctx.Owner, lookup(state, 1))
			return 0
		}},
		{Name: "has_tag", Function: func(state *lua.State) int {
			state.PushBoolean(system.HasTag(ctx.World, ctx.Tags, ctx.Owner, lookup(state, 1)))
			return 1
		}},
		{Name: "apply_tag", Function: func(state *lua.State) int {
			tag := lookup(state, 1)
			ticks := lua.CheckInteger(state, 2)
			state.PushBoolean(system.ApplyTagEffect(ctx.World, ctx.Owner, tag, ticks))
			return 1
		}},
		{Name: "trigger", Function: func(state *lua.State) int {
			name := lua.CheckString(state, 1)
			fn, ok := h.handlers[name]
			if !ok {
				lua.Errorf(state, "unknown trigger %s", name)
			}
			state.PushBoolean(fn(ctx))
			return 1
		}},
		{Name: "signal", Function: func(state *lua.State) int {
			state.PushInteger(ctx.Signal(lua.CheckString(state, 1)))
			return 1
		}},
		{Name: "tick", Function: func(state *lua.State) int {
			state.PushInteger(int(ctx.Tick))
			return 1
		}},
		{Name: "log", Function: func(state *lua.State) int {
			ctx.Log.Info(lua.CheckString(state, 1))
			return 0
		}},
	}
}
