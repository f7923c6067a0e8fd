// Package scripting embeds a Lua VM for the wave-director decision layer:
// Go owns entity state and command execution, Lua owns the choreography
// decisions (what to spawn, when to pull orbiters into attack, how fast
// difficulty escalates). Every Lua entry point has a Go fallback so the
// engine runs without scripts.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (game
// loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. Missing directories are skipped, not errors.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "wave"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// WaveContext holds pre-packed state for one wave-planning call.
type WaveContext struct {
	Wave        int // current wave number (1-based)
	LiveEnemies int // entities in any live phase
	Orbiting    int // entities currently holding in orbit
	Score       int
	BaseOrbitMs int // config default orbit duration
}

// WaveCommand is one decision returned by the Lua planner.
type WaveCommand struct {
	Type      string // "spawn", "force_attack"
	Formation string // spawn: formation tag override ("" = wave table value)
	Count     int    // spawn: member count override (0 = wave table value)
	Group     int    // force_attack: how many orbiters to pull into attack
}

// RunWavePlanner calls the Lua plan_wave function. When the function is
// absent the planner returns nil and the director falls back to its Go
// default (spawn the next table wave when the field is clear).
func (e *Engine) RunWavePlanner(ctx WaveContext) []WaveCommand {
	fn := e.vm.GetGlobal("plan_wave")
	if fn == lua.LNil {
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("wave", lua.LNumber(ctx.Wave))
	t.RawSetString("live_enemies", lua.LNumber(ctx.LiveEnemies))
	t.RawSetString("orbiting", lua.LNumber(ctx.Orbiting))
	t.RawSetString("score", lua.LNumber(ctx.Score))
	t.RawSetString("base_orbit_ms", lua.LNumber(ctx.BaseOrbitMs))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua plan_wave failed", zap.Error(err))
		return nil
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	list, ok := ret.(*lua.LTable)
	if !ok {
		return nil
	}

	var cmds []WaveCommand
	list.ForEach(func(_, v lua.LValue) {
		entry, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		cmd := WaveCommand{
			Type:      lua.LVAsString(entry.RawGetString("type")),
			Formation: lua.LVAsString(entry.RawGetString("formation")),
			Count:     int(lua.LVAsNumber(entry.RawGetString("count"))),
			Group:     int(lua.LVAsNumber(entry.RawGetString("group"))),
		}
		if cmd.Type != "" {
			cmds = append(cmds, cmd)
		}
	})
	return cmds
}

// CalcOrbitDuration calls the Lua calc_orbit_duration function for the
// difficulty curve. Returns (0, false) when the function is absent or
// misbehaves, letting the director apply its Go default decay.
func (e *Engine) CalcOrbitDuration(wave, baseMs, floorMs int) (int, bool) {
	fn := e.vm.GetGlobal("calc_orbit_duration")
	if fn == lua.LNil {
		return 0, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(wave), lua.LNumber(baseMs), lua.LNumber(floorMs)); err != nil {
		e.log.Error("lua calc_orbit_duration failed", zap.Error(err))
		return 0, false
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok || int(n) <= 0 {
		return 0, false
	}
	ms := int(n)
	if ms < floorMs {
		ms = floorMs
	}
	return ms, true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
