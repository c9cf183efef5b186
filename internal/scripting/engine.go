package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gridcolony/navsim/internal/grid"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for agent decision scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Load core helpers first, then agent brains
	for _, sub := range []string{"core", "ai"} {
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

// HasFunc reports whether a global Lua function is defined.
func (e *Engine) HasFunc(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// WanderContext is the input to the choose_goal brain.
type WanderContext struct {
	X, Y int     // current cell
	Size int     // grid side length
	Roll float64 // uniform [0,1) supplied by the caller's rng
}

// ChooseGoal calls Lua choose_goal(x, y, size, roll), which returns the goal
// cell as two numbers, or nil to let the caller decide. ok is false when the
// function is missing, fails, or returns something unusable.
func (e *Engine) ChooseGoal(ctx WanderContext) (grid.Cell, bool) {
	fn := e.vm.GetGlobal("choose_goal")
	if fn == lua.LNil {
		return grid.Cell{}, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    2,
		Protect: true,
	}, lua.LNumber(ctx.X), lua.LNumber(ctx.Y), lua.LNumber(ctx.Size), lua.LNumber(ctx.Roll)); err != nil {
		e.log.Error("lua choose_goal error", zap.Error(err))
		return grid.Cell{}, false
	}

	lx := e.vm.Get(-2)
	ly := e.vm.Get(-1)
	e.vm.Pop(2)

	x, okx := lx.(lua.LNumber)
	y, oky := ly.(lua.LNumber)
	if !okx || !oky {
		return grid.Cell{}, false
	}
	c := grid.Cell{X: int(x), Y: int(y)}
	if !c.In(ctx.Size) {
		e.log.Warn("lua choose_goal out of bounds", zap.Int("x", c.X), zap.Int("y", c.Y))
		return grid.Cell{}, false
	}
	return c, true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
