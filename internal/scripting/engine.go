package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ErrNotDefined is returned when a script function is not defined.
var ErrNotDefined = errors.New("lua function not defined")

// Engine wraps a single gopher-lua VM holding the difficulty scripts.
// Single-goroutine access only (host loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script in scriptsDir, then
// the optional difficulty/ subdirectory. A missing directory loads nothing.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "difficulty")} {
		if err := e.loadDir(dir); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}

	return e, nil
}

// NewEngineFromSource runs a single chunk of Lua source. Used by tools and
// tests that do not ship script files.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load lua source: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	return &Engine{vm: vm, log: log}
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

// Defined reports whether a global Lua function exists.
func (e *Engine) Defined(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// --- Difficulty Bridge ---

// SpawnIntervalMS calls Lua spawn_interval_ms(survival_ms).
func (e *Engine) SpawnIntervalMS(survivalMS int64) (float64, error) {
	return e.callNumberFunc("spawn_interval_ms", survivalMS)
}

// TrafficSpeed calls Lua traffic_speed(survival_ms).
func (e *Engine) TrafficSpeed(survivalMS int64) (float64, error) {
	return e.callNumberFunc("traffic_speed", survivalMS)
}

// --- Lua helpers ---

// callNumberFunc calls a Lua function with integer args and returns its
// single numeric result.
func (e *Engine) callNumberFunc(name string, args ...int64) (float64, error) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrNotDefined)
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		return 0, fmt.Errorf("call %s: %w", name, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%s returned %s, want number", name, result.Type())
	}
	return float64(n), nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
