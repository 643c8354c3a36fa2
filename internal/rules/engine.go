// Package rules runs designer-authored Lua predicates for level
// objectives. Unlike the player sandbox, these scripts ship with the
// game and are trusted; the engine favors safe fallbacks over hard
// failures so a broken objective script never crashes a rehearsal.
package rules

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/bandgo/server/internal/band"
)

// Engine wraps a single gopher-lua VM for objective checks.
// Single-goroutine access only (one rehearsal session at a time).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all objective scripts from
// the given directory. A missing directory yields an engine with no
// custom checks, which is fine: built-in objective kinds do not need
// Lua at all.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load objective scripts: %w", err)
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
		e.log.Debug("loaded objective script", zap.String("file", path))
	}
	return nil
}

// HasCheck reports whether a Lua function with the given name exists.
func (e *Engine) HasCheck(name string) bool {
	if name == "" {
		return false
	}
	return e.vm.GetGlobal(name) != lua.LNil
}

// Check calls the named Lua predicate with the objective params and the
// final positions and returns its boolean verdict. Any Lua fault is
// logged and counts as objective-not-met.
func (e *Engine) Check(name string, params map[string]any, snap band.Snapshot) bool {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua objective check not found", zap.String("name", name))
		return false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, e.paramsTable(params), e.positionsTable(snap)); err != nil {
		e.log.Error("lua objective check error", zap.String("name", name), zap.Error(err))
		return false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result == lua.LTrue
}

// paramsTable converts decoded YAML objective params into a Lua table.
func (e *Engine) paramsTable(params map[string]any) *lua.LTable {
	t := e.vm.NewTable()
	for k, v := range params {
		t.RawSetString(k, e.toLua(v))
	}
	return t
}

// positionsTable builds {name = {x = ..., y = ...}, ...} from a
// snapshot.
func (e *Engine) positionsTable(snap band.Snapshot) *lua.LTable {
	t := e.vm.NewTable()
	for name, p := range snap {
		pt := e.vm.NewTable()
		pt.RawSetString("x", lua.LNumber(p.X))
		pt.RawSetString("y", lua.LNumber(p.Y))
		t.RawSetString(name, pt)
	}
	return t
}

func (e *Engine) toLua(v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case string:
		return lua.LString(x)
	case []any:
		t := e.vm.NewTable()
		for _, item := range x {
			t.Append(e.toLua(item))
		}
		return t
	case map[string]any:
		t := e.vm.NewTable()
		for k, item := range x {
			t.RawSetString(k, e.toLua(item))
		}
		return t
	default:
		e.log.Warn("unsupported objective param type", zap.String("type", fmt.Sprintf("%T", v)))
		return lua.LNil
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
