// Package scripting demonstrates a consumer system whose execute body is
// a Lua function instead of Go: a single gopher-lua VM, directory-based
// script loading, and pcall-protected calls that marshal a flat
// key/value record into a lua.LTable and back. This is consumer surface
// exercising the core's System contract end-to-end, not part of the
// core itself.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only — the
// same constraint World.Execute itself runs under.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM and loads every *.lua file directly under
// scriptsDir (no subdirectory convention — this is a generic example, not
// a feature-area-organized script tree).
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	e := &Engine{vm: vm, log: log}

	entries, err := os.ReadDir(scriptsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return e, nil
		}
		vm.Close()
		return nil, fmt.Errorf("read scripts dir %s: %w", scriptsDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(scriptsDir, entry.Name())
		if err := vm.DoFile(path); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return e, nil
}

// Close releases the underlying VM.
func (e *Engine) Close() { e.vm.Close() }

// Call invokes the global Lua function fn with args marshaled into a
// single table argument, pcall-protected, and unmarshals its one
// returned table back into a map. A missing function or a runtime error
// inside the script is logged and reported as an error rather than
// panicking the caller's frame.
func (e *Engine) Call(fn string, args map[string]any) (map[string]any, error) {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		e.log.Error("lua function not found", zap.String("fn", fn))
		return nil, fmt.Errorf("scripting: lua function %q not found", fn)
	}

	t := e.vm.NewTable()
	for k, v := range args {
		t.RawSetString(k, toLua(v))
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua call failed", zap.String("fn", fn), zap.Error(err))
		return nil, fmt.Errorf("scripting: call %s: %w", fn, err)
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	result, ok := ret.(*lua.LTable)
	if !ok {
		return nil, nil
	}
	out := make(map[string]any)
	result.ForEach(func(k, v lua.LValue) {
		out[k.String()] = fromLua(v)
	})
	return out, nil
}

func toLua(v any) lua.LValue {
	switch x := v.(type) {
	case bool:
		return lua.LBool(x)
	case string:
		return lua.LString(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	default:
		return lua.LNil
	}
}

func fromLua(v lua.LValue) any {
	switch x := v.(type) {
	case lua.LBool:
		return bool(x)
	case lua.LString:
		return string(x)
	case lua.LNumber:
		return float64(x)
	default:
		return nil
	}
}
