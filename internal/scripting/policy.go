// Package scripting runs toggle policies written in Lua.
//
// A policy script defines
//
//	function next_segment(clicked, snapshot) ... end
//
// and optionally first_segment(). Indices are zero-based and -1 is the
// filler. snapshot has the fields count, expanded and previous (-1 when
// there is no history). Any error, timeout, non-number or fractional result
// selects the filler.
//
// Scripts cannot touch the filesystem: require only resolves the built-in
// log module.
package scripting

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/shhac/roboaccordion/internal/accordion"
	apperrors "github.com/shhac/roboaccordion/internal/errors"
)

const (
	firstFunc = "first_segment"
	nextFunc  = "next_segment"

	// callTimeout bounds one decision so a runaway script cannot stall the UI.
	callTimeout = 100 * time.Millisecond
)

var _ accordion.TogglePolicy = (*Policy)(nil)

// Policy is an accordion.TogglePolicy whose decisions come from Lua.
// Calls are serialized; an LState is not safe for concurrent use.
type Policy struct {
	mu     sync.Mutex
	L      *lua.LState
	name   string
	logger *slog.Logger
}

// LoadPolicy reads and compiles a policy script from path.
func LoadPolicy(path string, logger *slog.Logger) (*Policy, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy script: %w", err)
	}
	return NewPolicy(filepath.Base(path), string(src), logger)
}

// NewPolicy compiles source. name is used in logs and errors.
func NewPolicy(name, source string, logger *slog.Logger) (*Policy, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(slog.String("script", name))

	L := newState(logger)
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("load policy script %s: %w", name, err)
	}
	if _, ok := L.GetGlobal(nextFunc).(*lua.LFunction); !ok {
		L.Close()
		return nil, apperrors.ValidationError{
			Field:   "policy",
			Message: fmt.Sprintf("script %s does not define %s(clicked, snapshot)", name, nextFunc),
		}
	}

	return &Policy{L: L, name: name, logger: logger}, nil
}

// newState opens a VM with only the base, table, string and math libraries
// plus the log module.
func newState(logger *slog.Logger) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("module", lua.LNil)

	L.SetGlobal("require", L.NewFunction(requireFunc(map[string]lua.LGFunction{
		"log": newLogModule(logger).Loader,
	})))
	return L
}

// requireFunc returns a require that only loads from modules, caching each
// module after its first load. The package library is never opened, so
// package.path cannot reach script files on disk.
func requireFunc(modules map[string]lua.LGFunction) lua.LGFunction {
	loaded := make(map[string]lua.LValue, len(modules))
	return func(L *lua.LState) int {
		name := L.CheckString(1)
		if mod, ok := loaded[name]; ok {
			L.Push(mod)
			return 1
		}
		loader, ok := modules[name]
		if !ok {
			L.RaiseError("module %q not found", name)
			return 0
		}

		L.Push(L.NewFunction(loader))
		L.Push(lua.LString(name))
		L.Call(1, 1)
		mod := L.Get(-1)
		L.Pop(1)
		if mod == lua.LNil {
			mod = lua.LTrue
		}
		loaded[name] = mod
		L.Push(mod)
		return 1
	}
}

// Name returns the script name.
func (p *Policy) Name() string {
	return p.name
}

// FirstSegmentToExpand calls first_segment, or returns 0 when the script
// does not define it.
func (p *Policy) FirstSegmentToExpand() int {
	index, defined := p.call(firstFunc)
	if !defined {
		return 0
	}
	return index
}

// NextSegmentToExpand calls next_segment.
func (p *Policy) NextSegmentToExpand(clicked int, snap accordion.Snapshot) int {
	p.mu.Lock()
	tbl := p.L.NewTable()
	tbl.RawSetString("count", lua.LNumber(snap.SegmentCount))
	tbl.RawSetString("expanded", lua.LNumber(snap.Expanded))
	tbl.RawSetString("previous", lua.LNumber(snap.PreviouslyExpanded))
	p.mu.Unlock()

	index, _ := p.call(nextFunc, lua.LNumber(clicked), tbl)
	return index
}

// call runs a global function and converts its single result. defined is
// false when the function does not exist.
func (p *Policy) call(name string, args ...lua.LValue) (index int, defined bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn, ok := p.L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return accordion.Filler, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	p.L.SetContext(ctx)
	defer p.L.RemoveContext()

	if err := p.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		p.logger.Error("policy script failed", slog.String("func", name), slog.Any("error", err))
		return accordion.Filler, true
	}
	ret := p.L.Get(-1)
	p.L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		if ret != lua.LNil {
			p.logger.Warn("policy script returned a non-number",
				slog.String("func", name),
				slog.String("type", ret.Type().String()))
		}
		return accordion.Filler, true
	}
	f := float64(n)
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		p.logger.Warn("policy script returned a non-integer",
			slog.String("func", name),
			slog.Float64("value", f))
		return accordion.Filler, true
	}
	return int(f), true
}

// Close releases the VM. The policy must not be used afterwards.
func (p *Policy) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.L.Close()
	return nil
}
