package scripting

import (
	"log/slog"

	lua "github.com/yuin/gopher-lua"
)

// logModule exposes log.debug/info/warn/error(msg, fields) to scripts.
type logModule struct {
	logger *slog.Logger
}

func newLogModule(logger *slog.Logger) *logModule {
	return &logModule{logger: logger.With(slog.String("source", "lua"))}
}

// Loader is the module loader for Lua
func (m *logModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "debug", L.NewFunction(m.logFunc(slog.LevelDebug)))
	L.SetField(mod, "info", L.NewFunction(m.logFunc(slog.LevelInfo)))
	L.SetField(mod, "warn", L.NewFunction(m.logFunc(slog.LevelWarn)))
	L.SetField(mod, "error", L.NewFunction(m.logFunc(slog.LevelError)))

	L.Push(mod)
	return 1
}

func (m *logModule) logFunc(level slog.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		m.logger.LogAttrs(L.Context(), level, msg, parseFields(L, 2)...)
		return 0
	}
}

// parseFields turns an optional table argument into attributes.
func parseFields(L *lua.LState, idx int) []slog.Attr {
	tbl, ok := L.Get(idx).(*lua.LTable)
	if !ok {
		return nil
	}
	var attrs []slog.Attr
	tbl.ForEach(func(k, v lua.LValue) {
		key := lua.LVAsString(k)
		switch val := v.(type) {
		case lua.LNumber:
			attrs = append(attrs, slog.Float64(key, float64(val)))
		case lua.LBool:
			attrs = append(attrs, slog.Bool(key, bool(val)))
		default:
			attrs = append(attrs, slog.String(key, v.String()))
		}
	})
	return attrs
}
