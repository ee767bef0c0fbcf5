package scripting

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/umaroster/internal/resolve"
)

// RenameFunc is the global a name hook script must define:
//
//	function rename(kind, id, name) return new_name end
//
// Returning nil, an empty string, or name itself keeps the resolved name.
const RenameFunc = "rename"

// ErrNoRenameFunc is returned when a script does not define RenameFunc.
var ErrNoRenameFunc = errors.New("scripting: script does not define function " + RenameFunc)

// NameHook adapts a Lua script to resolve.NameFilter.
//
// NameHook is safe for concurrent use; calls into the single VM are
// serialized.
type NameHook struct {
	mu     sync.Mutex
	L      *lua.LState
	fn     *lua.LFunction
	limit  int
	logger *zap.Logger
}

var _ resolve.NameFilter = (*NameHook)(nil)

// LoadNameHook runs the script at path in a fresh sandbox and binds its
// rename function.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 uses DefaultInstructionLimit).
// Postcondition: Returns a ready NameHook or a non-nil error; the caller must Close it.
func LoadNameHook(path string, instLimit int, logger *zap.Logger) (*NameHook, error) {
	return loadNameHook(path, instLimit, logger, func(L *lua.LState) error { return L.DoFile(path) })
}

// LoadNameHookString is LoadNameHook for an in-memory script; name labels
// log entries and errors.
func LoadNameHookString(name, src string, instLimit int, logger *zap.Logger) (*NameHook, error) {
	return loadNameHook(name, instLimit, logger, func(L *lua.LState) error { return L.DoString(src) })
}

func loadNameHook(label string, instLimit int, logger *zap.Logger, run func(*lua.LState) error) (*NameHook, error) {
	L := NewSandboxedState()
	if err := RunLimited(L, instLimit, func() error { return run(L) }); err != nil {
		L.Close()
		return nil, fmt.Errorf("scripting: loading %q: %w", label, err)
	}
	fn, ok := L.GetGlobal(RenameFunc).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%w: %q", ErrNoRenameFunc, label)
	}
	logger.Info("name hook loaded", zap.String("script", label))
	return &NameHook{
		L:      L,
		fn:     fn,
		limit:  instLimit,
		logger: logger.With(zap.String("script", label)),
	}, nil
}

// Filter calls rename(kind, id, name). Lua runtime errors, including an
// exhausted instruction budget, are logged at Warn level and keep the
// resolved name.
//
// Postcondition: Returns "" when the resolved name should be kept.
func (h *NameHook) Filter(kind resolve.Kind, id uint64, name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var ret lua.LValue = lua.LNil
	err := RunLimited(h.L, h.limit, func() error {
		if err := h.L.CallByParam(lua.P{
			Fn:      h.fn,
			NRet:    1,
			Protect: true,
		}, lua.LString(kind), lua.LNumber(id), lua.LString(name)); err != nil {
			return err
		}
		ret = h.L.Get(-1)
		h.L.Pop(1)
		return nil
	})
	if err != nil {
		h.logger.Warn("name hook failed",
			zap.String("kind", string(kind)),
			zap.Uint64("id", id),
			zap.Error(err),
		)
		return ""
	}

	s, ok := ret.(lua.LString)
	if !ok || string(s) == name {
		return ""
	}
	return string(s)
}

// Close releases the Lua VM.
func (h *NameHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.L.Close()
}
