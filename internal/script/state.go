// Package script provides the Lua console used to drive documents.
//
// A State is a sandboxed gopher-lua interpreter: only the base, table,
// string and math libraries are opened, and every run is bounded by a
// timeout. Modules such as MapModule install Go functions into it.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single run when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// ErrStateClosed is returned when running code on a closed State.
var ErrStateClosed = errors.New("lua state is closed")

// Module installs functions into a Lua state.
type Module interface {
	Register(L *lua.LState) error
}

// State wraps a gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes all runs.
type State struct {
	mu sync.Mutex

	L       *lua.LState
	timeout time.Duration
	out     io.Writer
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout bounds each run. Zero disables the limit.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithOutput redirects print to w.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		if w != nil {
			s.out = w
		}
	}
}

// NewState creates a sandboxed Lua state and registers modules into it.
func NewState(modules []Module, opts ...StateOption) (*State, error) {
	s := &State{
		timeout: DefaultTimeout,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.installPrint()

	for _, m := range modules {
		if err := m.Register(s.L); err != nil {
			s.L.Close()
			return nil, fmt.Errorf("registering module: %w", err)
		}
	}
	return s, nil
}

// openSafeLibraries opens the libraries that cannot touch the host.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// The base library can still load code from disk or strings.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// installPrint replaces print so output goes to the configured writer.
func (s *State) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(s.out, strings.Join(parts, "\t"))
		return 0
	}))
}

// DoString runs a chunk of Lua code.
func (s *State) DoString(ctx context.Context, code string) error {
	_, err := s.run(ctx, func(L *lua.LState) (*lua.LFunction, error) {
		return L.LoadString(code)
	})
	return err
}

// DoFile runs a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	_, err := s.run(ctx, func(L *lua.LState) (*lua.LFunction, error) {
		return L.LoadFile(path)
	})
	return err
}

// Eval runs code and returns the values it returns.
func (s *State) Eval(ctx context.Context, code string) ([]lua.LValue, error) {
	return s.run(ctx, func(L *lua.LState) (*lua.LFunction, error) {
		return L.LoadString(code)
	})
}

// run compiles a chunk with load and calls it under the run timeout.
func (s *State) run(ctx context.Context, load func(*lua.LState) (*lua.LFunction, error)) (results []lua.LValue, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	fn, err := load(s.L)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := s.L.GetTop()
	s.L.Push(fn)
	if err := s.L.PCall(0, lua.MultRet, nil); err != nil {
		s.L.SetTop(top)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("script stopped: %w", ctxErr)
		}
		return nil, err
	}

	n := s.L.GetTop() - top
	results = make([]lua.LValue, n)
	for i := range n {
		results[i] = s.L.Get(top + i + 1)
	}
	s.L.SetTop(top)
	return results, nil
}

// Close releases the Lua state.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
