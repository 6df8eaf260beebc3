package glyph

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Errors returned when loading resolver scripts.
var (
	// ErrMissingFunction indicates the script defines no glyph_name
	// function.
	ErrMissingFunction = errors.New("script does not define glyph_name(codepoint)")
)

// glyphNameFn is the global function a resolver script must define.
const glyphNameFn = "glyph_name"

// LuaResolver runs a user script to name glyphs, letting custom
// naming schemes (ligature sets, stylistic alternates, non-AGL fonts)
// plug in without recompiling. Codepoints the script declines fall
// back to the standard resolver.
type LuaResolver struct {
	mu       sync.Mutex
	state    *lua.LState
	fallback Resolver
}

// NewLuaResolver compiles and runs script, which must define a global
// function glyph_name(codepoint) returning a string (or nil to
// decline).
func NewLuaResolver(script string) (*LuaResolver, error) {
	state := lua.NewState()
	if err := state.DoString(script); err != nil {
		state.Close()
		return nil, fmt.Errorf("loading resolver script: %w", err)
	}
	if _, ok := state.GetGlobal(glyphNameFn).(*lua.LFunction); !ok {
		state.Close()
		return nil, ErrMissingFunction
	}
	return &LuaResolver{state: state, fallback: Standard{}}, nil
}

// GlyphName implements Resolver by calling the script's glyph_name
// function with the codepoint.
func (lr *LuaResolver) GlyphName(r rune) (string, bool) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	if lr.state == nil {
		return lr.fallback.GlyphName(r)
	}
	fn, ok := lr.state.GetGlobal(glyphNameFn).(*lua.LFunction)
	if !ok {
		return lr.fallback.GlyphName(r)
	}
	err := lr.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(r))
	if err != nil {
		return lr.fallback.GlyphName(r)
	}
	ret := lr.state.Get(-1)
	lr.state.Pop(1)

	if name, ok := ret.(lua.LString); ok && name != "" {
		return string(name), true
	}
	return lr.fallback.GlyphName(r)
}

// Close releases the Lua state. The resolver must not be used after
// Close.
func (lr *LuaResolver) Close() {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if lr.state != nil {
		lr.state.Close()
		lr.state = nil
	}
}
