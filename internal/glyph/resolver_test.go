package glyph

import (
	"errors"
	"testing"
)

func TestStandardGlyphName(t *testing.T) {
	tests := []struct {
		r    rune
		want string
	}{
		{'a', "a"},
		{'Z', "Z"},
		{' ', "space"},
		{'!', "exclam"},
		{'.', "period"},
		{'0', "zero"},
		{'é', "uni00E9"},
		{'あ', "uni3042"},
	}
	for _, tt := range tests {
		got, ok := Standard{}.GlyphName(tt.r)
		if !ok {
			t.Errorf("%q: expected a name", tt.r)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.r, tt.want, got)
		}
	}
}

func TestRuneForName(t *testing.T) {
	tests := []struct {
		name string
		want rune
		ok   bool
	}{
		{"a", 'a', true},
		{"space", ' ', true},
		{"comma", ',', true},
		{"uni00E9", 'é', true},
		{"notaglyph", 0, false},
	}
	for _, tt := range tests {
		got, ok := RuneForName(tt.name)
		if ok != tt.ok {
			t.Errorf("%q: expected ok=%v, got %v", tt.name, tt.ok, ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestStandardRoundTrip(t *testing.T) {
	for _, r := range []rune{'a', 'Q', ' ', '%', 'ß'} {
		name, _ := Standard{}.GlyphName(r)
		back, ok := RuneForName(name)
		if !ok || back != r {
			t.Errorf("%q: round trip via %q gave %q (ok=%v)", r, name, back, ok)
		}
	}
}

// ============================================================================
// Lua Resolver
// ============================================================================

func TestLuaResolver(t *testing.T) {
	script := `
function glyph_name(codepoint)
	if codepoint == 97 then
		return "a.alt"
	end
	return nil
end
`
	lr, err := NewLuaResolver(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lr.Close()

	got, ok := lr.GlyphName('a')
	if !ok || got != "a.alt" {
		t.Errorf("expected %q, got %q (ok=%v)", "a.alt", got, ok)
	}

	// Declined codepoints fall back to the standard resolver.
	got, ok = lr.GlyphName('b')
	if !ok || got != "b" {
		t.Errorf("expected fallback %q, got %q (ok=%v)", "b", got, ok)
	}
}

func TestLuaResolverMissingFunction(t *testing.T) {
	_, err := NewLuaResolver(`x = 1`)
	if !errors.Is(err, ErrMissingFunction) {
		t.Errorf("expected ErrMissingFunction, got %v", err)
	}
}

func TestLuaResolverBadScript(t *testing.T) {
	_, err := NewLuaResolver(`function glyph_name(`)
	if err == nil {
		t.Error("expected a load error")
	}
}

func TestLuaResolverAfterClose(t *testing.T) {
	lr, err := NewLuaResolver(`function glyph_name(c) return "x" end`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lr.Close()

	got, ok := lr.GlyphName('a')
	if !ok || got != "a" {
		t.Errorf("expected fallback after close, got %q (ok=%v)", got, ok)
	}
}
