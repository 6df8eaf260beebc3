// Package glyph maps typed characters to glyph names and back. The
// buffer itself never interprets raw keystrokes; a Resolver does the
// translation before insertion.
package glyph

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Resolver maps a character to the glyph name to insert for it.
type Resolver interface {
	GlyphName(r rune) (string, bool)
}

// postscript names for ASCII punctuation, per the Adobe Glyph List.
var namesByRune = map[rune]string{
	' ':  "space",
	'!':  "exclam",
	'"':  "quotedbl",
	'#':  "numbersign",
	'$':  "dollar",
	'%':  "percent",
	'&':  "ampersand",
	'\'': "quotesingle",
	'(':  "parenleft",
	')':  "parenright",
	'*':  "asterisk",
	'+':  "plus",
	',':  "comma",
	'-':  "hyphen",
	'.':  "period",
	'/':  "slash",
	'0':  "zero",
	'1':  "one",
	'2':  "two",
	'3':  "three",
	'4':  "four",
	'5':  "five",
	'6':  "six",
	'7':  "seven",
	'8':  "eight",
	'9':  "nine",
	':':  "colon",
	';':  "semicolon",
	'<':  "less",
	'=':  "equal",
	'>':  "greater",
	'?':  "question",
	'@':  "at",
	'[':  "bracketleft",
	'\\': "backslash",
	']':  "bracketright",
	'^':  "asciicircum",
	'_':  "underscore",
	'`':  "grave",
	'{':  "braceleft",
	'|':  "bar",
	'}':  "braceright",
	'~':  "asciitilde",
}

var runesByName = func() map[string]rune {
	m := make(map[string]rune, len(namesByRune))
	for r, name := range namesByRune {
		m[name] = r
	}
	return m
}()

// Standard resolves characters using Adobe Glyph List conventions:
// letters name themselves, punctuation uses its PostScript name, and
// everything else falls back to uniXXXX.
type Standard struct{}

// GlyphName implements Resolver. It never fails; the uniXXXX fallback
// covers every codepoint.
func (Standard) GlyphName(r rune) (string, bool) {
	if name, ok := namesByRune[r]; ok {
		return name, true
	}
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return string(r), true
	}
	return fmt.Sprintf("uni%04X", r), true
}

// RuneForName inverts GlyphName: PostScript punctuation names,
// single-rune names, and uniXXXX forms all resolve.
func RuneForName(name string) (rune, bool) {
	if r, ok := runesByName[name]; ok {
		return r, true
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return r, true
	}
	if hex, found := strings.CutPrefix(name, "uni"); found && len(hex) == 4 {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return rune(v), true
		}
	}
	return 0, false
}
