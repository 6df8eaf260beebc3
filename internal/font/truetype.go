package font

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/dshills/galley/internal/glyph"
)

// Face is a Provider backed by a parsed TrueType font. The face is
// rasterized at one pixel per font unit so advances come back in font
// units directly.
type Face struct {
	mu      sync.Mutex
	face    xfont.Face
	metrics Metrics
}

// ParseTTF parses TrueType data into a Face.
func ParseTTF(data []byte) (*Face, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	upm := float64(f.FUnitsPerEm())
	face := truetype.NewFace(f, &truetype.Options{
		Size:    upm,
		DPI:     72,
		Hinting: xfont.HintingNone,
	})
	fm := face.Metrics()
	return &Face{
		face: face,
		metrics: Metrics{
			UnitsPerEm: upm,
			Ascender:   fixedToFloat(fm.Ascent),
			Descender:  -fixedToFloat(fm.Descent),
		},
	}, nil
}

// LoadFace reads and parses a TrueType file.
func LoadFace(path string) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", path, err)
	}
	return ParseTTF(data)
}

var (
	regularOnce sync.Once
	regularFace *Face
)

// Regular returns the embedded Go Regular face, the default when no
// font path is configured.
func Regular() *Face {
	regularOnce.Do(func() {
		face, err := ParseTTF(goregular.TTF)
		if err != nil {
			// The embedded font is known-good; a parse failure here
			// means a toolchain problem, not user input.
			panic(fmt.Sprintf("parsing embedded goregular: %v", err))
		}
		regularFace = face
	})
	return regularFace
}

// AdvanceWidth implements Provider. Glyph names resolve to runes via
// AGL conventions; glyphs the face lacks fall back to half an em.
func (f *Face) AdvanceWidth(glyphName string) float64 {
	r, ok := glyph.RuneForName(glyphName)
	if !ok {
		return f.metrics.UnitsPerEm / 2
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		return f.metrics.UnitsPerEm / 2
	}
	return fixedToFloat(adv)
}

// Metrics implements Provider.
func (f *Face) Metrics() Metrics {
	return f.metrics
}

// fixedToFloat converts a 26.6 fixed-point value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
