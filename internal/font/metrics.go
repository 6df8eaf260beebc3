// Package font supplies glyph advance widths and vertical metrics to
// the editor. The editor core does not own font data; it consumes the
// Provider interface for hit-test bounds and row heights.
package font

// Metrics holds the vertical metrics of a face, in font units.
// Descender is negative (below the baseline), matching font
// coordinate conventions.
type Metrics struct {
	UnitsPerEm float64
	Ascender   float64
	Descender  float64
}

// LineHeight returns the vertical drop applied per line break.
func (m Metrics) LineHeight() float64 {
	return m.UnitsPerEm - m.Descender
}

// DefaultMetrics returns metrics for a nominal 1024-unit face, used
// when no font has been loaded.
func DefaultMetrics() Metrics {
	return Metrics{
		UnitsPerEm: 1024,
		Ascender:   768,
		Descender:  -256,
	}
}

// Provider resolves glyph advance widths and vertical metrics.
type Provider interface {
	// AdvanceWidth returns the horizontal advance for a glyph name,
	// in font units. Unknown glyphs return a usable default, never
	// an error: typing must not fail on a missing glyph.
	AdvanceWidth(glyphName string) float64

	// Metrics returns the face's vertical metrics.
	Metrics() Metrics
}

// Static is a table-backed provider, useful for tests and for fonts
// whose widths come from configuration rather than a compiled face.
type Static struct {
	Widths  map[string]float64
	Default float64
	Vert    Metrics
}

// AdvanceWidth implements Provider.
func (s Static) AdvanceWidth(glyphName string) float64 {
	if w, ok := s.Widths[glyphName]; ok {
		return w
	}
	return s.Default
}

// Metrics implements Provider.
func (s Static) Metrics() Metrics {
	return s.Vert
}
