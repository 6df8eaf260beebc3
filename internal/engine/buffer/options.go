package buffer

// DefaultCapacity is the initial slot count for a new buffer. Buffers
// are editor-sized (hundreds of entries), so a modest starting gap
// avoids early regrowth without wasting memory.
const DefaultCapacity = 64

// config holds construction-time settings.
type config struct {
	capacity int
}

// Option configures a Buffer during creation.
type Option func(*config)

// WithCapacity sets the initial slot count.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}
