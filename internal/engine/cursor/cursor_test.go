package cursor

import "testing"

func TestNew(t *testing.T) {
	c := New()
	if c.Position() != 0 {
		t.Errorf("expected position 0, got %d", c.Position())
	}
	if _, ok := c.DesiredX(); ok {
		t.Error("expected no desired X on a fresh cursor")
	}
}

func TestAtFloorsNegative(t *testing.T) {
	if got := At(-5).Position(); got != 0 {
		t.Errorf("expected position 0, got %d", got)
	}
	if got := At(3).Position(); got != 3 {
		t.Errorf("expected position 3, got %d", got)
	}
}

func TestMoveTo(t *testing.T) {
	tests := []struct {
		name     string
		position int
		max      int
		want     int
	}{
		{"within range", 2, 5, 2},
		{"clamped high", 9, 5, 5},
		{"clamped low", -1, 5, 0},
		{"at max", 5, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New().MoveTo(tt.position, tt.max)
			if c.Position() != tt.want {
				t.Errorf("expected position %d, got %d", tt.want, c.Position())
			}
		})
	}
}

func TestMoveToClearsDesiredX(t *testing.T) {
	c := New().WithDesiredX(2, 750.0)
	if _, ok := c.DesiredX(); !ok {
		t.Fatal("expected desired X set")
	}
	c = c.MoveTo(3, 5)
	if _, ok := c.DesiredX(); ok {
		t.Error("expected MoveTo to clear desired X")
	}
}

func TestLeftStopsAtZero(t *testing.T) {
	c := At(1).Left()
	if c.Position() != 0 {
		t.Errorf("expected position 0, got %d", c.Position())
	}
	c = c.Left()
	if c.Position() != 0 {
		t.Errorf("expected Left at 0 to stay at 0, got %d", c.Position())
	}
}

func TestRightStopsAtMax(t *testing.T) {
	c := At(2).Right(3)
	if c.Position() != 3 {
		t.Errorf("expected position 3, got %d", c.Position())
	}
	c = c.Right(3)
	if c.Position() != 3 {
		t.Errorf("expected Right at max to stay at max, got %d", c.Position())
	}
}

func TestClampPreservesDesiredX(t *testing.T) {
	c := New().WithDesiredX(7, 1200.0)
	c = c.Clamp(4)
	if c.Position() != 4 {
		t.Errorf("expected position 4, got %d", c.Position())
	}
	x, ok := c.DesiredX()
	if !ok || x != 1200.0 {
		t.Errorf("expected desired X 1200.0 preserved, got %v (set=%v)", x, ok)
	}
}

func TestEquals(t *testing.T) {
	if !At(2).Equals(At(2)) {
		t.Error("expected cursors at same position to be equal")
	}
	if At(2).Equals(At(3)) {
		t.Error("expected cursors at different positions to differ")
	}
}
