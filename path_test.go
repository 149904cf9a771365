package ember

import (
	"math"
	"testing"
)

func TestParsePath(t *testing.T) {
	cases := []struct {
		expr string
		x    float64
		want float64
	}{
		{"x", 4, 4},
		{"5", 99, 5},
		{"-x", 3, -3},
		{"x + 1", 2, 3},
		{"x - 10", 2, -8},
		{"2*x", 3, 6},
		{"x/4", 10, 2.5},
		{"x*x", 5, 25},
		{"x^2", 5, 25},
		{"2^3^2", 0, 512}, // right associative
		{"x*x/50 - 3*x", 10, -28},
		{"(x + 1) * 2", 2, 6},
		{"sin(x)", math.Pi / 2, 1},
		{"cos(x)", 0, 1},
		{"abs(x)", -7, 7},
		{"sqrt(x)", 16, 4},
		{"sin(x/10)*20", 10 * math.Pi / 2, 20},
		{"0.5*x + 0.25", 1, 0.75},
	}
	for _, c := range cases {
		fn, err := ParsePath(c.expr)
		if err != nil {
			t.Errorf("ParsePath(%q): %v", c.expr, err)
			continue
		}
		if got := fn(c.x); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%q at x=%v = %v, want %v", c.expr, c.x, got, c.want)
		}
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"x +",
		"(x",
		"foo(x)",
		"sin x",
		"x 2",
		"1..2",
		"x $ 2",
	} {
		if _, err := ParsePath(expr); err == nil {
			t.Errorf("ParsePath(%q) err = nil, want error", expr)
		}
	}
}

func TestPathBehaviorStraightLine(t *testing.T) {
	// Path y = 0 at constant speed 10 is plain forward motion.
	path, err := ParsePath("0")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	b := NewPathBehavior(path, twoKeyList(10, 10), 0)
	p := makeWave(1)

	b.InitParticles(p)
	b.UpdateParticle(p, 1)
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Errorf("position = (%v, %v), want (10, 0)", p.X, p.Y)
	}
}

func TestPathBehaviorRelativeToSpawn(t *testing.T) {
	// Path y = x rotated 90 degrees from a spawn offset: the path's local
	// (d, d) maps to world (-d, d) plus the spawn point.
	path, err := ParsePath("x")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	b := NewPathBehavior(path, twoKeyList(10, 10), 0)
	p := makeWave(1)
	p.X, p.Y = 100, 200
	p.Rotation = math.Pi / 2

	b.InitParticles(p)
	b.UpdateParticle(p, 1)
	if math.Abs(p.X-90) > 1e-9 || math.Abs(p.Y-210) > 1e-9 {
		t.Errorf("position = (%v, %v), want (90, 210)", p.X, p.Y)
	}
}

func TestPathBehaviorAccumulates(t *testing.T) {
	path, err := ParsePath("0")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	b := NewPathBehavior(path, twoKeyList(10, 10), 0)
	p := makeWave(1)

	b.InitParticles(p)
	b.UpdateParticle(p, 0.5)
	b.UpdateParticle(p, 0.5)
	if math.Abs(p.X-10) > 1e-9 {
		t.Errorf("X after two half ticks = %v, want 10", p.X)
	}
}
