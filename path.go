package ember

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
)

// PathBehavior moves particles along a function y = f(x) expressed relative
// to each particle's spawn position and rotation. Movement along the path's
// x axis is driven by a speed keyframe list, so a particle's progress can
// accelerate or stall over its life.
type PathBehavior struct {
	path    func(x float64) float64
	speed   *PropertyList[float64]
	minMult float64
}

// NewPathBehavior creates a path behavior from a compiled path function.
// Use ParsePath to compile a path expression string.
func NewPathBehavior(path func(x float64) float64, speed *PropertyList[float64], minMult float64) *PathBehavior {
	if minMult <= 0 || minMult > 1 {
		minMult = 1
	}
	return &PathBehavior{path: path, speed: speed, minMult: minMult}
}

// Runs after the synthetic position step so the spawn transform it captures
// is final.
func (b *PathBehavior) Order() int { return OrderLate }

func (b *PathBehavior) InitParticles(first *Particle) {
	for p := first; p != nil; p = p.next {
		p.speedMult = 1.0
		if b.minMult < 1 {
			p.speedMult = b.minMult + rand.Float64()*(1-b.minMult)
		}
		p.pathInitX = p.X
		p.pathInitY = p.Y
		p.pathSin, p.pathCos = math.Sincos(p.Rotation)
		p.pathMovement = 0
	}
}

func (b *PathBehavior) UpdateParticle(p *Particle, dt float64) bool {
	p.pathMovement += b.speed.Interpolate(p.agePercent) * p.speedMult * dt
	x := p.pathMovement
	y := b.path(x)
	p.X = p.pathInitX + p.pathCos*x - p.pathSin*y
	p.Y = p.pathInitY + p.pathSin*x + p.pathCos*y
	return false
}

func newPathFactory(ctx BehaviorContext) (Behavior, error) {
	var cfg struct {
		Path    string      `json:"path" yaml:"path"`
		Speed   FloatValues `json:"speed" yaml:"speed"`
		MinMult float64     `json:"minMult" yaml:"minMult"`
	}
	if err := ctx.Decode(&cfg); err != nil {
		return nil, err
	}
	path, err := ParsePath(cfg.Path)
	if err != nil {
		return nil, err
	}
	speed, err := cfg.Speed.PropertyList()
	if err != nil {
		return nil, err
	}
	return NewPathBehavior(path, speed, cfg.MinMult), nil
}

// ParsePath compiles a path expression in the variable x, e.g.
// "sin(x/10)*20" or "x*x/50 - 3*x", into a function. Supported: numeric
// literals, x, + - * / ^, parentheses, and the functions sin, cos, tan, abs
// and sqrt.
func ParsePath(expr string) (func(x float64) float64, error) {
	p := &pathParser{src: expr}
	fn, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("ember: invalid path %q: %w", expr, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("ember: invalid path %q: unexpected %q", expr, p.src[p.pos:])
	}
	return fn, nil
}

// pathParser is a small recursive-descent parser with standard precedence:
// ^ binds tightest, then * /, then + -.
type pathParser struct {
	src string
	pos int
}

type pathFn = func(x float64) float64

func (p *pathParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *pathParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *pathParser) parseExpr() (pathFn, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			l, r := left, right
			left = func(x float64) float64 { return l(x) + r(x) }
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			l, r := left, right
			left = func(x float64) float64 { return l(x) - r(x) }
		default:
			return left, nil
		}
	}
}

func (p *pathParser) parseTerm() (pathFn, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			l, r := left, right
			left = func(x float64) float64 { return l(x) * r(x) }
		case '/':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			l, r := left, right
			left = func(x float64) float64 { return l(x) / r(x) }
		default:
			return left, nil
		}
	}
}

func (p *pathParser) parseUnary() (pathFn, error) {
	if p.peek() == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return -operand(x) }, nil
	}
	return p.parsePower()
}

func (p *pathParser) parsePower() (pathFn, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	// Right associative: 2^3^2 is 2^(3^2).
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return func(x float64) float64 { return math.Pow(base(x), exp(x)) }, nil
}

var pathFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"abs":  math.Abs,
	"sqrt": math.Sqrt,
}

func (p *pathParser) parsePrimary() (pathFn, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing )")
		}
		p.pos++
		return inner, nil
	case c == 'x' && !p.identAhead():
		p.pos++
		return func(x float64) float64 { return x }, nil
	case c >= 'a' && c <= 'z':
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= 'a' && p.src[p.pos] <= 'z' {
			p.pos++
		}
		name := p.src[start:p.pos]
		fn, ok := pathFuncs[name]
		if !ok {
			return nil, fmt.Errorf("unknown function %q", name)
		}
		if p.peek() != '(' {
			return nil, fmt.Errorf("expected ( after %q", name)
		}
		p.pos++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing )")
		}
		p.pos++
		return func(x float64) float64 { return fn(inner(x)) }, nil
	case c >= '0' && c <= '9' || c == '.':
		start := p.pos
		for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
			p.pos++
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", p.src[start:p.pos])
		}
		return func(float64) float64 { return v }, nil
	case c == 0:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q", string(c))
	}
}

// identAhead reports whether the byte at pos starts a multi-letter
// identifier rather than the bare variable x.
func (p *pathParser) identAhead() bool {
	next := p.pos + 1
	return next < len(p.src) && p.src[next] >= 'a' && p.src[next] <= 'z'
}

