package ember

import (
	"encoding/json"
	"fmt"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// EaseFunc maps a normalized time in [0, 1] to an eased value, usually also
// in [0, 1]. This is the single easing shape used everywhere in ember; the
// four-argument tween convention is adapted with TweenEase rather than
// detected at call time.
type EaseFunc func(t float64) float64

// TweenEase adapts a gween easing function (t, begin, change, duration) to
// ember's normalized one-argument form.
func TweenEase(fn ease.TweenFunc) EaseFunc {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// easeNames maps config ease names to gween easing functions.
var easeNames = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inQuart":      ease.InQuart,
	"outQuart":     ease.OutQuart,
	"inOutQuart":   ease.InOutQuart,
	"inQuint":      ease.InQuint,
	"outQuint":     ease.OutQuint,
	"inOutQuint":   ease.InOutQuint,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"inCirc":       ease.InCirc,
	"outCirc":      ease.OutCirc,
	"inOutCirc":    ease.InOutCirc,
	"inBack":       ease.InBack,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"inElastic":    ease.InElastic,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
	"inBounce":     ease.InBounce,
	"outBounce":    ease.OutBounce,
	"inOutBounce":  ease.InOutBounce,
}

// EaseByName returns the named easing function, adapted to EaseFunc.
func EaseByName(name string) (EaseFunc, error) {
	fn, ok := easeNames[name]
	if !ok {
		return nil, fmt.Errorf("ember: unknown ease %q", name)
	}
	return TweenEase(fn), nil
}

// EaseSegment is one hand-authored quadratic segment of a piecewise ease
// curve, as produced by effect editors: start value, control point, end
// value. Each segment covers an equal slice of the [0, 1] input range.
type EaseSegment struct {
	S  float64 `json:"s" yaml:"s"`
	CP float64 `json:"cp" yaml:"cp"`
	E  float64 `json:"e" yaml:"e"`
}

// SegmentEase compiles a list of quadratic segments into an EaseFunc.
// Returns nil if segments is empty.
func SegmentEase(segments []EaseSegment) EaseFunc {
	if len(segments) == 0 {
		return nil
	}
	// Copy so later mutation of the caller's slice can't change the curve.
	segs := make([]EaseSegment, len(segments))
	copy(segs, segments)
	qty := float64(len(segs))
	return func(t float64) float64 {
		i := int(qty * t)
		if i >= len(segs) {
			i = len(segs) - 1
		} else if i < 0 {
			i = 0
		}
		local := (t - float64(i)/qty) * qty
		s := segs[i]
		return s.S + local*(2*(1-local)*(s.CP-s.S)+local*(s.E-s.S))
	}
}

// EaseConfig is the serialized form of an ease: either a name from the
// built-in table ("outQuad") or a list of quadratic segments. The zero value
// means no easing.
type EaseConfig struct {
	Name     string
	Segments []EaseSegment
}

// Func resolves the config into an EaseFunc. A zero EaseConfig resolves to
// nil, meaning linear/no easing.
func (c EaseConfig) Func() (EaseFunc, error) {
	switch {
	case len(c.Segments) > 0:
		return SegmentEase(c.Segments), nil
	case c.Name != "":
		return EaseByName(c.Name)
	default:
		return nil, nil
	}
}

// UnmarshalJSON accepts either a string name or an array of segments.
func (c *EaseConfig) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.Name)
	}
	return json.Unmarshal(data, &c.Segments)
}

// MarshalJSON emits whichever form the config holds.
func (c EaseConfig) MarshalJSON() ([]byte, error) {
	if len(c.Segments) > 0 {
		return json.Marshal(c.Segments)
	}
	return json.Marshal(c.Name)
}

// UnmarshalYAML accepts either a scalar name or a sequence of segments.
func (c *EaseConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Name)
	}
	return node.Decode(&c.Segments)
}
