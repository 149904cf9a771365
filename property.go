package ember

// PropertyNode is one keyframe in a singly-linked keyframe chain: the value a
// property holds at a normalized time in [0, 1]. Times must strictly
// increase along the chain; the head's time is conventionally 0 and the last
// node's time is conventionally 1.
//
// IsStepped and Ease are only meaningful on the head node.
type PropertyNode[V any] struct {
	Value V
	Time  float64
	Next  *PropertyNode[V]

	// IsStepped selects held-value evaluation: the list returns the value of
	// the last keyframe at or before the lerp time, with no blending.
	IsStepped bool
	// Ease, when set, is applied to the global lerp value before the
	// segment lookup on every evaluation.
	Ease EaseFunc
}

// PropertyList evaluates a keyframe chain at a normalized age. The
// evaluation strategy (constant, simple two-keyframe blend, stepped walk, or
// generic multi-segment walk) is resolved once at Reset time, so Interpolate
// itself carries no structural branching.
type PropertyList[V any] struct {
	first  *PropertyNode[V]
	ease   EaseFunc
	interp func(lerp float64) V
	blend  func(a, b V, t float64) V
}

// NewFloatList creates a PropertyList evaluating scalar keyframes.
func NewFloatList(first *PropertyNode[float64]) *PropertyList[float64] {
	l := &PropertyList[float64]{blend: lerp}
	l.Reset(first)
	return l
}

// NewColorList creates a PropertyList evaluating color keyframes. Each
// channel is interpolated independently and recombined.
func NewColorList(first *PropertyNode[Color]) *PropertyList[Color] {
	l := &PropertyList[Color]{blend: lerpColor}
	l.Reset(first)
	return l
}

// Reset binds the list to a new keyframe chain and re-selects the evaluation
// strategy. Panics if first is nil.
func (l *PropertyList[V]) Reset(first *PropertyNode[V]) {
	if first == nil {
		panic("ember: property list needs at least one keyframe")
	}
	l.first = first
	l.ease = first.Ease
	switch {
	case first.Next == nil:
		l.interp = l.interpConstant
	case first.IsStepped:
		l.interp = l.interpStepped
	case first.Next.Time >= 1 && first.Next.Next == nil:
		// Exactly two keyframes spanning the whole range: direct blend,
		// no segment search.
		l.interp = l.interpSimple
	default:
		l.interp = l.interpComplex
	}
}

// First returns the head of the bound keyframe chain.
func (l *PropertyList[V]) First() *PropertyNode[V] {
	return l.first
}

// Interpolate evaluates the list at lerp, which is expected to be in [0, 1].
// Values that drift past the final keyframe due to floating error clamp to
// the final segment rather than walking off the chain.
func (l *PropertyList[V]) Interpolate(lerp float64) V {
	if l.ease != nil {
		lerp = l.ease(lerp)
	}
	return l.interp(lerp)
}

func (l *PropertyList[V]) interpConstant(lerp float64) V {
	return l.first.Value
}

func (l *PropertyList[V]) interpSimple(lerp float64) V {
	return l.blend(l.first.Value, l.first.Next.Value, lerp)
}

func (l *PropertyList[V]) interpStepped(lerp float64) V {
	cur := l.first
	for cur.Next != nil && lerp >= cur.Next.Time {
		cur = cur.Next
	}
	return cur.Value
}

func (l *PropertyList[V]) interpComplex(lerp float64) V {
	cur := l.first
	next := cur.Next
	for next != nil && lerp > next.Time {
		cur = next
		next = next.Next
	}
	if next == nil {
		// lerp exceeded the final keyframe's time; hold the last value.
		return cur.Value
	}
	t := (lerp - cur.Time) / (next.Time - cur.Time)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return l.blend(cur.Value, next.Value, t)
}
