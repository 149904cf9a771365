package ember

// Clock drives a set of emitters from one shared time source. Register
// emitters with Add and call Update once per frame; emitters with
// auto-update disabled stay registered but are skipped. There is no global
// clock; whoever owns the game loop owns the Clock.
type Clock struct {
	emitters []*Emitter
	scratch  []*Emitter
}

// NewClock creates an empty clock.
func NewClock() *Clock {
	return &Clock{}
}

// Add registers an emitter with this clock. An emitter belongs to at most
// one clock; adding it again moves it.
func (c *Clock) Add(e *Emitter) {
	if e == nil || e.clock == c {
		return
	}
	if e.clock != nil {
		e.clock.Remove(e)
	}
	e.clock = c
	c.emitters = append(c.emitters, e)
}

// Remove unregisters an emitter. No-op if the emitter is not registered
// with this clock.
func (c *Clock) Remove(e *Emitter) {
	if e == nil || e.clock != c {
		return
	}
	for i, em := range c.emitters {
		if em == e {
			copy(c.emitters[i:], c.emitters[i+1:])
			c.emitters[len(c.emitters)-1] = nil
			c.emitters = c.emitters[:len(c.emitters)-1]
			break
		}
	}
	e.clock = nil
}

// NumEmitters returns the number of registered emitters.
func (c *Clock) NumEmitters() int {
	return len(c.emitters)
}

// Update advances every registered auto-update emitter by dt seconds.
// Emitters destroyed during the tick (PlayOnceAndDestroy) unregister
// themselves safely; the iteration works on a snapshot.
func (c *Clock) Update(dt float64) {
	c.scratch = append(c.scratch[:0], c.emitters...)
	for _, e := range c.scratch {
		if e.autoUpdate && !e.destroyed {
			e.Update(dt)
		}
	}
}
