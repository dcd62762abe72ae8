package detect

// Timers tracks consecutive time spent airborne and grounded, advanced
// once per fixed step. The movement controller reads the airborne span
// to gate coyote-time jumps.
type Timers struct {
	airborne float64
	grounded float64
}

// Advance accumulates dt into whichever span is active and resets the
// other.
func (t *Timers) Advance(dt float64, onFloor bool) {
	if t == nil {
		return
	}
	if onFloor {
		t.grounded += dt
		t.airborne = 0
		return
	}
	t.airborne += dt
	t.grounded = 0
}

// Airborne returns the consecutive seconds spent off the floor.
func (t *Timers) Airborne() float64 {
	if t == nil {
		return 0
	}
	return t.airborne
}

// Grounded returns the consecutive seconds spent on the floor.
func (t *Timers) Grounded() float64 {
	if t == nil {
		return 0
	}
	return t.grounded
}

// Reset clears both spans.
func (t *Timers) Reset() {
	if t == nil {
		return
	}
	t.airborne = 0
	t.grounded = 0
}
