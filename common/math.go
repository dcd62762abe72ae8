package common

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0, or 1 for v.
func Sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

// MoveToward moves v toward target by at most step, never overshooting.
func MoveToward(v, target, step float64) float64 {
	if step < 0 {
		step = -step
	}
	if v < target {
		v += step
		if v > target {
			return target
		}
		return v
	}
	v -= step
	if v < target {
		return target
	}
	return v
}
