// Package fuzzy provides piecewise-linear membership functions and the
// fixed skin-profile fuzzifier built on them.
package fuzzy

// Trapezoidal evaluates a trapezoidal membership function with breakpoints
// a <= b <= c <= d. It is 0 at and beyond a and d, 1 on [b,c], and linear on
// the ramps. A shoulder is expressed with a == b or c == d.
//
// The x <= a check runs first, so a left shoulder at a == b still yields 0 at x == a.
func Trapezoidal(x, a, b, c, d float64) float64 {
	if x <= a || x >= d {
		return 0
	}
	if x >= b && x <= c {
		return 1
	}
	if x > a && x < b {
		return ramp(x-a, b-a)
	}
	return ramp(d-x, d-c)
}

// Triangular evaluates a triangular membership function with a <= b <= c.
//
// The peak uses exact float equality, which is sound for the integral slider
// values the quiz produces. Continuous callers landing a hair off b get a value
// just below 1 from the ramp instead.
func Triangular(x, a, b, c float64) float64 {
	if x <= a || x >= c {
		return 0
	}
	if x == b {
		return 1
	}
	if x > a && x < b {
		return ramp(x-a, b-a)
	}
	return ramp(c-x, c-b)
}

// ramp divides along a membership slope. A zero or negative span is a step.
func ramp(num, span float64) float64 {
	if span <= 0 {
		return 1
	}
	return num / span
}
