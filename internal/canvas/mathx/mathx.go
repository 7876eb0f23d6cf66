// Package mathx holds the scalar helpers shared by canvas nodes and views.
package mathx

import "cogentcore.org/core/math32"

// Damping is the per-frame smoothing factor applied to scroll positions.
const Damping float32 = 0.1

type rangeOptions struct {
	constrainMin bool
	constrainMax bool
	round        bool
}

// RangeOption adjusts MapRange behavior.
type RangeOption func(*rangeOptions)

// Unconstrained lets MapRange extrapolate outside the source range.
func Unconstrained() RangeOption {
	return func(o *rangeOptions) {
		o.constrainMin = false
		o.constrainMax = false
	}
}

// Rounded rounds the mapped value to the nearest integer.
func Rounded() RangeOption {
	return func(o *rangeOptions) {
		o.round = true
	}
}

// MapRange converts x from [a, b] to [c, d]. Inputs outside [a, b] return
// the nearest bound unless Unconstrained is given.
func MapRange(x, a, b, c, d float32, opts ...RangeOption) float32 {
	o := rangeOptions{constrainMin: true, constrainMax: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.constrainMin && x <= a {
		return c
	}
	if o.constrainMax && x >= b {
		return d
	}
	if a == b {
		return c
	}
	value := (x-a)/(b-a)*(d-c) + c
	if o.round {
		return math32.Round(value)
	}
	return value
}

// Lerp interpolates from start toward end by amount.
func Lerp(start, end, amount float32) float32 {
	return (1-amount)*start + amount*end
}

// Damp moves current toward target by factor and never overshoots for
// factors in [0, 1].
func Damp(current, target, factor float32) float32 {
	return current + (target-current)*factor
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	return math32.Clamp(x, lo, hi)
}

// WrapIndex maps any integer onto [0, count).
func WrapIndex(index, count int) int {
	if count <= 0 {
		return 0
	}
	if index < 0 {
		return (count - abs(index%count)) % count
	}
	return index % count
}

// SnapIndex converts a continuous scroll offset into the nearest item index.
func SnapIndex(scroll, unit float32) int {
	if unit == 0 {
		return 0
	}
	return int(math32.Round(scroll / unit))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
