package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Integer](v, lo, hi T) T {
	lo, hi = order(lo, hi)
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// Within reports lo <= v <= hi (order-insensitive).
func Within[T constraints.Integer](v, lo, hi T) bool {
	lo, hi = order(lo, hi)
	return v >= lo && v <= hi
}

// OrDefault returns def when v is outside [lo, hi].
func OrDefault[T constraints.Integer](v, lo, hi, def T) T {
	if Within(v, lo, hi) {
		return v
	}
	return def
}

// NonZero returns def when v is zero.
func NonZero[T constraints.Integer](v, def T) T {
	if v == 0 {
		return def
	}
	return v
}

func order[T constraints.Integer](a, b T) (T, T) {
	if b < a {
		return b, a
	}
	return a, b
}
