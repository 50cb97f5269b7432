package mathhelp

// BetweenInc reports whether f lies within [p,q], regardless of which of
// p, q is larger.
func BetweenInc(f, p, q int64) bool {
	if p <= q {
		return p <= f && f <= q
	}
	return q <= f && f <= p
}

// Pow2 returns 2^n.
func Pow2(n uint) uint {
	return 1 << n
}
