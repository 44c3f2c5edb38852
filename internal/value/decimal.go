package value

import "math/big"

// safePowerOfTenMax caps the exponent used when scaling decimal mantissas.
// Larger scales would exceed the mantissa range anyway, so the helper
// saturates instead of computing the true power.
const safePowerOfTenMax = 30

var powersOfTen = func() []*big.Int {
	out := make([]*big.Int, safePowerOfTenMax+1)
	p := big.NewInt(1)
	ten := big.NewInt(10)
	for i := range out {
		out[i] = new(big.Int).Set(p)
		p.Mul(p, ten)
	}
	return out
}()

// SafePowerOfTen returns 10^scale, saturating at 10^30 for larger scales and
// returning 1 for negative ones. It never panics for any scale in [0, 76].
func SafePowerOfTen(scale int32) *big.Int {
	if scale < 0 {
		scale = 0
	}
	if scale > safePowerOfTenMax {
		scale = safePowerOfTenMax
	}
	return powersOfTen[scale]
}
