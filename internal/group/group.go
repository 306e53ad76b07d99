// Package group implements the prime-order group arithmetic shared by the
// Chaum-Pedersen prover and verifier: modular exponentiation, modular
// inverse via the extended Euclidean algorithm, and floor-mod reduction.
//
// Parameters (p, g, h) are immutable once constructed and are shared by
// both peers; mismatched peers simply fail verification, there is no
// negotiation.
package group

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Params holds the prime modulus and the two generators used by the
// Chaum-Pedersen protocol. The zero value is not valid; use DefaultParams
// or New.
type Params struct {
	P *big.Int
	G *big.Int
	H *big.Int
}

// DefaultParams returns the protocol's standard parameters: p = 2^255-19,
// g = 5, h = 3. No proof that g, h generate a subgroup of known prime
// order is performed here or anywhere else in this package — that check is
// a production hardening this module deliberately does not add (see
// spec.md §9).
func DefaultParams() Params {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	p.Sub(p, big.NewInt(19))
	return Params{
		P: p,
		G: big.NewInt(5),
		H: big.NewInt(3),
	}
}

// New validates and constructs a Params from caller-supplied values, e.g.
// the small test modulus used by spec.md §8's worked scenarios
// (p=10009, g=3, h=2).
func New(p, g, h *big.Int) (Params, error) {
	if p.Sign() <= 0 {
		return Params{}, fmt.Errorf("group: p must be positive")
	}
	if p.Bit(0) == 0 {
		return Params{}, fmt.Errorf("group: p must be odd")
	}
	if g.Sign() <= 0 || g.Cmp(p) >= 0 {
		return Params{}, fmt.Errorf("group: g must satisfy 0 < g < p")
	}
	if h.Sign() <= 0 || h.Cmp(p) >= 0 {
		return Params{}, fmt.Errorf("group: h must satisfy 0 < h < p")
	}
	return Params{
		P: new(big.Int).Set(p),
		G: new(big.Int).Set(g),
		H: new(big.Int).Set(h),
	}, nil
}

// Modpow computes base^exp mod p for exp >= 0.
func (params Params) Modpow(base, exp *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, params.P)
}

// ModInverse computes the modular inverse of a mod m via the extended
// Euclidean algorithm, returning the unique representative in [0, m).
// It panics if a and m share a common factor (a is not invertible mod m) —
// callers in this module only ever invert values derived from modpow
// outputs against the prime p, so this cannot happen for valid inputs.
func ModInverse(a, m *big.Int) *big.Int {
	a = ModFloor(a, m)

	// Extended Euclidean algorithm: track the remainders (old_r, r) and the
	// Bezout coefficients of a (old_t, t), keeping old_t*a ≡ old_r (mod m);
	// the loop ends with old_r = gcd(a, m).
	oldR, r := new(big.Int).Set(m), new(big.Int).Set(a)
	oldT, t := big.NewInt(0), big.NewInt(1)

	quotient := new(big.Int)
	tmp := new(big.Int)

	for r.Sign() != 0 {
		quotient.Div(oldR, r)

		oldR, r = r, tmp.Sub(oldR, tmp.Mul(quotient, r))
		tmp = new(big.Int)

		oldT, t = t, new(big.Int).Sub(oldT, new(big.Int).Mul(quotient, t))
	}

	if oldR.Cmp(big.NewInt(1)) != 0 {
		panic(fmt.Sprintf("group: %s has no inverse mod %s", a, m))
	}

	return ModFloor(oldT, m)
}

// ModFloor reduces a possibly-negative a into [0, m).
func ModFloor(a, m *big.Int) *big.Int {
	r := new(big.Int).Mod(a, m)
	if r.Sign() < 0 {
		r.Add(r, m)
	}
	return r
}

// PowSigned computes base^exp mod p for exp of either sign, per spec.md
// §4.1: for exp >= 0 it is an ordinary Modpow; for exp < 0 it computes
// v = base^(-exp) mod p and returns the modular inverse of v. Both
// verification-equation operands (the response s and the challenge c) run
// through this path uniformly, even though c is always generated
// non-negative — the branch is kept for symmetry with s, which may be
// negative.
func (params Params) PowSigned(base, exp *big.Int) *big.Int {
	if exp.Sign() >= 0 {
		return params.Modpow(base, exp)
	}
	negExp := new(big.Int).Neg(exp)
	v := params.Modpow(base, negExp)
	return ModInverse(v, params.P)
}

// RandomBits draws a uniformly random non-negative integer in [0, 2^bits).
func RandomBits(bits uint) (*big.Int, error) {
	byteLen := (bits + 7) / 8
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("group: read random bits: %w", err)
	}

	v := new(big.Int).SetBytes(buf)

	// Shift out any excess bits so the result is strictly < 2^bits.
	excess := byteLen*8 - bits
	if excess > 0 {
		v.Rsh(v, excess)
	}
	return v, nil
}
