package group

import (
	"math/big"
	"testing"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	want := new(big.Int).Lsh(big.NewInt(1), 255)
	want.Sub(want, big.NewInt(19))

	if p.P.Cmp(want) != 0 {
		t.Fatalf("p = %s, want 2^255-19", p.P)
	}
	if p.G.Cmp(big.NewInt(5)) != 0 {
		t.Errorf("g = %s, want 5", p.G)
	}
	if p.H.Cmp(big.NewInt(3)) != 0 {
		t.Errorf("h = %s, want 3", p.H)
	}
}

func TestNewRejectsBadParams(t *testing.T) {
	cases := []struct {
		name    string
		p, g, h int64
	}{
		{"even modulus", 10008, 3, 2},
		{"non-positive modulus", 0, 3, 2},
		{"generator out of range", 10009, 10009, 2},
		{"h out of range", 10009, 3, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(big.NewInt(c.p), big.NewInt(c.g), big.NewInt(c.h))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

// Property 6: for every a in [1, p), ModInverse(a, p) * a == 1 (mod p).
func TestModInverseCorrectness(t *testing.T) {
	p := DefaultParams().P

	samples := []int64{1, 2, 3, 5, 7, 11, 123456789, 2}
	for _, s := range samples {
		a := big.NewInt(s)
		inv := ModInverse(a, p)

		product := new(big.Int).Mul(a, inv)
		product.Mod(product, p)

		if product.Cmp(big.NewInt(1)) != 0 {
			t.Errorf("ModInverse(%d, p) * %d mod p = %s, want 1", s, s, product)
		}
	}
}

// S6: under default parameters, modinv(2, p) * 2 mod p == 1.
func TestModInverseScenarioS6(t *testing.T) {
	p := DefaultParams().P
	inv := ModInverse(big.NewInt(2), p)

	got := new(big.Int).Mul(inv, big.NewInt(2))
	got.Mod(got, p)

	if got.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("2 * modinv(2, p) mod p = %s, want 1", got)
	}
}

// Property 7: for any s, PowSigned(g, s) * PowSigned(g, -s) == 1 (mod p).
func TestPowSignedRoundTrip(t *testing.T) {
	params := DefaultParams()

	for _, s := range []int64{0, 1, -1, 17, -17, 128, -128} {
		exp := big.NewInt(s)
		negExp := new(big.Int).Neg(exp)

		a := params.PowSigned(params.G, exp)
		b := params.PowSigned(params.G, negExp)

		got := new(big.Int).Mul(a, b)
		got.Mod(got, params.P)

		if got.Cmp(big.NewInt(1)) != 0 {
			t.Errorf("s=%d: g^s * g^-s mod p = %s, want 1", s, got)
		}
	}
}

func TestModFloorNegative(t *testing.T) {
	m := big.NewInt(10009)
	got := ModFloor(big.NewInt(-17), m)
	want := big.NewInt(9992) // -17 + 10009

	if got.Cmp(want) != 0 {
		t.Errorf("ModFloor(-17, 10009) = %s, want %s", got, want)
	}
}
