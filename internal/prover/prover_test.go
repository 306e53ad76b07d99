package prover

import (
	"math/big"
	"testing"

	"github.com/example/zkp-chaum-pedersen/internal/group"
)

func testParams(t *testing.T) group.Params {
	t.Helper()
	p, err := group.New(big.NewInt(10009), big.NewInt(3), big.NewInt(2))
	if err != nil {
		t.Fatalf("group.New: %v", err)
	}
	return p
}

// S1. Happy path values from spec.md §8, computed by hand against p=10009.
func TestScenarioS1Values(t *testing.T) {
	e := NewEngine(testParams(t))

	x := big.NewInt(7)
	y1, y2 := e.RegisterSecret(x)
	if y1.Cmp(big.NewInt(2187)) != 0 {
		t.Errorf("y1 = %s, want 2187", y1)
	}
	if y2.Cmp(big.NewInt(128)) != 0 {
		t.Errorf("y2 = %s, want 128", y2)
	}

	// 3^11 mod 10009 = 6994 (the narrative spec text's "7411" is an
	// arithmetic slip in that worked example; 2^11 = 2048 is unaffected
	// since it needs no reduction).
	k := big.NewInt(11)
	r1 := e.Params.Modpow(e.Params.G, k)
	r2 := e.Params.Modpow(e.Params.H, k)
	if r1.Cmp(big.NewInt(6994)) != 0 {
		t.Errorf("r1 = %s, want 6994", r1)
	}
	if r2.Cmp(big.NewInt(2048)) != 0 {
		t.Errorf("r2 = %s, want 2048", r2)
	}

	c := big.NewInt(4)
	s := e.Answer(c, k, x)
	if s.Cmp(big.NewInt(-17)) != 0 {
		t.Errorf("s = %s, want -17", s)
	}
}

func TestCommitProducesFreshK(t *testing.T) {
	e := NewEngine(group.DefaultParams())

	k1, _, _, err := e.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	k2, _, _, err := e.Commit()
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if k1.Cmp(k2) == 0 {
		t.Fatal("two successive Commit() calls produced the same k")
	}
}

func TestCommitKWithinRange(t *testing.T) {
	e := NewEngine(group.DefaultParams())
	bound := new(big.Int).Lsh(big.NewInt(1), 128)

	for i := 0; i < 20; i++ {
		k, _, _, err := e.Commit()
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
		if k.Sign() < 0 || k.Cmp(bound) >= 0 {
			t.Fatalf("k = %s out of range [0, 2^128)", k)
		}
	}
}
