// Package prover implements the Chaum-Pedersen prover side: public-key
// derivation, commitment generation, and challenge response (spec.md §4.2).
package prover

import (
	"fmt"
	"math/big"

	"github.com/example/zkp-chaum-pedersen/internal/group"
)

// kBits is the bit width ephemeral k (and, on the verifier side, the
// challenge c and auth_id) are drawn from: [0, 2^128).
const kBits = 128

// Engine holds the group parameters and exposes the three pure prover
// operations of spec.md §4.2. It carries no per-attempt state of its own —
// k is the caller's responsibility to retain between Commit and Answer.
type Engine struct {
	Params group.Params
}

// NewEngine constructs a prover Engine bound to params.
func NewEngine(params group.Params) *Engine {
	return &Engine{Params: params}
}

// RegisterSecret returns the public key (y1, y2) = (g^x mod p, h^x mod p)
// for the given secret x. The design does not enforce x < p or x < 2^128;
// callers MAY reject out-of-range inputs before calling this.
func (e *Engine) RegisterSecret(x *big.Int) (y1, y2 *big.Int) {
	return e.Params.Modpow(e.Params.G, x), e.Params.Modpow(e.Params.H, x)
}

// Commit draws a fresh ephemeral k uniformly from [0, 2^128) and returns it
// along with the commitment (r1, r2) = (g^k mod p, h^k mod p). k MUST be
// retained by the caller until the verifier's challenge arrives and MUST
// NOT be reused across login attempts.
func (e *Engine) Commit() (k, r1, r2 *big.Int, err error) {
	k, err = group.RandomBits(kBits)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("prover: commit: %w", err)
	}
	r1 = e.Params.Modpow(e.Params.G, k)
	r2 = e.Params.Modpow(e.Params.H, k)
	return k, r1, r2, nil
}

// Answer computes the response s = k - c*x. No modular reduction is
// applied; s is a signed integer transmitted to the verifier as-is.
func (e *Engine) Answer(c, k, x *big.Int) *big.Int {
	cx := new(big.Int).Mul(c, x)
	return new(big.Int).Sub(k, cx)
}
