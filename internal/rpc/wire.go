// Package rpc implements the RPC surface described in spec.md §6: three
// request/reply methods (Register, CreateAuthenticationChallenge,
// VerifyAuthentication), with big integers encoded as base-10 ASCII
// strings across the wire. No example repository in the retrieval pack
// wires a real gRPC/protobuf stack (see DESIGN.md), so the transport is
// JSON over HTTP — the same net/http + encoding/json style
// DanDo385-go-edu/minis/50-mini-service-all-features/internal/handlers
// uses for its own HTTP API.
package rpc

import (
	"fmt"
	"math/big"
)

// Code is one of the typed error kinds spec.md §7 names.
type Code string

const (
	CodeOK              Code = "OK"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeUnauthenticated Code = "UNAUTHENTICATED"

	// CodeResourceExhausted and CodeInternal are transport-edge additions,
	// not part of spec.md §7's core protocol error kinds: they cover
	// ambient middleware outcomes (rate limiting, panic recovery) that
	// never originate from internal/verifier itself.
	CodeResourceExhausted Code = "RESOURCE_EXHAUSTED"
	CodeInternal          Code = "INTERNAL"
)

// ErrorResponse is the JSON envelope returned for any non-2xx outcome,
// mirroring models.NewErrorResponse's (code, message) shape in the
// teacher repo.
type ErrorResponse struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// RegisterRequest/RegisterResponse back the Register method.
type RegisterRequest struct {
	User string `json:"user"`
	Y1   string `json:"y1"`
	Y2   string `json:"y2"`
}

type RegisterResponse struct{}

// ChallengeRequest/ChallengeResponse back CreateAuthenticationChallenge.
type ChallengeRequest struct {
	User string `json:"user"`
	R1   string `json:"r1"`
	R2   string `json:"r2"`
}

type ChallengeResponse struct {
	AuthID string `json:"auth_id"`
	C      string `json:"c"`
}

// VerifyRequest/VerifyResponse back VerifyAuthentication.
type VerifyRequest struct {
	AuthID string `json:"auth_id"`
	S      string `json:"s"`
}

type VerifyResponse struct {
	SessionID string `json:"session_id"`
}

// parseDecimal parses a decimal-string wire field into a big.Int,
// rejecting anything that is not a valid (possibly negative) base-10
// integer literal, per spec.md §6 ("parsing is strict").
func parseDecimal(field, value string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%s: %q is not a valid decimal integer", field, value)
	}
	return n, nil
}
