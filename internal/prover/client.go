package prover

import (
	"context"
	"fmt"
	"math/big"
	"sync"
)

// RegistrationStatus is the client-local outcome of Client.Register.
type RegistrationStatus int

const (
	Registered RegistrationStatus = iota
	AlreadyRegistered
)

func (s RegistrationStatus) String() string {
	if s == AlreadyRegistered {
		return "AlreadyRegistered"
	}
	return "Registered"
}

// AuthenticationStatus is the client-local outcome of Client.Login.
type AuthenticationStatus struct {
	Authenticated bool
	SessionID     string // set iff Authenticated
	Unregistered  bool   // user was never registered via this client
	Reason        string // set iff !Authenticated && !Unregistered
}

// Transport is the RPC surface the prover drives (spec.md §6). It is
// satisfied by internal/rpc.Client; kept as an interface here so the
// protocol engine and its client-side state management have no
// compile-time dependency on the wire format.
type Transport interface {
	Register(ctx context.Context, user string, y1, y2 *big.Int) error
	CreateAuthenticationChallenge(ctx context.Context, user string, r1, r2 *big.Int) (authID string, c *big.Int, err error)
	VerifyAuthentication(ctx context.Context, authID string, s *big.Int) (sessionID string, err error)
}

// Client is the prover-side two-party state machine: it owns transient
// (x, k) for the duration of one attempt and a convenience cache of
// locally-registered users (spec.md §4.5). The cache is not authoritative;
// the verifier is the ground truth, and a restart of the client clears it
// without affecting correctness.
type Client struct {
	engine    *Engine
	transport Transport

	mu         sync.Mutex
	registered map[string]struct{}
}

// NewClient constructs a prover Client around engine and transport.
func NewClient(engine *Engine, transport Transport) *Client {
	return &Client{
		engine:     engine,
		transport:  transport,
		registered: make(map[string]struct{}),
	}
}

// Register derives (y1, y2) from x and registers user with the verifier.
// If the client has already registered this user locally, it short-circuits
// with AlreadyRegistered and performs no RPC — this is a convenience
// optimization only; the verifier's own Register is independently
// idempotent (spec.md §4.3).
func (c *Client) Register(ctx context.Context, user string, x *big.Int) (RegistrationStatus, error) {
	c.mu.Lock()
	if _, ok := c.registered[user]; ok {
		c.mu.Unlock()
		return AlreadyRegistered, nil
	}
	c.mu.Unlock()

	y1, y2 := c.engine.RegisterSecret(x)

	if err := c.transport.Register(ctx, user, y1, y2); err != nil {
		return 0, fmt.Errorf("prover: register %q: %w", user, err)
	}

	c.mu.Lock()
	c.registered[user] = struct{}{}
	c.mu.Unlock()

	return Registered, nil
}

// Login runs a complete three-move authentication attempt for user against
// the verifier using secret x: commit, await challenge, answer.
func (c *Client) Login(ctx context.Context, user string, x *big.Int) (AuthenticationStatus, error) {
	c.mu.Lock()
	_, known := c.registered[user]
	c.mu.Unlock()
	if !known {
		return AuthenticationStatus{Unregistered: true}, nil
	}

	k, r1, r2, err := c.engine.Commit()
	if err != nil {
		return AuthenticationStatus{}, fmt.Errorf("prover: login %q: %w", user, err)
	}

	authID, challenge, err := c.transport.CreateAuthenticationChallenge(ctx, user, r1, r2)
	if err != nil {
		return AuthenticationStatus{}, fmt.Errorf("prover: login %q: challenge: %w", user, err)
	}

	s := c.engine.Answer(challenge, k, x)

	sessionID, err := c.transport.VerifyAuthentication(ctx, authID, s)
	if err != nil {
		return AuthenticationStatus{Reason: err.Error()}, nil
	}

	return AuthenticationStatus{Authenticated: true, SessionID: sessionID}, nil
}
