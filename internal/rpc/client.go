package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
)

// Client drives the three RPC methods over HTTP and satisfies
// internal/prover.Transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client dialing baseURL (e.g. "http://127.0.0.1:9999").
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, httpClient: &http.Client{}}
}

// Register calls the Register RPC.
func (c *Client) Register(ctx context.Context, user string, y1, y2 *big.Int) error {
	req := RegisterRequest{User: user, Y1: y1.String(), Y2: y2.String()}
	var resp RegisterResponse
	return c.call(ctx, "/v1/register", req, &resp)
}

// CreateAuthenticationChallenge calls the CreateAuthenticationChallenge RPC.
func (c *Client) CreateAuthenticationChallenge(ctx context.Context, user string, r1, r2 *big.Int) (string, *big.Int, error) {
	req := ChallengeRequest{User: user, R1: r1.String(), R2: r2.String()}
	var resp ChallengeResponse
	if err := c.call(ctx, "/v1/challenge", req, &resp); err != nil {
		return "", nil, err
	}

	challenge, err := parseDecimal("c", resp.C)
	if err != nil {
		return "", nil, fmt.Errorf("rpc: challenge response: %w", err)
	}
	return resp.AuthID, challenge, nil
}

// VerifyAuthentication calls the VerifyAuthentication RPC.
func (c *Client) VerifyAuthentication(ctx context.Context, authID string, s *big.Int) (string, error) {
	req := VerifyRequest{AuthID: authID, S: s.String()}
	var resp VerifyResponse
	if err := c.call(ctx, "/v1/verify", req, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

// call issues one JSON POST RPC and decodes either the success body into
// out or a non-2xx ErrorResponse into a returned error.
func (c *Client) call(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("rpc: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("rpc: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("rpc: %s: %w", path, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 300 {
		var errResp ErrorResponse
		if decErr := json.NewDecoder(httpResp.Body).Decode(&errResp); decErr != nil {
			return fmt.Errorf("rpc: %s: status %d", path, httpResp.StatusCode)
		}
		return fmt.Errorf("rpc: %s: %s: %s", path, errResp.Code, errResp.Message)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("rpc: %s: decode response: %w", path, err)
	}
	return nil
}
