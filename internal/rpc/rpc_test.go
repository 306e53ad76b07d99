package rpc

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/example/zkp-chaum-pedersen/internal/group"
	"github.com/example/zkp-chaum-pedersen/internal/session"
	"github.com/example/zkp-chaum-pedersen/internal/verifier"
)

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()

	params, err := group.New(big.NewInt(10009), big.NewInt(3), big.NewInt(2))
	if err != nil {
		t.Fatalf("group.New: %v", err)
	}
	issuer := session.NewIssuer([]byte("test-secret"), 0)
	v := verifier.New(params, issuer)
	rpcServer := NewServer(v, zerolog.Nop())

	mux := http.NewServeMux()
	for path, handler := range rpcServer.Routes() {
		mux.HandleFunc(path, handler)
	}

	httpServer := httptest.NewServer(mux)
	t.Cleanup(httpServer.Close)

	return httpServer, NewClient(httpServer.URL)
}

func TestClientServerHappyPath(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	x := big.NewInt(7)
	y1, y2 := big.NewInt(2187), big.NewInt(128)

	if err := client.Register(ctx, "pat", y1, y2); err != nil {
		t.Fatalf("Register: %v", err)
	}

	k := big.NewInt(11)
	r1, r2 := big.NewInt(6994), big.NewInt(2048)

	authID, c, err := client.CreateAuthenticationChallenge(ctx, "pat", r1, r2)
	if err != nil {
		t.Fatalf("CreateAuthenticationChallenge: %v", err)
	}

	cx := new(big.Int).Mul(c, x)
	s := new(big.Int).Sub(k, cx)

	sessionID, err := client.VerifyAuthentication(ctx, authID, s)
	if err != nil {
		t.Fatalf("VerifyAuthentication: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected non-empty session_id")
	}
}

func TestClientServerUnknownUserIsNotFound(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	_, _, err := client.CreateAuthenticationChallenge(ctx, "ghost", big.NewInt(1), big.NewInt(1))
	if err == nil || !strings.Contains(err.Error(), string(CodeNotFound)) {
		t.Fatalf("got %v, want NotFound error for an unregistered user", err)
	}
}

func TestClientServerMalformedFieldIsInvalidArgument(t *testing.T) {
	httpServer, _ := newTestServer(t)

	resp, err := http.Post(httpServer.URL+"/v1/register", "application/json",
		jsonBody(`{"user":"pat","y1":"not-a-number","y2":"1"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestClientServerWrongSecretIsUnauthenticated(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	y1, y2 := big.NewInt(2187), big.NewInt(128) // from x=7
	if err := client.Register(ctx, "pat", y1, y2); err != nil {
		t.Fatalf("Register: %v", err)
	}

	r1, r2 := big.NewInt(6994), big.NewInt(2048) // from k=11
	authID, c, err := client.CreateAuthenticationChallenge(ctx, "pat", r1, r2)
	if err != nil {
		t.Fatalf("CreateAuthenticationChallenge: %v", err)
	}

	k := big.NewInt(11)
	wrongX := big.NewInt(8)
	cx := new(big.Int).Mul(c, wrongX)
	s := new(big.Int).Sub(k, cx)

	if _, err := client.VerifyAuthentication(ctx, authID, s); err == nil || !strings.Contains(err.Error(), string(CodeUnauthenticated)) {
		t.Fatalf("got %v, want Unauthenticated error for the wrong secret", err)
	}
}
