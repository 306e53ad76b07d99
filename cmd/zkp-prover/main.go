// Command zkp-prover is the Prover-side CLI: it registers a user's secret
// with a zkp-verifier process and runs login attempts against it, the
// functional equivalent of original_source/zkp_client/src/main.rs's
// register/login subcommands.
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"

	"github.com/example/zkp-chaum-pedersen/internal/config"
	"github.com/example/zkp-chaum-pedersen/internal/group"
	"github.com/example/zkp-chaum-pedersen/internal/prover"
	"github.com/example/zkp-chaum-pedersen/internal/rpc"
)

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32
	saltFileName     = ".zkp-prover-salt"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}

	command := os.Args[1]
	user := os.Args[2]
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	secretFlag := fs.String("secret", "", "decimal integer secret x (test harness use)")
	passwordFlag := fs.String("password", "", "human password to derive x from via PBKDF2")
	configPath := fs.String("config", "config.yaml", "path to YAML configuration")
	fs.Parse(os.Args[3:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zkp-prover: %v\n", err)
		os.Exit(1)
	}

	p, g, h, err := cfg.Group.ParseParams()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zkp-prover: %v\n", err)
		os.Exit(1)
	}
	params, err := group.New(p, g, h)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zkp-prover: %v\n", err)
		os.Exit(1)
	}

	x, err := resolveSecret(params, *secretFlag, *passwordFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zkp-prover: %v\n", err)
		os.Exit(1)
	}

	transport := rpc.NewClient("http://" + cfg.Client.Addr())
	engine := prover.NewEngine(params)
	client := prover.NewClient(engine, transport)

	ctx := context.Background()

	switch command {
	case "register":
		status, err := client.Register(ctx, user, x)
		if err != nil {
			fmt.Fprintf(os.Stderr, "zkp-prover: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(status)

	case "login":
		// A one-shot process has no local registration cache to consult,
		// so a login-only invocation primes it with this user before
		// attempting the three-move exchange.
		if _, err := client.Register(ctx, user, x); err != nil {
			fmt.Fprintf(os.Stderr, "zkp-prover: %v\n", err)
			os.Exit(1)
		}
		outcome, err := client.Login(ctx, user, x)
		if err != nil {
			fmt.Fprintf(os.Stderr, "zkp-prover: %v\n", err)
			os.Exit(1)
		}
		switch {
		case outcome.Authenticated:
			fmt.Printf("Authenticated: %s\n", outcome.SessionID)
		case outcome.Unregistered:
			fmt.Println("NotAuthenticated: user not registered with this client")
		default:
			fmt.Printf("NotAuthenticated: %s\n", outcome.Reason)
		}

	default:
		usage()
		os.Exit(2)
	}
}

// resolveSecret turns either an explicit decimal --secret or a --password
// into the integer x the protocol needs, per SPEC_FULL.md §C.1. Exactly one
// of secretDecimal/password must be non-empty.
func resolveSecret(params group.Params, secretDecimal, password string) (*big.Int, error) {
	if secretDecimal != "" && password != "" {
		return nil, fmt.Errorf("pass exactly one of --secret or --password")
	}

	if secretDecimal != "" {
		x, ok := new(big.Int).SetString(secretDecimal, 10)
		if !ok {
			return nil, fmt.Errorf("--secret %q is not a valid decimal integer", secretDecimal)
		}
		return x, nil
	}

	if password == "" {
		return nil, fmt.Errorf("pass --secret or --password")
	}

	salt, err := loadOrCreateSalt()
	if err != nil {
		return nil, fmt.Errorf("derive secret: %w", err)
	}

	derived := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	x := group.ModFloor(new(big.Int).SetBytes(derived), params.P)
	return x, nil
}

// loadOrCreateSalt reads a persistent per-install salt from the user's
// home directory, generating and saving one on first use, so repeated
// --password runs derive the same x.
func loadOrCreateSalt() ([]byte, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	path := filepath.Join(home, saltFileName)

	if existing, err := os.ReadFile(path); err == nil {
		return hex.DecodeString(string(existing))
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(salt)), 0o600); err != nil {
		return nil, fmt.Errorf("persist salt: %w", err)
	}
	return salt, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: zkp-prover <register|login> <user> [--secret N | --password P] [--config path]")
}
