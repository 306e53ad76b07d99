package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndValidates(t *testing.T) {
	path := writeConfig(t, "session:\n  signing_key: test-key\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:9999" {
		t.Errorf("server.addr = %q, want default", cfg.Server.Addr)
	}
	if cfg.Group.G != "5" || cfg.Group.H != "3" {
		t.Errorf("group defaults = (%s, %s), want (5, 3)", cfg.Group.G, cfg.Group.H)
	}
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("ZKP_TEST_SIGNING_KEY", "from-env")

	path := writeConfig(t, "session:\n  signing_key: \"${ZKP_TEST_SIGNING_KEY}\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.SigningKey != "from-env" {
		t.Errorf("signing_key = %q, want from-env", cfg.Session.SigningKey)
	}
}

func TestLoadSubstitutesEnvVarDefault(t *testing.T) {
	path := writeConfig(t, "session:\n  signing_key: \"${ZKP_UNSET_VAR:-fallback-key}\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.SigningKey != "fallback-key" {
		t.Errorf("signing_key = %q, want fallback-key", cfg.Session.SigningKey)
	}
}

func TestLoadRejectsMissingSigningKey(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \"0.0.0.0:9999\"\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing session.signing_key")
	}
}

func TestClientAddrDockerVsLoopback(t *testing.T) {
	cfg := ClientConfig{
		DockerAddr:    "zkp-verifier:9999",
		LoopbackAddr:  "127.0.0.1:9999",
		DockerModeEnv: "ZKP_TEST_DOCKER_MODE",
	}

	if got := cfg.Addr(); got != cfg.LoopbackAddr {
		t.Errorf("Addr() = %q, want loopback %q", got, cfg.LoopbackAddr)
	}

	t.Setenv("ZKP_TEST_DOCKER_MODE", "1")
	if got := cfg.Addr(); got != cfg.DockerAddr {
		t.Errorf("Addr() = %q, want docker %q", got, cfg.DockerAddr)
	}
}
