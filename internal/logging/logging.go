// Package logging wires up zerolog for zkp-verifier (zkp-prover writes its
// output with fmt and does not use this package), matching the setupLogger pattern in
// DanDo385-go-edu/minis/50-mini-service-all-features/cmd/service/main.go.
package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/example/zkp-chaum-pedersen/internal/config"
)

// Setup parses cfg.Level (defaulting to info on a bad value) and returns a
// logger writing either a human-readable console format or structured
// JSON, depending on cfg.Format.
func Setup(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
