// Command zkp-verifier hosts the Chaum-Pedersen Verifier RPC surface
// described in spec.md §6, wiring together the crypto core
// (internal/verifier), the JSON-over-HTTP transport (internal/rpc), and
// the ambient stack (config, logging, metrics, middleware) the way
// DanDo385-go-edu/minis/50-mini-service-all-features/cmd/service/main.go
// wires its own microservice.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/zkp-chaum-pedersen/internal/config"
	"github.com/example/zkp-chaum-pedersen/internal/logging"
	"github.com/example/zkp-chaum-pedersen/internal/metrics"
	"github.com/example/zkp-chaum-pedersen/internal/middleware"
	"github.com/example/zkp-chaum-pedersen/internal/rpc"
	"github.com/example/zkp-chaum-pedersen/internal/session"
	"github.com/example/zkp-chaum-pedersen/internal/verifier"

	"github.com/example/zkp-chaum-pedersen/internal/group"
)

// userFromChallengeRequest peeks the "user" field out of a
// CreateAuthenticationChallenge request body without consuming it, so
// middleware.UserRateLimit can key its per-user bucket before
// handleChallenge gets its own turn at the body.
func userFromChallengeRequest(r *http.Request) string {
	if r.URL.Path != "/v1/challenge" || r.Body == nil {
		return ""
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var peeked struct {
		User string `json:"user"`
	}
	if err := json.Unmarshal(body, &peeked); err != nil {
		return ""
	}
	return peeked.User
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger := logging.Setup(cfg.Logging)
	logger.Info().Msg("starting zkp-verifier")

	p, g, h, err := cfg.Group.ParseParams()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid group parameters")
	}
	params, err := group.New(p, g, h)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid group parameters")
	}

	issuer := session.NewIssuer([]byte(cfg.Session.SigningKey), cfg.Session.TTL)
	v := verifier.New(params, issuer)

	m := metrics.New()
	v.SetObserver(m)

	rpcServer := rpc.NewServer(v, logger)

	mux := http.NewServeMux()
	for path, handler := range rpcServer.Routes() {
		mux.HandleFunc(path, handler)
	}
	mux.Handle("/metrics", promhttp.Handler())

	handler := middleware.Chain(
		mux,
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Metrics(m),
		middleware.RateLimit(cfg.RateLimit),
		middleware.UserRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, userFromChallengeRequest),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Msgf("listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("stopped")
}
