package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/example/zkp-chaum-pedersen/internal/verifier"
)

// Server adapts a *verifier.Verifier to the three HTTP routes of spec.md
// §6.
type Server struct {
	verifier *verifier.Verifier
	logger   zerolog.Logger
}

// NewServer constructs a Server around v.
func NewServer(v *verifier.Verifier, logger zerolog.Logger) *Server {
	return &Server{verifier: v, logger: logger}
}

// Routes returns the three RPC routes mounted on paths matching spec.md
// §6's method names.
func (s *Server) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/register":  s.handleRegister,
		"/v1/challenge": s.handleChallenge,
		"/v1/verify":    s.handleVerify,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidArgument, "invalid request body")
		return
	}

	y1, err := parseDecimal("y1", req.Y1)
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}
	y2, err := parseDecimal("y2", req.Y2)
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}

	s.verifier.Register(req.User, y1, y2)

	s.logger.Info().Str("user", req.User).Msg("register")
	WriteJSON(w, http.StatusOK, RegisterResponse{})
}

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidArgument, "invalid request body")
		return
	}

	r1, err := parseDecimal("r1", req.R1)
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}
	r2, err := parseDecimal("r2", req.R2)
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}

	authID, c, err := s.verifier.Challenge(req.User, r1, r2)
	if err != nil {
		if err == verifier.ErrNotFound {
			WriteError(w, http.StatusNotFound, CodeNotFound, "user not registered")
			return
		}
		WriteError(w, http.StatusInternalServerError, CodeInvalidArgument, err.Error())
		return
	}

	s.logger.Debug().Str("user", req.User).Str("auth_id", authID).Msg("challenge issued")
	WriteJSON(w, http.StatusOK, ChallengeResponse{AuthID: authID, C: c.String()})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidArgument, "invalid request body")
		return
	}

	sVal, err := parseDecimal("s", req.S)
	if err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return
	}

	sessionID, err := s.verifier.Verify(req.AuthID, sVal)
	if err != nil {
		s.logger.Info().Str("auth_id", req.AuthID).Msg("verification failed")
		WriteError(w, http.StatusUnauthorized, CodeUnauthenticated, "authentication failed")
		return
	}

	s.logger.Info().Str("auth_id", req.AuthID).Msg("verification succeeded")
	WriteJSON(w, http.StatusOK, VerifyResponse{SessionID: sessionID})
}

// WriteJSON writes body as a JSON response with the given HTTP status. It is
// exported so ambient middleware (internal/middleware) can produce
// responses in the same envelope the RPC handlers use, rather than
// inventing a second response shape.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteError writes an ErrorResponse envelope with the given HTTP status
// and protocol Code.
func WriteError(w http.ResponseWriter, status int, code Code, message string) {
	WriteJSON(w, status, ErrorResponse{Code: code, Message: message})
}
