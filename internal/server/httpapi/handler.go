package httpapi

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dpetukhov/srpvault/internal/common"
)

type registerRequest struct {
	Email    string `json:"email"`
	Salt     string `json:"salt"`
	Verifier string `json:"verifier"`
}

type prepareRequest struct {
	Email string `json:"email"`
}

type prepareResponse struct {
	Salt                  string `json:"salt"`
	ServerPublicEphemeral string `json:"serverPublicEphemeral"`
}

type loginRequest struct {
	Email                 string `json:"email"`
	ClientPublicEphemeral string `json:"clientPublicEphemeral"`
	Matcher               string `json:"matcher"`
}

type loginResponse struct {
	SecondMatcher string `json:"secondMatcher"`
	Token         string `json:"token"`
}

type confirmRequest struct {
	Email            string `json:"email"`
	ClientSessionKey string `json:"clientSessionKey"`
}

type confirmResponse struct {
	Token string `json:"token"`
}

type updatePasswordRequest struct {
	Salt     string `json:"salt"`
	Verifier string `json:"verifier"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	salt, verifier, ok := decodeSecret(req.Salt, req.Verifier)
	if req.Email == "" || !ok {
		s.writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if _, err := s.login.Register(r.Context(), req.Email, salt, verifier); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.writeError(w, http.StatusConflict, "email already registered")
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "email", req.Email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePrepare(w http.ResponseWriter, r *http.Request) {
	var req prepareRequest
	if !s.decode(w, r, &req) {
		return
	}

	prepared, err := s.login.Prepare(r.Context(), req.Email)
	if err != nil {
		s.authError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, prepareResponse{
		Salt:                  prepared.Salt,
		ServerPublicEphemeral: prepared.ServerPublicEphemeral,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.login.Login(r.Context(), req.Email, req.ClientPublicEphemeral, req.Matcher)
	if err != nil {
		s.authError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, loginResponse{
		SecondMatcher: result.SecondMatcher,
		Token:         result.Token,
	})
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !s.decode(w, r, &req) {
		return
	}

	token, err := s.gate.Confirm(r.Context(), req.Email, req.ClientSessionKey)
	if err != nil {
		s.authError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, confirmResponse{Token: token})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		s.writeError(w, http.StatusUnauthorized, authFailedMessage)
		return
	}

	var req updatePasswordRequest
	if !s.decode(w, r, &req) {
		return
	}

	salt, verifier, ok := decodeSecret(req.Salt, req.Verifier)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := s.login.UpdatePassword(r.Context(), userID, salt, verifier); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, http.StatusUnauthorized, authFailedMessage)
			return
		}
		s.serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// authFailedMessage is the single user-visible text for every protocol or
// credential failure, so responses do not reveal which precondition failed.
const authFailedMessage = "authentication failed"

// authError maps service errors to HTTP responses. Every expected auth
// failure collapses into one generic 401; only infrastructure errors
// surface as 500.
func (s *Server) authError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrMatcherMismatch),
		errors.Is(err, common.ErrNoLoginAttempt),
		errors.Is(err, common.ErrInvalidEphemeral):
		s.logger.Info(r.Context(), "Authentication rejected", "reason", err.Error())
		s.writeError(w, http.StatusUnauthorized, authFailedMessage)
	default:
		s.serverError(w, r, err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), err.Error())
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// decodeSecret parses the hex salt and verifier carried by registration and
// password-change requests.
func decodeSecret(saltHex, verifierHex string) (salt, verifier []byte, ok bool) {
	if saltHex == "" || verifierHex == "" {
		return nil, nil, false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, nil, false
	}
	verifier, err = hex.DecodeString(verifierHex)
	if err != nil {
		return nil, nil, false
	}
	return salt, verifier, true
}
