package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/alexedwards/argon2id"

	"github.com/tomerlv/torbook/internal/domain"
	"github.com/tomerlv/torbook/internal/utils"
	"github.com/tomerlv/torbook/pkg/auth"
	"github.com/tomerlv/torbook/pkg/logger"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string         `json:"token"`
	User  domain.Account `json:"user"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	email := utils.NormalizeEmail(req.Email)

	s.mu.Lock()
	cred, ok := s.accounts[email]
	s.mu.Unlock()

	if !ok {
		unauthorized(w, "wrong email or password")
		return
	}
	match, err := argon2id.ComparePasswordAndHash(req.Password, cred.hash)
	if err != nil || !match {
		unauthorized(w, "wrong email or password")
		return
	}

	role := "customer"
	if email == s.cfg.ManagerEmail {
		role = "admin"
	}
	token, err := auth.NewAccessToken(email, cred.account.Name, role, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to issue token", "error", err)
		internalError(w, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, signInResponse{Token: token, User: cred.account})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	s.createAccount(w, req.Name, req.Email, req.Password)
}
