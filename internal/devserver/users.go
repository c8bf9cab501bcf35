package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomerlv/torbook/internal/api"
	"github.com/tomerlv/torbook/internal/domain"
	"github.com/tomerlv/torbook/internal/utils"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, cred := range s.accounts {
		accounts = append(accounts, cred.account)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	email := utils.NormalizeEmail(chi.URLParam(r, "email"))

	s.mu.Lock()
	cred, ok := s.accounts[email]
	s.mu.Unlock()

	if !ok {
		notFound(w, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, cred.account)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	s.createAccount(w, req.Name, req.Email, req.Password)
}

func (s *Server) createAccount(w http.ResponseWriter, name, email, password string) {
	email = utils.NormalizeEmail(email)
	if name == "" || !utils.IsValidEmail(email) || password == "" {
		badRequest(w, "name, email and password are required")
		return
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		internalError(w, "failed to store credentials")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[email]; exists {
		writeError(w, http.StatusConflict, "email already registered", api.CodeConflict)
		return
	}
	cred := &credentialed{
		account: domain.Account{ID: uuid.New().String(), Name: name, Email: email},
		hash:    hash,
	}
	s.accounts[email] = cred
	writeJSON(w, http.StatusCreated, cred.account)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	email := utils.NormalizeEmail(chi.URLParam(r, "email"))

	var patch api.AccountPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cred, ok := s.accounts[email]
	if !ok {
		notFound(w, "user not found")
		return
	}
	if patch.Name != nil {
		cred.account.Name = *patch.Name
	}
	if patch.Password != nil {
		hash, err := argon2id.CreateHash(*patch.Password, argon2id.DefaultParams)
		if err != nil {
			internalError(w, "failed to store credentials")
			return
		}
		cred.hash = hash
	}

	writeJSON(w, http.StatusOK, cred.account)
}
