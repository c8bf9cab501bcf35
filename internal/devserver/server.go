// Package devserver is an in-memory stand-in for the production backend,
// implementing the same REST contract for local development and integration
// tests. It holds the authoritative conflict check but skips everything
// else a production deployment would add (persistence, rate limits).
package devserver

import (
	"net/http"
	"sync"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/tomerlv/torbook/internal/domain"
	"github.com/tomerlv/torbook/pkg/config"
	"github.com/tomerlv/torbook/pkg/logger"
	mw "github.com/tomerlv/torbook/pkg/middleware"
)

// credentialed pairs an account with its password hash; the hash never
// leaves the server.
type credentialed struct {
	account domain.Account
	hash    string
}

type Server struct {
	cfg config.DevConfig

	mu       sync.Mutex
	business domain.Business
	services map[string]domain.Service
	accounts map[string]*credentialed
	meetings map[string]domain.Meeting
}

func New(cfg config.DevConfig) *Server {
	s := &Server{
		cfg:      cfg,
		services: make(map[string]domain.Service),
		accounts: make(map[string]*credentialed),
		meetings: make(map[string]domain.Meeting),
	}
	s.seed()
	return s
}

func (s *Server) seed() {
	s.business = domain.Business{
		ID:           uuid.New().String(),
		Name:         s.cfg.BusinessName,
		Description:  s.cfg.BusinessDescription,
		ManagerEmail: s.cfg.ManagerEmail,
	}

	hash, err := argon2id.CreateHash(s.cfg.ManagerPassword, argon2id.DefaultParams)
	if err != nil {
		logger.Error("failed to hash manager password", "error", err)
		return
	}
	s.accounts[s.cfg.ManagerEmail] = &credentialed{
		account: domain.Account{
			ID:    uuid.New().String(),
			Name:  "מנהל העסק",
			Email: s.cfg.ManagerEmail,
		},
		hash: hash,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Component("devserver"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/sign-in", s.handleSignIn)
	r.Post("/auth/sign-up", s.handleSignUp)

	r.Get("/business", s.handleGetBusiness)
	r.Put("/business/{id}", s.handleUpdateBusiness)

	r.Route("/service", func(r chi.Router) {
		r.Get("/", s.handleListServices)
		r.Post("/", s.handleCreateService)
		r.Get("/{id}", s.handleGetService)
		r.Put("/{id}", s.handleUpdateService)
		r.Delete("/{id}", s.handleDeleteService)
	})

	r.Route("/meeting", func(r chi.Router) {
		r.Get("/", s.handleListMeetings)
		r.Post("/", s.handleCreateMeeting)
		r.Get("/{id}", s.handleGetMeeting)
		r.Put("/{id}", s.handleUpdateMeeting)
		r.Delete("/{id}", s.handleDeleteMeeting)
	})

	r.Route("/user", func(r chi.Router) {
		r.Get("/", s.handleListAccounts)
		r.Post("/", s.handleCreateAccount)
		r.Get("/{email}", s.handleGetAccount)
		r.Put("/{email}", s.handleUpdateAccount)
	})

	return r
}
