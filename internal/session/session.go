// Package session is the explicit application-state container for the
// signed-in identity. It replaces ambient globals: the manager is
// constructed once, hydrated with Init at startup, handed to whatever needs
// it, and cleared with Teardown on logout.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tomerlv/torbook/internal/domain"
	"github.com/tomerlv/torbook/pkg/auth"
	"github.com/tomerlv/torbook/pkg/logger"
)

// Snapshot is the persisted session state: the bearer credential plus a
// denormalized copy of the signed-in account. The account copy is session
// identity only; name and email are never treated as authoritative data.
type Snapshot struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"user,omitempty"`
}

type Manager struct {
	path string

	mu      sync.Mutex
	token   string
	account *domain.Account
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Init hydrates the session from disk. A missing file means no session; an
// expired or unreadable credential is discarded rather than surfaced, since
// the user can simply sign in again.
func (m *Manager) Init() error {
	raw, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		logger.Warn("discarding unreadable session file", "path", m.path, "error", err)
		return nil
	}
	if snap.Token != "" && auth.Expired(snap.Token, time.Now()) {
		logger.Info("stored session expired, signing out")
		return nil
	}

	m.mu.Lock()
	m.token = snap.Token
	m.account = snap.Account
	m.mu.Unlock()
	return nil
}

// Establish records a fresh sign-in and persists it.
func (m *Manager) Establish(token string, account domain.Account) error {
	account.Password = ""

	m.mu.Lock()
	m.token = token
	m.account = &account
	m.mu.Unlock()

	snap := Snapshot{Token: token, Account: &account}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(m.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Teardown clears the live identity and the persisted credential.
func (m *Manager) Teardown() error {
	m.mu.Lock()
	m.token = ""
	m.account = nil
	m.mu.Unlock()

	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// Token implements the API client's credential source. Empty when signed
// out; requests then proceed unauthenticated.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) Account() (domain.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.account == nil {
		return domain.Account{}, false
	}
	return *m.account, true
}

func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}
