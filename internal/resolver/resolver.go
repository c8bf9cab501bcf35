// Package resolver fills in the display names behind the foreign keys of a
// meeting list (service id, account email) without N+1 fetching: each
// distinct unknown key is looked up once, failures become sticky
// placeholders, and re-rendering an unchanged list issues no requests.
package resolver

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tomerlv/torbook/internal/domain"
	"github.com/tomerlv/torbook/internal/store"
	"github.com/tomerlv/torbook/pkg/logger"
)

// Placeholder labels, matching the business's locale.
const (
	serviceLoadingLabel = "טוען שירות..."
	serviceFailedLabel  = "שגיאה בטעינת שירות"
	accountLoadingLabel = "טוען משתמש..."
	accountFailedLabel  = "שגיאה בטעינת משתמש"
)

const maxConcurrentLookups = 8

// Backend is the per-key lookup surface. There is no batch endpoint;
// requests for different keys run independently.
type Backend interface {
	GetService(ctx context.Context, id string) (domain.Service, error)
	GetAccount(ctx context.Context, email string) (domain.Account, error)
}

type Resolver struct {
	store   *store.Store
	backend Backend

	mu       sync.Mutex
	inflight map[string]struct{}
}

func New(st *store.Store, backend Backend) *Resolver {
	return &Resolver{
		store:    st,
		backend:  backend,
		inflight: make(map[string]struct{}),
	}
}

// Resolve recomputes the missing set for the given meeting list and looks up
// exactly those keys, concurrently. A key already cached, already resolved,
// already failed, or currently in flight is skipped, so rapid successive list
// updates cannot double-request it. Per-key failures are recorded as
// sentinels rather than returned; a broken key never blocks the rest of the
// list.
func (r *Resolver) Resolve(ctx context.Context, meetings []domain.Meeting) {
	serviceIDs, emails := r.claimMissing(meetings)
	if len(serviceIDs) == 0 && len(emails) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)
	for _, id := range serviceIDs {
		id := id
		g.Go(func() error {
			r.resolveService(ctx, id)
			return nil
		})
	}
	for _, email := range emails {
		email := email
		g.Go(func() error {
			r.resolveAccount(ctx, email)
			return nil
		})
	}
	// Outcomes are recorded per key; nothing propagates.
	_ = g.Wait()
}

// claimMissing computes the missing set under the in-flight lock and claims
// every returned key. The caller must release each key by recording its
// resolution outcome.
func (r *Resolver) claimMissing(meetings []domain.Meeting) (serviceIDs, emails []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seenServices := make(map[string]struct{})
	seenAccounts := make(map[string]struct{})
	for _, m := range meetings {
		if id := m.ServiceID; id != "" {
			if _, dup := seenServices[id]; !dup {
				seenServices[id] = struct{}{}
				key := "service:" + id
				if _, busy := r.inflight[key]; !busy && !r.store.ServiceKeyKnown(id) {
					r.inflight[key] = struct{}{}
					serviceIDs = append(serviceIDs, id)
				}
			}
		}
		if email := m.UserEmail; email != "" {
			if _, dup := seenAccounts[email]; !dup {
				seenAccounts[email] = struct{}{}
				key := "account:" + email
				if _, busy := r.inflight[key]; !busy && !r.store.AccountKeyKnown(email) {
					r.inflight[key] = struct{}{}
					emails = append(emails, email)
				}
			}
		}
	}
	return serviceIDs, emails
}

func (r *Resolver) release(key string) {
	r.mu.Lock()
	delete(r.inflight, key)
	r.mu.Unlock()
}

func (r *Resolver) resolveService(ctx context.Context, id string) {
	defer r.release("service:" + id)

	svc, err := r.backend.GetService(ctx, id)
	if err != nil {
		logger.WarnContext(ctx, "service lookup failed", "service_id", id, "error", err)
		r.store.SetServiceResolution(id, store.Resolution{Failed: true})
		return
	}
	r.store.SetServiceResolution(id, store.Resolution{Name: svc.Name})
}

func (r *Resolver) resolveAccount(ctx context.Context, email string) {
	defer r.release("account:" + email)

	acct, err := r.backend.GetAccount(ctx, email)
	if err != nil {
		logger.WarnContext(ctx, "account lookup failed", "email", email, "error", err)
		r.store.SetAccountResolution(email, store.Resolution{Failed: true})
		return
	}
	r.store.SetAccountResolution(email, store.Resolution{Name: acct.Name})
}

// ServiceLabel returns the display name for a service id, a deterministic
// error placeholder when resolution failed, or a loading placeholder while
// the key is unresolved.
func (r *Resolver) ServiceLabel(id string) string {
	if svc, ok := r.store.Service(id); ok {
		return svc.Name
	}
	if res, ok := r.store.ServiceResolution(id); ok {
		if res.Failed {
			return serviceFailedLabel
		}
		return res.Name
	}
	return serviceLoadingLabel
}

func (r *Resolver) AccountLabel(email string) string {
	if acct, ok := r.store.Account(email); ok {
		return acct.Name
	}
	if res, ok := r.store.AccountResolution(email); ok {
		if res.Failed {
			return accountFailedLabel
		}
		return res.Name
	}
	return accountLoadingLabel
}
