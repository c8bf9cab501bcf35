// Package reconcile decides, per mutation type, whether the local cache can
// be patched in place or must be rebuilt from a canonical refetch, and
// guarantees that after a refetch exactly one record represents each backend
// entity.
package reconcile

import (
	"context"

	"github.com/tomerlv/torbook/internal/api"
	"github.com/tomerlv/torbook/internal/domain"
	"github.com/tomerlv/torbook/internal/resolver"
	"github.com/tomerlv/torbook/internal/sched"
	"github.com/tomerlv/torbook/internal/store"
)

type Mutation int

const (
	MutationCreateMeeting Mutation = iota
	MutationUpdateMeeting
	MutationDeleteMeeting
	MutationCreateService
	MutationUpdateService
	MutationDeleteService
	MutationUpdateBusiness
)

// RequiresRefetch is the policy table. Meeting creation tolerates an
// optimistic insert until the next reload; a business update merges the
// accepted fields locally; meeting deletion is a confirmed single-record
// removal. Everything else rebuilds its list from the backend.
func (m Mutation) RequiresRefetch() bool {
	switch m {
	case MutationCreateMeeting, MutationUpdateBusiness, MutationDeleteMeeting:
		return false
	default:
		return true
	}
}

// Catalog is the backend surface for the presentational entities the
// reconciler refetches around the scheduling core.
type Catalog interface {
	GetBusiness(ctx context.Context) (domain.Business, error)
	UpdateBusiness(ctx context.Context, id string, patch api.BusinessPatch) error
	ListServices(ctx context.Context) ([]domain.Service, error)
	CreateService(ctx context.Context, req api.CreateServiceRequest) error
	UpdateService(ctx context.Context, id string, patch api.ServicePatch) error
	DeleteService(ctx context.Context, id string) error
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// Reconciler is the single write path callers use, so the refetch policy
// cannot be skipped.
type Reconciler struct {
	engine   *sched.Engine
	catalog  Catalog
	resolver *resolver.Resolver
	store    *store.Store
}

func New(engine *sched.Engine, catalog Catalog, res *resolver.Resolver, st *store.Store) *Reconciler {
	return &Reconciler{engine: engine, catalog: catalog, resolver: res, store: st}
}

// CreateMeeting books a slot. The optimistic record the engine inserts is
// provisional; the next canonical refetch replaces it with the backend's
// record, and the two are never visible together.
func (r *Reconciler) CreateMeeting(ctx context.Context, req sched.CreateRequest) (domain.Meeting, error) {
	return r.engine.CreateMeeting(ctx, req)
}

func (r *Reconciler) UpdateMeeting(ctx context.Context, id string, patch api.MeetingPatch) error {
	if err := r.engine.UpdateMeeting(ctx, id, patch); err != nil {
		return err
	}
	return r.RefreshMeetings(ctx)
}

func (r *Reconciler) DeleteMeeting(ctx context.Context, id string) error {
	return r.engine.DeleteMeeting(ctx, id)
}

// RefreshMeetings pulls the canonical list and resolves any newly
// referenced foreign keys.
func (r *Reconciler) RefreshMeetings(ctx context.Context) error {
	if err := r.engine.RefreshMeetings(ctx); err != nil {
		return err
	}
	r.resolver.Resolve(ctx, r.store.Meetings())
	return nil
}

func (r *Reconciler) CreateService(ctx context.Context, req api.CreateServiceRequest) error {
	if err := r.catalog.CreateService(ctx, req); err != nil {
		return err
	}
	return r.RefreshServices(ctx)
}

func (r *Reconciler) UpdateService(ctx context.Context, id string, patch api.ServicePatch) error {
	if err := r.catalog.UpdateService(ctx, id, patch); err != nil {
		return err
	}
	return r.RefreshServices(ctx)
}

func (r *Reconciler) DeleteService(ctx context.Context, id string) error {
	if err := r.catalog.DeleteService(ctx, id); err != nil {
		return err
	}
	return r.RefreshServices(ctx)
}

func (r *Reconciler) RefreshServices(ctx context.Context) error {
	services, err := r.catalog.ListServices(ctx)
	if err != nil {
		return err
	}
	r.store.ReplaceAllServices(services)
	return nil
}

func (r *Reconciler) RefreshAccounts(ctx context.Context) error {
	accounts, err := r.catalog.ListAccounts(ctx)
	if err != nil {
		return err
	}
	r.store.ReplaceAllAccounts(accounts)
	return nil
}

func (r *Reconciler) RefreshBusiness(ctx context.Context) error {
	business, err := r.catalog.GetBusiness(ctx)
	if err != nil {
		return err
	}
	r.store.SetBusiness(business)
	return nil
}

// UpdateBusiness merges the accepted fields into the cached singleton; the
// endpoint returns no body, so there is nothing to refetch.
func (r *Reconciler) UpdateBusiness(ctx context.Context, id string, patch api.BusinessPatch) error {
	if err := r.catalog.UpdateBusiness(ctx, id, patch); err != nil {
		return err
	}
	r.store.MergeBusiness(patch.Name, patch.Description, patch.ManagerEmail)
	return nil
}

// ReloadAll is the explicit full reload: it resets the cache (dropping
// failed-resolution sentinels, so every key is retryable) and rebuilds it
// from the backend.
func (r *Reconciler) ReloadAll(ctx context.Context) error {
	r.store.Reset()
	if err := r.RefreshBusiness(ctx); err != nil {
		return err
	}
	if err := r.RefreshServices(ctx); err != nil {
		return err
	}
	return r.RefreshMeetings(ctx)
}
