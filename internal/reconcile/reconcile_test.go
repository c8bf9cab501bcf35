package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/tomerlv/torbook/internal/api"
	"github.com/tomerlv/torbook/internal/domain"
	"github.com/tomerlv/torbook/internal/resolver"
	"github.com/tomerlv/torbook/internal/sched"
	"github.com/tomerlv/torbook/internal/store"
)

// fakeBackend plays the authoritative backend for the engine, the catalog
// and the resolver at once.
type fakeBackend struct {
	meetings []domain.Meeting
	services map[string]domain.Service
	accounts map[string]domain.Account
	business domain.Business

	listMeetingCalls int
	listServiceCalls int
	nextID           int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		services: map[string]domain.Service{"svc-1": {ID: "svc-1", Name: "תספורת"}},
		accounts: map[string]domain.Account{"dana@example.com": {Email: "dana@example.com", Name: "דנה"}},
		business: domain.Business{ID: "b-1", Name: "העסק"},
	}
}

func (f *fakeBackend) ListMeetings(context.Context, api.ListMeetingsOptions) ([]domain.Meeting, error) {
	f.listMeetingCalls++
	out := make([]domain.Meeting, len(f.meetings))
	copy(out, f.meetings)
	return out, nil
}

func (f *fakeBackend) CreateMeeting(_ context.Context, req api.CreateMeetingRequest) error {
	f.nextID++
	f.meetings = append(f.meetings, domain.Meeting{
		ID:        domain.RealMeetingID("m-" + string(rune('0'+f.nextID))),
		ServiceID: req.ServiceID,
		UserEmail: req.UserEmail,
		Date:      req.Date,
		Time:      req.Time,
		Duration:  req.Duration,
		Status:    domain.StatusConfirmed,
	})
	return nil
}

func (f *fakeBackend) UpdateMeeting(_ context.Context, id string, patch api.MeetingPatch) error {
	for i := range f.meetings {
		if f.meetings[i].ID.String() == id && patch.Time != nil {
			f.meetings[i].Time = *patch.Time
		}
	}
	return nil
}

func (f *fakeBackend) DeleteMeeting(_ context.Context, id string) error {
	for i := range f.meetings {
		if f.meetings[i].ID.String() == id {
			f.meetings = append(f.meetings[:i], f.meetings[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) GetBusiness(context.Context) (domain.Business, error) {
	return f.business, nil
}

func (f *fakeBackend) UpdateBusiness(_ context.Context, _ string, patch api.BusinessPatch) error {
	if patch.Name != nil {
		f.business.Name = *patch.Name
	}
	return nil
}

func (f *fakeBackend) ListServices(context.Context) ([]domain.Service, error) {
	f.listServiceCalls++
	out := make([]domain.Service, 0, len(f.services))
	for _, svc := range f.services {
		out = append(out, svc)
	}
	return out, nil
}

func (f *fakeBackend) CreateService(_ context.Context, req api.CreateServiceRequest) error {
	f.services["svc-new"] = domain.Service{ID: "svc-new", Name: req.Name}
	return nil
}

func (f *fakeBackend) UpdateService(_ context.Context, id string, patch api.ServicePatch) error {
	svc := f.services[id]
	if patch.Name != nil {
		svc.Name = *patch.Name
	}
	f.services[id] = svc
	return nil
}

func (f *fakeBackend) DeleteService(_ context.Context, id string) error {
	delete(f.services, id)
	return nil
}

func (f *fakeBackend) ListAccounts(context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(f.accounts))
	for _, acct := range f.accounts {
		out = append(out, acct)
	}
	return out, nil
}

func (f *fakeBackend) GetService(_ context.Context, id string) (domain.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return domain.Service{}, &api.APIError{Status: 404, Code: api.CodeNotFound, Message: "service not found"}
	}
	return svc, nil
}

func (f *fakeBackend) GetAccount(_ context.Context, email string) (domain.Account, error) {
	acct, ok := f.accounts[email]
	if !ok {
		return domain.Account{}, &api.APIError{Status: 404, Code: api.CodeNotFound, Message: "user not found"}
	}
	return acct, nil
}

func newReconciler(backend *fakeBackend) (*Reconciler, *store.Store) {
	st := store.New()
	res := resolver.New(st, backend)
	now := func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.Local) }
	engine := sched.New(backend, st, "תפוס", sched.WithClock(now))
	return New(engine, backend, res, st), st
}

func TestOptimisticThenReconciledSingleRecord(t *testing.T) {
	backend := newFakeBackend()
	rec, st := newReconciler(backend)

	created, err := rec.CreateMeeting(context.Background(), sched.CreateRequest{
		ServiceID: "svc-1",
		UserEmail: "dana@example.com",
		Date:      "2025-06-02",
		Time:      "10:00",
		Duration:  30,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Immediately after creation: exactly one (optimistic) record.
	meetings := st.Meetings()
	if len(meetings) != 1 {
		t.Fatalf("after create: %d records, want 1", len(meetings))
	}
	if !meetings[0].ID.Provisional() {
		t.Error("pre-refetch record should be provisional")
	}

	// After the canonical refetch: still exactly one record, now
	// authoritative; the provisional twin is gone.
	if err := rec.RefreshMeetings(context.Background()); err != nil {
		t.Fatalf("refetch failed: %v", err)
	}
	meetings = st.Meetings()
	if len(meetings) != 1 {
		t.Fatalf("after refetch: %d records, want 1", len(meetings))
	}
	if meetings[0].ID.Provisional() {
		t.Error("provisional record survived reconciliation")
	}
	if meetings[0].ID.String() == created.ID.String() {
		t.Error("refetched record should carry the backend identity, not the placeholder")
	}
}

func TestUpdateMeetingAlwaysRefetches(t *testing.T) {
	backend := newFakeBackend()
	rec, _ := newReconciler(backend)

	if _, err := rec.CreateMeeting(context.Background(), sched.CreateRequest{
		ServiceID: "svc-1",
		UserEmail: "dana@example.com",
		Date:      "2025-06-02",
		Time:      "10:00",
		Duration:  30,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if backend.listMeetingCalls != 0 {
		t.Fatalf("create must not refetch, got %d list calls", backend.listMeetingCalls)
	}

	newTime := domain.TimeOfDay{Hour: 11}
	if err := rec.UpdateMeeting(context.Background(), "m-1", api.MeetingPatch{Time: &newTime}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if backend.listMeetingCalls != 1 {
		t.Errorf("update must refetch exactly once, got %d list calls", backend.listMeetingCalls)
	}
}

func TestRefreshResolvesReferences(t *testing.T) {
	backend := newFakeBackend()
	backend.meetings = []domain.Meeting{{
		ID:        domain.RealMeetingID("m-1"),
		ServiceID: "svc-1",
		UserEmail: "dana@example.com",
		Date:      domain.Date{Year: 2025, Month: time.June, Day: 2},
		Time:      domain.TimeOfDay{Hour: 10},
		Duration:  30,
		Status:    domain.StatusConfirmed,
	}}
	rec, st := newReconciler(backend)

	if err := rec.RefreshMeetings(context.Background()); err != nil {
		t.Fatalf("refetch failed: %v", err)
	}

	res, ok := st.ServiceResolution("svc-1")
	if !ok || res.Name != "תספורת" {
		t.Errorf("service reference unresolved: %+v ok=%v", res, ok)
	}
	acctRes, ok := st.AccountResolution("dana@example.com")
	if !ok || acctRes.Name != "דנה" {
		t.Errorf("account reference unresolved: %+v ok=%v", acctRes, ok)
	}
}

func TestDanglingServiceReferenceDegrades(t *testing.T) {
	backend := newFakeBackend()
	backend.meetings = []domain.Meeting{{
		ID:        domain.RealMeetingID("m-1"),
		ServiceID: "svc-deleted",
		UserEmail: "dana@example.com",
		Date:      domain.Date{Year: 2025, Month: time.June, Day: 2},
		Time:      domain.TimeOfDay{Hour: 10},
		Duration:  30,
		Status:    domain.StatusConfirmed,
	}}
	rec, st := newReconciler(backend)

	// The list still loads even though the referenced service is gone.
	if err := rec.RefreshMeetings(context.Background()); err != nil {
		t.Fatalf("refetch failed: %v", err)
	}
	if len(st.Meetings()) != 1 {
		t.Fatal("list render blocked by dangling reference")
	}
	res, ok := st.ServiceResolution("svc-deleted")
	if !ok || !res.Failed {
		t.Errorf("dangling key should be marked failed, got %+v ok=%v", res, ok)
	}
}

func TestServiceMutationsRefetchCatalog(t *testing.T) {
	backend := newFakeBackend()
	rec, st := newReconciler(backend)

	if err := rec.CreateService(context.Background(), api.CreateServiceRequest{Name: "עיסוי"}); err != nil {
		t.Fatalf("create service failed: %v", err)
	}
	if backend.listServiceCalls != 1 {
		t.Errorf("create service: %d refetches, want 1", backend.listServiceCalls)
	}
	if _, ok := st.Service("svc-new"); !ok {
		t.Error("catalog refetch did not land in the store")
	}

	if err := rec.DeleteService(context.Background(), "svc-new"); err != nil {
		t.Fatalf("delete service failed: %v", err)
	}
	if _, ok := st.Service("svc-new"); ok {
		t.Error("deleted service still cached")
	}
}

func TestUpdateBusinessMergesLocally(t *testing.T) {
	backend := newFakeBackend()
	rec, st := newReconciler(backend)

	if err := rec.RefreshBusiness(context.Background()); err != nil {
		t.Fatalf("refresh business failed: %v", err)
	}

	name := "שם חדש"
	if err := rec.UpdateBusiness(context.Background(), "b-1", api.BusinessPatch{Name: &name}); err != nil {
		t.Fatalf("update business failed: %v", err)
	}

	b, ok := st.Business()
	if !ok || b.Name != "שם חדש" {
		t.Errorf("business not merged: %+v", b)
	}
}

func TestPolicyTable(t *testing.T) {
	if MutationCreateMeeting.RequiresRefetch() {
		t.Error("meeting creation tolerates optimistic insertion")
	}
	if MutationDeleteMeeting.RequiresRefetch() {
		t.Error("meeting deletion is a confirmed single-record removal")
	}
	if MutationUpdateBusiness.RequiresRefetch() {
		t.Error("business update merges locally")
	}
	for _, m := range []Mutation{MutationUpdateMeeting, MutationCreateService, MutationUpdateService, MutationDeleteService} {
		if !m.RequiresRefetch() {
			t.Errorf("mutation %d must force a canonical refetch", m)
		}
	}
}
