package sched

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomerlv/torbook/internal/api"
	"github.com/tomerlv/torbook/internal/domain"
	"github.com/tomerlv/torbook/internal/store"
)

type fakeBackend struct {
	createErr error
	updateErr error
	deleteErr error
	list      []domain.Meeting
	listErr   error

	createCalls int
	updateCalls int
	deleteCalls int
	listCalls   int

	lastCreate api.CreateMeetingRequest
}

func (f *fakeBackend) ListMeetings(context.Context, api.ListMeetingsOptions) ([]domain.Meeting, error) {
	f.listCalls++
	return f.list, f.listErr
}

func (f *fakeBackend) CreateMeeting(_ context.Context, req api.CreateMeetingRequest) error {
	f.createCalls++
	f.lastCreate = req
	return f.createErr
}

func (f *fakeBackend) UpdateMeeting(_ context.Context, _ string, _ api.MeetingPatch) error {
	f.updateCalls++
	return f.updateErr
}

func (f *fakeBackend) DeleteMeeting(context.Context, string) error {
	f.deleteCalls++
	return f.deleteErr
}

// fixedNow is 2025-06-01 12:00 local.
func fixedNow() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.Local)
}

func newEngine(backend *fakeBackend, st *store.Store) *Engine {
	return New(backend, st, "תפוס", WithClock(fixedNow))
}

func validRequest() CreateRequest {
	return CreateRequest{
		ServiceID: "svc-1",
		UserEmail: "dana@example.com",
		Date:      "2025-06-02",
		Time:      "10:00",
		Duration:  45,
	}
}

func TestCreateMeetingRejectsTodayWithoutNetwork(t *testing.T) {
	backend := &fakeBackend{}
	e := newEngine(backend, store.New())

	req := validRequest()
	req.Date = "2025-06-01"
	_, err := e.CreateMeeting(context.Background(), req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "date" {
		t.Errorf("flagged field = %q, want date", verr.Field)
	}
	if backend.createCalls != 0 {
		t.Errorf("validation failure reached the network: %d calls", backend.createCalls)
	}
}

func TestCreateMeetingAcceptsTomorrow(t *testing.T) {
	backend := &fakeBackend{}
	e := newEngine(backend, store.New())

	if _, err := e.CreateMeeting(context.Background(), validRequest()); err != nil {
		t.Fatalf("tomorrow should be bookable: %v", err)
	}
	if backend.createCalls != 1 {
		t.Errorf("expected 1 submission, got %d", backend.createCalls)
	}
}

func TestCreateMeetingValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateRequest)
		wantField string
	}{
		{"missing service", func(r *CreateRequest) { r.ServiceID = "" }, "serviceID"},
		{"bad email", func(r *CreateRequest) { r.UserEmail = "nope" }, "userEmail"},
		{"missing date", func(r *CreateRequest) { r.Date = "" }, "date"},
		{"malformed date", func(r *CreateRequest) { r.Date = "02/06/2025" }, "date"},
		{"past date", func(r *CreateRequest) { r.Date = "2025-05-28" }, "date"},
		{"short duration", func(r *CreateRequest) { r.Duration = 15 }, "duration"},
		{"off-hour slot", func(r *CreateRequest) { r.Time = "10:30" }, "time"},
		{"before opening", func(r *CreateRequest) { r.Time = "08:00" }, "time"},
		{"after closing", func(r *CreateRequest) { r.Time = "19:00" }, "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			e := newEngine(backend, store.New())

			req := validRequest()
			tt.mutate(&req)
			_, err := e.CreateMeeting(context.Background(), req)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("flagged field = %q, want %q", verr.Field, tt.wantField)
			}
			if backend.createCalls != 0 {
				t.Error("invalid request reached the network")
			}
		})
	}
}

func TestCreateMeetingOptimisticInsert(t *testing.T) {
	backend := &fakeBackend{}
	st := store.New()
	e := newEngine(backend, st)

	created, err := e.CreateMeeting(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if !created.ID.Provisional() {
		t.Error("optimistic record must carry a provisional identity")
	}
	if created.Status != domain.StatusConfirmed {
		t.Errorf("optimistic status = %q, want confirmed", created.Status)
	}

	meetings := st.Meetings()
	if len(meetings) != 1 {
		t.Fatalf("expected exactly 1 record after create, got %d", len(meetings))
	}
	if meetings[0].ID.String() != created.ID.String() {
		t.Error("stored record differs from returned record")
	}
}

func TestCreateMeetingConflictByCode(t *testing.T) {
	backend := &fakeBackend{createErr: &api.APIError{Status: 409, Code: api.CodeSlotTaken, Message: "taken"}}
	st := store.New()
	e := newEngine(backend, st)

	_, err := e.CreateMeeting(context.Background(), validRequest())

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Field != "date" {
		t.Errorf("contested field = %q, want date", conflict.Field)
	}
	if len(st.Meetings()) != 0 {
		t.Error("conflicting create must not insert an optimistic record")
	}
}

func TestCreateMeetingConflictByLocaleToken(t *testing.T) {
	// Old backends send only a natural-language message.
	backend := &fakeBackend{createErr: errors.New("המועד המבוקש תפוס")}
	e := newEngine(backend, store.New())

	_, err := e.CreateMeeting(context.Background(), validRequest())

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCreateMeetingGenericFailurePassesThrough(t *testing.T) {
	backend := &fakeBackend{createErr: &api.APIError{Status: 500, Code: api.CodeInternalError, Message: "oops"}}
	e := newEngine(backend, store.New())

	_, err := e.CreateMeeting(context.Background(), validRequest())

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		t.Fatal("generic failure misclassified as conflict")
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
}

func TestUpdateMeetingConflictClassified(t *testing.T) {
	backend := &fakeBackend{updateErr: &api.APIError{Status: 409, Code: api.CodeSlotTaken, Message: "taken"}}
	e := newEngine(backend, store.New())

	err := e.UpdateMeeting(context.Background(), "m-1", api.MeetingPatch{})

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestDeleteMeetingRemovesOnlyAfterConfirmation(t *testing.T) {
	st := store.New()
	existing := domain.Meeting{
		ID:       domain.RealMeetingID("m-1"),
		Date:     domain.Date{Year: 2025, Month: time.June, Day: 5},
		Time:     domain.TimeOfDay{Hour: 10},
		Duration: 30,
		Status:   domain.StatusConfirmed,
	}
	st.ReplaceAllMeetings([]domain.Meeting{existing})

	failing := &fakeBackend{deleteErr: errors.New("down")}
	if err := newEngine(failing, st).DeleteMeeting(context.Background(), "m-1"); err == nil {
		t.Fatal("expected delete error")
	}
	if _, ok := st.Meeting("m-1"); !ok {
		t.Fatal("record removed despite backend failure")
	}

	if err := newEngine(&fakeBackend{}, st).DeleteMeeting(context.Background(), "m-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := st.Meeting("m-1"); ok {
		t.Error("record still present after confirmed delete")
	}
}

func TestRefreshMeetingsSortsAndReplaces(t *testing.T) {
	canonical := []domain.Meeting{
		{ID: domain.RealMeetingID("b"), Date: domain.Date{Year: 2025, Month: time.January, Day: 10}, Time: domain.TimeOfDay{Hour: 9}, Duration: 30},
		{ID: domain.RealMeetingID("a"), Date: domain.Date{Year: 2025, Month: time.January, Day: 5}, Time: domain.TimeOfDay{Hour: 14}, Duration: 30},
		{ID: domain.RealMeetingID("c"), Date: domain.Date{Year: 2025, Month: time.January, Day: 10}, Time: domain.TimeOfDay{Hour: 8}, Duration: 30},
	}
	backend := &fakeBackend{list: canonical}
	st := store.New()
	e := newEngine(backend, st)

	if err := e.RefreshMeetings(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	meetings := st.Meetings()
	want := []string{"a", "c", "b"}
	for i, id := range want {
		if meetings[i].ID.String() != id {
			t.Fatalf("sorted order wrong at %d: got %q, want %q", i, meetings[i].ID.String(), id)
		}
	}
}

func TestRefreshFailureKeepsLastKnownGood(t *testing.T) {
	st := store.New()
	st.ReplaceAllMeetings([]domain.Meeting{{ID: domain.RealMeetingID("m-1")}})

	backend := &fakeBackend{listErr: errors.New("down")}
	e := newEngine(backend, st)

	if err := e.RefreshMeetings(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if len(st.Meetings()) != 1 {
		t.Error("failed refresh must leave the list in its last-known-good state")
	}
}
