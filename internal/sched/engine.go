// Package sched owns the meeting lifecycle on the client side: validating
// slot requests before submission, interpreting the backend's conflict
// verdicts, optimistic insertion after create, and the temporal
// classification used for display.
package sched

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tomerlv/torbook/internal/api"
	"github.com/tomerlv/torbook/internal/domain"
	"github.com/tomerlv/torbook/internal/store"
	"github.com/tomerlv/torbook/pkg/logger"
)

// Backend is the authoritative scheduling service. It is the sole authority
// on conflict detection; the engine only classifies its verdicts.
type Backend interface {
	ListMeetings(ctx context.Context, opts api.ListMeetingsOptions) ([]domain.Meeting, error)
	CreateMeeting(ctx context.Context, req api.CreateMeetingRequest) error
	UpdateMeeting(ctx context.Context, id string, patch api.MeetingPatch) error
	DeleteMeeting(ctx context.Context, id string) error
}

// ValidationError is a client-side precondition failure, surfaced at the
// named field before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ConflictError means the requested slot is already occupied. Only the named
// field is contested; other entered values remain usable as-is.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot conflict on %s: %s", e.Field, e.Message)
}

// CreateRequest is the raw user input for booking a meeting. Date and time
// stay strings until validated; malformed values must fail before parsing
// reaches the wire.
type CreateRequest struct {
	ServiceID string `validate:"required"`
	UserEmail string `validate:"required,email"`
	Date      string `validate:"required"`
	Time      string `validate:"required"`
	Duration  int    `validate:"required,min=30"`
}

type Engine struct {
	backend  Backend
	store    *store.Store
	validate *validator.Validate
	now      func() time.Time

	// conflictToken is the locale-specific "occupied" substring, matched
	// only when the backend sends no structured conflict code.
	conflictToken string
}

type Option func(*Engine)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(backend Backend, st *store.Store, conflictToken string, opts ...Option) *Engine {
	e := &Engine{
		backend:       backend,
		store:         st,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		now:           time.Now,
		conflictToken: conflictToken,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateMeeting validates the request, submits it, and on success inserts an
// optimistic provisional record with a synthesized identity and default
// confirmed status. The record is superseded wholesale by the next canonical
// refetch.
func (e *Engine) CreateMeeting(ctx context.Context, req CreateRequest) (domain.Meeting, error) {
	date, tod, err := e.checkCreate(req)
	if err != nil {
		return domain.Meeting{}, err
	}

	submission := api.CreateMeetingRequest{
		ServiceID: req.ServiceID,
		UserEmail: req.UserEmail,
		Date:      date,
		Time:      tod,
		Duration:  req.Duration,
	}
	if err := e.backend.CreateMeeting(ctx, submission); err != nil {
		return domain.Meeting{}, e.classifySubmitError(err)
	}

	optimistic := domain.Meeting{
		ID:        domain.ProvisionalMeetingID(e.now()),
		ServiceID: req.ServiceID,
		UserEmail: req.UserEmail,
		Date:      date,
		Time:      tod,
		Duration:  req.Duration,
		Status:    domain.StatusConfirmed,
	}
	e.store.UpsertMeeting(optimistic)
	logger.InfoContext(ctx, "meeting booked", "service_id", req.ServiceID, "date", date.String(), "time", tod.String())
	return optimistic, nil
}

func (e *Engine) checkCreate(req CreateRequest) (domain.Date, domain.TimeOfDay, error) {
	if err := e.validate.Struct(req); err != nil {
		return domain.Date{}, domain.TimeOfDay{}, asValidationError(err)
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return domain.Date{}, domain.TimeOfDay{}, &ValidationError{Field: "date", Message: "must be a calendar date (YYYY-MM-DD)"}
	}
	tod, err := domain.ParseTimeOfDay(req.Time)
	if err != nil {
		return domain.Date{}, domain.TimeOfDay{}, &ValidationError{Field: "time", Message: "must be a wall-clock time (HH:MM)"}
	}

	today := domain.DateOf(e.now())
	if !date.After(today) {
		return domain.Date{}, domain.TimeOfDay{}, &ValidationError{Field: "date", Message: "must be later than today"}
	}
	if !domain.ValidSlot(tod) {
		return domain.Date{}, domain.TimeOfDay{}, &ValidationError{
			Field:   "time",
			Message: fmt.Sprintf("must be an hourly slot between %02d:00 and %02d:00", domain.FirstSlotHour, domain.LastSlotHour),
		}
	}
	return date, tod, nil
}

// UpdateMeeting submits a partial edit. Updates can be rejected for the same
// overlap reason as creates, so the verdict is classified the same way.
// There is no optimistic patch: the reconciler follows every update with a
// canonical refetch.
func (e *Engine) UpdateMeeting(ctx context.Context, id string, patch api.MeetingPatch) error {
	if err := e.backend.UpdateMeeting(ctx, id, patch); err != nil {
		return e.classifySubmitError(err)
	}
	return nil
}

// DeleteMeeting removes the record locally only after the backend confirms;
// an optimistic delete could hide a meeting that is still booked.
func (e *Engine) DeleteMeeting(ctx context.Context, id string) error {
	if err := e.backend.DeleteMeeting(ctx, id); err != nil {
		return err
	}
	e.store.RemoveMeeting(id)
	return nil
}

// RefreshMeetings installs the canonical backend list, sorted for display.
func (e *Engine) RefreshMeetings(ctx context.Context) error {
	meetings, err := e.backend.ListMeetings(ctx, api.ListMeetingsOptions{})
	if err != nil {
		return err
	}
	SortMeetings(meetings)
	e.store.ReplaceAllMeetings(meetings)
	return nil
}

func (e *Engine) classifySubmitError(err error) error {
	if api.IsConflict(err) {
		return &ConflictError{Field: "date", Message: conflictMessage(err)}
	}
	if e.conflictToken != "" && strings.Contains(err.Error(), e.conflictToken) {
		return &ConflictError{Field: "date", Message: conflictMessage(err)}
	}
	return err
}

func conflictMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
