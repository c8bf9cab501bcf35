package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-querystring/query"
	"github.com/tomerlv/torbook/internal/domain"
)

// CreateMeetingRequest is the POST /meeting body. The backend assigns id
// and status; the client never sends either.
type CreateMeetingRequest struct {
	ServiceID string           `json:"serviceId"`
	UserEmail string           `json:"userEmail"`
	Date      domain.Date      `json:"date"`
	Time      domain.TimeOfDay `json:"time"`
	Duration  int              `json:"duration"`
}

// MeetingPatch carries partial meeting fields for PUT /meeting/{id}.
type MeetingPatch struct {
	ServiceID *string           `json:"serviceId,omitempty"`
	UserEmail *string           `json:"userEmail,omitempty"`
	Date      *domain.Date      `json:"date,omitempty"`
	Time      *domain.TimeOfDay `json:"time,omitempty"`
	Duration  *int              `json:"duration,omitempty"`
	Status    *string           `json:"status,omitempty"`
}

// ListMeetingsOptions are optional server-side filters.
type ListMeetingsOptions struct {
	Status    string `url:"status,omitempty"`
	ServiceID string `url:"serviceId,omitempty"`
	UserEmail string `url:"userEmail,omitempty"`
}

func (c *Client) ListMeetings(ctx context.Context, opts ListMeetingsOptions) ([]domain.Meeting, error) {
	values, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode meeting filters: %w", err)
	}
	var meetings []domain.Meeting
	if err := c.do(ctx, http.MethodGet, "/meeting", values, nil, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

func (c *Client) GetMeeting(ctx context.Context, id string) (domain.Meeting, error) {
	var meeting domain.Meeting
	if err := c.do(ctx, http.MethodGet, "/meeting/"+id, nil, nil, &meeting); err != nil {
		return domain.Meeting{}, err
	}
	return meeting, nil
}

func (c *Client) CreateMeeting(ctx context.Context, req CreateMeetingRequest) error {
	return c.do(ctx, http.MethodPost, "/meeting", nil, req, nil)
}

func (c *Client) UpdateMeeting(ctx context.Context, id string, patch MeetingPatch) error {
	return c.do(ctx, http.MethodPut, "/meeting/"+id, nil, patch, nil)
}

func (c *Client) DeleteMeeting(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/meeting/"+id, nil, nil, nil)
}
