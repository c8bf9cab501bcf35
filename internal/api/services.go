package api

import (
	"context"
	"net/http"

	"github.com/tomerlv/torbook/internal/domain"
)

// CreateServiceRequest is the POST /service body; the backend assigns the id.
type CreateServiceRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	ProducerEmail string `json:"producerEmail"`
}

type ServicePatch struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	ProducerEmail *string `json:"producerEmail,omitempty"`
}

func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	if err := c.do(ctx, http.MethodGet, "/service", nil, nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *Client) GetService(ctx context.Context, id string) (domain.Service, error) {
	var service domain.Service
	if err := c.do(ctx, http.MethodGet, "/service/"+id, nil, nil, &service); err != nil {
		return domain.Service{}, err
	}
	return service, nil
}

func (c *Client) CreateService(ctx context.Context, req CreateServiceRequest) error {
	return c.do(ctx, http.MethodPost, "/service", nil, req, nil)
}

func (c *Client) UpdateService(ctx context.Context, id string, patch ServicePatch) error {
	return c.do(ctx, http.MethodPut, "/service/"+id, nil, patch, nil)
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/service/"+id, nil, nil, nil)
}
