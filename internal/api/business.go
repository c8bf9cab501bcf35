package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomerlv/torbook/internal/domain"
)

var ErrNoBusiness = errors.New("no business record configured")

type BusinessPatch struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	ManagerEmail *string `json:"managerEmail,omitempty"`
}

// GetBusiness fetches the singleton business record. The endpoint returns
// an array; the first element is authoritative.
func (c *Client) GetBusiness(ctx context.Context) (domain.Business, error) {
	var businesses []domain.Business
	if err := c.do(ctx, http.MethodGet, "/business", nil, nil, &businesses); err != nil {
		return domain.Business{}, err
	}
	if len(businesses) == 0 {
		return domain.Business{}, ErrNoBusiness
	}
	return businesses[0], nil
}

func (c *Client) UpdateBusiness(ctx context.Context, id string, patch BusinessPatch) error {
	return c.do(ctx, http.MethodPut, "/business/"+id, nil, patch, nil)
}
