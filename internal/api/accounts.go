package api

import (
	"context"
	"net/http"

	"github.com/tomerlv/torbook/internal/domain"
)

type CreateAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AccountPatch struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := c.do(ctx, http.MethodGet, "/user", nil, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) GetAccount(ctx context.Context, email string) (domain.Account, error) {
	var account domain.Account
	if err := c.do(ctx, http.MethodGet, "/user/"+email, nil, nil, &account); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) error {
	return c.do(ctx, http.MethodPost, "/user", nil, req, nil)
}

func (c *Client) UpdateAccount(ctx context.Context, email string, patch AccountPatch) error {
	return c.do(ctx, http.MethodPut, "/user/"+email, nil, patch, nil)
}
