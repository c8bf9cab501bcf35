package api

import (
	"context"
	"net/http"

	"github.com/tomerlv/torbook/internal/domain"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse carries the issued bearer credential and a snapshot of the
// signed-in account. The snapshot is session identity only, never
// authoritative account data.
type SignInResponse struct {
	Token   string         `json:"token"`
	Account domain.Account `json:"user"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (SignInResponse, error) {
	var resp SignInResponse
	err := c.do(ctx, http.MethodPost, "/auth/sign-in", nil, signInRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return SignInResponse{}, err
	}
	return resp, nil
}

func (c *Client) SignUp(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/sign-up", nil, signUpRequest{Name: name, Email: email, Password: password}, nil)
}
