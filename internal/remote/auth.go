package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julianstephens/habitgarden/internal/errors"
)

// AuthUser is the account record returned by the auth endpoints.
type AuthUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsPremium bool      `json:"isPremium"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResult struct {
	User  AuthUser `json:"user"`
	Token string   `json:"token"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, "register", http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return AuthResult{}, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return AuthResult{}, err
	}
	return out, nil
}

// Me returns the account behind the current token. The server may answer
// with the user object directly or wrapped as {"user": {...}}.
func (c *Client) Me(ctx context.Context) (AuthUser, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "me", http.MethodGet, "/api/auth/me", nil, &raw); err != nil {
		return AuthUser{}, err
	}
	var wrapped struct {
		User *AuthUser `json:"user"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && wrapped.User != nil {
		return *wrapped.User, nil
	}
	var u AuthUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return AuthUser{}, fmt.Errorf("me: failed to decode response: %v: %w", err, errors.ErrRemoteSync)
	}
	return u, nil
}
