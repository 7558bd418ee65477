package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/naveenspark/tally/pkg/domain"
)

// ErrIncompleteAuth is returned when a login or register response lacks the token or user.
var ErrIncompleteAuth = errors.New("auth response missing token or user")

// Auth defines the authentication operations.
type Auth interface {
	Register(ctx context.Context, r domain.Registration) (*domain.AuthResponse, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	Me(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, patch domain.ProfileUpdate) (*domain.User, error)
}

// authClient handles /auth requests.
type authClient struct {
	client *Client
}

type userEnvelope struct {
	User *domain.User `json:"user"`
}

// Register creates an account and returns its first session.
func (c *authClient) Register(ctx context.Context, r domain.Registration) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.client.post(ctx, "/auth/register", r, &out); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	if out.Token == "" || out.User == nil {
		return nil, fmt.Errorf("client.Register: %w", ErrIncompleteAuth)
	}
	return &out, nil
}

// Login exchanges credentials for a token and user.
func (c *authClient) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.client.post(ctx, "/auth/login", creds, &out); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if out.Token == "" || out.User == nil {
		return nil, fmt.Errorf("client.Login: %w", ErrIncompleteAuth)
	}
	return &out, nil
}

// Me returns the user the current token belongs to.
func (c *authClient) Me(ctx context.Context) (*domain.User, error) {
	var env userEnvelope
	if err := c.client.get(ctx, "/auth/me", nil, &env); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	if env.User == nil {
		return nil, fmt.Errorf("client.Me: empty user")
	}
	return env.User, nil
}

// UpdateProfile sends a partial profile and returns the server copy. The user
// is nil when the response does not echo one; callers then merge patch locally.
func (c *authClient) UpdateProfile(ctx context.Context, patch domain.ProfileUpdate) (*domain.User, error) {
	var env userEnvelope
	if err := c.client.put(ctx, "/auth/profile", patch, &env); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return env.User, nil
}
