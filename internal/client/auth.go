package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"marithon/internal/cache"
	"marithon/internal/domain"
)

// SignupRequest is the account creation payload.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Session is the token pair returned by login.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         *domain.User `json:"user,omitempty"`
}

// Signup creates an account. It does not log in.
func (c *Client) Signup(ctx context.Context, in SignupRequest) (*domain.User, error) {
	var user domain.User
	if err := c.postJSON(ctx, "/auth/signup", in, false, &user); err != nil {
		return nil, fmt.Errorf("client.Signup: %w", err)
	}
	return &user, nil
}

// Login authenticates and persists the access token and user.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var sess Session
	in := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/auth/login", in, false, &sess); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if c.store != nil {
		if err := c.store.Put(ctx, cache.KeyAuthToken, []byte(sess.AccessToken)); err != nil {
			return nil, fmt.Errorf("client.Login: %w", err)
		}
		if sess.User != nil {
			if err := c.store.PutJSON(ctx, cache.KeyUserData, sess.User); err != nil {
				return nil, fmt.Errorf("client.Login: %w", err)
			}
		}
	}
	return &sess, nil
}

// Logout revokes the token on the server and always clears the local
// session. The server error, if any, is returned.
func (c *Client) Logout(ctx context.Context) error {
	var callErr error
	if _, err := c.Token(ctx); err == nil {
		callErr = c.postJSON(ctx, "/auth/logout", nil, true, nil)
	}
	if err := c.clearSession(ctx); err != nil {
		return err
	}
	if callErr != nil {
		return fmt.Errorf("client.Logout: %w", callErr)
	}
	return nil
}

// Me fetches the current user and refreshes the cached copy. A 401 clears
// the local session; other failures leave it in place.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", auth: true}, &user)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			_ = c.clearSession(ctx)
		}
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	if c.store != nil {
		if err := c.store.PutJSON(ctx, cache.KeyUserData, &user); err != nil {
			return nil, fmt.Errorf("client.Me: %w", err)
		}
	}
	return &user, nil
}

// Token returns the stored access token, or domain.ErrUnauthorized when
// there is no session.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.store == nil {
		return "", domain.ErrUnauthorized
	}
	raw, err := c.store.Get(ctx, cache.KeyAuthToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	if len(raw) == 0 {
		return "", domain.ErrUnauthorized
	}
	return string(raw), nil
}

// CachedUser returns the user stored at login.
func (c *Client) CachedUser(ctx context.Context) (*domain.User, error) {
	if c.store == nil {
		return nil, domain.ErrUnauthorized
	}
	var user domain.User
	if err := c.store.GetJSON(ctx, cache.KeyUserData, &user); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) clearSession(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.Delete(ctx, cache.KeyAuthToken, cache.KeyUserData)
}
