package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/matheus3301/padesk/internal/apiclient"
	"github.com/matheus3301/padesk/internal/store"
	"github.com/matheus3301/padesk/internal/wire"
	"github.com/tidwall/gjson"
)

const (
	refreshPath = "/v1/auth/refresh"
	loginPath   = "/v1/auth/login"
)

// HTTPRefresher implements Refresher against the primary backend. Its client
// must not carry an Authenticator, or a failed refresh would recurse.
type HTTPRefresher struct {
	client *apiclient.Client
}

// NewHTTPRefresher creates a refresher using an unauthenticated client.
func NewHTTPRefresher(client *apiclient.Client) *HTTPRefresher {
	return &HTTPRefresher{client: client}
}

// Refresh exchanges a refresh token for a new token pair.
func (r *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (store.Tokens, error) {
	body, err := r.client.Post(ctx, refreshPath, map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return store.Tokens{}, err
	}
	return parseTokens(body)
}

// Login exchanges credentials for a token pair.
func (r *HTTPRefresher) Login(ctx context.Context, email, password string) (store.Tokens, error) {
	body, err := r.client.Post(ctx, loginPath, map[string]string{"email": email, "password": password})
	if err != nil {
		return store.Tokens{}, err
	}
	return parseTokens(body)
}

// parseTokens reads a token response. Field names vary between camelCase and
// snake_case, and the user may be nested next to the tokens.
func parseTokens(body []byte) (store.Tokens, error) {
	p, err := wire.Unwrap(body)
	if err != nil {
		return store.Tokens{}, fmt.Errorf("decode token response: %w", err)
	}
	d := p.Data
	t := store.Tokens{
		AccessToken:  first(d, "accessToken", "access_token", "token").String(),
		RefreshToken: first(d, "refreshToken", "refresh_token").String(),
		Subject:      first(d, "user.id", "user._id", "user.email").String(),
	}
	if t.AccessToken == "" {
		return store.Tokens{}, fmt.Errorf("decode token response: no access token")
	}
	if v := first(d, "expiresIn", "expires_in"); v.Type == gjson.Number {
		t.ExpiresAt = time.Now().Add(time.Duration(v.Int()) * time.Second).UnixMilli()
	}
	return t, nil
}

func first(r gjson.Result, paths ...string) gjson.Result {
	for _, path := range paths {
		if v := r.Get(path); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}
