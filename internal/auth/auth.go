// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

// package auth orchestrates the session lifecycle: sign-in, sign-out and
// forced sign-out when the server rejects a token. It is the only writer of
// the session store.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/kodalabs/koda/internal/api"
	"github.com/kodalabs/koda/internal/logging"
	"github.com/kodalabs/koda/internal/session"
)

// logoutTimeout bounds the best-effort server-side invalidation call so a
// hung server can never block a local sign-out.
const logoutTimeout = 5 * time.Second

// Controller drives the auth state machine. The state itself is derived
// from the session store: a present access token means Authenticated.
type Controller struct {
	store  *session.Store
	client *api.Client
}

// NewController wires the controller to its session store and API client.
func NewController(store *session.Store, client *api.Client) *Controller {
	return &Controller{store: store, client: client}
}

// SignedIn reports whether a session is present. This is the entry guard
// every authenticated view checks on mount; when it is false the view
// routes to the sign-in page without issuing its data fetch.
func (c *Controller) SignedIn() bool {
	return c.store.HasSession()
}

// Login exchanges credentials for a token pair and stores both tokens
// together. On failure the session is left untouched.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	pair, err := c.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return c.store.Set(pair.AccessToken, pair.RefreshToken)
}

// Register creates an account and signs in with the returned pair.
func (c *Controller) Register(ctx context.Context, username, email, password string) error {
	pair, err := c.client.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	return c.store.Set(pair.AccessToken, pair.RefreshToken)
}

// Logout signs the user out. The server-side invalidation call is
// best-effort: whether it succeeds, fails, or the refresh token is absent,
// the local session is cleared. Sign-out must never be blocked by a
// network or server failure.
func (c *Controller) Logout(ctx context.Context) error {
	if refresh := c.store.RefreshToken(); refresh != "" {
		ctx, cancel := context.WithTimeout(ctx, logoutTimeout)
		defer cancel()
		if err := c.client.Logout(ctx, refresh); err != nil {
			logging.Warnf("auth: server-side logout failed: %v", err)
		}
	}
	return c.store.Clear()
}

// HandleAPIError inspects an error from any API call. If the server
// rejected the token it clears the session and reports true, signalling the
// caller to abandon its current view and route to the sign-in page.
func (c *Controller) HandleAPIError(err error) bool {
	if errors.Is(err, api.ErrUnauthorized) {
		if cerr := c.store.Clear(); cerr != nil {
			logging.Errorf("auth: could not clear session: %v", cerr)
		}
		return true
	}
	return false
}
