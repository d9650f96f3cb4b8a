// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

// package api is the HTTP client for the Shortlink backend. It attaches the
// bearer token, serializes request bodies, and classifies every response
// into the client's error taxonomy. The package never touches the session
// store; it reads the current token through an injected TokenFunc and leaves
// session invalidation to the auth controller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kodalabs/koda/internal/logging"
	"github.com/kodalabs/koda/internal/model"
)

// TokenFunc returns the current access token, or the empty string when no
// session exists.
type TokenFunc func() string

// Client performs calls against the Shortlink REST API.
type Client struct {
	baseURL  string // e.g. http://localhost:8082
	basePath string // e.g. /api/v1
	http     *http.Client
	token    TokenFunc
}

// New creates a client for the given base URL and API base path.
func New(baseURL, basePath string, token TokenFunc) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		basePath: "/" + strings.Trim(basePath, "/"),
		http:     &http.Client{},
		token:    token,
	}
}

// envelope is the common response wrapper. The server is inconsistent about
// the casing of the data field ("data" vs "Data"); Go's JSON decoding
// matches field names case-insensitively, so one tag covers both.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ShortLinkURL returns the public URL for a slug, suitable for sharing.
// Short links are served from the server root, not the API base path.
func (c *Client) ShortLinkURL(slug string) string {
	return c.baseURL + "/" + slug
}

// do executes one API call and decodes the envelope's data into out (when
// out is non-nil). authenticated calls fail fast with ErrUnauthenticated
// when no token is present, without a network round-trip.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, authenticated bool, out any) error {
	var bearer string
	if authenticated {
		bearer = c.token()
		if bearer == "" {
			return ErrUnauthenticated
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+c.basePath+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		logging.Debugf("api: %s %s [%s] failed: %v", method, path, requestID, err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	logging.Debugf("api: %s %s [%s] -> %d", method, path, requestID, resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return &Error{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected response shape: %v", err)}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if len(env.Data) == 0 {
			return &Error{StatusCode: resp.StatusCode, Message: "response is missing expected data"}
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected response shape: %v", err)}
		}
	}
	return nil
}

// doJSON marshals body as JSON and executes the call.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, authenticated bool, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, reader, contentType, authenticated, out)
}

// --- Auth ---

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token pair. The caller (the auth
// controller) is responsible for storing the pair.
func (c *Client) Login(ctx context.Context, username, password string) (model.TokenPair, error) {
	var pair model.TokenPair
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", credentials{Username: username, Password: password}, false, &pair)
	return pair, err
}

// Register creates a new account and returns its first token pair.
func (c *Client) Register(ctx context.Context, username, email, password string) (model.TokenPair, error) {
	var pair model.TokenPair
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", credentials{Username: username, Email: email, Password: password}, false, &pair)
	return pair, err
}

// Logout asks the server to invalidate the refresh token. The call is
// unauthenticated; the refresh token travels in the body.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refreshToken": refreshToken}
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", body, false, nil)
}

// --- Links ---

type createLinkRequest struct {
	OriginalURL string `json:"originalUrl"`
}

type updateLinkRequest struct {
	OriginalURL string `json:"originalUrl"`
	CustomSlug  string `json:"customSlug,omitempty"`
}

// CreateLink shortens a URL and returns the new link.
func (c *Client) CreateLink(ctx context.Context, originalURL string) (model.Link, error) {
	var link model.Link
	err := c.doJSON(ctx, http.MethodPost, "/links", createLinkRequest{OriginalURL: originalURL}, true, &link)
	return link, err
}

// ListLinks fetches the user's full link collection. Search, filtering and
// pagination happen client-side over this set.
func (c *Client) ListLinks(ctx context.Context) ([]model.Link, error) {
	var links []model.Link
	err := c.doJSON(ctx, http.MethodGet, "/links", nil, true, &links)
	return links, err
}

// UpdateLink sends a partial update for the link identified by slug.
// customSlug may be empty, in which case the slug is left unchanged.
func (c *Client) UpdateLink(ctx context.Context, slug, originalURL, customSlug string) error {
	body := updateLinkRequest{OriginalURL: originalURL, CustomSlug: customSlug}
	return c.doJSON(ctx, http.MethodPatch, "/links/"+slug, body, true, nil)
}

// DeleteLink removes the link identified by slug.
func (c *Client) DeleteLink(ctx context.Context, slug string) error {
	return c.doJSON(ctx, http.MethodDelete, "/links/"+slug, nil, true, nil)
}

// --- Dashboard ---

// DashboardStats fetches the precomputed aggregate snapshot.
func (c *Client) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	err := c.doJSON(ctx, http.MethodGet, "/dashboard/stats", nil, true, &stats)
	return stats, err
}

// --- Profile ---

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (model.UserProfile, error) {
	var p model.UserProfile
	err := c.doJSON(ctx, http.MethodGet, "/users/profile", nil, true, &p)
	return p, err
}

// UploadAvatar uploads a profile picture as a multipart form under the
// field name "pic". The multipart writer computes the content type and
// boundary; no other content type is set.
func (c *Client) UploadAvatar(ctx context.Context, filename string, content []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("pic", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/users/pic", &buf, w.FormDataContentType(), true, nil)
}
