// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data types shared between the API client,
// the resource managers and the TUI. All types mirror the server's wire
// shapes; the server remains the single source of truth for link data.
package model

import "strings"

// LinkStatus is the activation state of a short link.
type LinkStatus string

const (
	StatusActive   LinkStatus = "active"
	StatusInactive LinkStatus = "inactive"
)

// Link represents one shortened link owned by the authenticated user.
// Links are never created by the list view; creation happens on the
// shorten page and the list re-fetches afterwards.
type Link struct {
	ShortURL    string     `json:"short_url"`
	OriginalURL string     `json:"original_url"`
	TotalClicks int        `json:"total_clicks"`
	Status      LinkStatus `json:"status"`
	CreatedAt   string     `json:"created_at"`
	UpdatedAt   string     `json:"updated_at"`
}

// Slug returns the unique path segment identifying the link, i.e. the
// final segment of its short URL. Update and delete calls are keyed by it.
func (l Link) Slug() string {
	s := strings.TrimRight(l.ShortURL, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// IsActive reports whether the link currently redirects.
func (l Link) IsActive() bool { return l.Status == StatusActive }

// VisitPoint is one entry of the dashboard's visit time series.
type VisitPoint struct {
	Date       string `json:"date"`
	VisitCount int    `json:"visit_count"`
}

// DashboardStats is a read-only snapshot of server-computed aggregates.
// It is replaced wholesale on every fetch and never merged with a prior
// snapshot. Absent numeric fields decode to their zero values, which the
// dashboard renders as-is rather than failing.
type DashboardStats struct {
	TotalLinks      int          `json:"total_links"`
	TotalVisits     int          `json:"total_visits"`
	VisitsGrowthPct float64      `json:"visits_growth_pct"`
	AvgClickRate    float64      `json:"avg_click_rate"`
	Series          []VisitPoint `json:"series"`
}

// UserProfile holds the account data shown on the settings page.
type UserProfile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarRef string `json:"avatar_url"`
}

// TokenPair is the credential pair issued on login. The access token is the
// short-lived bearer credential; the refresh token is the longer-lived
// renewal credential handed to the logout endpoint for invalidation.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
