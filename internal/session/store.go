// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

// package session holds the current access/refresh token pair. The pair is
// persisted as two named slots ("token", "refreshToken") in a YAML file so
// a session survives process restarts. The store performs no network I/O;
// only the auth controller writes to it, every other component just reads.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/golang-jwt/jwt/v5"
)

// fileData is the on-disk shape of the session file. The slot names are part
// of the storage contract and must not change.
type fileData struct {
	AccessToken  string `yaml:"token"`
	RefreshToken string `yaml:"refreshToken"`
}

// Store is a two-slot token store backed by a file. Both slots are only ever
// set or cleared together.
type Store struct {
	path string

	mu      sync.RWMutex
	current fileData
}

// NewStore creates a store backed by the given file path and loads any
// previously persisted session. A missing or unreadable file simply yields
// an empty session; it is not an error.
func NewStore(path string) *Store {
	s := &Store{path: path}
	if data, err := os.ReadFile(path); err == nil {
		var fd fileData
		if yaml.Unmarshal(data, &fd) == nil {
			s.current = fd
		}
	}
	return s
}

// AccessToken returns the current access token, or the empty string when no
// session exists.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken
}

// RefreshToken returns the current refresh token, or the empty string when
// no session exists.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.RefreshToken
}

// HasSession reports whether an access token is present. Pages requiring
// authentication check this on mount before issuing any fetch.
func (s *Store) HasSession() bool {
	return s.AccessToken() != ""
}

// Set stores both tokens and persists them. It overwrites any existing pair.
func (s *Store) Set(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = fileData{AccessToken: access, RefreshToken: refresh}
	return s.writeLocked()
}

// Clear removes both tokens from memory and deletes the session file. After
// Clear, both reads return empty.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = fileData{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not remove session file: %w", err)
	}
	return nil
}

// ExpiresAt returns the expiry time embedded in the access token, if any.
// The claim is read without signature verification; it is used for display
// only and never to gate requests.
func (s *Store) ExpiresAt() (time.Time, bool) {
	tok := s.AccessToken()
	if tok == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) writeLocked() error {
	data, err := yaml.Marshal(s.current)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create session directory %s: %w", dir, err)
	}
	// 0600: the file holds bearer credentials.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("could not write session file: %w", err)
	}
	return nil
}
