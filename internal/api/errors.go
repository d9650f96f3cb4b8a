// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned before any network round-trip when a call
// requires authentication but no access token is present.
var ErrUnauthenticated = errors.New("not signed in")

// ErrUnauthorized is returned when the server rejects the bearer token
// (HTTP 401). The auth controller reacts by clearing the session and
// routing back to the sign-in view.
var ErrUnauthorized = errors.New("session rejected by server")

// Error is a business-rule rejection: the server was reached but answered
// with a non-2xx status or an unsuccessful envelope. The message is surfaced
// to the user verbatim.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// NetworkError means no response was obtained at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
