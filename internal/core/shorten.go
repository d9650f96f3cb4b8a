// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"net/url"
	"strings"
)

// URL validation failures for the shorten form, detected before any
// network call.
var (
	ErrURLEmpty  = errors.New("url is empty")
	ErrURLScheme = errors.New("url must start with http:// or https://")
	ErrURLFormat = errors.New("url format is invalid")
)

// ValidateShortenURL checks a candidate URL for shortening: non-empty,
// absolute with an http(s) scheme, and parseable with a hostname.
func ValidateShortenURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrURLEmpty
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return ErrURLScheme
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ErrURLFormat
	}
	return nil
}
