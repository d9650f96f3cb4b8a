// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"testing"
)

func TestValidateShortenURL(t *testing.T) {
	cases := []struct {
		raw  string
		want error
	}{
		{"https://example.com/page", nil},
		{"http://example.com", nil},
		{"  https://example.com  ", nil},
		{"", ErrURLEmpty},
		{"   ", ErrURLEmpty},
		{"example.com", ErrURLScheme},
		{"ftp://example.com", ErrURLScheme},
		{"https://", ErrURLFormat},
	}
	for _, c := range cases {
		got := ValidateShortenURL(c.raw)
		if !errors.Is(got, c.want) {
			t.Errorf("ValidateShortenURL(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}
