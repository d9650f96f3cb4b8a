// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"bytes"
	"errors"
	"testing"
)

// Minimal file signatures that content sniffing recognizes.
var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n")
	gifHeader  = []byte("GIF89a")
	jpegHeader = []byte{0xff, 0xd8, 0xff, 0xe0}
)

func TestValidateAvatarAccepted(t *testing.T) {
	cases := []struct {
		name    string
		content []byte
	}{
		{"pic.png", pngHeader},
		{"pic.PNG", pngHeader},
		{"anim.gif", gifHeader},
		{"photo.jpg", jpegHeader},
		{"photo.jpeg", jpegHeader},
	}
	for _, c := range cases {
		if err := ValidateAvatar(c.name, c.content); err != nil {
			t.Errorf("ValidateAvatar(%q) = %v, want nil", c.name, err)
		}
	}
}

func TestValidateAvatarTooLarge(t *testing.T) {
	content := append(pngHeader, bytes.Repeat([]byte{0}, MaxAvatarBytes)...)
	err := ValidateAvatar("big.png", content)
	if !errors.Is(err, ErrAvatarTooLarge) {
		t.Errorf("oversized image gave %v, want ErrAvatarTooLarge", err)
	}
}

func TestValidateAvatarBadType(t *testing.T) {
	// Wrong extension.
	if err := ValidateAvatar("image.bmp", pngHeader); !errors.Is(err, ErrAvatarBadType) {
		t.Errorf(".bmp extension gave %v, want ErrAvatarBadType", err)
	}
	// Right extension, wrong content.
	if err := ValidateAvatar("fake.png", []byte("plain text, not an image")); !errors.Is(err, ErrAvatarBadType) {
		t.Errorf("text content gave %v, want ErrAvatarBadType", err)
	}
}

func TestValidateProfile(t *testing.T) {
	cases := []struct {
		form ProfileForm
		want error
	}{
		{ProfileForm{Username: "alice", Email: "alice@example.com"}, nil},
		{ProfileForm{Username: "", Email: "alice@example.com"}, ErrUsernameRequired},
		{ProfileForm{Username: "alice", Email: "not-an-email"}, ErrEmailInvalid},
		{ProfileForm{Username: "alice", Email: ""}, ErrEmailInvalid},
	}
	for _, c := range cases {
		got := ValidateProfile(c.form)
		if !errors.Is(got, c.want) {
			t.Errorf("ValidateProfile(%+v) = %v, want %v", c.form, got, c.want)
		}
	}
}
