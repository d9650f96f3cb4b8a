// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxAvatarBytes is the client-side upload size limit (5 MB). The server
// validates again; this check just avoids a doomed round-trip.
const MaxAvatarBytes = 5 << 20

// Avatar validation failures. Both are detected before any request is
// issued.
var (
	ErrAvatarTooLarge = errors.New("avatar image exceeds the size limit")
	ErrAvatarBadType  = errors.New("avatar image type is not allowed")
)

// allowedAvatarTypes are the MIME types accepted for profile pictures.
var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// allowedAvatarExts guards against content sniffing missing a format the
// server would accept anyway.
var allowedAvatarExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// ValidateAvatar checks a candidate profile picture before upload. The MIME
// type is sniffed from the content; the file extension must agree.
func ValidateAvatar(filename string, content []byte) error {
	if len(content) > MaxAvatarBytes {
		return ErrAvatarTooLarge
	}
	if !allowedAvatarExts[strings.ToLower(filepath.Ext(filename))] {
		return ErrAvatarBadType
	}
	if !allowedAvatarTypes[http.DetectContentType(content)] {
		return ErrAvatarBadType
	}
	return nil
}

// AvatarPhase tracks the two-phase upload state: a locally-selected image
// is shown as an optimistic preview until the next server fetch confirms it.
type AvatarPhase int

const (
	AvatarNone AvatarPhase = iota
	AvatarPending
	AvatarConfirmed
)

// ProfileForm carries the editable text fields of the profile page.
type ProfileForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
}

var validate = validator.New()

// Profile field validation failures.
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailInvalid     = errors.New("email address is invalid")
)

// ValidateProfile checks the text fields locally. These fields are accepted
// as "saved" on the client only; there is currently no persistence endpoint
// for them.
func ValidateProfile(f ProfileForm) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Username" {
				return ErrUsernameRequired
			}
		}
		return ErrEmailInvalid
	}
	return err
}
