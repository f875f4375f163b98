// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the local sign-in: a display name and, when a
// secret is configured, a time-based one-time code.
package auth

import (
	"strings"
	"time"
	"unicode"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/util"
)

// Issuer is shown by authenticator apps.
const Issuer = "NEXA"

// MaxNameLength bounds display names, in runes.
const MaxNameLength = 32

// Verifier checks sign-in attempts.
type Verifier struct {
	secret string
	now    func() time.Time
}

// NewVerifier creates a Verifier. An empty secret disables the code check.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: strings.ToUpper(strings.TrimSpace(secret)), now: time.Now}
}

// RequiresCode reports whether sign-in needs a one-time code.
func (v *Verifier) RequiresCode() bool { return v.secret != "" }

// SignIn validates name and code and returns the display name to use. A
// blank name is allowed and returned as "" so the caller can apply its
// guest default.
func (v *Verifier) SignIn(name, code string) (string, error) {
	name = strings.TrimSpace(name)
	if util.RuneLen(name) > MaxNameLength {
		return "", apperr.NewValidationError("name", "Name is too long")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", apperr.NewValidationError("name", "Name contains invalid characters")
		}
	}

	if v.RequiresCode() {
		code = strings.ReplaceAll(strings.TrimSpace(code), " ", "")
		if code == "" {
			return "", apperr.NewValidationError("code", "Enter the 6-digit code")
		}
		ok, err := totp.ValidateCustom(code, v.secret, v.now().UTC(), totp.ValidateOpts{
			Period:    30,
			Skew:      1,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		if err != nil || !ok {
			return "", apperr.NewValidationError("code", "Invalid code")
		}
	}
	return name, nil
}

// Enrollment is a freshly generated secret.
type Enrollment struct {
	Secret string
	URL    string
}

// Enroll generates a new TOTP secret for account.
func Enroll(account string) (*Enrollment, error) {
	if strings.TrimSpace(account) == "" {
		account = "nexa"
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, err
	}
	return &Enrollment{Secret: key.Secret(), URL: key.URL()}, nil
}
