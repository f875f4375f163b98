// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nexa-tui/internal/apperr"
)

const testSecret = "JBSWY3DPEHPK3PXP"

func TestSignIn_NoCode(t *testing.T) {
	v := NewVerifier("")
	assert.False(t, v.RequiresCode())

	name, err := v.SignIn("  Asha ", "")
	require.NoError(t, err)
	assert.Equal(t, "Asha", name)

	name, err = v.SignIn("", "")
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestSignIn_NameRules(t *testing.T) {
	v := NewVerifier("")

	_, err := v.SignIn(strings.Repeat("न", MaxNameLength+1), "")
	assert.ErrorIs(t, err, apperr.ErrValidationRejected)

	_, err = v.SignIn("Asha\x1b[2J", "")
	assert.ErrorIs(t, err, apperr.ErrValidationRejected)

	_, err = v.SignIn(strings.Repeat("न", MaxNameLength), "")
	assert.NoError(t, err)
}

func TestSignIn_TOTP(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	v := NewVerifier(strings.ToLower(testSecret))
	v.now = func() time.Time { return now }
	require.True(t, v.RequiresCode())

	code, err := totp.GenerateCode(testSecret, now)
	require.NoError(t, err)

	name, err := v.SignIn("Asha", code[:3]+" "+code[3:])
	require.NoError(t, err)
	assert.Equal(t, "Asha", name)

	_, err = v.SignIn("Asha", "")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "code", ve.Field)

	stale, err := totp.GenerateCode(testSecret, now.Add(-5*time.Minute))
	require.NoError(t, err)
	if stale != code {
		_, err = v.SignIn("Asha", stale)
		assert.ErrorIs(t, err, apperr.ErrValidationRejected)
	}
}

func TestEnroll(t *testing.T) {
	e, err := Enroll("asha@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, e.Secret)
	assert.True(t, strings.HasPrefix(e.URL, "otpauth://totp/"))
	assert.Contains(t, e.URL, "issuer=NEXA")

	code, err := totp.GenerateCode(e.Secret, time.Now())
	require.NoError(t, err)
	_, err = NewVerifier(e.Secret).SignIn("Asha", code)
	assert.NoError(t, err)
}
