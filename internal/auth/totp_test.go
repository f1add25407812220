package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTOTPSecret(t *testing.T) {
	setup, err := GenerateTOTPSecret("admin@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.True(t, strings.HasPrefix(setup.URL, "otpauth://totp/"))
	assert.Contains(t, setup.URL, "CampusHub")
	assert.Contains(t, setup.URL, "admin%40example.com")
}

func TestGenerateTOTPSecret_FreshEachTime(t *testing.T) {
	first, err := GenerateTOTPSecret("admin@example.com")
	require.NoError(t, err)
	second, err := GenerateTOTPSecret("admin@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, first.Secret, second.Secret)
}

func TestVerifyTOTPCodeAt(t *testing.T) {
	setup, err := GenerateTOTPSecret("admin@example.com")
	require.NoError(t, err)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	code, err := GenerateTOTPCode(setup.Secret, now)
	require.NoError(t, err)

	assert.True(t, VerifyTOTPCodeAt(setup.Secret, code, 1, now))
	assert.False(t, VerifyTOTPCodeAt(setup.Secret, "000000", 1, now))
}

func TestVerifyTOTPCodeAt_Window(t *testing.T) {
	setup, err := GenerateTOTPSecret("admin@example.com")
	require.NoError(t, err)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	code, err := GenerateTOTPCode(setup.Secret, now)
	require.NoError(t, err)

	// A code from "now" must still verify a few steps later, but not far
	// outside the window.
	assert.True(t, VerifyTOTPCodeAt(setup.Secret, code, 6, now.Add(2*time.Minute)))
	assert.False(t, VerifyTOTPCodeAt(setup.Secret, code, 1, now.Add(10*time.Minute)))
}

func TestVerifyTOTPCode_EmptyInputs(t *testing.T) {
	setup, err := GenerateTOTPSecret("admin@example.com")
	require.NoError(t, err)

	assert.False(t, VerifyTOTPCode("", "123456", DefaultTOTPSkew))
	assert.False(t, VerifyTOTPCode(setup.Secret, "", DefaultTOTPSkew))
}
