package auth

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// totpPeriod is the standard 30 second time step.
	totpPeriod = 30
	// DefaultTOTPSkew accepts codes up to 6 steps either side of now,
	// about three minutes of clock drift. Operators can tighten it via
	// configuration.
	DefaultTOTPSkew = 6

	totpIssuer = "CampusHub"
)

// TOTPSetup is the result of generating a fresh two-factor secret.
type TOTPSetup struct {
	// Secret is the base32-encoded shared secret.
	Secret string
	// URL is the otpauth:// provisioning URL, suitable for QR rendering.
	URL string
}

// GenerateTOTPSecret creates a new shared secret bound to the account
// email. Re-running setup replaces the previous secret entirely.
func GenerateTOTPSecret(accountEmail string) (*TOTPSetup, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountEmail,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp secret: %w", err)
	}
	return &TOTPSetup{
		Secret: key.Secret(),
		URL:    key.URL(),
	}, nil
}

// VerifyTOTPCode checks a submitted 6-digit code against the stored secret,
// accepting codes up to windowSteps time steps away from now.
func VerifyTOTPCode(secret, code string, windowSteps uint) bool {
	return VerifyTOTPCodeAt(secret, code, windowSteps, time.Now())
}

// VerifyTOTPCodeAt is VerifyTOTPCode with an explicit reference time.
func VerifyTOTPCodeAt(secret, code string, windowSteps uint, at time.Time) bool {
	if secret == "" || code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      windowSteps,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}

// GenerateTOTPCode produces the code for the given time. Only tests need
// this; production verification never calls it.
func GenerateTOTPCode(secret string, at time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    totpPeriod,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate totp code: %w", err)
	}
	return code, nil
}
