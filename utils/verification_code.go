package utils

import (
	"crypto/rand"
	"encoding/base32"

	"github.com/pquerna/otp/hotp"
)

const VerificationCodeDigits = 6

// GenerateVerificationCode creates a random 6-digit code delivered to
// the guardian out-of-band, independently of the access token itself.
// The code is derived HOTP-style from a throwaway random secret so it is
// uniformly distributed over the digit space.
func GenerateVerificationCode() (string, error) {
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}

	code, err := hotp.GenerateCode(base32.StdEncoding.EncodeToString(secret), 0)
	if err != nil {
		return "", err
	}
	return code, nil
}
