package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Secret generation for account tokens.

// GenVerificationCode generates a secure random 6-digit code as a
// zero-padded string, used for email verification.
func GenVerificationCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	// 6 digits: map random bytes to 000000-999999
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%06d", n%1000000), nil
}

// GenResetToken generates a 32-hex-char token from 16 cryptographically
// random bytes, used for password reset links.
func GenResetToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
