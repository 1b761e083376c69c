package identity

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// OTPLength is the number of digits in a one-time password.
const OTPLength = 4

// OTPTTL is how long an issued one-time password stays valid.
const OTPTTL = 5 * time.Minute

// GenerateOTP returns a random numeric one-time password.
func GenerateOTP() (string, error) {
	digits := make([]byte, OTPLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0') + byte(n.Int64())
	}
	return string(digits), nil
}

// OTPStore keeps issued one-time passwords for their validity window.
// Existing codes are returned as-is until they expire, matching the
// resend flow: asking again within the window re-sends the same code.
type OTPStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}
