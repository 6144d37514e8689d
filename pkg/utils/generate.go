package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== OTP ====================

// GenerateOTP creates a numeric code of the given length from crypto/rand
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate otp digit: %w", err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}

	return sb.String(), nil
}

// ==================== PAYMENT REFERENCE ====================

// GeneratePaymentReference format: PAY-YYYYMMDD-HHMMSS-<8 hex>
func GeneratePaymentReference() string {
	now := time.Now()
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	return fmt.Sprintf("PAY-%s-%s-%s", now.Format("20060102"), now.Format("150405"), suffix)
}
