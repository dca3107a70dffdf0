package certificate

import (
	"crypto/rand"
	"fmt"
	"time"
)

const numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newCertificateNumber produces CERT-<year>-<6 random base36 chars>. The
// random segment is short on purpose; uniqueness is ultimately enforced by the
// database constraint, with issuance retrying on a collision.
func newCertificateNumber(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate certificate number: %w", err)
	}
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return fmt.Sprintf("CERT-%d-%s", now.Year(), buf), nil
}
