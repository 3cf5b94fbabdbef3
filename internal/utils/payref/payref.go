// Package payref generates the human-facing reference codes used on payroll
// runs and payments.
package payref

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewRunReference builds a run reference code of the form PR-YYYYMM-XXXX,
// where the suffix is a random hex tag. The code is unique per run (enforced
// by the database) and stable for the run's lifetime; it is also the prefix of
// every payment idempotency key for that run.
func NewRunReference(periodStart time.Time) (string, error) {
	suffix, err := randomHex(2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PR-%s-%s", periodStart.Format("200601"), strings.ToUpper(suffix)), nil
}

// NewPaymentReference builds the internal payment reference recorded on an
// item when its transfer succeeds.
func NewPaymentReference() (string, error) {
	suffix, err := randomHex(6)
	if err != nil {
		return "", err
	}
	return "PAY-" + strings.ToUpper(suffix), nil
}

// IdempotencyKey derives the stable key sent with a payment transfer so that
// a crash-and-retry of the executor never double-pays an item.
func IdempotencyKey(runReference, itemID string) string {
	return runReference + ":" + itemID
}

func randomHex(lengthInBytes int) (string, error) {
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
