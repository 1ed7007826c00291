package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// EventTransactionUpdated is the only gateway event type that drives
// order reconciliation; every other type is acknowledged and ignored.
const EventTransactionUpdated = "transaction.updated"

// Gateway transaction statuses.
const (
	TxnApproved = "APPROVED"
	TxnDeclined = "DECLINED"
	TxnVoided   = "VOIDED"
	TxnError    = "ERROR"
)

type TransactionEvent struct {
	Event         string
	TransactionID string
	Status        string
	Reference     string
	AmountInCents int64
	Currency      string
	Timestamp     int64
	Checksum      string
	Environment   string
}

// ComputeChecksum recomputes the gateway signature:
// hex(SHA256(id + status + amount_in_cents + timestamp + secret)).
func (e TransactionEvent) ComputeChecksum(secret string) string {
	payload := fmt.Sprintf(
		"%s%s%d%d%s",
		e.TransactionID, e.Status, e.AmountInCents, e.Timestamp, secret,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum enforces the signature fail-closed: an event whose
// checksum does not match the recomputation must not drive any state
// transition.
func (e TransactionEvent) VerifyChecksum(secret string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if !strings.EqualFold(e.ComputeChecksum(secret), e.Checksum) {
		return ErrInvalidSignature
	}
	return nil
}

type ReconcileOutcome string

const (
	ReconcileOK            ReconcileOutcome = "ok"
	ReconcileOrderNotFound ReconcileOutcome = "order_not_found"
	ReconcileIgnored       ReconcileOutcome = "ignored"
)
