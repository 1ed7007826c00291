package domain_test

import (
	"strings"
	"testing"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transactionFixture() domain.TransactionEvent {
	return domain.TransactionEvent{
		Event:         domain.EventTransactionUpdated,
		TransactionID: "txn-12345",
		Status:        domain.TxnApproved,
		Reference:     "order-1",
		AmountInCents: 4990000,
		Currency:      "COP",
		Timestamp:     1756700000,
	}
}

func TestComputeChecksum(t *testing.T) {
	evt := transactionFixture()
	sum := evt.ComputeChecksum("secret")

	assert.Len(t, sum, 64)
	assert.Equal(t, sum, evt.ComputeChecksum("secret"))
	assert.NotEqual(t, sum, evt.ComputeChecksum("other"))
}

func TestVerifyChecksum(t *testing.T) {
	t.Run("AcceptsValidSignature", func(t *testing.T) {
		evt := transactionFixture()
		evt.Checksum = evt.ComputeChecksum("secret")
		require.NoError(t, evt.VerifyChecksum("secret"))
	})

	t.Run("CaseInsensitiveHex", func(t *testing.T) {
		evt := transactionFixture()
		evt.Checksum = strings.ToUpper(evt.ComputeChecksum("secret"))
		require.NoError(t, evt.VerifyChecksum("secret"))
	})

	t.Run("RejectsTamperedAmount", func(t *testing.T) {
		evt := transactionFixture()
		evt.Checksum = evt.ComputeChecksum("secret")
		evt.AmountInCents++

		err := evt.VerifyChecksum("secret")
		assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	})

	t.Run("RejectsTamperedStatus", func(t *testing.T) {
		evt := transactionFixture()
		evt.Checksum = evt.ComputeChecksum("secret")
		evt.Status = domain.TxnDeclined

		err := evt.VerifyChecksum("secret")
		assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	})

	t.Run("RejectsWrongSecret", func(t *testing.T) {
		evt := transactionFixture()
		evt.Checksum = evt.ComputeChecksum("secret")

		err := evt.VerifyChecksum("other")
		assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	})

	t.Run("FailsClosedWithoutSecret", func(t *testing.T) {
		evt := transactionFixture()
		evt.Checksum = evt.ComputeChecksum("secret")

		err := evt.VerifyChecksum("")
		assert.ErrorIs(t, err, domain.ErrMissingSecret)
	})
}
