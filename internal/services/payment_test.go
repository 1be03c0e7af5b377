package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lingerie-shop-server/internal/config"
)

func signCallback(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := NewPaymentService(config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "test_secret",
	}, zap.NewNop())

	orderID := "order_abc123"
	paymentID := "pay_xyz789"

	err := svc.VerifySignature(orderID, paymentID, signCallback("test_secret", orderID, paymentID))
	require.NoError(t, err)
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	svc := NewPaymentService(config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "test_secret",
	}, zap.NewNop())

	orderID := "order_abc123"
	paymentID := "pay_xyz789"
	good := signCallback("test_secret", orderID, paymentID)

	// Signature for a different payment id must not verify.
	err := svc.VerifySignature(orderID, "pay_other", good)
	assert.ErrorIs(t, err, ErrInvalidPaymentSignature)

	// Signature minted with the wrong secret must not verify.
	err = svc.VerifySignature(orderID, paymentID, signCallback("wrong_secret", orderID, paymentID))
	assert.ErrorIs(t, err, ErrInvalidPaymentSignature)

	// Garbage must not verify.
	err = svc.VerifySignature(orderID, paymentID, "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidPaymentSignature)
}
