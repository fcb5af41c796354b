// Package webhook verifies and decodes inbound marketplace notifications.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const SignatureHeader = "X-Ebay-Signature"

var (
	ErrMissingSignature = errors.New("missing signature")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Sign returns the hex HMAC-SHA256 of body keyed with secret.
func Sign(secret []byte, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares signature with the expected value in constant time.
// Hex case is ignored.
func Verify(secret []byte, body []byte, signature string) error {
	signature = strings.ToLower(strings.TrimSpace(signature))
	if signature == "" {
		return ErrMissingSignature
	}
	expected := Sign(secret, body)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}
