// Package webhook receives LINE platform callbacks: signature
// verification, event decoding, the message audit trail and handoff to
// the command dispatcher.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Verifier checks the X-Line-Signature header: the base64 HMAC-SHA256
// of the raw request body keyed with the channel secret.
type Verifier struct {
	channelSecret []byte
}

// NewVerifier creates a verifier for one channel.
func NewVerifier(channelSecret string) *Verifier {
	return &Verifier{channelSecret: []byte(channelSecret)}
}

// Verify reports whether signature matches body.
func (v *Verifier) Verify(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, v.channelSecret)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
