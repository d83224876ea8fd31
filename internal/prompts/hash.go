// Package prompts holds shared helpers for the prompt packages. Each
// model-facing prompt lives in its own subpackage with its system prompt,
// user-prompt builder, and response schema.
package prompts

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText returns a SHA256 hash of the text. Recorded calls carry the hash
// of the system prompt they were built from, so a prompt edit is visible in
// the call log without storing the full text per call.
func HashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
