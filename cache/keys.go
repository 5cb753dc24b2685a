package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key derives a deterministic cache key from its parts. Hashing keeps keys a
// fixed, store-safe length regardless of how long the topic or query is, and
// the same parts always produce the same key.
func Key(parts ...string) string {
	h := sha256.New()
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}
