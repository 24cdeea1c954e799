package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies a trace of q against a given lexicon text parsed and
// searched in the given mode. Lenient searches skip rules a strict one fails
// on, so the mode is part of the key. Equal fingerprints denote equal results,
// which makes it a cache key.
func Fingerprint(lexicon []byte, q Query, lenient bool) string {
	mode := "strict"
	if lenient {
		mode = "lenient"
	}
	h := sha256.New()
	h.Write(lexicon)
	for _, part := range []string{mode, q.Root, q.Input, q.Output} {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}
