package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key derives a deterministic cache key "<namespace>:<hex sha256>" from the
// given parts. Parts are serialized as compact JSON with sorted map keys, so
// logically equal arguments always map to the same key.
func Key(namespace string, parts ...any) string {
	return namespace + ":" + Digest(canonical(map[string]any{"args": parts}))
}

// Digest returns the hex encoded SHA-256 of payload.
func Digest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// CanonicalJSON encodes v as compact JSON without HTML escaping. Values that
// cannot be encoded fall back to their Go-syntax representation.
func CanonicalJSON(v any) []byte {
	return canonical(v)
}

func canonical(v any) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return []byte(fmt.Sprintf("%#v", v))
	}
	// Encoder appends a newline.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}
