package manager

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"strconv"

	"aria-hq/chatbridge/pkg/providers"
)

// Fingerprint computes the deterministic cache key for a request. It covers
// the provider identifier, model name, sampling parameters, and the ordered
// message sequence (role and content): any change to any of these inputs
// produces a different fingerprint, so responses are never shared across
// providers or parameter sets.
//
// Each field is length-prefixed before hashing so that content cannot
// straddle field boundaries ("ab"+"c" never collides with "a"+"bc").
func Fingerprint(provider, model string, temperature float64, maxTokens int, messages []providers.Message) string {
	h := sha256.New()

	writeField(h, provider)
	writeField(h, model)
	writeField(h, strconv.FormatFloat(temperature, 'f', -1, 64))
	writeField(h, strconv.Itoa(maxTokens))

	for _, msg := range messages {
		writeField(h, msg.Role)
		writeField(h, msg.Content)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes a length-prefixed string into the hash.
func writeField(w io.Writer, s string) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(s)))
	w.Write(lenBuf[:])
	io.WriteString(w, s)
}
