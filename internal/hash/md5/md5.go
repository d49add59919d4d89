// Package md5 provides short content digests for aid identifiers.
package md5

import (
	"crypto/md5" //nolint:gosec // identifier derivation, not security
	"encoding/hex"
)

// ShortHex hashes the input and returns the first n characters of the hex
// digest. n is clamped to the digest length.
func ShortHex(data string, n int) string {
	sum := md5.Sum([]byte(data)) //nolint:gosec // identifier derivation, not security
	digest := hex.EncodeToString(sum[:])
	if n <= 0 || n > len(digest) {
		return digest
	}
	return digest[:n]
}
