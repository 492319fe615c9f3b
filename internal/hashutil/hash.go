// Package hashutil provides the single content-hash primitive shared by the
// chunker and the doc sync manager, so a document or chunk always hashes to
// the same digest no matter which package computes it.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashHex returns the SHA-256 hex digest of text's UTF-8 bytes.
func HashHex(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
