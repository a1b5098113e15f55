package sqlast

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash is the content hash of one statement.
type Hash [sha256.Size]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ComputeHash hashes the canonical text of n rendered with qualify, so that
// structurally equal statements always hash equal.
func ComputeHash(n Node, qualify QualifyFunc) Hash {
	return sha256.Sum256([]byte(Render(n, qualify)))
}
