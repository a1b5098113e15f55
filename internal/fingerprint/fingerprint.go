package fingerprint

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Size is the length of a fingerprint in bytes.
const Size = sha256.Size

// Fingerprint identifies the content of a whole inventory.
type Fingerprint [Size]byte

// mask is mixed into every fingerprint so that it never equals the plain
// SHA-256 of the object texts.
var mask = Fingerprint{
	0x5a, 0x1f, 0x3c, 0x87, 0xd2, 0x46, 0x9b, 0x0e,
	0x71, 0xe4, 0x28, 0xb5, 0x6d, 0xc0, 0x13, 0xfa,
	0x94, 0x2b, 0x5e, 0xa1, 0x07, 0xcd, 0x68, 0x3f,
	0xe9, 0x52, 0x86, 0x1b, 0xb4, 0x7c, 0x0d, 0xf3,
}

// Compute returns the fingerprint of the given canonical texts, which must be
// supplied in object name order. Every text is terminated by a NUL byte.
func Compute(texts []string) Fingerprint {
	h := sha256.New()
	for _, text := range texts {
		h.Write([]byte(text))
		h.Write([]byte{0})
	}
	var f Fingerprint
	copy(f[:], h.Sum(nil))
	for i := range f {
		f[i] ^= mask[i]
	}
	return f
}

// Equal compares two fingerprints in constant time.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return subtle.ConstantTimeCompare(f[:], other[:]) == 1
}

// IsZero reports whether f is the zero value.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// String returns the fingerprint as lower case hex.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Short returns the first 16 hex digits, used in messages.
func (f Fingerprint) Short() string {
	return f.String()[:16]
}

// MarshalText implements encoding.TextMarshaler.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Fingerprint) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Parse reads a fingerprint from its hex form.
func Parse(s string) (Fingerprint, error) {
	var f Fingerprint
	b, err := hex.DecodeString(s)
	if err != nil {
		return f, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	if len(b) != Size {
		return f, fmt.Errorf("invalid fingerprint %q: expected %d bytes, got %d", s, Size, len(b))
	}
	copy(f[:], b)
	return f, nil
}
