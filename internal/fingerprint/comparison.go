package fingerprint

import (
	"fmt"
)

// Compare compares two inventory fingerprints and returns an error if they don't match
func Compare(expected, actual Fingerprint) error {
	if expected.Equal(actual) {
		return nil
	}
	return fmt.Errorf("schema fingerprint mismatch - expected: %s, actual: %s",
		expected.Short(), actual.Short())
}
