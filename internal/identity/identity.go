package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// KeyLength is the width of a derived user key in hex characters.
const KeyLength = 16

var ErrEmptyIdentifier = errors.New("empty identifier")

// DeriveUserKey maps a caller-supplied identifier (email, username) to a
// stable opaque key. The same identifier always yields the same key, which
// is what lets a returning user pick up their durable profile.
func DeriveUserKey(identifier string) (string, error) {
	if identifier == "" {
		return "", ErrEmptyIdentifier
	}
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])[:KeyLength], nil
}
