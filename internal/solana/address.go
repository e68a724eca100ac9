package solana

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Address validation errors.
var (
	ErrBadAddressEncoding = errors.New("address is not valid base58")
	ErrBadAddressLength   = errors.New("address does not decode to 32 bytes")
)

// ValidateAddress checks that s is a base58-encoded 32-byte public key.
// It does not require the key to be on the ed25519 curve; program-derived
// addresses are deliberately off-curve.
func ValidateAddress(s string) error {
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadAddressEncoding, s)
	}
	if len(raw) != 32 {
		return fmt.Errorf("%w: got %d", ErrBadAddressLength, len(raw))
	}
	return nil
}

// IsOnCurve reports whether the address decodes to a point on the ed25519
// curve. Wallet addresses are on-curve; PDAs are not.
func IsOnCurve(s string) (bool, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrBadAddressEncoding, s)
	}
	if len(raw) != 32 {
		return false, fmt.Errorf("%w: got %d", ErrBadAddressLength, len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return false, nil
	}
	return true, nil
}
