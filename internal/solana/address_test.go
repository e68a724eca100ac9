package solana

import (
	"errors"
	"testing"
)

func TestValidateAddress(t *testing.T) {
	valid := []string{
		"FcRRT7yLx3dZV6kD2N5cWU9UG6TxPm99azsxNUUzQNmx",
		USDCMint,
		"11111111111111111111111111111111", // system program
	}
	for _, addr := range valid {
		if err := ValidateAddress(addr); err != nil {
			t.Errorf("ValidateAddress(%s): unexpected error %v", addr, err)
		}
	}
}

func TestValidateAddress_BadEncoding(t *testing.T) {
	// 0, O, I, l are outside the base58 alphabet.
	err := ValidateAddress("0OIl000000000000000000000000000000000000000")
	if !errors.Is(err, ErrBadAddressEncoding) {
		t.Errorf("expected ErrBadAddressEncoding, got %v", err)
	}
}

func TestValidateAddress_BadLength(t *testing.T) {
	err := ValidateAddress("abc")
	if !errors.Is(err, ErrBadAddressLength) {
		t.Errorf("expected ErrBadAddressLength, got %v", err)
	}
}

func TestIsOnCurve(t *testing.T) {
	// A wallet address is an ed25519 public key and sits on the curve.
	onCurve, err := IsOnCurve("FcRRT7yLx3dZV6kD2N5cWU9UG6TxPm99azsxNUUzQNmx")
	if err != nil {
		t.Fatalf("IsOnCurve: %v", err)
	}
	if !onCurve {
		t.Error("expected wallet address to be on-curve")
	}

	if _, err := IsOnCurve("abc"); !errors.Is(err, ErrBadAddressLength) {
		t.Errorf("expected ErrBadAddressLength, got %v", err)
	}
}
