package utils

import "testing"

func TestEncryptDecryptCNICRoundTrip(t *testing.T) {
	key := "0123456789abcdef" // 16 bytes

	enc, err := EncryptCNIC("42101-1234567-1", key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if enc == "42101-1234567-1" {
		t.Fatal("ciphertext equals plaintext")
	}

	dec, err := DecryptCNIC(enc, key)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if dec != "42101-1234567-1" {
		t.Fatalf("got %q, want original CNIC", dec)
	}
}

func TestEncryptCNICRejectsBadKey(t *testing.T) {
	if _, err := EncryptCNIC("42101-1234567-1", "short"); err == nil {
		t.Fatal("expected error for invalid key length")
	}
}

func TestDecryptCNICLegacyPlaintext(t *testing.T) {
	// Rows written before encryption was introduced hold the raw value.
	got, err := DecryptCNIC("42101-1234567-1", "0123456789abcdef")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if got != "42101-1234567-1" {
		t.Fatalf("got %q, want value passed through", got)
	}
}

func TestDecryptCNICEmpty(t *testing.T) {
	got, err := DecryptCNIC("", "0123456789abcdef")
	if err != nil || got != "" {
		t.Fatalf("got %q, %v; want empty, nil", got, err)
	}
}
