package security

import (
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc, err := NewEncryptionService("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("NewEncryptionService failed: %v", err)
	}

	plain := "URGENT: verify your bank account at bit.ly/xyz"
	ct, err := svc.Encrypt(plain)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if ct == plain || strings.Contains(ct, "bank") {
		t.Error("ciphertext should not contain plaintext")
	}

	got, err := svc.Decrypt(ct)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != plain {
		t.Errorf("round trip mismatch: %q", got)
	}
}

func TestEncryptNonceIsRandom(t *testing.T) {
	svc, err := NewEncryptionService("0123456789abcdef")
	if err != nil {
		t.Fatalf("NewEncryptionService failed: %v", err)
	}
	a, _ := svc.Encrypt("same input")
	b, _ := svc.Encrypt("same input")
	if a == b {
		t.Error("two encryptions of the same input must differ")
	}
}

func TestNewEncryptionService_RejectsBadKeyLength(t *testing.T) {
	if _, err := NewEncryptionService("short"); err == nil {
		t.Error("expected error for a 5-byte key")
	}
}

func TestDecrypt_RejectsGarbage(t *testing.T) {
	svc, err := NewEncryptionService("0123456789abcdef")
	if err != nil {
		t.Fatalf("NewEncryptionService failed: %v", err)
	}
	if _, err := svc.Decrypt("not-base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := svc.Decrypt("aGVsbG8="); err == nil {
		t.Error("expected error for too-short ciphertext")
	}
}
