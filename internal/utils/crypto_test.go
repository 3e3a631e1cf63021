package utils

import "testing"

func TestEncryptDecryptRoundtrip(t *testing.T) {
	key := "enc-key-for-tests"
	plaintext := "portal-password-!@#"

	sealed, err := EncryptSecret(plaintext, key)
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}
	if sealed == plaintext {
		t.Error("Ciphertext should not equal plaintext")
	}

	opened, err := DecryptSecret(sealed, key)
	if err != nil {
		t.Fatalf("Failed to decrypt: %v", err)
	}
	if opened != plaintext {
		t.Errorf("Expected %q, got %q", plaintext, opened)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	sealed, err := EncryptSecret("secret", "key-one")
	if err != nil {
		t.Fatalf("Failed to encrypt: %v", err)
	}

	if _, err := DecryptSecret(sealed, "key-two"); err == nil {
		t.Error("Decryption with the wrong key should fail")
	}
}

func TestEncryptRequiresKey(t *testing.T) {
	if _, err := EncryptSecret("secret", ""); err != ErrNoEncKey {
		t.Errorf("Expected ErrNoEncKey, got %v", err)
	}
	if _, err := DecryptSecret("whatever", ""); err != ErrNoEncKey {
		t.Errorf("Expected ErrNoEncKey, got %v", err)
	}
}
