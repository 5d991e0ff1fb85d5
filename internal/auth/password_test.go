package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "Secret123" {
		t.Fatal("hash must not equal plaintext")
	}

	if !VerifyPassword(hash, "Secret123") {
		t.Fatal("expected correct password to verify")
	}
	if VerifyPassword(hash, "WrongPassword") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("Secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("Secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyPassword_MalformedDigestFailsClosed(t *testing.T) {
	t.Parallel()

	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$garbage"} {
		if VerifyPassword(digest, "anything") {
			t.Fatalf("malformed digest %q must not verify", digest)
		}
	}
}
