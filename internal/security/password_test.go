package security

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if hash == "hunter22" {
		t.Fatal("hash equals the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordUnique(t *testing.T) {
	a, err := HashPassword("same")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("same")
	if err != nil {
		t.Fatal(err)
	}

	// salted, so two hashes of the same input must differ
	if a == b {
		t.Error("expected distinct salted hashes")
	}
}
