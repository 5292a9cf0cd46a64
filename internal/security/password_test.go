package security

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"testing"

	"golang.org/x/crypto/argon2"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("Valid$Password123")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !VerifyPassword("Valid$Password123", hash) {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword("Wrong$Password123", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestPasswordHashIsSalted(t *testing.T) {
	first, err := HashPassword("Valid$Password123")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	second, err := HashPassword("Valid$Password123")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatalf("expected distinct hashes for the same password")
	}
}

// TestVerifyParsesEncodedFields builds the encoding by hand so the parser is
// checked against the format itself, not against whatever HashPassword wrote.
// Both base64 segments follow a literal $, which position-based scanning has
// to split correctly.
func TestVerifyParsesEncodedFields(t *testing.T) {
	password := "Valid$Password123"
	salt := []byte("0123456789abcdef")

	hash := argon2.IDKey([]byte(password), salt, 3, 64*1024, 2, 32)
	encoded := fmt.Sprintf("$argon2id$v=19$t=3,m=65536,p=2$%s$%s",
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(hash))

	if !VerifyPassword(password, []byte(encoded)) {
		t.Fatalf("hand-built encoding did not verify")
	}
	if VerifyPassword("Wrong$Password123", []byte(encoded)) {
		t.Fatalf("wrong password verified against hand-built encoding")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("not-a-hash"),
		[]byte("$argon2id$v=19$t=3,m=65536,p=2$bad"),
		[]byte("$argon2id$v=19$t=3,m=65536,p=2$!!!$!!!"),
	}
	for _, hash := range cases {
		if VerifyPassword("anything", hash) {
			t.Fatalf("malformed hash %q verified", hash)
		}
	}
}
