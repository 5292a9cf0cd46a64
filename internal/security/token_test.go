package security

import (
	"testing"
	"time"

	"vitalpath/admin/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	identity := Identity{
		AdminID: "admin-1",
		Email:   "carol@vitalpath.example",
		Role:    models.RoleEditor,
	}

	token, err := IssueToken("secret", identity, time.Hour)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	got := VerifyToken(token, "secret")
	if got == nil {
		t.Fatalf("expected token to verify")
	}
	if *got != identity {
		t.Fatalf("identity mismatch: got %+v want %+v", *got, identity)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := IssueToken("secret", Identity{AdminID: "admin-1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if VerifyToken(token, "other-secret") != nil {
		t.Fatalf("expected verification to fail with wrong secret")
	}
}

func TestTokenExpired(t *testing.T) {
	token, err := IssueToken("secret", Identity{AdminID: "admin-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if VerifyToken(token, "secret") != nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestTokenMalformed(t *testing.T) {
	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		if VerifyToken(tokenStr, "secret") != nil {
			t.Fatalf("expected malformed token %q to fail", tokenStr)
		}
	}
}
