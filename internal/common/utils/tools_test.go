package utils

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if len(id) != 12 {
			t.Fatalf("id length = %d, want 12", len(id))
		}
		for _, r := range id {
			if !strings.ContainsRune(AlphaNum, r) {
				t.Fatalf("id %s contains unexpected rune %q", id, r)
			}
		}
		seen[id] = true
	}
	if len(seen) < 90 {
		t.Fatalf("ids not random enough, %d unique of 100", len(seen))
	}
}

func TestJwtRoundTrip(t *testing.T) {
	key := "test-key"
	token, err := JwtSign(map[string]interface{}{"accountId": "abc", "role": "INTERVIEWER"}, key)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	claims, err := JwtDecode(token, key)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if claims["accountId"] != "abc" || claims["role"] != "INTERVIEWER" {
		t.Fatalf("unexpected claims %v", claims)
	}
	if _, err := JwtDecode(token, "wrong-key"); err == nil {
		t.Fatal("decode with wrong key should fail")
	}
}

func TestHashPassword(t *testing.T) {
	h := HashPassword("rahasia")
	if len(h) != 64 {
		t.Fatalf("hash length = %d, want 64", len(h))
	}
	if h != HashPassword("rahasia") {
		t.Fatal("hash not deterministic")
	}
}
